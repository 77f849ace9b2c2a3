package config

import (
	"fmt"
	"sync"
)

// Section is one named group of settings. Sections own their typed fields
// and marshal themselves to and from the store's generic maps.
type Section interface {
	// ID returns the stable section identifier used as the storage key.
	ID() string

	// Title returns a human-readable section name.
	Title() string

	// Description explains what the section configures.
	Description() string

	// Data returns the current configuration data.
	Data() map[string]any

	// SetData updates the configuration from the provided data.
	SetData(data map[string]any) error

	// Validate validates the current configuration.
	Validate() error

	// Reset resets the section to default configuration.
	Reset()
}

// Manager coordinates registered sections with a backing store.
type Manager struct {
	store    Store
	sections map[string]Section
	mu       sync.RWMutex
}

// NewManager creates a manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sections: make(map[string]Section),
	}
}

// RegisterSection registers a section. Registering the same ID twice is an
// error.
func (m *Manager) RegisterSection(section Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := section.ID()
	if _, exists := m.sections[id]; exists {
		return fmt.Errorf("section %q is already registered", id)
	}
	m.sections[id] = section
	return nil
}

// GetSection returns a registered section by ID.
func (m *Manager) GetSection(id string) (Section, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	section, ok := m.sections[id]
	return section, ok
}

// LoadAll pushes stored data into every registered section and validates
// the result. Sections with no stored data keep their defaults.
func (m *Manager) LoadAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, section := range m.sections {
		data, err := m.store.GetSection(id)
		if err != nil {
			return fmt.Errorf("loading section %q: %w", id, err)
		}
		if len(data) == 0 {
			continue
		}
		if err := section.SetData(data); err != nil {
			return fmt.Errorf("applying section %q: %w", id, err)
		}
		if err := section.Validate(); err != nil {
			return fmt.Errorf("validating section %q: %w", id, err)
		}
	}
	return nil
}

// SaveAll writes every registered section's data through the store.
func (m *Manager) SaveAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, section := range m.sections {
		if err := m.store.SetSection(id, section.Data()); err != nil {
			return fmt.Errorf("storing section %q: %w", id, err)
		}
	}
	return m.store.Save()
}
