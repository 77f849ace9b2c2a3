package config

import (
	"sync"
)

const (
	// SectionIDBrowser is the identifier for the browser settings section
	SectionIDBrowser = "browser"
)

// BrowserSection manages browser automation configuration settings.
type BrowserSection struct {
	Headless bool
	mu       sync.RWMutex
}

// NewBrowserSection creates a new browser section with default settings.
// Scout is an observation tool, so the browser is visible by default.
func NewBrowserSection() *BrowserSection {
	return &BrowserSection{Headless: false}
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Title returns the section title.
func (s *BrowserSection) Title() string {
	return "Browser Settings"
}

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "Configure the automated browser window."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"headless": s.Headless,
	}
}

// SetData updates the configuration from the provided data.
func (s *BrowserSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if headless, ok := data["headless"].(bool); ok {
		s.Headless = headless
	}
	return nil
}

// Validate validates the current configuration.
func (s *BrowserSection) Validate() error {
	return nil
}

// Reset resets the section to default configuration.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Headless = false
}

// GetHeadless returns whether the browser runs headless.
func (s *BrowserSection) GetHeadless() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Headless
}
