package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/scout/pkg/explore"
)

const (
	// SectionIDExploration is the identifier for the exploration settings section
	SectionIDExploration = "exploration"
)

// ExplorationSection manages autonomous exploration configuration settings.
type ExplorationSection struct {
	VisitBudget    int
	SettleDelay    time.Duration
	UnsafePatterns []string
	mu             sync.RWMutex
}

// NewExplorationSection creates a new exploration section with default settings.
func NewExplorationSection() *ExplorationSection {
	return &ExplorationSection{
		VisitBudget: explore.DefaultVisitBudget,
		SettleDelay: explore.DefaultSettleDelay,
	}
}

// ID returns the section identifier.
func (s *ExplorationSection) ID() string {
	return SectionIDExploration
}

// Title returns the section title.
func (s *ExplorationSection) Title() string {
	return "Exploration Settings"
}

// Description returns the section description.
func (s *ExplorationSection) Description() string {
	return "Configure autonomous exploration: how many pages one run may visit and how long to wait after each navigation for API calls to settle."
}

// Data returns the current configuration data.
func (s *ExplorationSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"visit_budget":    s.VisitBudget,
		"settle_delay":    s.SettleDelay.String(),
		"unsafe_patterns": s.UnsafePatterns,
	}
}

// SetData updates the configuration from the provided data.
func (s *ExplorationSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch v := data["visit_budget"].(type) {
	case float64:
		s.VisitBudget = int(v)
	case int:
		s.VisitBudget = v
	}

	switch v := data["settle_delay"].(type) {
	case string:
		duration, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration string for settle_delay: %w", err)
		}
		s.SettleDelay = duration
	case float64:
		s.SettleDelay = time.Duration(v)
	}

	if raw, ok := data["unsafe_patterns"].([]any); ok {
		patterns := make([]string, 0, len(raw))
		for _, item := range raw {
			if p, ok := item.(string); ok {
				patterns = append(patterns, p)
			}
		}
		s.UnsafePatterns = patterns
	}
	return nil
}

// Validate validates the current configuration.
func (s *ExplorationSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.VisitBudget < 1 || s.VisitBudget > 50 {
		return fmt.Errorf("visit_budget must be between 1 and 50, got %d", s.VisitBudget)
	}
	if s.SettleDelay < 0 || s.SettleDelay > 30*time.Second {
		return fmt.Errorf("settle_delay must be between 0 and 30s, got %v", s.SettleDelay)
	}
	if _, err := explore.CompileUnsafePatterns(s.UnsafePatterns); err != nil {
		return err
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *ExplorationSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.VisitBudget = explore.DefaultVisitBudget
	s.SettleDelay = explore.DefaultSettleDelay
	s.UnsafePatterns = nil
}

// GetVisitBudget returns the per-run page visit cap.
func (s *ExplorationSection) GetVisitBudget() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.VisitBudget
}

// GetSettleDelay returns the post-navigation settle delay.
func (s *ExplorationSection) GetSettleDelay() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SettleDelay
}

// GetUnsafePatterns returns extra unsafe-label patterns for exploration.
func (s *ExplorationSection) GetUnsafePatterns() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.UnsafePatterns...)
}
