package config

import (
	"fmt"
	"sync"

	"github.com/entrhq/scout/pkg/capture"
)

const (
	// SectionIDCapture is the identifier for the capture settings section
	SectionIDCapture = "capture"
)

// CaptureSection manages API capture configuration settings.
type CaptureSection struct {
	IncludeThirdParty bool
	BodyCap           int
	mu                sync.RWMutex
}

// NewCaptureSection creates a new capture section with default settings.
func NewCaptureSection() *CaptureSection {
	return &CaptureSection{
		IncludeThirdParty: false,
		BodyCap:           capture.DefaultBodyCap,
	}
}

// ID returns the section identifier.
func (s *CaptureSection) ID() string {
	return SectionIDCapture
}

// Title returns the section title.
func (s *CaptureSection) Title() string {
	return "Capture Settings"
}

// Description returns the section description.
func (s *CaptureSection) Description() string {
	return "Configure API capture: whether third-party hosts are recorded and how many characters of a body are kept."
}

// Data returns the current configuration data.
func (s *CaptureSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"include_third_party": s.IncludeThirdParty,
		"body_cap":            s.BodyCap,
	}
}

// SetData updates the configuration from the provided data.
func (s *CaptureSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if include, ok := data["include_third_party"].(bool); ok {
		s.IncludeThirdParty = include
	}
	switch v := data["body_cap"].(type) {
	case float64:
		// JSON numbers come as float64
		s.BodyCap = int(v)
	case int:
		s.BodyCap = v
	}
	return nil
}

// Validate validates the current configuration.
func (s *CaptureSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.BodyCap <= 0 {
		return fmt.Errorf("body_cap must be positive, got %d", s.BodyCap)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *CaptureSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.IncludeThirdParty = false
	s.BodyCap = capture.DefaultBodyCap
}

// GetIncludeThirdParty returns whether third-party calls are captured.
func (s *CaptureSection) GetIncludeThirdParty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.IncludeThirdParty
}

// GetBodyCap returns the body truncation limit in characters.
func (s *CaptureSection) GetBodyCap() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.BodyCap
}
