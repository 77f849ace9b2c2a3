package config

import (
	"sync"
)

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize creates and initializes the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	store, err := NewFileStore(configPath)
	if err != nil {
		return err
	}

	manager := NewManager(store)

	if err := manager.RegisterSection(NewLLMSection()); err != nil {
		return err
	}
	if err := manager.RegisterSection(NewCaptureSection()); err != nil {
		return err
	}
	if err := manager.RegisterSection(NewExplorationSection()); err != nil {
		return err
	}
	if err := manager.RegisterSection(NewBrowserSection()); err != nil {
		return err
	}

	if err := manager.LoadAll(); err != nil {
		return err
	}

	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetLLM returns the LLM settings section from global config.
// Returns nil if config is not initialized.
func GetLLM() *LLMSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDLLM)
	if !ok {
		return nil
	}
	llm, ok := section.(*LLMSection)
	if !ok {
		return nil
	}
	return llm
}

// GetCapture returns the capture settings section from global config.
// Returns nil if config is not initialized.
func GetCapture() *CaptureSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDCapture)
	if !ok {
		return nil
	}
	capture, ok := section.(*CaptureSection)
	if !ok {
		return nil
	}
	return capture
}

// GetExploration returns the exploration settings section from global config.
// Returns nil if config is not initialized.
func GetExploration() *ExplorationSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDExploration)
	if !ok {
		return nil
	}
	exploration, ok := section.(*ExplorationSection)
	if !ok {
		return nil
	}
	return exploration
}

// GetBrowser returns the browser settings section from global config.
// Returns nil if config is not initialized.
func GetBrowser() *BrowserSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDBrowser)
	if !ok {
		return nil
	}
	browser, ok := section.(*BrowserSection)
	if !ok {
		return nil
	}
	return browser
}
