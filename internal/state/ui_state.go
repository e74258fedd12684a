package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/openavatar/openavatar/internal/logger"
)

// MaxRecentLinks caps the share links remembered between runs.
const MaxRecentLinks = 10

const fileName = "ui-state.json"

// UIState holds persistent UI preferences that carry across sessions.
type UIState struct {
	Theme  string      `json:"theme"`
	Viewer ViewerState `json:"viewer"`
}

// ViewerState holds profile viewer preferences.
type ViewerState struct {
	// ShowPrompts shows the "Add ..." suggestions on your own profile.
	ShowPrompts bool `json:"show_prompts"`
	// RecentLinks are the share links opened most recently, newest first.
	RecentLinks []string `json:"recent_links,omitempty"`
}

// DefaultUIState returns the default UI state.
func DefaultUIState() *UIState {
	return &UIState{
		Theme: "catppuccin-mocha",
		Viewer: ViewerState{
			ShowPrompts: true,
		},
	}
}

// RememberLink moves link to the front of the recent list.
func (s *UIState) RememberLink(link string) {
	if link == "" {
		return
	}
	links := slices.DeleteFunc(s.Viewer.RecentLinks, func(l string) bool { return l == link })
	links = append([]string{link}, links...)
	if len(links) > MaxRecentLinks {
		links = links[:MaxRecentLinks]
	}
	s.Viewer.RecentLinks = links
}

// Load reads the UI state from <dataDir>/ui-state.json.
// Returns default state if the file doesn't exist or on error.
func Load(dataDir string) *UIState {
	path := filepath.Join(dataDir, fileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultUIState()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to read UI state file: %v", err)
		return DefaultUIState()
	}

	state := DefaultUIState()
	if err := json.Unmarshal(data, state); err != nil {
		logger.Warn("Failed to parse UI state JSON: %v", err)
		return DefaultUIState()
	}

	return state
}

// Save writes the UI state to <dataDir>/ui-state.json, creating the
// directory if needed.
func Save(dataDir string, state *UIState) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, fileName)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling UI state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing UI state file: %w", err)
	}

	logger.Debug("UI state saved to %s", path)
	return nil
}
