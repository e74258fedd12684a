package state

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultUIState(t *testing.T) {
	state := DefaultUIState()

	if state == nil {
		t.Fatal("DefaultUIState returned nil")
	}
	if state.Theme != "catppuccin-mocha" {
		t.Errorf("Expected default theme catppuccin-mocha, got %q", state.Theme)
	}
	if !state.Viewer.ShowPrompts {
		t.Error("Expected prompts to be shown by default")
	}
}

func TestLoadNonExistent(t *testing.T) {
	state := Load(filepath.Join(t.TempDir(), "missing"))

	if state == nil {
		t.Fatal("Load returned nil for non-existent file")
	}
	if !state.Viewer.ShowPrompts {
		t.Error("Expected default prompt visibility to be true")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	state := &UIState{
		Theme: "catppuccin-latte",
		Viewer: ViewerState{
			ShowPrompts: false,
			RecentLinks: []string{"https://openavatar.web.app/profile/abc"},
		},
	}

	if err := Save(tmpDir, state); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	path := filepath.Join(tmpDir, "ui-state.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("State file was not created")
	}

	loaded := Load(tmpDir)
	if loaded == nil {
		t.Fatal("Load returned nil")
	}
	if loaded.Theme != "catppuccin-latte" || loaded.Viewer.ShowPrompts {
		t.Errorf("Loaded state does not match saved state: %+v", loaded)
	}
	if len(loaded.Viewer.RecentLinks) != 1 {
		t.Errorf("Expected 1 recent link, got %d", len(loaded.Viewer.RecentLinks))
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "subdir", "data")

	if err := Save(dataDir, DefaultUIState()); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dataDir, "ui-state.json")); os.IsNotExist(err) {
		t.Error("State file was not created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "ui-state.json")
	if err := os.WriteFile(path, []byte("invalid json {{{"), 0644); err != nil {
		t.Fatalf("Failed to write invalid JSON: %v", err)
	}

	state := Load(tmpDir)
	if state == nil {
		t.Fatal("Load returned nil for invalid JSON")
	}
	if state.Theme != "catppuccin-mocha" {
		t.Error("Expected defaults when JSON is invalid")
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "ui-state.json"), []byte(`{"theme":"light"}`), 0644); err != nil {
		t.Fatal(err)
	}

	state := Load(tmpDir)
	if state.Theme != "light" {
		t.Errorf("Expected theme light, got %q", state.Theme)
	}
	if !state.Viewer.ShowPrompts {
		t.Error("Expected missing keys to keep their defaults")
	}
}

func TestRememberLink(t *testing.T) {
	state := DefaultUIState()

	state.RememberLink("a")
	state.RememberLink("b")
	state.RememberLink("a")
	state.RememberLink("")

	if got := state.Viewer.RecentLinks; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Expected [a b], got %v", got)
	}

	for i := range MaxRecentLinks + 5 {
		state.RememberLink(fmt.Sprintf("link-%d", i))
	}
	if len(state.Viewer.RecentLinks) != MaxRecentLinks {
		t.Errorf("Expected %d links, got %d", MaxRecentLinks, len(state.Viewer.RecentLinks))
	}
	if state.Viewer.RecentLinks[0] != fmt.Sprintf("link-%d", MaxRecentLinks+4) {
		t.Errorf("Expected newest link first, got %s", state.Viewer.RecentLinks[0])
	}
}
