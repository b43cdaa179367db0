package favorites_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mcdev12/halftimer/go/internal/favorites"
)

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")

	store, err := favorites.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.Contains("g1") {
		t.Error("empty store contains a game")
	}
}

func TestTogglePersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "favorites.json")

	store, err := favorites.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	favorited, err := store.Toggle("g1")
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !favorited {
		t.Fatal("first toggle did not favorite")
	}
	if _, err := store.Toggle("g2"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	reloaded, err := favorites.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.Contains("g1") || !reloaded.Contains("g2") {
		t.Error("favorites lost across reload")
	}
}

func TestToggleOffRemoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")

	store, err := favorites.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := store.Toggle("g1"); err != nil {
		t.Fatalf("Toggle on: %v", err)
	}
	favorited, err := store.Toggle("g1")
	if err != nil {
		t.Fatalf("Toggle off: %v", err)
	}
	if favorited {
		t.Error("second toggle did not unfavorite")
	}
	if store.Contains("g1") {
		t.Error("unfavorited game still present")
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := favorites.Load(path); err == nil {
		t.Error("corrupt favorites file accepted")
	}
}
