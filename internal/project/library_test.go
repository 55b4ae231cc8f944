package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TianXue2002/H-chain/internal/model"
)

func TestSaveAndLoadLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")

	lib := model.NewLibrary()
	tiles := []model.Tile{
		model.NewTile(model.Part{Width: 3, Height: 2}),
		model.NewPreplacedTile(12, model.Part{Width: 1, Height: 1, OffsetY: 3}),
	}
	lib.Add(model.NewTileSet("Row A", "first row", tiles, model.DefaultSettings()))

	if err := SaveLibrary(path, lib); err != nil {
		t.Fatalf("SaveLibrary failed: %v", err)
	}

	loaded, err := LoadLibrary(path)
	if err != nil {
		t.Fatalf("LoadLibrary failed: %v", err)
	}
	if len(loaded.Sets) != 1 {
		t.Fatalf("expected 1 set, got %d", len(loaded.Sets))
	}

	set := loaded.FindByName("Row A")
	if set == nil {
		t.Fatal("set Row A not found")
	}
	if len(set.Tiles) != 2 {
		t.Fatalf("expected 2 tiles, got %d", len(set.Tiles))
	}
	if set.Tiles[1].Class != model.ClassPreplaced || set.Tiles[1].Anchor != 12 {
		t.Errorf("preplaced tile not preserved: %s", set.Tiles[1])
	}
	if set.Settings.MaxWidth != model.DefaultMaxWidth {
		t.Errorf("expected default max width, got %d", set.Settings.MaxWidth)
	}
}

func TestLoadLibrary_MissingFile(t *testing.T) {
	lib, err := LoadLibrary(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if lib.Sets == nil || len(lib.Sets) != 0 {
		t.Errorf("expected empty non-nil sets, got %v", lib.Sets)
	}
}

func TestLoadLibrary_NullSets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	if err := os.WriteFile(path, []byte(`{"sets":null}`), 0644); err != nil {
		t.Fatal(err)
	}

	lib, err := LoadLibrary(path)
	if err != nil {
		t.Fatalf("LoadLibrary failed: %v", err)
	}
	if lib.Sets == nil {
		t.Error("Sets should not be nil after loading")
	}
}

func TestLoadLibrary_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadLibrary(path); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestDefaultLibraryPath(t *testing.T) {
	path := DefaultLibraryPath()
	if filepath.Base(path) != "library.json" || filepath.Base(filepath.Dir(path)) != ".stripack" {
		t.Errorf("unexpected default library path %q", path)
	}
}
