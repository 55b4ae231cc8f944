package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TianXue2002/H-chain/internal/engine"
	"github.com/TianXue2002/H-chain/internal/model"
)

func packedResult(t *testing.T) model.PackResult {
	t.Helper()
	settings := model.DefaultSettings()
	settings.MaxWidth = 50
	settings.MaxHeight = 5
	settings.Separation = 2

	s, err := engine.NewSession(settings)
	if err != nil {
		t.Fatal(err)
	}
	inter := model.NewTile(model.Part{Width: 3, Height: 2})
	inter.Region = model.RegionInter
	return s.PlaceAll([]model.Tile{
		model.NewPreplacedTile(20, model.Part{Width: 2, Height: 2}),
		inter,
		model.NewTile(model.Part{Width: 2, Height: 1, OffsetY: 2}),
	})
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	result := packedResult(t)

	if err := SaveSnapshot(path, result); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	snap, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if snap.Version != SnapshotVersion {
		t.Errorf("expected version %s, got %s", SnapshotVersion, snap.Version)
	}
	if snap.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if snap.Settings.Separation != 2 {
		t.Errorf("expected separation 2, got %d", snap.Settings.Separation)
	}
	if len(snap.Result.Placed) != len(result.Placed) {
		t.Fatalf("expected %d placed tiles, got %d", len(result.Placed), len(snap.Result.Placed))
	}
	for i, tile := range result.Placed {
		got := snap.Result.Placed[i]
		if got.ID != tile.ID || got.Anchor != tile.Anchor || got.Class != tile.Class || got.Region != tile.Region {
			t.Errorf("tile %d: got %s, want %s", i, got, tile)
		}
	}
}

func TestLoadSnapshot_RestoresSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	result := packedResult(t)
	if err := SaveSnapshot(path, result); err != nil {
		t.Fatal(err)
	}

	snap, err := LoadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := engine.Restore(snap.Settings, snap.Result)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if s.BoundingWidth() != result.BoundingWidth || s.BoundingHeight() != result.BoundingHeight {
		t.Errorf("restored bounds %dx%d, want %dx%d",
			s.BoundingWidth(), s.BoundingHeight(), result.BoundingWidth, result.BoundingHeight)
	}
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadSnapshot_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSnapshot(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoadSnapshot_MissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noversion.json")
	if err := os.WriteFile(path, []byte(`{"settings":{}}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSnapshot(path); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestLoadSnapshot_InvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad_settings.json")
	data := []byte(`{"version":"1.0.0","settings":{"max_width":0,"max_height":5}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSnapshot(path); err == nil {
		t.Fatal("expected error for invalid settings")
	}
}

func TestSaveSnapshot_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "session.json")

	if err := SaveSnapshot(path, packedResult(t)); err != nil {
		t.Fatalf("SaveSnapshot should create parent dirs: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("snapshot file was not created")
	}
}
