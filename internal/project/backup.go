package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/TianXue2002/H-chain/internal/model"
)

// SnapshotVersion is written into every snapshot file.
const SnapshotVersion = "1.0.0"

// Snapshot is a saved packing session: the settings it ran with and the
// tiles it placed, enough to restore the session and keep editing.
type Snapshot struct {
	Version   string           `json:"version"`
	CreatedAt string           `json:"created_at"`
	Settings  model.Settings   `json:"settings"`
	Result    model.PackResult `json:"result"`
}

// NewSnapshot captures a result with the current time.
func NewSnapshot(result model.PackResult) Snapshot {
	return Snapshot{
		Version:   SnapshotVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Settings:  result.Settings,
		Result:    result,
	}
}

// SaveSnapshot writes a snapshot of result to path as JSON.
func SaveSnapshot(path string, result model.PackResult) error {
	data, err := json.MarshalIndent(NewSnapshot(result), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot file. The stored settings are validated
// so the result can be handed straight to engine.Restore.
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot file: %w", err)
	}
	if snap.Version == "" {
		return Snapshot{}, fmt.Errorf("invalid snapshot file: missing version field")
	}
	if err := snap.Settings.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("invalid snapshot file: %w", err)
	}
	snap.Result.Settings = snap.Settings
	return snap, nil
}
