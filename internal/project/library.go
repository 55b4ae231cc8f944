package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/TianXue2002/H-chain/internal/model"
)

// DefaultLibraryPath returns the default file path for the tile-set
// library, ~/.stripack/library.json.
func DefaultLibraryPath() string {
	return filepath.Join(DefaultConfigDir(), "library.json")
}

// SaveLibrary writes the tile-set library to a JSON file.
func SaveLibrary(path string, lib model.Library) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadLibrary reads a tile-set library from a JSON file.
// If the file does not exist, returns an empty library.
func LoadLibrary(path string) (model.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewLibrary(), nil
		}
		return model.Library{}, err
	}
	var lib model.Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return model.Library{}, err
	}
	if lib.Sets == nil {
		lib.Sets = []model.TileSet{}
	}
	return lib, nil
}
