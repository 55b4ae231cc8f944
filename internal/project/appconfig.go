package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/TianXue2002/H-chain/internal/model"
)

var ErrUnknownFormat = errors.New("unknown config file format")

// DefaultConfigDir returns the default directory for application
// configuration, ~/.stripack/.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".stripack")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

type configFormat int

const (
	formatTOML configFormat = iota
	formatYAML
	formatJSON
)

func formatFor(path string) (configFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".json":
		return formatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// SaveConfig persists an AppConfig to path. The format follows the file
// extension: .toml, .yaml/.yml or .json. Missing parent directories are
// created.
func SaveConfig(path string, config model.AppConfig) error {
	format, err := formatFor(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case formatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return fmt.Errorf("encode toml config: %w", err)
		}
		data = buf.Bytes()
	case formatYAML:
		if data, err = yaml.Marshal(config); err != nil {
			return fmt.Errorf("encode yaml config: %w", err)
		}
	case formatJSON:
		if data, err = json.MarshalIndent(config, "", "  "); err != nil {
			return fmt.Errorf("encode json config: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadConfig reads an AppConfig from path. If the file does not exist it
// returns DefaultAppConfig with no error. Values absent from the file
// keep their defaults, and the packing settings are validated.
func LoadConfig(path string) (model.AppConfig, error) {
	format, err := formatFor(path)
	if err != nil {
		return model.AppConfig{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}

	config := model.DefaultAppConfig()
	switch format {
	case formatTOML:
		if _, err := toml.Decode(string(data), &config); err != nil {
			return model.AppConfig{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return model.AppConfig{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case formatJSON:
		if err := json.Unmarshal(data, &config); err != nil {
			return model.AppConfig{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	config.ApplyDefaults()

	if err := config.Packing.Validate(); err != nil {
		return model.AppConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}
