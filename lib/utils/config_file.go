package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

var configFileNames = []string{
	"externals.json",
	"externals.jsonc",
	"externals.toml",
	"externals.yaml",
	"externals.yml",
}

var ErrNoConfigFile = errors.New("no externals configuration file found")

// DetectExternalsFile looks for an externals configuration in root and
// returns its path.
func DetectExternalsFile(root *string) (string, error) {
	rootDir := ""
	if root != nil {
		rootDir = *root
	}

	for _, name := range configFileNames {
		path := filepath.Join(rootDir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", err
		}
		return path, nil
	}

	return "", ErrNoConfigFile
}

// ReadConfigFile reads a json, jsonc, toml or yaml configuration file and
// returns it as plain JSON.
func ReadConfigFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch ext := filepath.Ext(path); ext {
	case ".json", ".jsonc":
		return jsonc.ToJSON(data), nil
	case ".toml":
		config := map[string]any{}
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("could not parse %s: %w", path, err)
		}
		return json.Marshal(config)
	case ".yaml", ".yml":
		config := map[string]any{}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("could not parse %s: %w", path, err)
		}
		return json.Marshal(config)
	default:
		return nil, fmt.Errorf("unsupported configuration file extension %q", ext)
	}
}
