package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"micromachine.dev/vendor-externals/lib/externals"
	"micromachine.dev/vendor-externals/lib/utils"
)

// loadPlugin reads the externals configuration from --config or the root
// dir and validates it.
func loadPlugin() (*externals.Plugin, string, error) {
	rootDir := viper.GetString("rootdir")

	path := viper.GetString("config")
	if path == "" {
		detected, err := utils.DetectExternalsFile(&rootDir)
		if err != nil {
			return nil, "", err
		}
		path = detected
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(rootDir, path)
	}

	raw, err := utils.ReadConfigFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("could not read %s: %w", path, err)
	}

	plugin, err := externals.New(raw)
	if err != nil {
		return nil, path, fmt.Errorf("%s: %w", path, err)
	}

	return plugin, path, nil
}
