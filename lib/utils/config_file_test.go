package utils

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectExternalsFile(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		contents string
	}{
		{"Detect externals.json", "externals.json", `{"externals": [{"module": "jquery", "entry": "dist/jquery.js"}]}`},
		{"Detect externals.jsonc", "externals.jsonc", `{
			// vendor libraries
			"externals": [{"module": "jquery", "entry": "dist/jquery.js",},],
		}`},
		{"Detect externals.toml", "externals.toml", `[[externals]]
module = "jquery"
entry = "dist/jquery.js"`},
		{"Detect externals.yaml", "externals.yaml", `externals:
  - module: jquery
    entry: dist/jquery.js`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			err := os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.contents), 0644)
			if err != nil {
				t.Fatal(err)
			}

			path, err := DetectExternalsFile(&dir)
			if err != nil {
				t.Fatalf("expected configuration file, got error: %v", err)
			}

			if filepath.Base(path) != tt.file {
				t.Errorf("DetectExternalsFile() = %s, want %s", path, tt.file)
			}

			data, err := ReadConfigFile(path)
			if err != nil {
				t.Fatalf("expected JSON, got error: %v", err)
			}

			var got struct {
				Externals []struct {
					Module string `json:"module"`
					Entry  string `json:"entry"`
				} `json:"externals"`
			}
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("expected valid JSON, got %s: %v", data, err)
			}

			if len(got.Externals) != 1 || got.Externals[0].Module != "jquery" || got.Externals[0].Entry != "dist/jquery.js" {
				t.Errorf("unexpected configuration %s", data)
			}
		})
	}
}

func TestMissingExternalsFile(t *testing.T) {
	dir := t.TempDir()
	_, err := DetectExternalsFile(&dir)
	if !errors.Is(err, ErrNoConfigFile) {
		t.Errorf("Expected ErrNoConfigFile, got %v", err)
	}
}

func TestReadConfigFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "externals.ini")
	if err := os.WriteFile(path, []byte("externals="), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadConfigFile(path); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}
