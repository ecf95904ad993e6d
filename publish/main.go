package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

var targets = []struct {
	GOOS   string
	GOARCH string
	NPMPkg string
}{
	{"darwin", "arm64", "darwin-arm64"},
	{"darwin", "amd64", "darwin-x64"},
	{"linux", "arm64", "linux-arm64"},
	{"linux", "amd64", "linux-x64"},
	{"windows", "arm64", "win32-arm64"},
	{"windows", "amd64", "win32-x64"},
}

const binName = "micromachine-externals"

// Cross-compiles the CLI into the npm package layout, one package per
// platform: npm/@micromachine.dev/externals-<platform>/bin.
func main() {
	if len(os.Args) < 2 {
		slog.Error("✗ usage: go run ./publish <version>")
		os.Exit(1)
	}
	version := os.Args[1]

	for _, t := range targets {
		slog.Info(fmt.Sprintf("Building %s/%s...", t.GOOS, t.GOARCH))

		name := binName
		if t.GOOS == "windows" {
			name += ".exe"
		}

		outDir := filepath.Join("npm", "@micromachine.dev", "externals-"+t.NPMPkg, "bin")
		if err := os.MkdirAll(outDir, 0755); err != nil {
			slog.Error(fmt.Sprintf("✗ %v", err))
			os.Exit(1)
		}

		cmd := exec.Command("go", "build",
			"-ldflags", fmt.Sprintf("-s -w -X main.Version=%s", version),
			"-o", filepath.Join(outDir, name),
			".",
		)
		cmd.Env = append(os.Environ(),
			"GOOS="+t.GOOS,
			"GOARCH="+t.GOARCH,
			"CGO_ENABLED=0",
		)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			slog.Error(fmt.Sprintf("✗ %s/%s: %v", t.GOOS, t.GOARCH, err))
			os.Exit(1)
		}
	}
}
