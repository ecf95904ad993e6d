package bundler

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"micromachine.dev/vendor-externals/lib/bundler/plugins"
	"micromachine.dev/vendor-externals/lib/externals"
	"micromachine.dev/vendor-externals/lib/utils"
)

// Plugin hooks into a Bundle before anything is built.
type Plugin interface {
	Apply(h externals.Host) error
}

type Output struct {
	// Dir is relative to the root dir.
	Dir        string
	PublicPath string
}

type Bundle struct {
	RootDir     string
	EntryPoints []string
	Output      Output
	// Template is the HTML page the assets are injected into, relative to
	// the root dir. A minimal page is used when empty.
	Template    string
	Environment string
	Externals   externals.HostExternals
	Plugins     []Plugin

	copies   []externals.CopyPair
	includes []externals.IncludeOptions
	applied  bool
	hash     string
}

func (b *Bundle) HostExternals() externals.HostExternals {
	return b.Externals
}

func (b *Bundle) SetHostExternals(e externals.HostExternals) {
	b.Externals = e
}

func (b *Bundle) OutputPublicPath() string {
	return b.Output.PublicPath
}

func (b *Bundle) CopyFiles(pairs []externals.CopyPair) {
	b.copies = append(b.copies, pairs...)
}

func (b *Bundle) IncludeAssets(opts externals.IncludeOptions) {
	b.includes = append(b.includes, opts)
}

// Hash is the build hash of the last Pack.
func (b *Bundle) Hash() string {
	return b.hash
}

func (b *Bundle) Pack() error {
	absDir, err := filepath.Abs(b.RootDir)
	if err != nil {
		slog.Error(fmt.Sprintf("✗ %v", err))
		return fmt.Errorf("could not resolve absolute path: %w", err)
	}

	if err := b.applyPlugins(); err != nil {
		slog.Error(fmt.Sprintf("✗ %v", err))
		return err
	}

	outDir := filepath.Join(absDir, b.GetOutputDir())
	err = os.MkdirAll(outDir, 0755)
	if err != nil {
		slog.Error(fmt.Sprintf("✗ %v", err))
		return fmt.Errorf("could not create output directory: %w", err)
	}

	start := time.Now()
	utils.LogWithColor(utils.Cyan, "Bundling application...")

	globalsPlugin := plugins.GlobalExternalsPlugin{Externals: b.Externals}

	result := api.Build(api.BuildOptions{
		Plugins:       []api.Plugin{globalsPlugin.New()},
		EntryPoints:   b.EntryPoints,
		Outdir:        b.GetOutputDir(),
		AbsWorkingDir: absDir,
		Bundle:        true,
		Write:         false,
		LogLevel:      api.LogLevelSilent,
		Format:        api.FormatIIFE,
		Platform:      api.PlatformBrowser,
		TreeShaking:   api.TreeShakingTrue,
		Loader:        map[string]api.Loader{".js": api.LoaderJSX, ".mjs": api.LoaderJSX, ".cjs": api.LoaderJSX},

		Target:            api.ES2020,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		KeepNames:         true,
		Sourcemap:         api.SourceMapLinked,
		Define: map[string]string{
			"process.env.NODE_ENV": utils.ToJSString(b.Environment),
		},
	})

	if len(result.Errors) > 0 {
		for _, err := range result.Errors {
			slog.Error(fmt.Sprintf("✗ %v", err.Text))
		}

		return fmt.Errorf("bundle failed with %d error(s)", len(result.Errors))
	}

	files := make(map[string][]byte, len(result.OutputFiles))
	var bundleAssets []string
	for _, file := range result.OutputFiles {
		rel, err := filepath.Rel(outDir, file.Path)
		if err != nil {
			slog.Error(fmt.Sprintf("✗ %v", err))
			return fmt.Errorf("output %s escapes %s: %w", file.Path, outDir, err)
		}

		if err := os.MkdirAll(filepath.Dir(file.Path), 0755); err != nil {
			slog.Error(fmt.Sprintf("✗ %v", err))
			return fmt.Errorf("could not create output directory: %w", err)
		}
		if err := os.WriteFile(file.Path, file.Contents, 0644); err != nil {
			slog.Error(fmt.Sprintf("✗ %v", err))
			return fmt.Errorf("could not write %s: %w", rel, err)
		}

		rel = filepath.ToSlash(rel)
		files[rel] = file.Contents

		if ext := path.Ext(rel); ext == ".js" || ext == ".css" {
			bundleAssets = append(bundleAssets, b.Output.PublicPath+rel)
		}
	}
	b.hash = BuildHash(files)

	elapsed := time.Since(start)
	utils.LogWithColor(utils.Success, fmt.Sprintf("✓ Bundling completed in %s", elapsed))

	if len(b.copies) > 0 {
		now := time.Now()
		utils.LogWithColor(utils.Default, "Copying vendor files...")

		if err := copyFiles(absDir, outDir, b.copies); err != nil {
			slog.Error(fmt.Sprintf("✗ %v", err))
			return err
		}

		elapsed := time.Since(now)
		utils.LogWithColor(utils.Success, fmt.Sprintf("✓ %d vendor file(s) copied in %s", len(b.copies), elapsed))
	}

	if err := b.writePage(absDir, outDir, bundleAssets); err != nil {
		slog.Error(fmt.Sprintf("✗ %v", err))
		return err
	}

	return nil
}

// applyPlugins runs every plugin once per bundle.
func (b *Bundle) applyPlugins() error {
	if b.applied {
		return nil
	}
	b.applied = true

	for _, p := range b.Plugins {
		if err := p.Apply(b); err != nil {
			return fmt.Errorf("could not apply plugin: %w", err)
		}
	}
	return nil
}

func (b *Bundle) writePage(absDir, outDir string, bundleAssets []string) error {
	template := []byte(defaultTemplate)
	if b.Template != "" {
		data, err := os.ReadFile(filepath.Join(absDir, b.Template))
		if err != nil {
			return fmt.Errorf("could not read template: %w", err)
		}
		template = data
	}

	page, err := RenderPage(template, b.PageAssets(bundleAssets))
	if err != nil {
		return fmt.Errorf("could not render page: %w", err)
	}

	name := "index.html"
	if b.Template != "" {
		name = filepath.Base(b.Template)
	}

	if err := os.WriteFile(filepath.Join(outDir, name), page, 0644); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("output directory is not writable: %w", err)
		}
		return fmt.Errorf("could not write page: %w", err)
	}
	return nil
}

// PageAssets orders the assets of the page: included assets that are not
// appended, then the bundle's own assets, then appended ones.
func (b *Bundle) PageAssets(bundleAssets []string) []string {
	var before, after []string
	for _, include := range b.includes {
		assets := make([]string, len(include.Assets))
		for i, asset := range include.Assets {
			asset = include.PublicPath + asset
			if include.Hash && b.hash != "" {
				asset = withHash(asset, b.hash)
			}
			assets[i] = asset
		}

		if include.Append {
			after = append(after, assets...)
		} else {
			before = append(before, assets...)
		}
	}
	return slices.Concat(before, bundleAssets, after)
}

func (b *Bundle) GetOutputDir() string {
	if b.Output.Dir == "" {
		return "./.micromachine/public"
	}
	return b.Output.Dir
}
