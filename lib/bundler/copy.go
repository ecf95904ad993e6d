package bundler

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"micromachine.dev/vendor-externals/lib/externals"
)

// copyFiles copies every pair from rootDir into outDir. Directory sources
// are copied recursively.
func copyFiles(rootDir, outDir string, pairs []externals.CopyPair) error {
	for _, pair := range pairs {
		src := filepath.Join(rootDir, filepath.FromSlash(pair.From))
		dst := filepath.Join(outDir, filepath.FromSlash(pair.To))

		info, err := os.Stat(src)
		if err != nil {
			return fmt.Errorf("could not copy %s: %w", pair.From, err)
		}

		if info.IsDir() {
			err = copyDir(src, dst)
		} else {
			err = copyFile(src, dst, info.Mode())
		}
		if err != nil {
			return fmt.Errorf("could not copy %s: %w", pair.From, err)
		}
	}
	return nil
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(src, path)
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, info.Mode())
	})
}

func copyFile(src, dst string, mode fs.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, mode)
}
