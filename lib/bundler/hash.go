package bundler

import (
	"encoding/hex"
	"maps"
	"slices"

	"github.com/zeebo/blake3"
)

const buildHashLength = 20

// BuildHash fingerprints a build from its output files, keyed by path
// relative to the output directory.
func BuildHash(files map[string][]byte) string {
	h := blake3.New()
	for _, name := range slices.Sorted(maps.Keys(files)) {
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write(files[name])
	}
	return hex.EncodeToString(h.Sum(nil))[:buildHashLength]
}
