package externals

import (
	"encoding/json"
)

// ModulesDir is where declared modules are installed, relative to the
// project root. Local assets are copied out of it.
const ModulesDir = "node_modules"

type Config struct {
	Externals  []Declaration `json:"externals"`
	Hash       bool          `json:"hash,omitempty"`
	OutputPath string        `json:"outputPath,omitempty"`
	PublicPath *string       `json:"publicPath,omitempty"`
}

// Declaration is one vendor module that is loaded through a tag instead of
// being bundled.
type Declaration struct {
	Module      string   `json:"module"`
	Entry       Entries  `json:"entry"`
	Global      *string  `json:"global,omitempty"`
	Supplements []string `json:"supplements,omitempty"`
	Append      bool     `json:"append,omitempty"`
}

// Entries accepts either a single path or a list of paths.
type Entries []string

func (e *Entries) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*e = Entries{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}

	*e = many
	return nil
}

// Global returns a pointer to name, for building declarations in code.
func Global(name string) *string {
	return &name
}
