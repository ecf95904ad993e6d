package externals

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Plugin registers vendor externals with a host build. It is created from a
// validated configuration and can be applied to exactly one build.
type Plugin struct {
	hash       bool
	outputPath string
	publicPath *string
	aggregates *Aggregates
	applied    bool
}

// New validates raw JSON against DefaultSchema and derives the aggregates.
func New(raw []byte) (*Plugin, error) {
	cfg, err := Validate(DefaultSchema, raw)
	if err != nil {
		return nil, err
	}
	return fromValidated(cfg), nil
}

// NewFromConfig runs cfg through the same validation as New. Zero values
// mean "use the default".
func NewFromConfig(cfg Config) (*Plugin, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not encode externals configuration: %w", err)
	}
	return New(raw)
}

func fromValidated(cfg *Config) *Plugin {
	return &Plugin{
		hash:       cfg.Hash,
		outputPath: cfg.OutputPath,
		publicPath: cfg.PublicPath,
		aggregates: Build(cfg),
	}
}

// Aggregates returns what was derived from the configuration. Callers must
// not modify it.
func (p *Plugin) Aggregates() *Aggregates {
	return p.aggregates
}

func (p *Plugin) OutputPath() string {
	return p.outputPath
}

// Apply merges the externals table into the host and registers the copy and
// include work. It consumes the plugin: a second call fails with
// ErrAlreadyApplied.
func (p *Plugin) Apply(h Host) error {
	if p.applied {
		return ErrAlreadyApplied
	}

	merged, err := h.HostExternals().Merge(p.aggregates.Table)
	if err != nil {
		return err
	}
	p.applied = true
	h.SetHostExternals(merged)
	slog.Debug(fmt.Sprintf("Merged %d external(s) into %s host externals", len(p.aggregates.Table), merged.Kind()))

	publicPath := h.OutputPublicPath()
	if p.publicPath != nil {
		publicPath = *p.publicPath
	}

	h.CopyFiles(p.copyPairs())

	p.includeAssets(h, p.aggregates.Prepend, false, publicPath)
	p.includeAssets(h, p.aggregates.Append, true, publicPath)

	return nil
}

func (p *Plugin) copyPairs() []CopyPair {
	pairs := make([]CopyPair, len(p.aggregates.Copy))
	for i, asset := range p.aggregates.Copy {
		pairs[i] = CopyPair{
			From: ModulesDir + "/" + asset,
			To:   p.outputPath + "/" + asset,
		}
	}
	return pairs
}

func (p *Plugin) includeAssets(h Host, entries []ResolvedEntry, appendAssets bool, publicPath string) {
	if len(entries) == 0 {
		return
	}

	assets := make([]string, len(entries))
	for i, entry := range entries {
		if entry.IsRemote() {
			assets[i] = entry.Path
			continue
		}
		assets[i] = publicPath + p.outputPath + "/" + entry.Path
	}

	h.IncludeAssets(IncludeOptions{
		Assets:     assets,
		Append:     appendAssets,
		Hash:       p.hash,
		PublicPath: "",
	})
}
