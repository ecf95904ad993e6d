package externals

import (
	"maps"
	"slices"
)

// Table maps a module name to the global that satisfies it at runtime. A nil
// global leaves the import external without binding it to a global.
type Table map[string]*string

func (t Table) ResolveExternal(path string) (*string, bool) {
	global, ok := t[path]
	return global, ok
}

// Aggregates is everything derived from a configuration. It is built once and
// only read afterwards.
type Aggregates struct {
	Table Table
	// Prepend and Append are the two injection groups, in declaration order
	// and then entry order.
	Prepend []ResolvedEntry
	Append  []ResolvedEntry
	// Copy lists the local paths to copy: each declaration's local entries
	// followed by its supplements.
	Copy []string
}

// Builder accumulates declarations into Aggregates.
type Builder struct {
	aggregates *Aggregates
}

func NewBuilder() *Builder {
	return &Builder{aggregates: &Aggregates{Table: Table{}}}
}

// AddDeclaration adds d after every declaration added so far. A module that
// was already declared gets its table row overwritten while its assets are
// kept.
func (b *Builder) AddDeclaration(d Declaration) {
	if b.aggregates == nil {
		panic("externals: AddDeclaration called after Finalize")
	}
	a := b.aggregates

	a.Table[d.Module] = d.Global

	entries := ResolveEntries(d.Module, d.Entry)
	if d.Append {
		a.Append = append(a.Append, entries...)
	} else {
		a.Prepend = append(a.Prepend, entries...)
	}

	for _, entry := range entries {
		if entry.Kind == LocalAsset {
			a.Copy = append(a.Copy, entry.Path)
		}
	}
	a.Copy = append(a.Copy, ResolveSupplements(d.Module, d.Supplements)...)
}

// Finalize hands the aggregates over to the caller. The builder cannot be
// used afterwards.
func (b *Builder) Finalize() *Aggregates {
	a := b.aggregates
	if a == nil {
		panic("externals: Finalize called twice")
	}
	b.aggregates = nil
	return a
}

// Build derives the aggregates of cfg.
func Build(cfg *Config) *Aggregates {
	b := NewBuilder()
	for _, d := range cfg.Externals {
		b.AddDeclaration(d)
	}
	return b.Finalize()
}

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	clone := make(Table, len(t))
	for module, global := range t {
		if global != nil {
			g := *global
			global = &g
		}
		clone[module] = global
	}
	return clone
}

// Modules returns the declared module names, sorted.
func (t Table) Modules() []string {
	return slices.Sorted(maps.Keys(t))
}
