package externals

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	ErrAlreadyApplied       = errors.New("externals plugin was already applied")
	ErrUnsupportedExternals = errors.New("unsupported host externals configuration")
)

// Host is the build pipeline the plugin integrates with. It owns the copy and
// injection collaborators; the plugin only registers work for them.
type Host interface {
	HostExternals() HostExternals
	SetHostExternals(HostExternals)
	// OutputPublicPath is the public path the host serves its output from.
	OutputPublicPath() string
	CopyFiles(pairs []CopyPair)
	IncludeAssets(opts IncludeOptions)
}

type CopyPair struct {
	From string
	To   string
}

type IncludeOptions struct {
	Assets []string
	Append bool
	Hash   bool
	// PublicPath is prepended by the injector. The plugin bakes the public
	// path into Assets and always leaves this empty.
	PublicPath string
}

// Resolver decides whether an import path is provided externally, and by
// which global.
type Resolver interface {
	ResolveExternal(path string) (global *string, ok bool)
}

// Name marks a single module as external without a global.
type Name string

func (n Name) ResolveExternal(path string) (*string, bool) {
	return nil, path == string(n)
}

type ResolverFunc func(path string) (*string, bool)

func (f ResolverFunc) ResolveExternal(path string) (*string, bool) {
	return f(path)
}

type ExternalsKind int

const (
	ExternalsAbsent ExternalsKind = iota
	ExternalsSequence
	ExternalsMapping
	ExternalsOther
)

func (k ExternalsKind) String() string {
	switch k {
	case ExternalsAbsent:
		return "absent"
	case ExternalsSequence:
		return "sequence"
	case ExternalsMapping:
		return "mapping"
	}
	return "other"
}

// HostExternals is the host's externals setting. It is either absent, an
// ordered list of resolvers, a module to global mapping, or some value the
// plugin does not understand.
type HostExternals struct {
	kind     ExternalsKind
	sequence []Resolver
	mapping  Table
	other    any
}

func SequenceExternals(resolvers ...Resolver) HostExternals {
	return HostExternals{kind: ExternalsSequence, sequence: resolvers}
}

func MappingExternals(t Table) HostExternals {
	return HostExternals{kind: ExternalsMapping, mapping: t}
}

// ExternalsFromValue classifies a loosely typed value, such as one decoded
// from a host configuration file.
func ExternalsFromValue(v any) HostExternals {
	switch v := v.(type) {
	case nil:
		return HostExternals{}
	case HostExternals:
		return v
	case Table:
		return MappingExternals(v)
	case map[string]*string:
		return MappingExternals(Table(v))
	case map[string]string:
		t := make(Table, len(v))
		for module, global := range v {
			t[module] = Global(global)
		}
		return MappingExternals(t)
	case map[string]any:
		t := make(Table, len(v))
		for module, global := range v {
			switch g := global.(type) {
			case string:
				t[module] = Global(g)
			case nil:
				t[module] = nil
			default:
				return HostExternals{kind: ExternalsOther, other: v}
			}
		}
		return MappingExternals(t)
	case []Resolver:
		return SequenceExternals(v...)
	case []string:
		resolvers := make([]Resolver, len(v))
		for i, name := range v {
			resolvers[i] = Name(name)
		}
		return SequenceExternals(resolvers...)
	case []any:
		resolvers := make([]Resolver, 0, len(v))
		for _, item := range v {
			r, ok := resolverFromValue(item)
			if !ok {
				return HostExternals{kind: ExternalsOther, other: v}
			}
			resolvers = append(resolvers, r)
		}
		return SequenceExternals(resolvers...)
	}

	return HostExternals{kind: ExternalsOther, other: v}
}

func resolverFromValue(v any) (Resolver, bool) {
	switch v := v.(type) {
	case Resolver:
		return v, true
	case string:
		return Name(v), true
	case func(string) (*string, bool):
		return ResolverFunc(v), true
	}

	nested := ExternalsFromValue(v)
	if nested.kind == ExternalsMapping {
		return nested.mapping, true
	}
	return nil, false
}

func (h HostExternals) Kind() ExternalsKind {
	return h.kind
}

func (h HostExternals) Sequence() []Resolver {
	return h.sequence
}

func (h HostExternals) Mapping() Table {
	return h.mapping
}

// ResolveExternal looks path up in whatever the host has configured. In a
// sequence the first resolver that knows path wins.
func (h HostExternals) ResolveExternal(path string) (*string, bool) {
	switch h.kind {
	case ExternalsMapping:
		return h.mapping.ResolveExternal(path)
	case ExternalsSequence:
		for _, r := range h.sequence {
			if global, ok := r.ResolveExternal(path); ok {
				return global, true
			}
		}
	}
	return nil, false
}

var mergers = map[ExternalsKind]func(HostExternals, Table) (HostExternals, error){
	ExternalsAbsent:   mergeAbsent,
	ExternalsSequence: mergeSequence,
	ExternalsMapping:  mergeMapping,
	ExternalsOther:    mergeOther,
}

// Merge returns the host externals with t folded in. The receiver is left
// untouched.
func (h HostExternals) Merge(t Table) (HostExternals, error) {
	return mergers[h.kind](h, t)
}

func mergeAbsent(_ HostExternals, t Table) (HostExternals, error) {
	return MappingExternals(t.Clone()), nil
}

func mergeSequence(h HostExternals, t Table) (HostExternals, error) {
	sequence := append(slices.Clone(h.sequence), t.Clone())
	return SequenceExternals(sequence...), nil
}

func mergeMapping(h HostExternals, t Table) (HostExternals, error) {
	merged := maps.Clone(h.mapping)
	if merged == nil {
		merged = Table{}
	}
	maps.Copy(merged, t.Clone())
	return MappingExternals(merged), nil
}

func mergeOther(h HostExternals, _ Table) (HostExternals, error) {
	return h, fmt.Errorf("%w: %T", ErrUnsupportedExternals, h.other)
}
