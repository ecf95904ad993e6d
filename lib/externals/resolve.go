package externals

import "regexp"

var urlEntry = regexp.MustCompile(`^(http:|https:)?//`)

type EntryKind int

const (
	// LocalAsset is a file inside the module's install directory. It is
	// copied to the output and injected into the page.
	LocalAsset EntryKind = iota
	// RemoteReference is an absolute URL. It is injected as is and never
	// copied.
	RemoteReference
)

func (k EntryKind) String() string {
	switch k {
	case LocalAsset:
		return "local"
	case RemoteReference:
		return "remote"
	}
	return "unknown"
}

type ResolvedEntry struct {
	Kind EntryKind
	// Path is the URL for remote references and "<module>/<entry>" for
	// local assets.
	Path string
}

func (e ResolvedEntry) IsRemote() bool {
	return e.Kind == RemoteReference
}

// IsRemote reports whether entry is an absolute or protocol-relative URL.
func IsRemote(entry string) bool {
	return urlEntry.MatchString(entry)
}

// ResolveEntries classifies every entry of module, keeping their order.
func ResolveEntries(module string, entries []string) []ResolvedEntry {
	resolved := make([]ResolvedEntry, len(entries))
	for i, entry := range entries {
		if IsRemote(entry) {
			resolved[i] = ResolvedEntry{Kind: RemoteReference, Path: entry}
			continue
		}
		resolved[i] = ResolvedEntry{Kind: LocalAsset, Path: localPath(module, entry)}
	}
	return resolved
}

// ResolveSupplements rewrites supplements relative to module. Supplements are
// always local, URLs are not recognised here.
func ResolveSupplements(module string, supplements []string) []string {
	resolved := make([]string, len(supplements))
	for i, supplement := range supplements {
		resolved[i] = localPath(module, supplement)
	}
	return resolved
}

func localPath(module, entry string) string {
	return module + "/" + entry
}
