package externals

import (
	"slices"
	"testing"
)

func TestIsRemote(t *testing.T) {
	tests := []struct {
		entry    string
		expected bool
	}{
		{"https://cdn.example.com/lib.js", true},
		{"http://cdn.example.com/lib.js", true},
		{"//cdn.example.com/lib.js", true},
		{"dist/jquery.min.js", false},
		{"ftp://cdn.example.com/lib.js", false},
		{"https:/cdn.example.com/lib.js", false},
		{"./https://lib.js", false},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			if got := IsRemote(tt.entry); got != tt.expected {
				t.Errorf("IsRemote(%q) = %v, want %v", tt.entry, got, tt.expected)
			}
		})
	}
}

func TestResolveEntries(t *testing.T) {
	got := ResolveEntries("bootstrap", []string{
		"dist/js/bootstrap.min.js",
		"https://cdn.example.com/popper.js",
		"dist/css/bootstrap.min.css",
	})

	expected := []ResolvedEntry{
		{Kind: LocalAsset, Path: "bootstrap/dist/js/bootstrap.min.js"},
		{Kind: RemoteReference, Path: "https://cdn.example.com/popper.js"},
		{Kind: LocalAsset, Path: "bootstrap/dist/css/bootstrap.min.css"},
	}

	if !slices.Equal(got, expected) {
		t.Errorf("ResolveEntries() = %v, want %v", got, expected)
	}
}

func TestResolveEntriesIsDeterministic(t *testing.T) {
	entries := []string{"a.js", "//cdn.example.com/b.js"}
	first := ResolveEntries("x", entries)
	second := ResolveEntries("x", entries)

	if !slices.Equal(first, second) {
		t.Errorf("expected identical results, got %v and %v", first, second)
	}
}

func TestResolveSupplementsNeverChecksURLs(t *testing.T) {
	got := ResolveSupplements("font-awesome", []string{"fonts/", "https://cdn.example.com/x.woff"})
	expected := []string{"font-awesome/fonts/", "font-awesome/https://cdn.example.com/x.woff"}

	if !slices.Equal(got, expected) {
		t.Errorf("ResolveSupplements() = %v, want %v", got, expected)
	}
}
