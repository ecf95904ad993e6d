package externals

import (
	"errors"
	"testing"
)

func TestMergeIntoAbsentExternals(t *testing.T) {
	merged, err := HostExternals{}.Merge(Table{"bar": Global("Bar")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if merged.Kind() != ExternalsMapping {
		t.Fatalf("expected mapping, got %s", merged.Kind())
	}

	if global := merged.Mapping()["bar"]; global == nil || *global != "Bar" {
		t.Errorf("expected bar -> Bar, got %v", global)
	}
}

func TestMergeIntoMappingExternals(t *testing.T) {
	existing := MappingExternals(Table{"foo": Global("Foo"), "shared": Global("Old")})

	merged, err := existing.Merge(Table{"bar": Global("Bar"), "shared": Global("New")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := map[string]string{"foo": "Foo", "bar": "Bar", "shared": "New"}
	if len(merged.Mapping()) != len(expected) {
		t.Fatalf("expected %d entries, got %v", len(expected), merged.Mapping())
	}
	for module, global := range expected {
		if got := merged.Mapping()[module]; got == nil || *got != global {
			t.Errorf("expected %s -> %s, got %v", module, global, got)
		}
	}

	if *existing.Mapping()["shared"] != "Old" {
		t.Error("merge must not modify the existing mapping")
	}
}

func TestMergeIntoSequenceExternals(t *testing.T) {
	custom := ResolverFunc(func(path string) (*string, bool) {
		return nil, path == "fs"
	})
	existing := SequenceExternals(Name("electron"), custom)

	merged, err := existing.Merge(Table{"jquery": Global("$")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if merged.Kind() != ExternalsSequence || len(merged.Sequence()) != 3 {
		t.Fatalf("expected table appended as one element, got %s with %d", merged.Kind(), len(merged.Sequence()))
	}

	if len(existing.Sequence()) != 2 {
		t.Error("merge must not modify the existing sequence")
	}

	for _, path := range []string{"electron", "fs", "jquery"} {
		if _, ok := merged.ResolveExternal(path); !ok {
			t.Errorf("expected %s to resolve externally", path)
		}
	}

	if global, _ := merged.ResolveExternal("jquery"); global == nil || *global != "$" {
		t.Errorf("expected jquery -> $, got %v", global)
	}
}

func TestMergeIntoUnsupportedExternalsFails(t *testing.T) {
	existing := ExternalsFromValue(42)
	if existing.Kind() != ExternalsOther {
		t.Fatalf("expected other, got %s", existing.Kind())
	}

	merged, err := existing.Merge(Table{"jquery": Global("$")})
	if !errors.Is(err, ErrUnsupportedExternals) {
		t.Fatalf("expected ErrUnsupportedExternals, got %v", err)
	}

	if merged.Kind() != ExternalsOther {
		t.Errorf("expected externals to be left untouched, got %s", merged.Kind())
	}
}

func TestExternalsFromValue(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected ExternalsKind
	}{
		{"nil", nil, ExternalsAbsent},
		{"string map", map[string]string{"react": "React"}, ExternalsMapping},
		{"decoded map", map[string]any{"react": "React", "fs": nil}, ExternalsMapping},
		{"decoded map with bad global", map[string]any{"react": 1}, ExternalsOther},
		{"names", []string{"fs", "path"}, ExternalsSequence},
		{"decoded list", []any{"fs", map[string]any{"react": "React"}}, ExternalsSequence},
		{"decoded list with bad item", []any{"fs", 3}, ExternalsOther},
		{"boolean", true, ExternalsOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExternalsFromValue(tt.value).Kind(); got != tt.expected {
				t.Errorf("ExternalsFromValue(%v) = %s, want %s", tt.value, got, tt.expected)
			}
		})
	}
}
