package cmd

import (
	"testing"

	"micromachine.dev/vendor-externals/lib/externals"
)

func TestParseHostExternals(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		globals  []string
		expected externals.ExternalsKind
	}{
		{"nothing", nil, nil, externals.ExternalsAbsent},
		{"globals only", nil, []string{"react=React"}, externals.ExternalsMapping},
		{"names only", []string{"electron"}, nil, externals.ExternalsSequence},
		{"names and globals", []string{"electron"}, []string{"react=React"}, externals.ExternalsSequence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHostExternals(tt.names, tt.globals)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.Kind() != tt.expected {
				t.Errorf("parseHostExternals() = %s, want %s", got.Kind(), tt.expected)
			}

			for _, name := range tt.names {
				if global, ok := got.ResolveExternal(name); !ok || global != nil {
					t.Errorf("expected %s to be external without a global", name)
				}
			}
		})
	}
}

func TestParseHostExternalsRejectsBadGlobal(t *testing.T) {
	if _, err := parseHostExternals(nil, []string{"react"}); err == nil {
		t.Error("expected error for a global without =")
	}
}
