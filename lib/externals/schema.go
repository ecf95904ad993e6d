package externals

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var DefaultSchema []byte

const (
	schemaRoot      = "#Config"
	requiredMessage = "field is required but not present"
)

// Violation is a single broken constraint of the configuration schema.
type Violation struct {
	// Path is the JSON path of the offending value, e.g. "externals[0].entry".
	Path    string
	Message string
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// SchemaError is returned when a configuration does not match the schema.
// It lists every violation found, not only the first one.
type SchemaError struct {
	Violations []Violation
}

func (e *SchemaError) Error() string {
	if len(e.Violations) == 1 {
		return "invalid externals configuration: " + e.Violations[0].String()
	}

	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = v.String()
	}
	return fmt.Sprintf("invalid externals configuration (%d errors):\n  %s", len(e.Violations), strings.Join(lines, "\n  "))
}

// Validate checks raw JSON against schema and returns the decoded
// configuration with every default filled in.
func Validate(schema, raw []byte) (*Config, error) {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema, cue.Filename("schema.cue"))
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("could not compile externals schema: %w", schemaValue.Err())
	}

	root := schemaValue.LookupPath(cue.ParsePath(schemaRoot))
	if root.Err() != nil {
		return nil, fmt.Errorf("externals schema has no %s definition: %w", schemaRoot, root.Err())
	}

	document, err := decodeDocument(raw)
	if err != nil {
		return nil, &SchemaError{Violations: []Violation{{Message: err.Error()}}}
	}

	userValue, err := buildDocument(ctx, document)
	if err != nil {
		return nil, newSchemaError(err)
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		schemaErr := newSchemaError(err)
		schemaErr.add(missingRequired(root, document, nil)...)
		return nil, schemaErr
	}

	data, err := unified.MarshalJSON()
	if err != nil {
		return nil, newSchemaError(err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("could not decode externals configuration: %w", err)
	}

	return &config, nil
}

// decodeDocument parses raw as strict JSON. Duplicate keys keep the last
// value, as any JSON parser would.
func decodeDocument(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var document any
	if err := dec.Decode(&document); err != nil {
		return nil, fmt.Errorf("externals configuration is not valid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("externals configuration is not valid JSON: unexpected data after the top-level value")
	}
	return document, nil
}

// buildDocument hands the decoded document to CUE as JSON data, so nothing in
// it is ever evaluated as CUE.
func buildDocument(ctx *cue.Context, document any) (cue.Value, error) {
	data, err := json.Marshal(document)
	if err != nil {
		return cue.Value{}, err
	}

	expr, err := cuejson.Extract("externals.json", data)
	if err != nil {
		return cue.Value{}, err
	}

	value := ctx.BuildExpr(expr)
	return value, value.Err()
}

// missingRequired walks schema alongside the decoded document and reports
// every required field that is absent. CUE drops these once a value
// conflicts elsewhere in the document.
func missingRequired(schema cue.Value, document any, path []string) []Violation {
	switch document := document.(type) {
	case map[string]any:
		if schema.IncompleteKind()&cue.StructKind == 0 {
			return nil
		}

		it, err := schema.Fields(cue.Optional(true))
		if err != nil {
			return nil
		}

		var violations []Violation
		for it.Next() {
			sel := it.Selector()
			if sel.LabelType() != cue.StringLabel || sel.ConstraintType() >= cue.PatternConstraint {
				continue
			}

			name := sel.Unquoted()
			fieldPath := append(slices.Clone(path), name)

			value, ok := document[name]
			if !ok {
				if sel.ConstraintType() == cue.RequiredConstraint {
					violations = append(violations, Violation{Path: formatPath(fieldPath), Message: requiredMessage})
				}
				continue
			}
			violations = append(violations, missingRequired(it.Value(), value, fieldPath)...)
		}
		return violations

	case []any:
		if schema.IncompleteKind()&cue.ListKind == 0 {
			return nil
		}

		var violations []Violation
		for i, item := range document {
			elem := schema.LookupPath(cue.MakePath(cue.Index(i)))
			if !elem.Exists() {
				elem = schema.LookupPath(cue.MakePath(cue.AnyIndex))
			}
			if !elem.Exists() {
				continue
			}
			violations = append(violations, missingRequired(elem, item, append(slices.Clone(path), strconv.Itoa(i)))...)
		}
		return violations
	}

	return nil
}

// add appends violations that are not reported yet and keeps the list
// ordered by path.
func (e *SchemaError) add(violations ...Violation) {
	for _, v := range violations {
		if !slices.Contains(e.Violations, v) {
			e.Violations = append(e.Violations, v)
		}
	}
	slices.SortStableFunc(e.Violations, func(a, b Violation) int {
		return strings.Compare(a.Path, b.Path)
	})
}

func newSchemaError(err error) *SchemaError {
	schemaErr := &SchemaError{}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		schemaErr.Violations = append(schemaErr.Violations, Violation{Message: err.Error()})
		return schemaErr
	}

	for _, e := range cueErrors {
		format, args := e.Msg()
		v := Violation{
			Path:    formatPath(errors.Path(e)),
			Message: fmt.Sprintf(format, args...),
		}

		if slices.Contains(schemaErr.Violations, v) {
			continue
		}
		schemaErr.Violations = append(schemaErr.Violations, v)
	}

	return schemaErr
}

// formatPath turns ["#Config", "externals", "0", "entry"] into
// "externals[0].entry".
func formatPath(path []string) string {
	var b strings.Builder
	for _, part := range path {
		if strings.HasPrefix(part, "#") {
			continue
		}

		if isIndex(part) && b.Len() > 0 {
			b.WriteString("[" + part + "]")
			continue
		}

		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
