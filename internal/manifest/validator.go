package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tidwall/jsonc"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/manifest.schema.json
var schemaBytes []byte

// SchemaBytes returns the embedded manifest JSON Schema.
func SchemaBytes() []byte {
	return schemaBytes
}

const schemaURL = "manifest.schema.json"

var printer = message.NewPrinter(language.English)

// manifestSchema compiles the embedded schema on first use.
var manifestSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		return nil, fmt.Errorf("decode embedded schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("register embedded schema: %w", err)
	}
	sch, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile embedded schema: %w", err)
	}
	return sch, nil
})

// ValidationIssue represents a single schema violation.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/packages/0/version")
	Message string // Human-readable error message
	Keyword string // Schema keyword that failed ("syntax" for unparseable input)
}

// String renders the issue as "path: message".
func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Validate checks raw manifest bytes against the manifest schema. Problems
// with the manifest itself, including JSON syntax errors, are returned as
// issues; the error return is reserved for schema compilation failures.
// An empty issue list means the manifest is valid.
func Validate(data []byte) ([]ValidationIssue, error) {
	schema, err := manifestSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonc.ToJSON(data)))
	if err != nil {
		return []ValidationIssue{{
			Message: fmt.Sprintf("invalid JSON: %v", err),
			Keyword: "syntax",
		}}, nil
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil, nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return extractIssues(validationErr), nil
}

// extractIssues flattens the ValidationError tree into leaf issues, in
// tree order, without duplicates.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	type key struct{ path, keyword, message string }
	seen := make(map[key]bool)

	var issues []ValidationIssue
	for _, leaf := range leaves(ve) {
		issue, ok := toIssue(leaf)
		if !ok {
			continue
		}
		k := key{issue.Path, issue.Keyword, issue.Message}
		if seen[k] {
			continue
		}
		seen[k] = true
		issues = append(issues, issue)
	}

	if len(issues) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}
	return issues
}

// leaves returns the errors of the tree that have no causes.
func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, cause := range ve.Causes {
		out = append(out, leaves(cause)...)
	}
	return out
}

// toIssue converts one leaf error. Leaves reported by container keywords
// carry no detail of their own and are dropped.
func toIssue(ve *jsonschema.ValidationError) (ValidationIssue, bool) {
	if ve.ErrorKind == nil {
		return ValidationIssue{}, false
	}
	kwPath := ve.ErrorKind.KeywordPath()
	if len(kwPath) == 0 {
		return ValidationIssue{}, false
	}
	switch keyword := kwPath[len(kwPath)-1]; keyword {
	case "allOf", "oneOf", "$ref":
		return ValidationIssue{}, false
	default:
		issue := ValidationIssue{
			Message: ve.ErrorKind.LocalizedString(printer),
			Keyword: keyword,
		}
		if len(ve.InstanceLocation) > 0 {
			issue.Path = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		return issue, true
	}
}
