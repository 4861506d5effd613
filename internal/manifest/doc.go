// Package manifest defines the template manifest model, loads template.json
// files (comments and trailing commas tolerated) and validates their shape
// against an embedded JSON Schema, returning a structured issue list.
package manifest
