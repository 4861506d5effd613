package registry

import (
	"errors"
	"time"

	"github.com/stackup-dev/stackup/internal/manifest"
)

// ErrorType classifies a validation error.
type ErrorType string

const (
	ErrorSchema  ErrorType = "schema"
	ErrorFile    ErrorType = "file"
	ErrorPackage ErrorType = "package"
)

// ValidationError is one problem found in a manifest.
type ValidationError struct {
	Type    ErrorType `json:"type" yaml:"type"`
	Message string    `json:"message" yaml:"message"`
}

func (e ValidationError) String() string {
	return "[" + string(e.Type) + "] " + e.Message
}

// ValidationResult is the outcome of validating one manifest.
type ValidationResult struct {
	SDK          string            `json:"sdk" yaml:"sdk"`
	TemplateName string            `json:"templateName" yaml:"templateName"`
	RootPath     string            `json:"rootPath" yaml:"rootPath"`
	Valid        bool              `json:"valid" yaml:"valid"`
	Errors       []ValidationError `json:"errors" yaml:"errors"`
}

// ID returns the "<sdk>/<template>" selector for the result.
func (r *ValidationResult) ID() string {
	return r.SDK + "/" + r.TemplateName
}

// TemplateError is a ValidationError attributed to its template.
type TemplateError struct {
	ValidationError `yaml:",inline"`

	Template string `json:"template" yaml:"template"`
}

// Template pairs a discovered manifest with its validation result.
type Template struct {
	Manifest *manifest.TemplateManifest
	Result   *ValidationResult
}

// ID returns the "<sdk>/<template>" selector.
func (t Template) ID() string {
	return t.Manifest.ID()
}

// Epoch is one memoized discovery and validation pass. Its contents are
// never mutated after it is published.
type Epoch struct {
	Manifests   []*manifest.TemplateManifest
	Results     []*ValidationResult
	Errors      []TemplateError
	Generation  uint64
	ValidatedAt time.Time
}

// ListOptions filters ListTemplates.
type ListOptions struct {
	ShowHidden bool
	OnlyValid  bool
}

// ErrTemplateNotFound is returned when a selector matches no template.
var ErrTemplateNotFound = errors.New("template not found")
