package merge

import (
	"errors"
	"fmt"
	"strings"
)

// Namespace separates runtime from development dependencies.
type Namespace string

const (
	Dependencies    Namespace = "dependencies"
	DevDependencies Namespace = "devDependencies"
)

// Strategy names the policy used to resolve a version conflict.
type Strategy string

const (
	// Highest keeps the range whose minimum satisfiable version is greatest.
	Highest Strategy = "highest"
	// FirstSelected keeps the range from the earliest-selected template.
	FirstSelected Strategy = "first-selected"
	// Strict refuses to resolve and fails the merge.
	Strict Strategy = "strict"
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{Highest, FirstSelected, Strict}

// ParseStrategy converts a string to a Strategy. Empty means Highest.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Highest:
		return Highest, nil
	case FirstSelected:
		return FirstSelected, nil
	case Strict:
		return Strict, nil
	default:
		return "", fmt.Errorf("unknown merge strategy %q: expected one of highest, first-selected, strict", s)
	}
}

// ConflictReason tells why a Conflict was recorded.
type ConflictReason string

const (
	// ReasonVersion means several ranges were requested in one namespace.
	ReasonVersion ConflictReason = "version"
	// ReasonClassification means the package was declared both as a runtime
	// and as a dev dependency. The runtime classification wins.
	ReasonClassification ConflictReason = "classification"
)

// Conflict records a package for which the templates disagreed.
type Conflict struct {
	Package           string         `json:"package" yaml:"package"`
	RequestedVersions []string       `json:"requestedVersions" yaml:"requestedVersions"`
	ResolvedVersion   string         `json:"resolvedVersion,omitempty" yaml:"resolvedVersion,omitempty"`
	Namespace         Namespace      `json:"namespace" yaml:"namespace"`
	Reason            ConflictReason `json:"reason" yaml:"reason"`
	Sources           []string       `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// DependencySet is the merged, conflict-resolved package requirement set
// for one scaffold run.
type DependencySet struct {
	Dependencies    map[string]string `json:"dependencies" yaml:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies" yaml:"devDependencies"`
	Conflicts       []Conflict        `json:"conflicts" yaml:"conflicts"`

	// requests keeps every declaration that produced the set so merged
	// sets can be combined again.
	requests []request
}

// request is one package declaration from one template.
type request struct {
	namespace Namespace
	name      string
	rng       string
	order     int    // selection position; lower was selected earlier
	source    string // template ID
}

// ErrStrictConflict is matched by the error returned when the strict
// strategy meets a conflict.
var ErrStrictConflict = errors.New("unresolved dependency conflict")

// ConflictError lists the conflicts that aborted a strict merge.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s (%s: %s)", c.Package, c.Namespace, strings.Join(c.RequestedVersions, ", ")))
	}
	return fmt.Sprintf("%d unresolved dependency conflict(s), resolve manually: %s", len(e.Conflicts), strings.Join(parts, "; "))
}

func (e *ConflictError) Unwrap() error {
	return ErrStrictConflict
}
