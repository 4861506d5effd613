package scaffold

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stackup-dev/stackup/internal/install"
	"github.com/stackup-dev/stackup/internal/manifest"
	"github.com/stackup-dev/stackup/internal/merge"
)

var (
	// ErrTargetNotEmpty is returned when the target directory holds a
	// non-hidden entry.
	ErrTargetNotEmpty = errors.New("directory not empty")
	// ErrTargetNotDir is returned when the target path exists and is not a
	// directory.
	ErrTargetNotDir = errors.New("target is not a directory")
	// ErrReservedDestination is returned when a template maps a file onto a
	// path the orchestrator generates itself.
	ErrReservedDestination = errors.New("destination is reserved")
	// ErrPathEscape is returned when a template file path leaves its root.
	ErrPathEscape = errors.New("path escapes its root")
)

// Language selects the base source tree and toolchain files.
type Language string

const (
	TypeScript Language = "typescript"
	JavaScript Language = "javascript"
)

// ParseLanguage converts a name ("ts" and "js" are accepted) into a
// Language. Empty means TypeScript.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "typescript", "ts":
		return TypeScript, nil
	case "javascript", "js":
		return JavaScript, nil
	default:
		return "", fmt.Errorf("unknown language %q (want typescript or javascript)", s)
	}
}

// Step names one stage of a scaffold run.
type Step string

const (
	StepValidateTarget Step = "validate-target"
	StepMerge          Step = "merge-dependencies"
	StepCreateTarget   Step = "create-target"
	StepToolchain      Step = "toolchain"
	StepSkeleton       Step = "skeleton"
	StepCopyFiles      Step = "copy-files"
	StepEnv            Step = "env"
	StepSummary        Step = "summary"
	StepInstall        Step = "install"
)

// StepError reports the step (and path, when there is one) a scaffold run
// failed in. Err is the original cause, untouched.
type StepError struct {
	Step Step
	Path string
	Err  error
}

func (e *StepError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Step, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Options describes one scaffold run.
type Options struct {
	// ProjectPath is the target directory. It must not exist or must hold
	// only hidden entries.
	ProjectPath string
	// ProjectName defaults to the base name of ProjectPath.
	ProjectName string
	// Templates are the selected manifests, in selection order.
	Templates []*manifest.TemplateManifest

	Strategy       merge.Strategy
	Language       Language
	PackageManager install.PackageManager

	// Install runs the package manager once the project is complete.
	Install bool
}

// Collision records a destination written by more than one source. The
// later-selected source wins.
type Collision struct {
	Destination string `json:"destination" yaml:"destination"`
	Previous    string `json:"previous" yaml:"previous"`
	Winner      string `json:"winner" yaml:"winner"`
}

// Result is what a scaffold run reports to its caller.
type Result struct {
	ProjectPath        string   `json:"projectPath" yaml:"projectPath"`
	Success            bool     `json:"success" yaml:"success"`
	TemplatesProcessed int      `json:"templatesProcessed" yaml:"templatesProcessed"`
	GeneratedFiles     []string `json:"generatedFiles" yaml:"generatedFiles"`
	Errors             []string `json:"errors" yaml:"errors"`

	Warnings     []string             `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Collisions   []Collision          `json:"collisions,omitempty" yaml:"collisions,omitempty"`
	Preserved    []string             `json:"preserved,omitempty" yaml:"preserved,omitempty"`
	Dependencies *merge.DependencySet `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}
