package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Report is a serializable snapshot of one validation epoch.
type Report struct {
	Root        string              `json:"root" yaml:"root"`
	Generation  uint64              `json:"generation" yaml:"generation"`
	ValidatedAt time.Time           `json:"validatedAt" yaml:"validatedAt"`
	Valid       int                 `json:"valid" yaml:"valid"`
	Invalid     int                 `json:"invalid" yaml:"invalid"`
	Templates   []*ValidationResult `json:"templates" yaml:"templates"`
	Errors      []TemplateError     `json:"errors" yaml:"errors"`
}

// NewReport summarizes e for the templates under root.
func NewReport(root string, e *Epoch) *Report {
	rep := &Report{
		Root:        root,
		Generation:  e.Generation,
		ValidatedAt: e.ValidatedAt,
		Templates:   e.Results,
		Errors:      e.Errors,
	}
	for _, res := range e.Results {
		if res.Valid {
			rep.Valid++
		} else {
			rep.Invalid++
		}
	}
	return rep
}

// WriteReport writes rep as indented JSON, creating parent directories.
func WriteReport(path string, rep *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &rep, nil
}
