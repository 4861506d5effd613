package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/stackup-dev/stackup/internal/manifest"
	"github.com/stackup-dev/stackup/internal/platform"
)

// ValidateManifest runs the schema, file and package checks on m. The
// phases are independent and every error is accumulated. It does not
// consult or populate the cache.
func (r *Registry) ValidateManifest(ctx context.Context, m *manifest.TemplateManifest) *ValidationResult {
	res := &ValidationResult{
		SDK:          m.SDK,
		TemplateName: m.TemplateName,
		RootPath:     m.RootPath,
		Errors:       []ValidationError{},
	}

	res.Errors = append(res.Errors, r.checkSchema(m)...)
	res.Errors = append(res.Errors, checkFiles(m)...)
	res.Errors = append(res.Errors, r.checkPackages(ctx, m)...)

	res.Valid = len(res.Errors) == 0
	if !res.Valid {
		r.logger.Debug("manifest invalid", "template", m.ID(), "errors", len(res.Errors))
	}
	return res
}

func (r *Registry) checkSchema(m *manifest.TemplateManifest) []ValidationError {
	data := m.Raw
	if data == nil {
		encoded, err := json.Marshal(m.Config)
		if err != nil {
			return []ValidationError{{Type: ErrorSchema, Message: fmt.Sprintf("encoding manifest: %v", err)}}
		}
		data = encoded
	}

	issues, err := manifest.Validate(data)
	if err != nil {
		return []ValidationError{{Type: ErrorSchema, Message: err.Error()}}
	}

	var errs []ValidationError
	for _, issue := range issues {
		errs = append(errs, ValidationError{Type: ErrorSchema, Message: issue.String()})
	}
	if len(errs) == 0 && m.DecodeErr != nil {
		errs = append(errs, ValidationError{Type: ErrorSchema, Message: m.DecodeErr.Error()})
	}
	return errs
}

// checkFiles verifies every files entry maps an existing source file under
// the template root to a destination inside the project. Sources reached
// through a symlink must still resolve inside the template root.
func checkFiles(m *manifest.TemplateManifest) []ValidationError {
	var errs []ValidationError
	for _, src := range m.Config.SourceFiles() {
		dest := m.Config.Files[src]

		if !filepath.IsLocal(filepath.FromSlash(dest)) {
			errs = append(errs, ValidationError{
				Type:    ErrorFile,
				Message: fmt.Sprintf("destination %q for %q must be a relative path inside the project", dest, src),
			})
		}
		if !filepath.IsLocal(filepath.FromSlash(src)) {
			errs = append(errs, ValidationError{
				Type:    ErrorFile,
				Message: fmt.Sprintf("source %q must be a relative path inside the template", src),
			})
			continue
		}

		path, err := platform.ResolveIn(m.RootPath, filepath.FromSlash(src))
		if errors.Is(err, platform.ErrOutsideRoot) {
			errs = append(errs, ValidationError{
				Type:    ErrorFile,
				Message: fmt.Sprintf("source %q (-> %q) links outside the template directory", src, dest),
			})
			continue
		}
		var info os.FileInfo
		if err == nil {
			info, err = os.Stat(path)
		}
		switch {
		case err != nil:
			errs = append(errs, ValidationError{
				Type:    ErrorFile,
				Message: fmt.Sprintf("source file %q (-> %q) does not exist", src, dest),
			})
		case !info.Mode().IsRegular():
			errs = append(errs, ValidationError{
				Type:    ErrorFile,
				Message: fmt.Sprintf("source %q (-> %q) is not a regular file", src, dest),
			})
		}
	}
	return errs
}

type probeOutcome struct {
	exists bool
	err    error
}

// checkPackages probes every distinct declared package name concurrently,
// bounded by r.concurrency, and returns only after every probe finished.
//
// Policy: each probe gets its own r.probeTimeout deadline. A probe that
// times out, fails in transport or gets a non-200 answer is reported as a
// package error, the same as a package that does not exist. A registry
// outage therefore marks templates invalid; this is deliberate until the
// two causes are reported separately.
func (r *Registry) checkPackages(ctx context.Context, m *manifest.TemplateManifest) []ValidationError {
	if r.offline || r.prober == nil || m.DecodeErr != nil {
		return nil
	}
	names := m.Config.PackageNames()
	if len(names) == 0 {
		return nil
	}

	outcomes := make([]probeOutcome, len(names))
	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			probeCtx, cancel := context.WithTimeout(ctx, r.probeTimeout)
			defer cancel()

			exists, err := r.prober.Exists(probeCtx, name)
			if err == nil && probeCtx.Err() != nil {
				err = probeCtx.Err()
			}
			outcomes[i] = probeOutcome{exists: exists, err: err}
			r.logger.Debug("package probe", "template", m.ID(), "package", name, "exists", exists, "error", err)
		}(i, name)
	}
	wg.Wait()

	var errs []ValidationError
	for i, name := range names {
		o := outcomes[i]
		switch {
		case errors.Is(o.err, context.DeadlineExceeded):
			errs = append(errs, ValidationError{
				Type:    ErrorPackage,
				Message: fmt.Sprintf("package %q: registry probe timed out after %s (treated as not found)", name, r.probeTimeout),
			})
		case o.err != nil:
			errs = append(errs, ValidationError{
				Type:    ErrorPackage,
				Message: fmt.Sprintf("package %q could not be verified (treated as not found): %v", name, o.err),
			})
		case !o.exists:
			errs = append(errs, ValidationError{
				Type:    ErrorPackage,
				Message: fmt.Sprintf("package %q not found in registry", name),
			})
		}
	}
	return errs
}
