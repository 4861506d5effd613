package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/stackup-dev/stackup/internal/branding"
	"github.com/stackup-dev/stackup/internal/cleanup"
	"github.com/stackup-dev/stackup/internal/install"
	"github.com/stackup-dev/stackup/internal/logging"
	"github.com/stackup-dev/stackup/internal/manifest"
	"github.com/stackup-dev/stackup/internal/merge"
	"github.com/stackup-dev/stackup/internal/platform"
)

// Owners recorded for generated files in collisions.
const (
	ownerToolchain = "toolchain"
	ownerSkeleton  = "skeleton"
)

// Installer runs the package manager in a finished project. A non-empty
// warning means installation was skipped.
type Installer interface {
	Install(ctx context.Context, dir string) (warning string, err error)
}

// Orchestrator runs scaffold operations. It holds no per-run state and may
// be reused; every Scaffold call gets its own cleanup tracker.
type Orchestrator struct {
	writer    Writer
	installer func(install.PackageManager) Installer
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWriter replaces the filesystem writer.
func WithWriter(w Writer) Option {
	return func(o *Orchestrator) { o.writer = w }
}

// WithInstaller sets the installer used when Options.Install is set.
func WithInstaller(inst Installer) Option {
	return func(o *Orchestrator) {
		o.installer = func(install.PackageManager) Installer { return inst }
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logging.OrDiscard(logger) }
}

// New creates an Orchestrator that writes to the local filesystem and
// installs with install.Runner.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		writer: NewFileWriter(),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.installer == nil {
		logger := o.logger
		o.installer = func(pm install.PackageManager) Installer {
			return install.NewRunner(pm, logger)
		}
	}
	return o
}

// run is the state of one Scaffold call.
type run struct {
	o       *Orchestrator
	opts    Options
	root    string
	deps    *merge.DependencySet
	env     []manifest.EnvVarDecl
	vals    placeholders
	tw      *trackedWriter
	owners  map[string]string
	files   []string
	result  *Result
	logger  *slog.Logger
	existed bool
}

// Scaffold materializes opts.Templates into opts.ProjectPath.
//
// The target is validated and dependencies are merged before anything is
// written. Steps that write are tracked; if one fails, everything created
// so far is removed and the error is returned with its cause unchanged
// (wrapped in a *StepError). The install step runs after the project is
// complete; its failure is reported in Result.Errors and nothing is rolled
// back.
func (o *Orchestrator) Scaffold(ctx context.Context, opts Options) (*Result, error) {
	opts, err := normalize(opts)
	if err != nil {
		return nil, err
	}

	r := &run{
		o:      o,
		opts:   opts,
		root:   opts.ProjectPath,
		owners: make(map[string]string),
		logger: o.logger.With("project", opts.ProjectPath),
		result: &Result{
			ProjectPath:    opts.ProjectPath,
			GeneratedFiles: []string{},
			Errors:         []string{},
		},
	}
	fail := func(err error) (*Result, error) {
		r.result.Errors = append(r.result.Errors, err.Error())
		return r.result, err
	}

	r.logger.Info("validating target")
	existed, err := validateTarget(r.root)
	if err != nil {
		return fail(&StepError{Step: StepValidateTarget, Path: r.root, Err: err})
	}
	r.existed = existed

	r.logger.Info("merging dependencies", "templates", len(opts.Templates), "strategy", string(opts.Strategy))
	deps, err := merge.New(opts.Strategy, o.logger).Merge(opts.Templates)
	if err != nil {
		return fail(&StepError{Step: StepMerge, Err: err})
	}
	r.deps = deps
	r.result.Dependencies = deps
	r.env = mergeEnvVars(opts.Templates)
	r.vals = newPlaceholders(opts.ProjectName, opts.Language, string(opts.PackageManager))

	// Last point at which a caller can back out; materialization runs to
	// completion or rollback.
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	tracker := cleanup.NewTracker(o.logger)
	r.tw = newTrackedWriter(o.writer, tracker)
	if err := cleanup.WithCleanup(tracker, r.materialize); err != nil {
		r.result.GeneratedFiles = []string{}
		r.result.Collisions = nil
		r.result.Preserved = nil
		return fail(err)
	}

	r.result.Success = true
	r.result.TemplatesProcessed = len(opts.Templates)
	r.result.GeneratedFiles = r.files
	r.logger.Info("project scaffolded", "files", len(r.files), "collisions", len(r.result.Collisions))

	if opts.Install {
		warn, err := o.installer(opts.PackageManager).Install(ctx, r.root)
		if warn != "" {
			r.result.Warnings = append(r.result.Warnings, warn)
		}
		if err != nil {
			serr := &StepError{Step: StepInstall, Path: r.root, Err: err}
			r.logger.Warn("install failed", "error", err)
			r.result.Errors = append(r.result.Errors, serr.Error())
		}
	}
	return r.result, nil
}

// materialize runs the tracked steps in order.
func (r *run) materialize(*cleanup.Tracker) error {
	steps := []struct {
		step Step
		fn   func() error
	}{
		{StepCreateTarget, r.createTarget},
		{StepToolchain, r.writeToolchain},
		{StepSkeleton, r.writeSkeleton},
		{StepCopyFiles, r.copyTemplateFiles},
		{StepEnv, r.writeEnv},
		{StepSummary, r.writeSummary},
	}
	for _, s := range steps {
		r.logger.Debug("running step", "step", string(s.step))
		if err := s.fn(); err != nil {
			var serr *StepError
			if errors.As(err, &serr) {
				return err
			}
			return &StepError{Step: s.step, Err: err}
		}
	}
	return nil
}

func normalize(opts Options) (Options, error) {
	if opts.ProjectPath == "" {
		return opts, errors.New("project path is required")
	}
	abs, err := filepath.Abs(opts.ProjectPath)
	if err != nil {
		return opts, fmt.Errorf("resolving project path: %w", err)
	}
	opts.ProjectPath = abs
	if opts.ProjectName == "" {
		opts.ProjectName = filepath.Base(abs)
	}
	if opts.Strategy == "" {
		opts.Strategy = merge.Highest
	}
	if opts.Language == "" {
		opts.Language = TypeScript
	}
	if opts.PackageManager == "" {
		opts.PackageManager = install.NPM
	}
	return opts, nil
}

// validateTarget accepts a missing path or a directory with only hidden
// entries. It reports whether the directory already existed.
func validateTarget(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, ErrTargetNotDir
	}
	visible, err := platform.VisibleEntries(path)
	if err != nil {
		return false, err
	}
	if len(visible) > 0 {
		return true, fmt.Errorf("%w: found %s", ErrTargetNotEmpty, strings.Join(visible, ", "))
	}
	return true, nil
}

// createTarget creates the project directory. A directory that already
// existed is not tracked, so rollback never removes it.
func (r *run) createTarget() error {
	if r.existed {
		return nil
	}
	return r.tw.mkdirAll(r.root)
}

func (r *run) writeToolchain() error {
	pkg, err := renderPackageJSON(r.opts.ProjectName, r.opts.Language, r.opts.PackageManager, r.deps)
	if err != nil {
		return fmt.Errorf("rendering package.json: %w", err)
	}
	if err := r.write(packageJSONFile, pkg, 0o644, ownerToolchain); err != nil {
		return err
	}
	if r.opts.Language == TypeScript {
		tsconfig, err := renderTSConfig()
		if err != nil {
			return fmt.Errorf("rendering tsconfig.json: %w", err)
		}
		if err := r.write(tsconfigFile, tsconfig, 0o644, ownerToolchain); err != nil {
			return err
		}
	}
	return r.write(gitignoreFile, renderGitignore(r.opts.Language), 0o644, ownerToolchain)
}

func (r *run) writeSkeleton() error {
	data := skeletonData{placeholders: r.vals}
	for _, m := range r.opts.Templates {
		data.Templates = append(data.Templates, skeletonTemplate{ID: m.ID(), Description: m.Config.Description})
	}
	files, err := renderSkeleton(r.opts.Language, r.opts.PackageManager, data)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := r.write(f.Path, f.Content, 0o644, ownerSkeleton); err != nil {
			return err
		}
	}
	return nil
}

// copyTemplateFiles copies each template's files in selection order.
func (r *run) copyTemplateFiles() error {
	repl := r.vals.replacer()
	for _, m := range r.opts.Templates {
		for _, src := range m.Config.SourceFiles() {
			dest := m.Config.Files[src]
			if err := r.copyFile(m, src, dest, repl); err != nil {
				return &StepError{Step: StepCopyFiles, Path: m.ID() + ":" + src, Err: err}
			}
		}
		r.logger.Debug("copied template files", "template", m.ID(), "files", len(m.Config.Files))
	}
	return nil
}

func (r *run) copyFile(m *manifest.TemplateManifest, src, dest string, repl *strings.Replacer) error {
	srcRel := filepath.FromSlash(src)
	destRel := filepath.FromSlash(dest)
	if !filepath.IsLocal(srcRel) {
		return fmt.Errorf("%w: source %q", ErrPathEscape, src)
	}
	if !filepath.IsLocal(destRel) {
		return fmt.Errorf("%w: destination %q", ErrPathEscape, dest)
	}
	if isReserved(destRel) {
		return fmt.Errorf("%w: %q", ErrReservedDestination, dest)
	}

	srcPath, err := platform.ResolveIn(m.RootPath, srcRel)
	if err != nil {
		if errors.Is(err, platform.ErrOutsideRoot) {
			return fmt.Errorf("%w: source %q: %w", ErrPathEscape, src, err)
		}
		return err
	}
	info, err := os.Stat(srcPath)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("source %q is not a regular file", src)
	}
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	if !platform.IsBinary(content) {
		content = []byte(repl.Replace(string(content)))
	}
	return r.write(destRel, content, platform.FileMode(info.Mode()), m.ID())
}

func (r *run) writeEnv() error {
	if len(r.env) == 0 {
		return nil
	}
	return r.write(envExampleFile, renderEnvExample(r.env), 0o644, ownerToolchain)
}

func (r *run) writeSummary() error {
	s := &summary{
		Title:          r.vals.ProjectTitle,
		ProjectName:    r.opts.ProjectName,
		Language:       r.opts.Language,
		PackageManager: r.opts.PackageManager,
		Strategy:       r.opts.Strategy,
		Templates:      r.opts.Templates,
		Dependencies:   r.deps,
		EnvVars:        r.env,
		Collisions:     r.result.Collisions,
		Files:          append([]string(nil), r.files...),
	}
	return r.write(branding.SummaryFile(), []byte(renderSummary(s)), 0o644, ownerToolchain)
}

// write writes rel under the project root on behalf of owner and records
// the file and any collision.
func (r *run) write(rel string, content []byte, mode os.FileMode, owner string) error {
	key := filepath.ToSlash(filepath.Clean(rel))
	// Parents that already exist in the target may be symlinks.
	if _, err := platform.ResolveIn(r.root, filepath.Dir(rel)); err != nil {
		if errors.Is(err, platform.ErrOutsideRoot) {
			return fmt.Errorf("%w: destination %q: %w", ErrPathEscape, key, err)
		}
		return err
	}
	written, err := r.tw.writeFile(filepath.Join(r.root, rel), content, mode)
	if err != nil {
		return err
	}
	if !written {
		r.logger.Warn("kept existing file", "path", key)
		r.result.Preserved = append(r.result.Preserved, key)
		return nil
	}

	if prev, ok := r.owners[key]; ok {
		r.result.Collisions = append(r.result.Collisions, Collision{Destination: key, Previous: prev, Winner: owner})
		r.logger.Warn("file collision", "path", key, "previous", prev, "winner", owner)
	} else {
		r.files = append(r.files, key)
	}
	r.owners[key] = owner
	return nil
}

// isReserved reports whether rel is a file the orchestrator owns.
func isReserved(rel string) bool {
	key := strings.ToLower(filepath.ToSlash(filepath.Clean(rel)))
	for _, reserved := range []string{packageJSONFile, envExampleFile, branding.SummaryFile()} {
		if key == strings.ToLower(reserved) {
			return true
		}
	}
	return false
}
