package registry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/stackup-dev/stackup/internal/branding"
	"github.com/stackup-dev/stackup/internal/logging"
)

const (
	// DefaultProbeTimeout bounds each package existence check.
	DefaultProbeTimeout = 10 * time.Second
	// DefaultProbeConcurrency bounds in-flight probes per manifest.
	DefaultProbeConcurrency = 8
)

// Registry discovers and validates the templates under one root.
type Registry struct {
	root         string
	manifestFile string
	prober       Prober
	probeTimeout time.Duration
	concurrency  int
	offline      bool
	logger       *slog.Logger
	now          func() time.Time

	// mu guards epoch and generation. Building an epoch holds the write
	// lock, so readers either see the previous state or the complete new
	// epoch.
	mu         sync.RWMutex
	epoch      *Epoch
	generation uint64
}

// Option configures a Registry.
type Option func(*Registry)

// WithProber sets the package existence prober.
func WithProber(p Prober) Option {
	return func(r *Registry) { r.prober = p }
}

// WithRegistryURL probes the registry at baseURL over HTTP.
func WithRegistryURL(baseURL string, client *http.Client) Option {
	return func(r *Registry) { r.prober = NewHTTPProber(baseURL, client) }
}

// WithProbeTimeout sets the per-probe timeout. A probe that times out is
// reported as "not found".
func WithProbeTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.probeTimeout = d
		}
	}
}

// WithConcurrency bounds the number of in-flight probes per manifest.
func WithConcurrency(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithOffline skips the package phase entirely.
func WithOffline(offline bool) Option {
	return func(r *Registry) { r.offline = offline }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logging.OrDiscard(logger) }
}

// WithManifestFile overrides the per-template manifest file name.
func WithManifestFile(name string) Option {
	return func(r *Registry) { r.manifestFile = name }
}

// New creates a Registry for the templates under root.
func New(root string, opts ...Option) *Registry {
	r := &Registry{
		root:         root,
		manifestFile: branding.ManifestFile(),
		prober:       NewHTTPProber(branding.RegistryURL(), nil),
		probeTimeout: DefaultProbeTimeout,
		concurrency:  DefaultProbeConcurrency,
		logger:       logging.Discard(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the template root directory.
func (r *Registry) Root() string {
	return r.root
}

// Cached returns the current epoch without computing one, or nil.
func (r *Registry) Cached() *Epoch {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.epoch
}

// ValidateAll discovers every template (hidden ones included) and validates
// each manifest. The epoch is memoized: later calls return the same *Epoch
// without discovering or validating again until InvalidateCache.
func (r *Registry) ValidateAll(ctx context.Context) (*Epoch, error) {
	r.mu.RLock()
	e := r.epoch
	r.mu.RUnlock()
	if e != nil {
		return e, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != nil {
		return r.epoch, nil
	}

	e, err := r.build(ctx)
	if err != nil {
		return nil, err
	}
	r.epoch = e
	return e, nil
}

// InvalidateCache drops the memoized epoch. It waits for an in-progress
// build to finish, so no reader observes a partially invalidated cache.
func (r *Registry) InvalidateCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epoch = nil
	r.logger.Debug("validation cache invalidated", "generation", r.generation)
}

// build runs one discovery and validation pass. Must hold r.mu for writing.
func (r *Registry) build(ctx context.Context) (*Epoch, error) {
	manifests, err := r.Discover(true)
	if err != nil {
		return nil, err
	}

	r.generation++
	e := &Epoch{
		Manifests:   manifests,
		Results:     make([]*ValidationResult, 0, len(manifests)),
		Errors:      []TemplateError{},
		Generation:  r.generation,
		ValidatedAt: r.now(),
	}

	for _, m := range manifests {
		res := r.ValidateManifest(ctx, m)
		e.Results = append(e.Results, res)
		for _, ve := range res.Errors {
			e.Errors = append(e.Errors, TemplateError{Template: res.ID(), ValidationError: ve})
		}
	}

	// A cancelled pass would cache probe failures caused by the caller.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("validating templates: %w", err)
	}

	r.logger.Info("validated templates",
		"root", r.root,
		"templates", len(manifests),
		"errors", len(e.Errors),
		"generation", e.Generation,
	)
	return e, nil
}

// ListTemplates returns the cached templates filtered by opts, computing
// the epoch first if the cache is empty.
func (r *Registry) ListTemplates(ctx context.Context, opts ListOptions) ([]Template, error) {
	e, err := r.ValidateAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []Template
	for i, m := range e.Manifests {
		res := e.Results[i]
		if !opts.ShowHidden && m.DecodeErr == nil && !m.Config.IsVisible() {
			continue
		}
		if opts.OnlyValid && !res.Valid {
			continue
		}
		out = append(out, Template{Manifest: m, Result: res})
	}
	return out, nil
}

// Template looks up one template by its "<sdk>/<template>" selector,
// hidden templates included.
func (r *Registry) Template(ctx context.Context, id string) (Template, error) {
	e, err := r.ValidateAll(ctx)
	if err != nil {
		return Template{}, err
	}
	for i, m := range e.Manifests {
		if m.ID() == id {
			return Template{Manifest: m, Result: e.Results[i]}, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
}
