// Package cleanup records filesystem paths created during an operation so a
// failed operation can be rolled back. Files are removed before
// directories and deeper paths before shallower ones.
package cleanup

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stackup-dev/stackup/internal/logging"
)

// Kind distinguishes tracked files from tracked directories.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Entry is one tracked path.
type Entry struct {
	Path      string
	Kind      Kind
	TrackedAt time.Time
}

// Report describes what a Cleanup call did.
type Report struct {
	Removed []string
	Skipped []string // tracked paths that no longer existed
	Failed  map[string]error
}

// Tracker records created paths. A Tracker belongs to a single operation;
// it is safe for concurrent use but must not be shared between operations.
type Tracker struct {
	mu       sync.Mutex
	entries  map[string]Entry
	disabled bool
	logger   *slog.Logger
	now      func() time.Time
}

// NewTracker returns an empty, enabled tracker. A nil logger discards output.
func NewTracker(logger *slog.Logger) *Tracker {
	return &Tracker{
		entries: make(map[string]Entry),
		logger:  logging.OrDiscard(logger),
		now:     time.Now,
	}
}

// Track registers path as created by the current operation. Tracking an
// already tracked path keeps the original entry. Tracking after Disable is
// a no-op.
func (t *Tracker) Track(path string, kind Kind) {
	clean := filepath.Clean(path)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.disabled {
		return
	}
	if _, ok := t.entries[clean]; ok {
		return
	}
	t.entries[clean] = Entry{Path: clean, Kind: kind, TrackedAt: t.now()}
	t.logger.Debug("tracked path", "path", clean, "kind", string(kind))
}

// TrackFile registers a created file.
func (t *Tracker) TrackFile(path string) { t.Track(path, KindFile) }

// TrackDir registers a created directory.
func (t *Tracker) TrackDir(path string) { t.Track(path, KindDirectory) }

// Untrack stops tracking path without touching the filesystem.
func (t *Tracker) Untrack(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, filepath.Clean(path))
}

// Disable stops all future tracking and clears the current entries, so a
// later Cleanup removes nothing. Used once an operation has succeeded.
func (t *Tracker) Disable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disabled = true
	t.entries = make(map[string]Entry)
}

// Disabled reports whether Disable has been called.
func (t *Tracker) Disabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disabled
}

// Entries returns the tracked entries in removal order.
func (t *Tracker) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ordered()
}

// Len returns the number of tracked paths.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// ordered sorts entries for removal: every file before any directory, and
// within each kind deeper paths before shallower ones. Must hold t.mu.
func (t *Tracker) ordered() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Kind != b.Kind {
			return a.Kind == KindFile
		}
		if da, db := depth(a.Path), depth(b.Path); da != db {
			return da > db
		}
		return a.Path > b.Path
	})
	return out
}

func depth(path string) int {
	return strings.Count(filepath.ToSlash(path), "/")
}

// Cleanup removes every tracked path that still exists and empties the
// tracker. Missing paths are skipped and reported. Removal continues past
// failures; the returned error joins them.
func (t *Tracker) Cleanup() (*Report, error) {
	t.mu.Lock()
	entries := t.ordered()
	t.entries = make(map[string]Entry)
	t.mu.Unlock()

	report := &Report{Failed: make(map[string]error)}
	var errs []error

	for _, e := range entries {
		info, err := os.Lstat(e.Path)
		if errors.Is(err, fs.ErrNotExist) {
			report.Skipped = append(report.Skipped, e.Path)
			t.logger.Warn("rollback skipped missing path", "path", e.Path)
			continue
		}
		if err != nil {
			report.Failed[e.Path] = err
			errs = append(errs, fmt.Errorf("inspecting %s: %w", e.Path, err))
			continue
		}

		if info.IsDir() {
			// Files inside were removed first; anything left was written
			// into our directory without being tracked.
			err = os.RemoveAll(e.Path)
		} else {
			err = os.Remove(e.Path)
		}
		if err != nil {
			report.Failed[e.Path] = err
			errs = append(errs, fmt.Errorf("removing %s: %w", e.Path, err))
			t.logger.Error("rollback failed to remove path", "path", e.Path, "error", err)
			continue
		}
		report.Removed = append(report.Removed, e.Path)
		t.logger.Debug("rolled back path", "path", e.Path, "kind", string(e.Kind))
	}

	return report, errors.Join(errs...)
}

// WithCleanup runs op with tracker. On success the tracker is disabled and
// nothing is removed. On failure every tracked path is rolled back first,
// then op's error is returned unchanged.
func WithCleanup(tracker *Tracker, op func(*Tracker) error) error {
	err := op(tracker)
	if err == nil {
		tracker.Disable()
		return nil
	}

	report, cleanupErr := tracker.Cleanup()
	tracker.logger.Info("rolled back failed operation",
		"removed", len(report.Removed),
		"skipped", len(report.Skipped),
		"failed", len(report.Failed),
		"cause", err,
	)
	if cleanupErr != nil {
		tracker.logger.Error("rollback incomplete", "error", cleanupErr)
	}
	return err
}
