package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stackup-dev/stackup/internal/cleanup"
)

func TestMissingDirs(t *testing.T) {
	base := t.TempDir()
	got, err := missingDirs(filepath.Join(base, "a", "b", "c"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(base, "a"),
		filepath.Join(base, "a", "b"),
		filepath.Join(base, "a", "b", "c"),
	}
	if !slices.Equal(got, want) {
		t.Errorf("missingDirs = %v, want %v", got, want)
	}

	if got, err := missingDirs(base); err != nil || len(got) != 0 {
		t.Errorf("existing dir: %v, %v", got, err)
	}

	file := filepath.Join(base, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := missingDirs(file); !errors.Is(err, ErrTargetNotDir) {
		t.Errorf("err = %v, want ErrTargetNotDir", err)
	}
	if _, err := missingDirs(filepath.Join(file, "sub")); err == nil {
		t.Error("expected error below a regular file")
	}
}

func TestTrackedWriterTracksCreatedPaths(t *testing.T) {
	base := t.TempDir()
	tracker := cleanup.NewTracker(nil)
	tw := newTrackedWriter(NewFileWriter(), tracker)

	path := filepath.Join(base, "x", "y", "file.txt")
	written, err := tw.writeFile(path, []byte("hi"), 0o644)
	if err != nil || !written {
		t.Fatalf("writeFile = %v, %v", written, err)
	}
	// Rewriting a file created in this run is allowed.
	if written, err := tw.writeFile(path, []byte("again"), 0o644); err != nil || !written {
		t.Fatalf("second writeFile = %v, %v", written, err)
	}
	if tracker.Len() != 3 {
		t.Errorf("tracked %d paths, want 3", tracker.Len())
	}

	if _, err := tracker.Cleanup(); err != nil {
		t.Fatal(err)
	}
	if got := listTree(t, base); len(got) != 0 {
		t.Errorf("left behind: %v", got)
	}
}

func TestTrackedWriterPreservesExistingFiles(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, ".env")
	if err := os.WriteFile(path, []byte("SECRET=1"), 0o600); err != nil {
		t.Fatal(err)
	}
	tracker := cleanup.NewTracker(nil)
	tw := newTrackedWriter(NewFileWriter(), tracker)

	written, err := tw.writeFile(path, []byte("overwrite"), 0o644)
	if err != nil || written {
		t.Fatalf("writeFile = %v, %v", written, err)
	}
	if tracker.Len() != 0 {
		t.Error("pre-existing file was tracked")
	}
	if readFile(t, path) != "SECRET=1" {
		t.Error("pre-existing file modified")
	}
}
