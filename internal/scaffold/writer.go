package scaffold

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/stackup-dev/stackup/internal/cleanup"
	"github.com/stackup-dev/stackup/internal/platform"
)

// Writer performs the filesystem mutations of a scaffold run.
type Writer interface {
	// WriteFile writes content to path with the given permissions. The
	// parent directory already exists.
	WriteFile(path string, content []byte, mode os.FileMode) error

	// CreateDir creates a directory and any missing parents.
	CreateDir(path string) error
}

// FileWriter writes to the local filesystem. Files are written to a
// temporary sibling and renamed into place.
type FileWriter struct{}

// NewFileWriter returns the default Writer.
func NewFileWriter() Writer {
	return FileWriter{}
}

func (FileWriter) WriteFile(path string, content []byte, mode os.FileMode) error {
	tmp := path + ".stackup-tmp"
	if err := os.WriteFile(tmp, content, mode); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// WriteFile is subject to the umask; executable bits must survive.
	return platform.Chmod(path, mode)
}

func (FileWriter) CreateDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// trackedWriter registers every path it is about to create with the
// tracker before creating it, so a partial write is rolled back too.
type trackedWriter struct {
	w       Writer
	tracker *cleanup.Tracker
	created map[string]bool
}

func newTrackedWriter(w Writer, tracker *cleanup.Tracker) *trackedWriter {
	return &trackedWriter{w: w, tracker: tracker, created: make(map[string]bool)}
}

// mkdirAll creates dir and tracks each directory that did not exist.
func (tw *trackedWriter) mkdirAll(dir string) error {
	missing, err := missingDirs(dir)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}
	for _, d := range missing {
		tw.tracker.TrackDir(d)
		tw.created[d] = true
	}
	return tw.w.CreateDir(dir)
}

// writeFile writes path, creating parents as needed. A file that existed
// before this run is left untouched and reported with written == false.
func (tw *trackedWriter) writeFile(path string, content []byte, mode os.FileMode) (written bool, err error) {
	path = filepath.Clean(path)
	if !tw.created[path] {
		if _, err := os.Lstat(path); err == nil {
			return false, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return false, err
		}
	}
	if err := tw.mkdirAll(filepath.Dir(path)); err != nil {
		return false, err
	}
	tw.tracker.TrackFile(path)
	tw.created[path] = true
	if err := tw.w.WriteFile(path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}

// missingDirs returns dir and each of its ancestors that do not exist,
// outermost first.
func missingDirs(dir string) ([]string, error) {
	dir = filepath.Clean(dir)
	var missing []string
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return nil, &fs.PathError{Op: "mkdir", Path: dir, Err: ErrTargetNotDir}
			}
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		missing = append(missing, dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	for i, j := 0, len(missing)-1; i < j; i, j = i+1, j-1 {
		missing[i], missing[j] = missing[j], missing[i]
	}
	return missing, nil
}
