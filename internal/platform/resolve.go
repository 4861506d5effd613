package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrOutsideRoot reports a path that leaves its root once symlinks are
// followed.
var ErrOutsideRoot = errors.New("path resolves outside its root")

// ResolveIn joins rel onto root and follows symlinks in the longest part
// of the result that exists. Components past that part are appended
// unresolved, so rel may name something not created yet. It fails with
// ErrOutsideRoot when the resolved path is not root or below it.
func ResolveIn(root, rel string) (string, error) {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", err
	}

	existing := filepath.Join(realRoot, rel)
	var rest string
	for {
		_, err := os.Lstat(existing)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		rest = filepath.Join(filepath.Base(existing), rest)
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", err
	}
	if !within(realRoot, resolved) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}
	return filepath.Join(resolved, rest), nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && filepath.IsLocal(rel)
}
