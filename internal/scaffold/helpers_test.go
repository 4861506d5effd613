package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stackup-dev/stackup/internal/manifest"
)

// newTemplate writes files under <root>/<sdk>/<name> and returns a manifest
// for them, as discovery would.
func newTemplate(t *testing.T, root, id string, cfg manifest.Config, files map[string]string) *manifest.TemplateManifest {
	t.Helper()
	sdk, name, _ := strings.Cut(id, "/")
	dir := filepath.Join(root, sdk, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if cfg.Name == "" {
		cfg.Name = name
	}
	return &manifest.TemplateManifest{
		SDK:          sdk,
		TemplateName: name,
		RootPath:     dir,
		ManifestPath: filepath.Join(dir, "template.json"),
		Config:       cfg,
	}
}

// failingWriter fails every write whose path ends in failOn.
type failingWriter struct {
	Writer
	failOn string
	err    error
}

func (w failingWriter) WriteFile(path string, content []byte, mode os.FileMode) error {
	if strings.HasSuffix(filepath.ToSlash(path), w.failOn) {
		return w.err
	}
	return w.Writer.WriteFile(path, content, mode)
}

// fakeInstaller records the directory it was asked to install in.
type fakeInstaller struct {
	dir     string
	warning string
	err     error
}

func (f *fakeInstaller) Install(_ context.Context, dir string) (string, error) {
	f.dir = dir
	return f.warning, f.err
}

// listTree returns every path under dir, relative and slash-separated.
func listTree(t *testing.T, dir string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(dir, func(p string, _ os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == dir {
			return nil
		}
		rel, _ := filepath.Rel(dir, p)
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(out)
	return out
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertNotExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Errorf("%s should not exist (err = %v)", path, err)
	}
}
