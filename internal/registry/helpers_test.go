package registry

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

// fakeProber answers from a fixed set and counts calls.
type fakeProber struct {
	known map[string]bool
	calls atomic.Int64

	mu     sync.Mutex
	probed []string
}

func newFakeProber(known ...string) *fakeProber {
	p := &fakeProber{known: make(map[string]bool)}
	for _, k := range known {
		p.known[k] = true
	}
	return p
}

func (p *fakeProber) Exists(_ context.Context, name string) (bool, error) {
	p.calls.Add(1)
	p.mu.Lock()
	p.probed = append(p.probed, name)
	p.mu.Unlock()
	return p.known[name], nil
}

// writeTemplate creates <root>/<sdk>/<name>/template.json from cfg and the
// given template files (path relative to the template dir -> content).
func writeTemplate(t *testing.T, root, sdk, name string, cfg map[string]any, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, sdk, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "template.json"), data, 0o644); err != nil {
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
	return dir
}

func pkg(name, version string) map[string]any {
	return map[string]any{"name": name, "version": version}
}

// sampleTree builds a template root with two valid templates, one hidden
// template and one template whose file mapping is broken.
func sampleTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeTemplate(t, root, "node", "express", map[string]any{
		"name":        "Express",
		"description": "Express server",
		"packages":    []any{pkg("express", "^4.19.0"), pkg("lodash", "^4.17.0")},
		"envVars":     []any{map[string]any{"name": "PORT", "required": true}},
		"files":       map[string]string{"files/server.ts": "src/server.ts"},
	}, map[string]string{"files/server.ts": "export {}\n"})

	writeTemplate(t, root, "node", "vitest", map[string]any{
		"name":        "Vitest",
		"description": "Unit tests",
		"devPackages": []any{pkg("vitest", "^1.0.0")},
	}, nil)

	writeTemplate(t, root, "node", "internal-base", map[string]any{
		"name":        "Base",
		"description": "Hidden base template",
		"visible":     false,
		"packages":    []any{pkg("lodash", "^4.17.21")},
	}, nil)

	writeTemplate(t, root, "python", "broken", map[string]any{
		"name":        "Broken",
		"description": "Missing source file",
		"files":       map[string]string{"files/missing.py": "app/main.py"},
	}, nil)

	return root
}
