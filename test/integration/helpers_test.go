//go:build integration

package integration_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeNPM serves 200 for known package names and 404 for everything else.
func fakeNPM(t *testing.T, known ...string) *httptest.Server {
	t.Helper()
	set := make(map[string]bool)
	for _, k := range known {
		set["/"+strings.ReplaceAll(k, "/", "%2F")] = true
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if set[r.URL.EscapedPath()] {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// setupTemplates creates a template root with three composable templates.
func setupTemplates(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeManifest(t, root, "node/express", `{
  "name": "Express",
  "description": "Express HTTP server",
  "packages": [
    {"name": "express", "version": "^4.19.0"},
    {"name": "lodash", "version": "^4.17.0"}
  ],
  "devPackages": [{"name": "@types/express", "version": "^4.17.21"}],
  "envVars": [{"name": "PORT", "description": "HTTP listen port", "required": true}],
  "files": {"files/server.ts": "src/server.ts"},
  "tags": ["http"]
}`)
	writeFile(t, filepath.Join(root, "node/express/files/server.ts"), "// {{projectTitle}} server\n")

	writeManifest(t, root, "node/legacy-utils", `{
  "name": "Legacy utils",
  "description": "Helpers pinned to lodash 3",
  "packages": [{"name": "lodash", "version": "^3.10.0"}],
  "files": {"files/utils.ts": "src/utils.ts"}
}`)
	writeFile(t, filepath.Join(root, "node/legacy-utils/files/utils.ts"), "export const name = '{{projectName}}';\n")

	writeManifest(t, root, "node/vitest", `{
  "name": "Vitest",
  "description": "Unit tests",
  "devPackages": [{"name": "vitest", "version": "^1.6.0"}],
  "envVars": [{"name": "PORT", "description": "test port"}],
  "visible": false
}`)
	return root
}

func writeManifest(t *testing.T, root, id, body string) {
	t.Helper()
	writeFile(t, filepath.Join(root, id, "template.json"), body)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("%s does not contain %q:\n%s", path, substr, data)
	}
}
