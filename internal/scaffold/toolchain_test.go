package scaffold

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stackup-dev/stackup/internal/install"
	"github.com/stackup-dev/stackup/internal/merge"
)

func TestRenderPackageJSON(t *testing.T) {
	deps := &merge.DependencySet{
		Dependencies:    map[string]string{"express": ">=4.0.0 <5.0.0", "typescript": "^5.0.0"},
		DevDependencies: map[string]string{"vitest": "^1.0.0"},
	}

	data, err := renderPackageJSON("svc", TypeScript, install.Yarn, deps)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `">=4.0.0 <5.0.0"`) {
		t.Errorf("version range escaped:\n%s", data)
	}

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		t.Fatal(err)
	}
	if pkg.Scripts["start"] != "yarn run build && node dist/index.js" {
		t.Errorf("start = %q", pkg.Scripts["start"])
	}
	// Declared by a template at runtime, so no toolchain default.
	if _, ok := pkg.DevDependencies["typescript"]; ok {
		t.Error("typescript added to devDependencies although declared as a dependency")
	}
	if pkg.DevDependencies["tsx"] == "" || pkg.DevDependencies["vitest"] != "^1.0.0" {
		t.Errorf("devDependencies = %v", pkg.DevDependencies)
	}
	// The merged set must not be modified.
	if len(deps.DevDependencies) != 1 {
		t.Errorf("input set modified: %v", deps.DevDependencies)
	}
}

func TestRenderPackageJSONJavaScript(t *testing.T) {
	data, err := renderPackageJSON("svc", JavaScript, install.NPM, &merge.DependencySet{})
	if err != nil {
		t.Fatal(err)
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		t.Fatal(err)
	}
	if len(pkg.DevDependencies) != 0 {
		t.Errorf("devDependencies = %v", pkg.DevDependencies)
	}
	if _, ok := pkg.Scripts["build"]; ok {
		t.Error("javascript projects have no build script")
	}
	if pkg.Dependencies == nil {
		t.Error("dependencies should be an empty object, not null")
	}
}

func TestRenderGitignore(t *testing.T) {
	if !strings.Contains(string(renderGitignore(TypeScript)), "dist/") {
		t.Error("typescript .gitignore should ignore dist/")
	}
	if strings.Contains(string(renderGitignore(JavaScript)), "dist/") {
		t.Error("javascript .gitignore should not ignore dist/")
	}
}

func TestParseLanguage(t *testing.T) {
	for in, want := range map[string]Language{"": TypeScript, "ts": TypeScript, "JavaScript": JavaScript, "js": JavaScript} {
		got, err := ParseLanguage(in)
		if err != nil || got != want {
			t.Errorf("ParseLanguage(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseLanguage("rust"); err == nil {
		t.Error("expected error")
	}
}
