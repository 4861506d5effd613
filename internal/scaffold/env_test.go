package scaffold

import (
	"testing"

	"github.com/stackup-dev/stackup/internal/manifest"
)

func TestMergeEnvVars(t *testing.T) {
	a := &manifest.TemplateManifest{Config: manifest.Config{EnvVars: []manifest.EnvVarDecl{
		{Name: "DATABASE_URL"},
		{Name: "PORT", Description: "listen port"},
	}}}
	b := &manifest.TemplateManifest{Config: manifest.Config{EnvVars: []manifest.EnvVarDecl{
		{Name: "DATABASE_URL", Description: "Postgres DSN", Required: true},
		{Name: "PORT", Description: "other"},
		{Name: "REDIS_URL"},
	}}}

	got := mergeEnvVars([]*manifest.TemplateManifest{a, b})
	want := []manifest.EnvVarDecl{
		{Name: "DATABASE_URL", Description: "Postgres DSN", Required: true},
		{Name: "PORT", Description: "listen port"},
		{Name: "REDIS_URL"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if vars := mergeEnvVars(nil); len(vars) != 0 {
		t.Errorf("mergeEnvVars(nil) = %v", vars)
	}
}

func TestRenderEnvExample(t *testing.T) {
	got := string(renderEnvExample([]manifest.EnvVarDecl{
		{Name: "API_KEY", Description: "Service key", Required: true},
		{Name: "SECRET", Required: true},
		{Name: "NOTES", Description: "line one\nline two"},
		{Name: "PLAIN"},
	}))
	want := "# Service key (required)\nAPI_KEY=\n" +
		"SECRET=\n" +
		"# line one\n# line two\nNOTES=\n" +
		"PLAIN=\n"
	if got != want {
		t.Errorf("renderEnvExample =\n%s\nwant\n%s", got, want)
	}
}
