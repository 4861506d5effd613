package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestOpenDefaults(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s, err := store.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}

	if s.RegistryURL != "https://registry.npmjs.org" {
		t.Errorf("RegistryURL = %q", s.RegistryURL)
	}
	if s.RegistryTimeout != 10*time.Second {
		t.Errorf("RegistryTimeout = %v, want 10s", s.RegistryTimeout)
	}
	if s.RegistryConcurrency != 8 {
		t.Errorf("RegistryConcurrency = %d, want 8", s.RegistryConcurrency)
	}
	if s.MergeStrategy != "highest" {
		t.Errorf("MergeStrategy = %q, want highest", s.MergeStrategy)
	}
	if s.Language != "typescript" {
		t.Errorf("Language = %q, want typescript", s.Language)
	}
}

func TestOpenReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "merge:\n  strategy: strict\nregistry:\n  timeout: 2s\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s, err := store.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if s.MergeStrategy != "strict" {
		t.Errorf("MergeStrategy = %q, want strict", s.MergeStrategy)
	}
	if s.RegistryTimeout != 2*time.Second {
		t.Errorf("RegistryTimeout = %v, want 2s", s.RegistryTimeout)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("STACKUP_SCAFFOLD_PACKAGE_MANAGER", "pnpm")

	store, err := Open(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s, err := store.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if s.PackageManager != "pnpm" {
		t.Errorf("PackageManager = %q, want pnpm", s.PackageManager)
	}
}

func TestSetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Set(KeyMergeStrategy, "first-selected"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := reopened.Get(KeyMergeStrategy); got != "first-selected" {
		t.Errorf("Get(%s) = %q, want first-selected", KeyMergeStrategy, got)
	}
}

func TestSetUnknownKey(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Set("nope", "x"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestInvalidConcurrency(t *testing.T) {
	t.Setenv("STACKUP_REGISTRY_CONCURRENCY", "0")
	store, err := Open(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Settings(); err == nil {
		t.Fatal("expected error for zero concurrency")
	}
}

func TestBindFlag(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("strategy", "", "")
	if err := store.BindFlag(KeyMergeStrategy, fs.Lookup("strategy")); err != nil {
		t.Fatal(err)
	}

	// Unset flags fall through to the default.
	if got := store.Get(KeyMergeStrategy); got != "highest" {
		t.Errorf("before parse = %q, want highest", got)
	}
	if err := fs.Parse([]string{"--strategy", "strict"}); err != nil {
		t.Fatal(err)
	}
	if got := store.Get(KeyMergeStrategy); got != "strict" {
		t.Errorf("after parse = %q, want strict", got)
	}

	if err := store.BindFlag(KeyLanguage, fs.Lookup("missing")); err == nil {
		t.Error("expected error for undefined flag")
	}
}
