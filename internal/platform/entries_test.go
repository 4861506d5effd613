package platform

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsHidden(t *testing.T) {
	tests := map[string]bool{
		".git":      true,
		".DS_Store": true,
		"src":       false,
		"a.hidden":  false,
	}
	for name, want := range tests {
		if got := IsHidden(name); got != want {
			t.Errorf("IsHidden(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestVisibleEntries(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{".git", ".env", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := VisibleEntries(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(names, ","); got != "README.md,src" {
		t.Errorf("VisibleEntries = %s", got)
	}

	if _, err := VisibleEntries(filepath.Join(dir, "missing")); !os.IsNotExist(err) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func TestIsBinary(t *testing.T) {
	if IsBinary([]byte("hello {{projectName}}\n")) {
		t.Error("text reported as binary")
	}
	if !IsBinary([]byte{0x89, 'P', 'N', 'G', 0x00, 0x01}) {
		t.Error("PNG header not reported as binary")
	}
	late := append(bytes.Repeat([]byte("a"), sniffLen), 0)
	if IsBinary(late) {
		t.Error("NUL past the sniff window should be ignored")
	}
}
