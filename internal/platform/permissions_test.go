package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestChmod(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "run.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Chmod(path, 0o755); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0o755 {
			t.Errorf("permissions = %o, want %o", perm, 0o755)
		}
	}
}

func TestFileMode(t *testing.T) {
	tests := []struct {
		in, want os.FileMode
	}{
		{0o644, 0o644},
		{0o600, 0o644},
		{0o755, 0o755},
		{0o700, 0o755},
		{0o640 | 0o010, 0o755},
	}
	for _, tt := range tests {
		if got := FileMode(tt.in); got != tt.want {
			t.Errorf("FileMode(%o) = %o, want %o", tt.in, got, tt.want)
		}
	}
}
