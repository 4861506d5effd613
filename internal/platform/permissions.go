package platform

import (
	"os"
	"runtime"
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// FileMode returns the mode a copied file should get: 0755 when src has any
// executable bit set, 0644 otherwise.
func FileMode(src os.FileMode) os.FileMode {
	if src.Perm()&0o111 != 0 {
		return 0o755
	}
	return 0o644
}
