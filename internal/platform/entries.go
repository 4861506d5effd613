package platform

import (
	"bytes"
	"os"
	"strings"
)

// sniffLen is how much of a file IsBinary inspects.
const sniffLen = 8 << 10

// IsHidden reports whether a directory entry name is hidden (dot-prefixed).
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// VisibleEntries returns the names of the non-hidden entries of dir.
func VisibleEntries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !IsHidden(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// IsBinary reports whether data looks like binary content: a NUL byte
// within the first 8 KiB.
func IsBinary(data []byte) bool {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}
