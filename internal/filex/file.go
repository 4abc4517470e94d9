// Package filex contains filesystem and filename helpers.
package filex

import (
	"fmt"
	"os"
	"strings"
)

// ValidFilename reports whether name is safe to use as a plain file name.
// Empty or whitespace-only names are rejected, as is any name containing a
// forward or backward slash, which blocks path traversal and absolute-path
// injection. Callers must refuse the operation when this returns false:
// the storage path resolver performs no traversal protection of its own.
func ValidFilename(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return true
}

// EnsureDir creates dir (and any missing parents) if it does not exist yet.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
