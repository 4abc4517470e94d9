// Package storage owns the physical half of a logical file: the on-disk
// object under the per-user namespace. No other component writes below the
// storage root.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/filex"
	"github.com/google/uuid"
)

// Local stores objects under root/<username>/<filename>. The root is an
// explicit construction parameter, never package state, so tests can point
// the store at a temporary directory.
type Local struct {
	root string
}

func NewLocal(root string) *Local {
	return &Local{root: root}
}

// Resolve maps (username, filename) to the object's path. The mapping is
// deterministic and injective for validator-approved inputs and stable
// across restarts. Resolve performs no traversal protection: callers must
// run filex.ValidFilename first.
func (l *Local) Resolve(username, filename string) string {
	return filepath.Join(l.root, username, filename)
}

func (l *Local) userDir(username string) string {
	return filepath.Join(l.root, username)
}

// Write stores data at the resolved path. The user's namespace directory is
// created lazily on first use. Bytes go to a uniquely named temp file in
// the same directory first and are renamed into place, so a failed write
// never leaves a partial object at the final path.
func (l *Local) Write(username, filename string, data []byte) error {
	dir := l.userDir(username)
	if err := filex.EnsureDir(dir); err != nil {
		return err
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filename, uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o660)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", filename, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync %s: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", filename, err)
	}

	if err := os.Rename(tmp, l.Resolve(username, filename)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", filename, err)
	}
	return nil
}

// Read returns the full content of the stored object, or
// common.ErrNotFound when it does not exist. The read is
// open-read-to-end-close, so presence is only ever judged on a complete
// read.
func (l *Local) Read(username, filename string) ([]byte, error) {
	data, err := os.ReadFile(l.Resolve(username, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return data, nil
}

// Remove deletes the stored object. Removing an absent object returns
// common.ErrNotFound.
func (l *Local) Remove(username, filename string) error {
	err := os.Remove(l.Resolve(username, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrNotFound
		}
		return fmt.Errorf("remove %s: %w", filename, err)
	}
	return nil
}

// Exists reports whether the stored object is present.
func (l *Local) Exists(username, filename string) bool {
	info, err := os.Stat(l.Resolve(username, filename))
	return err == nil && !info.IsDir()
}

// Stat returns the object's size and modification time. Objects are never
// rewritten in place, so the modification time equals the creation time.
func (l *Local) Stat(username, filename string) (int64, time.Time, error) {
	info, err := os.Stat(l.Resolve(username, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, time.Time{}, common.ErrNotFound
		}
		return 0, time.Time{}, fmt.Errorf("stat %s: %w", filename, err)
	}
	return info.Size(), info.ModTime(), nil
}

// ListNames returns the names of all objects currently stored in the
// user's namespace. A user whose namespace was never created yields an
// empty slice. Temp files from in-flight writes are excluded.
func (l *Local) ListNames(username string) ([]string, error) {
	entries, err := os.ReadDir(l.userDir(username))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", username, err)
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if len(name) > 0 && name[0] == '.' && filepath.Ext(name) == ".tmp" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
