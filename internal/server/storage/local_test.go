package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *Local {
	t.Helper()
	return NewLocal(t.TempDir())
}

func TestResolve_DeterministicAndScoped(t *testing.T) {
	l := NewLocal("/srv/files")

	p1 := l.Resolve("alice", "x.txt")
	p2 := l.Resolve("alice", "x.txt")
	assert.Equal(t, p1, p2)

	assert.Equal(t, filepath.Join("/srv/files", "alice", "x.txt"), p1)
	assert.NotEqual(t, p1, l.Resolve("bob", "x.txt"))
	assert.NotEqual(t, p1, l.Resolve("alice", "y.txt"))
}

func TestWriteRead_RoundTrip(t *testing.T) {
	l := newLocal(t)

	require.NoError(t, l.Write("alice", "a.txt", []byte("hello")))

	got, err := l.Read("alice", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestWrite_CreatesUserDirLazily(t *testing.T) {
	root := t.TempDir()
	l := NewLocal(root)

	_, err := os.Stat(filepath.Join(root, "alice"))
	require.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, l.Write("alice", "a.txt", []byte("x")))

	info, err := os.Stat(filepath.Join(root, "alice"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	l := NewLocal(root)

	require.NoError(t, l.Write("alice", "a.txt", []byte("x")))

	entries, err := os.ReadDir(filepath.Join(root, "alice"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name())
}

func TestRead_NotFound(t *testing.T) {
	l := newLocal(t)

	_, err := l.Read("alice", "absent.txt")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestRemove(t *testing.T) {
	l := newLocal(t)
	require.NoError(t, l.Write("alice", "a.txt", []byte("x")))

	require.NoError(t, l.Remove("alice", "a.txt"))
	assert.False(t, l.Exists("alice", "a.txt"))

	err := l.Remove("alice", "a.txt")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestStat(t *testing.T) {
	l := newLocal(t)
	require.NoError(t, l.Write("alice", "a.txt", []byte("hello")))

	size, mtime, err := l.Stat("alice", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)
	assert.False(t, mtime.IsZero())

	_, _, err = l.Stat("alice", "absent.txt")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestListNames(t *testing.T) {
	l := newLocal(t)

	names, err := l.ListNames("alice")
	require.NoError(t, err)
	assert.Empty(t, names, "unknown namespace lists empty, not an error")

	require.NoError(t, l.Write("alice", "a.txt", []byte("1")))
	require.NoError(t, l.Write("alice", "b.txt", []byte("2")))

	names, err = l.ListNames("alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, names)
}

func TestNamespaceIsolation(t *testing.T) {
	l := newLocal(t)

	require.NoError(t, l.Write("alice", "x.txt", []byte("alice content")))
	require.NoError(t, l.Write("bob", "x.txt", []byte("bob content")))

	a, err := l.Read("alice", "x.txt")
	require.NoError(t, err)
	b, err := l.Read("bob", "x.txt")
	require.NoError(t, err)

	assert.Equal(t, []byte("alice content"), a)
	assert.Equal(t, []byte("bob content"), b)
}
