package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "ordinary name", input: "report.pdf", want: true},
		{name: "name with spaces inside", input: "my report.pdf", want: true},
		{name: "no extension", input: "README", want: true},
		{name: "empty", input: "", want: false},
		{name: "whitespace only", input: "   ", want: false},
		{name: "traversal", input: "../secret", want: false},
		{name: "forward slash", input: "a/b", want: false},
		{name: "backslash", input: `a\b`, want: false},
		{name: "absolute path", input: "/etc/passwd", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidFilename(tt.input))
		})
	}
}

func TestEnsureDir_CreatesNested(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "a", "b", "c")

	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureDir_ExistingIsNoop(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))
}

func TestEnsureDir_FailsOnFileCollision(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "occupied")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	assert.Error(t, EnsureDir(path))
}
