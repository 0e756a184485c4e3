package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()

	got, err := EnsureDir(filepath.Join(tmp, "files"))
	require.NoError(t, err)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")
}

func TestEnsureDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()

	first, err := EnsureDir(filepath.Join(tmp, "files"))
	require.NoError(t, err)

	second, err := EnsureDir(filepath.Join(tmp, "files"))
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestExists(t *testing.T) {
	tmp := t.TempDir()

	path := filepath.Join(tmp, "a.txt")
	require.False(t, Exists(path))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o660))
	require.True(t, Exists(path))

	// Directories are not files.
	require.False(t, Exists(tmp))
}

func TestMove(t *testing.T) {
	tmp := t.TempDir()

	src := filepath.Join(tmp, "src.txt")
	dst := filepath.Join(tmp, "sub", "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o660))

	require.NoError(t, Move(src, dst))

	require.False(t, Exists(src))
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "payload", string(b))
}
