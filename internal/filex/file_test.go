package filex

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "data", "local", "qfvjug.db")

	require.NoError(t, EnsureParentDir(path))

	fi, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	require.NoError(t, EnsureParentDir(path), "second call is a no-op")
}

func TestEnsureParentDir_NothingToDo(t *testing.T) {
	for _, p := range []string{"", ":memory:", "qfvjug.db"} {
		require.NoError(t, EnsureParentDir(p), p)
	}
}

func TestEnsureParentDir_BlockedByFile(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	require.Error(t, EnsureParentDir(filepath.Join(blocker, "sub", "db")))
}

func TestOpenSized(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "pack.zip")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o600))

	f, size, err := OpenSized(path)
	require.NoError(t, err)
	defer f.Close()
	require.EqualValues(t, 5, size)

	b, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Equal(t, "12345", string(b))

	_, _, err = OpenSized(tmp)
	require.Error(t, err)

	_, _, err = OpenSized(filepath.Join(tmp, "missing"))
	require.Error(t, err)
}
