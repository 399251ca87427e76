package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_Relative(t *testing.T) {
	tmp := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(old) })

	got, err := EnsureDir("mindbalance-data")
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(filepath.Join(tmp, "mindbalance-data"))
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	require.Equal(t, want, gotResolved)

	again, err := EnsureDir("mindbalance-data")
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestEnsureDir_Absolute(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	got, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, dir, got)

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))

	_, err := EnsureDir(p)
	require.Error(t, err)
}

func TestReadPhoto(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "me.jpg")
	require.NoError(t, os.WriteFile(ok, []byte("jpegdata"), 0o600))
	empty := filepath.Join(dir, "empty.jpg")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))

	b, err := ReadPhoto(ok, 1024)
	require.NoError(t, err)
	require.Equal(t, []byte("jpegdata"), b)

	_, err = ReadPhoto(ok, 3)
	require.Error(t, err)

	_, err = ReadPhoto(empty, 0)
	require.Error(t, err)

	_, err = ReadPhoto(dir, 0)
	require.Error(t, err)

	_, err = ReadPhoto(filepath.Join(dir, "missing.jpg"), 0)
	require.Error(t, err)
}
