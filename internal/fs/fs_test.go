package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	// Test MkdirAll
	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, lfs.MkdirAll(dir, 0755))

	// Test OpenFile (Create)
	fpath := filepath.Join(dir, "disk.img")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)
	assert.Equal(t, fpath, f.Name())
	assert.NotZero(t, f.Fd())

	// Truncate then write
	assert.NoError(t, f.Truncate(16))
	_, err = f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.NoError(t, f.Sync())

	info, err := f.Stat()
	assert.NoError(t, err)
	assert.Equal(t, int64(16), info.Size())

	assert.NoError(t, f.Close())

	// Stat via FS
	info2, err := lfs.Stat(fpath)
	assert.NoError(t, err)
	assert.Equal(t, int64(16), info2.Size())

	// ReadDir
	entries, err := lfs.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	// Remove
	assert.NoError(t, lfs.Remove(fpath))
	_, err = lfs.Stat(fpath)
	assert.True(t, os.IsNotExist(err))

	// Missing file
	_, err = lfs.OpenFile(filepath.Join(tmp, "missing"), os.O_RDWR, 0)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_WriteLimit(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("limited", Fault{FailAfterBytes: 5})

	f, err := ffs.OpenFile(filepath.Join(tmp, "limited.txt"), os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)
	defer f.Close()

	n, err := f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = f.Write([]byte("!"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 0, n)

	// Files not matching a rule use the default (no limit).
	g, err := ffs.OpenFile(filepath.Join(tmp, "other.txt"), os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)
	_, err = g.Write([]byte("hello, world"))
	assert.NoError(t, err)
	assert.NoError(t, g.Close())
}

func TestFaultyFS_InjectedErrors(t *testing.T) {
	tmp := t.TempDir()
	custom := errors.New("disk on fire")
	ffs := NewFaultyFS(nil)
	ffs.AddRule("img", Fault{FailAfterBytes: -1, FailOnSync: true, FailOnClose: true, FailOnTruncate: true, Err: custom})
	ffs.AddRule("nope", Fault{FailAfterBytes: -1, FailOnOpen: true})

	f, err := ffs.OpenFile(filepath.Join(tmp, "disk.img"), os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)

	assert.ErrorIs(t, f.Truncate(10), custom)
	assert.ErrorIs(t, f.Sync(), custom)
	assert.ErrorIs(t, f.Close(), custom)

	_, err = ffs.OpenFile(filepath.Join(tmp, "nope"), os.O_CREATE|os.O_RDWR, 0644)
	assert.ErrorIs(t, err, ErrInjected)
	_, err = os.Stat(filepath.Join(tmp, "nope"))
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_Delegation(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}
	ffs := NewFaultyFS(lfs)

	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, ffs.MkdirAll(dir, 0755))

	fpath := filepath.Join(dir, "test.txt")
	f, err := lfs.OpenFile(fpath, os.O_CREATE, 0644)
	require.NoError(t, err)
	f.Close()

	_, err = ffs.Stat(fpath)
	assert.NoError(t, err)

	entries, err := ffs.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	assert.NoError(t, ffs.Remove(fpath))
}
