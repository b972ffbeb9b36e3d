package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSized(t *testing.T, size int) *os.File {
	t.Helper()
	f, err := os.OpenFile(filepath.Join(t.TempDir(), "image"), os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(int64(size)))
	t.Cleanup(func() { f.Close() })
	return f
}

func TestMap_WriteSyncReadBack(t *testing.T) {
	f := createSized(t, 4096)

	m, err := Map(f, 4096)
	require.NoError(t, err)
	assert.Equal(t, 4096, m.Size())
	require.Len(t, m.Bytes(), 4096)

	copy(m.Bytes()[100:], "Hello, Mmap!")
	require.NoError(t, m.Sync())
	require.NoError(t, m.Close())

	buf := make([]byte, 12)
	_, err = f.ReadAt(buf, 100)
	require.NoError(t, err)
	assert.Equal(t, "Hello, Mmap!", string(buf))
}

func TestMap_SharedBetweenMappings(t *testing.T) {
	f := createSized(t, 4096)

	a, err := Map(f, 4096)
	require.NoError(t, err)
	defer a.Close()
	b, err := Map(f, 4096)
	require.NoError(t, err)
	defer b.Close()

	a.Bytes()[7] = 42
	assert.Equal(t, byte(42), b.Bytes()[7])
}

func TestMap_InvalidSize(t *testing.T) {
	f := createSized(t, 16)

	_, err := Map(f, 0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestMap_Advise(t *testing.T) {
	f := createSized(t, 8192)

	m, err := Map(f, 8192)
	require.NoError(t, err)

	assert.NoError(t, m.Advise(AccessRandom))
	assert.NoError(t, m.Advise(AccessDefault))
	require.NoError(t, m.Close())
}

func TestMap_AfterClose(t *testing.T) {
	f := createSized(t, 4096)

	m, err := Map(f, 4096)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	// Idempotent
	assert.NoError(t, m.Close())
	assert.Nil(t, m.Bytes())
	assert.ErrorIs(t, m.Sync(), ErrClosed)
	assert.ErrorIs(t, m.Advise(AccessRandom), ErrClosed)
}
