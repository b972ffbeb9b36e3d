package fatfs

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDisk(t *testing.T, optFns ...Option) *Disk {
	t.Helper()
	d, err := Create(filepath.Join(t.TempDir(), "disk.img"), optFns...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func pattern(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i*7 + i/BlockSize)
	}
	return p
}

func readAll(t *testing.T, f *File) []byte {
	t.Helper()
	_, err := f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return data
}

func TestOpenFileIsIdempotent(t *testing.T) {
	d := newDisk(t)

	f1, err := d.Create("a")
	require.NoError(t, err)
	_, err = f1.Write([]byte("hello"))
	require.NoError(t, err)

	f2, err := d.OpenFile("a")
	require.NoError(t, err)
	assert.Equal(t, f1.index, f2.index)

	size, err := f2.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)
	assert.Equal(t, []byte("hello"), readAll(t, f2))

	entries, err := d.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteReadRoundTrip(t *testing.T) {
	sizes := []int{0, 1, BlockSize - 1, BlockSize, BlockSize + 1, 2 * BlockSize, 2*BlockSize + 1, 10*BlockSize + 17}

	for _, n := range sizes {
		t.Run(fmt.Sprintf("size=%d", n), func(t *testing.T) {
			d := newDisk(t)
			f, err := d.Create("data")
			require.NoError(t, err)
			defer f.Close()

			want := pattern(n)
			written, err := f.Write(want)
			require.NoError(t, err)
			assert.Equal(t, n, written)

			got := readAll(t, f)
			assert.Len(t, got, n)
			assert.True(t, bytes.Equal(want, got), "size %d", n)

			blocks := max(1, (n+BlockSize-1)/BlockSize)
			assert.Len(t, d.fat.Chain(f.entry().Head), blocks)
		})
	}
}

func TestConcreteScenario(t *testing.T) {
	d := newDisk(t)
	f, err := d.Create("aaa")
	require.NoError(t, err)
	defer f.Close()

	payload := []byte("Test string to write to the file\x00")
	require.Len(t, payload, 33)
	n, err := f.Write(payload)
	require.NoError(t, err)
	require.Equal(t, 33, n)

	pos, err := f.Seek(1, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pos)

	buf := make([]byte, 32)
	n, err = f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 32, n)
	assert.Equal(t, "est string to write to the file\x00", string(buf))

	_, err = f.Seek(-25, io.SeekEnd)
	require.NoError(t, err)
	buf = make([]byte, 64)
	n, err = f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ing to write to the file\x00", string(buf[:n]))
}

func TestSeekFromEnd(t *testing.T) {
	d := newDisk(t)
	f, err := d.Create("f")
	require.NoError(t, err)
	defer f.Close()

	data := pattern(BlockSize*2 + 1)
	_, err = f.Write(data)
	require.NoError(t, err)

	for k := 0; k <= len(data); k++ {
		_, err := f.Seek(int64(-k), io.SeekEnd)
		require.NoError(t, err)
		got := make([]byte, k+10)
		n, err := io.ReadFull(f, got)
		if k == 0 {
			assert.ErrorIs(t, err, io.EOF)
		} else {
			assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		}
		require.Equal(t, k, n)
		assert.Equal(t, data[len(data)-k:], got[:n])
	}

	for _, off := range []int64{1, 2, BlockSize} {
		_, err = f.Seek(off, io.SeekEnd)
		assert.ErrorIs(t, err, ErrInvalidSeek)
	}
	_, err = f.Seek(-int64(len(data))-1, io.SeekEnd)
	assert.ErrorIs(t, err, ErrInvalidSeek)
}

func TestSeek(t *testing.T) {
	d := newDisk(t)
	f, err := d.Create("f")
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Write(pattern(100))
	require.NoError(t, err)

	tests := []struct {
		name    string
		from    int64
		offset  int64
		whence  int
		want    int64
		wantErr bool
	}{
		{"start", 0, 10, io.SeekStart, 10, false},
		{"start negative", 0, -1, io.SeekStart, 0, true},
		{"start past end", 0, 1000, io.SeekStart, 1000, false},
		{"start past max", 0, MaxFileSize + 1, io.SeekStart, 0, true},
		{"current back", 100, -50, io.SeekCurrent, 50, false},
		{"current forward", 50, 20, io.SeekCurrent, 70, false},
		{"current to size", 50, 50, io.SeekCurrent, 100, false},
		{"current past size", 50, 51, io.SeekCurrent, 0, true},
		{"current before start", 0, -1, io.SeekCurrent, 0, true},
		{"current zero past end", 1000, 0, io.SeekCurrent, 1000, false},
		{"end", 0, -100, io.SeekEnd, 0, false},
		{"end positive", 0, 1, io.SeekEnd, 0, true},
		{"bad whence", 0, 0, 42, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Seek(tt.from, io.SeekStart)
			require.NoError(t, err)

			pos, err := f.Seek(tt.offset, tt.whence)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSeek)
				assert.Equal(t, tt.from, f.offset, "cursor must not move")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, pos)
		})
	}
}

func TestWriteAfterSeekPastEnd(t *testing.T) {
	d := newDisk(t)

	// Dirty a block so reuse must zero it.
	junk, err := d.Create("junk")
	require.NoError(t, err)
	_, err = junk.Write(bytes.Repeat([]byte{0xAB}, 4*BlockSize))
	require.NoError(t, err)
	require.NoError(t, junk.Erase())
	require.NoError(t, junk.Close())

	f, err := d.Create("sparse")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Seek(3*BlockSize+10, io.SeekStart)
	require.NoError(t, err)

	// Reads past the size see nothing.
	n, err := f.Read(make([]byte, 10))
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)

	_, err = f.Write([]byte("x"))
	require.NoError(t, err)

	got := readAll(t, f)
	require.Len(t, got, 3*BlockSize+11)
	assert.Equal(t, make([]byte, 3*BlockSize+10), got[:3*BlockSize+10])
	assert.Equal(t, byte('x'), got[len(got)-1])
	assert.Len(t, d.fat.Chain(f.entry().Head), 4)
}

func TestOverwriteKeepsSize(t *testing.T) {
	d := newDisk(t)
	f, err := d.Create("f")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("0123456789"))
	require.NoError(t, err)
	_, err = f.Seek(2, io.SeekStart)
	require.NoError(t, err)
	_, err = f.Write([]byte("ab"))
	require.NoError(t, err)

	assert.Equal(t, []byte("01ab456789"), readAll(t, f))
}

func TestEraseReleasesBlocks(t *testing.T) {
	d := newDisk(t)

	small, err := d.Create("small")
	require.NoError(t, err)
	_, err = small.Write(pattern(10 * BlockSize))
	require.NoError(t, err)

	big, err := d.Create("big")
	require.NoError(t, err)
	n, err := big.Write(make([]byte, MaxFileSize))
	assert.ErrorIs(t, err, ErrNoFreeBlock)
	assert.Equal(t, (BlockCount-10)*BlockSize, n)
	size, err := big.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(n), size)

	_, err = d.Create("none")
	assert.ErrorIs(t, err, ErrNoFreeBlock)

	require.NoError(t, small.Erase())
	require.NoError(t, small.Close())

	stats, err := d.Stats()
	require.NoError(t, err)
	assert.Equal(t, 10, stats.FreeBlocks)

	for i := 0; i < 10; i++ {
		f, err := d.Create(string(rune('a' + i)))
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}
	_, err = d.Create("eleventh")
	assert.ErrorIs(t, err, ErrNoFreeBlock)
}

func TestGapLargerThanDiskFails(t *testing.T) {
	d := newDisk(t)
	f, err := d.Create("f")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Seek(MaxFileSize, io.SeekStart)
	require.NoError(t, err)
	n, err := f.Write([]byte("x"))
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, ErrNoFreeBlock)

	stats, err := d.Stats()
	require.NoError(t, err)
	assert.Equal(t, BlockCount-1, stats.FreeBlocks)
}

func TestStaleAndClosedHandles(t *testing.T) {
	d := newDisk(t)

	f1, err := d.Create("f")
	require.NoError(t, err)
	f2, err := d.OpenFile("f")
	require.NoError(t, err)
	other, err := d.Create("g")
	require.NoError(t, err)

	require.NoError(t, d.Remove("f"))

	_, err = f1.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrStale)
	_, err = f2.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrStale)
	assert.ErrorIs(t, f2.Erase(), ErrStale)

	_, err = other.Write([]byte("still fine"))
	assert.NoError(t, err)

	require.NoError(t, f1.Close())
	require.NoError(t, f1.Close())
	_, err = f1.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrClosed)

	require.NoError(t, f2.Close())
	require.NoError(t, other.Close())
	assert.Empty(t, d.handles)
}

func TestOpenFileOnDirectoryConflicts(t *testing.T) {
	d := newDisk(t)
	require.NoError(t, d.Mkdir("x"))

	_, err := d.OpenFile("x")
	assert.ErrorIs(t, err, ErrNameConflict)

	_, err = d.OpenFile("")
	assert.ErrorIs(t, err, ErrInvalidName)

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "open", opErr.Op)
}
