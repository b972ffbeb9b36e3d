package fatfs

import (
	"errors"
	"io"
	"time"

	"github.com/hupe1980/fatfs/internal/layout"
)

// File is an open handle on a file entry of a Disk. It keeps its own
// cursor; several handles may refer to the same file.
type File struct {
	disk   *Disk
	index  int
	name   string
	offset int64
	closed bool
	stale  bool
}

var (
	_ io.ReadWriteSeeker = (*File)(nil)
	_ io.Closer          = (*File)(nil)
)

// OpenFile opens the file name in the working directory, creating it when
// it does not exist. An existing file keeps its content and size. The
// cursor starts at offset 0.
func (d *Disk) OpenFile(name string) (*File, error) {
	if d.closed {
		return nil, ErrClosed
	}
	index, created, err := d.tree.Open(name, d.cwd)
	d.metrics.RecordCreate(KindFile, created, err)
	if created || err != nil {
		d.logger.LogCreate(name, KindFile, index, err)
	}
	if err != nil {
		return nil, opError("open", name, err)
	}

	f := &File{disk: d, index: index, name: name}
	d.handles[f] = struct{}{}
	return f, nil
}

// Create is an alias for OpenFile.
func (d *Disk) Create(name string) (*File, error) {
	return d.OpenFile(name)
}

// Name returns the name the file was opened with.
func (f *File) Name() string {
	return f.name
}

// Size returns the recorded byte size of the file.
func (f *File) Size() (int64, error) {
	if err := f.check(); err != nil {
		return 0, err
	}
	return int64(f.entry().Size), nil
}

// Write copies p into the file at the cursor, extending the block chain as
// needed. If the disk runs out of blocks it returns the number of bytes
// written so far together with ErrNoFreeBlock.
func (f *File) Write(p []byte) (n int, err error) {
	if err := f.check(); err != nil {
		return 0, err
	}
	start := time.Now()
	defer func() {
		f.disk.metrics.RecordWrite(n, time.Since(start), err)
	}()
	if len(p) == 0 {
		return 0, nil
	}

	e := f.entry()
	alloc := f.disk.fat
	pos := int(f.offset / layout.BlockSize)
	// A gap left by a far seek is allocated only if it fits entirely.
	if missing := pos + 1 - len(alloc.Chain(e.Head)); missing > alloc.Free() {
		return 0, opError("write", f.name, ErrNoFreeBlock)
	}
	block, _, err := alloc.Reach(e.Head, pos, true)
	if err != nil {
		return 0, opError("write", f.name, err)
	}

	in := int(f.offset % layout.BlockSize)
	for {
		c := copy(f.disk.img.Block(block)[in:], p[n:])
		n += c
		f.offset += int64(c)
		if n == len(p) {
			break
		}
		in = 0
		if block, _, err = alloc.Successor(block, true); err != nil {
			err = opError("write", f.name, err)
			break
		}
	}

	if f.offset > int64(e.Size) {
		f.disk.tree.SetSize(f.index, uint32(f.offset))
	}
	return n, err
}

// Read reads up to len(p) bytes from the cursor, never past the recorded
// size. At or beyond the size it returns 0, io.EOF.
func (f *File) Read(p []byte) (n int, err error) {
	if err := f.check(); err != nil {
		return 0, err
	}
	start := time.Now()
	defer func() {
		if errors.Is(err, io.EOF) {
			f.disk.metrics.RecordRead(n, time.Since(start), nil)
			return
		}
		f.disk.metrics.RecordRead(n, time.Since(start), err)
	}()

	e := f.entry()
	if f.offset >= int64(e.Size) {
		return 0, io.EOF
	}
	want := min(int64(len(p)), int64(e.Size)-f.offset)
	if want == 0 {
		return 0, nil
	}

	alloc := f.disk.fat
	block, ok, err := alloc.Reach(e.Head, int(f.offset/layout.BlockSize), false)
	if err != nil {
		return 0, opError("read", f.name, err)
	}
	if !ok {
		return 0, io.EOF
	}

	in := int(f.offset % layout.BlockSize)
	for {
		c := copy(p[n:want], f.disk.img.Block(block)[in:])
		n += c
		f.offset += int64(c)
		if int64(n) == want {
			break
		}
		in = 0
		if block, ok, err = alloc.Successor(block, false); err != nil || !ok {
			// Chain shorter than the size: short read.
			break
		}
	}
	if err != nil {
		err = opError("read", f.name, err)
	}
	return n, err
}

// Seek moves the cursor. io.SeekStart accepts offsets up to MaxFileSize,
// so the cursor may pass the end of the file. io.SeekCurrent must land
// within the file unless offset is 0. io.SeekEnd takes offsets <= 0. An
// invalid seek returns ErrInvalidSeek and leaves the cursor unchanged.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if err := f.check(); err != nil {
		return 0, err
	}
	size := int64(f.entry().Size)

	var pos int64
	switch whence {
	case io.SeekStart:
		if offset < 0 || offset > layout.MaxFileSize {
			return f.offset, opError("seek", f.name, ErrInvalidSeek)
		}
		pos = offset
	case io.SeekCurrent:
		if offset == 0 {
			return f.offset, nil
		}
		pos = f.offset + offset
		if pos < 0 || pos > size {
			return f.offset, opError("seek", f.name, ErrInvalidSeek)
		}
	case io.SeekEnd:
		if offset > 0 || size+offset < 0 {
			return f.offset, opError("seek", f.name, ErrInvalidSeek)
		}
		pos = size + offset
	default:
		return f.offset, opError("seek", f.name, ErrInvalidSeek)
	}
	f.offset = pos
	return pos, nil
}

// Erase removes the file from the disk. Every handle on it, including f,
// becomes stale but must still be closed.
func (f *File) Erase() error {
	if err := f.check(); err != nil {
		return err
	}
	return f.disk.erase(f.index, f.name, KindFile)
}

// Close releases the handle. It is idempotent.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	delete(f.disk.handles, f)
	return nil
}

func (f *File) check() error {
	switch {
	case f.closed || f.disk.closed:
		return ErrClosed
	case f.stale:
		return ErrStale
	}
	return nil
}

func (f *File) entry() layout.Entry {
	return f.disk.tree.Entry(f.index)
}
