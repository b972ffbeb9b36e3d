package fatfs

import (
	"errors"
	"fmt"

	"github.com/hupe1980/fatfs/internal/dirtree"
	"github.com/hupe1980/fatfs/internal/fat"
	"github.com/hupe1980/fatfs/internal/layout"
)

var (
	// ErrNotFound is returned when a name does not resolve in the working
	// directory.
	ErrNotFound = dirtree.ErrNotFound
	// ErrExists is returned by Mkdir for an existing directory.
	ErrExists = dirtree.ErrExists
	// ErrNameConflict is returned when the name is taken by an entry of the
	// other kind.
	ErrNameConflict = dirtree.ErrNameConflict
	// ErrDirFull is returned when the working directory has no free child slot.
	ErrDirFull = dirtree.ErrDirFull
	// ErrNoFreeEntry is returned when the entry table is exhausted.
	ErrNoFreeEntry = dirtree.ErrNoFreeEntry
	// ErrNoFreeBlock is returned when every data block is allocated.
	ErrNoFreeBlock = fat.ErrNoFreeBlock
	// ErrNotEmpty is returned when removing a directory that still has children.
	ErrNotEmpty = dirtree.ErrNotEmpty
	// ErrAtRoot is returned by Chdir("..") in the root directory.
	ErrAtRoot = dirtree.ErrAtRoot
	// ErrRoot is returned when removing the root directory.
	ErrRoot = dirtree.ErrRoot
	// ErrInvalidName is returned for empty, reserved or oversized names.
	ErrInvalidName = dirtree.ErrInvalidName
	// ErrCorrupt is wrapped by the value of panics raised on structural
	// corruption of an image.
	ErrCorrupt = layout.ErrCorrupt

	// ErrInvalidSeek is returned when a seek would move the cursor out of range.
	ErrInvalidSeek = errors.New("invalid seek")
	// ErrClosed is returned when using a closed disk or file.
	ErrClosed = errors.New("closed")
	// ErrStale is returned for I/O on a file whose entry has been erased.
	ErrStale = errors.New("file has been erased")
	// ErrInvalidImage is returned by Open for files that are not disk images.
	ErrInvalidImage = errors.New("invalid disk image")
)

// OpError records a failed operation on a named entry.
//
// The underlying sentinel error can be checked with errors.Is.
type OpError struct {
	Op   string
	Name string
	Err  error
}

func (e *OpError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("fatfs: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("fatfs: %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opError(op, name string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Name: name, Err: err}
}
