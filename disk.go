package fatfs

import (
	"errors"
	"fmt"
	"os"

	"github.com/hupe1980/fatfs/internal/dirtree"
	"github.com/hupe1980/fatfs/internal/fat"
	"github.com/hupe1980/fatfs/internal/fs"
	"github.com/hupe1980/fatfs/internal/layout"
	"github.com/hupe1980/fatfs/internal/mmap"
)

// Geometry of every disk image.
const (
	BlockSize   = layout.BlockSize
	BlockCount  = layout.BlockCount
	EntryCount  = layout.EntryCount
	MaxNameLen  = layout.NameSize
	MaxChildren = layout.MaxChildren
	MaxFileSize = layout.MaxFileSize
	ImageSize   = layout.ImageSize
)

// Disk is an open disk image together with its working directory.
type Disk struct {
	path    string
	file    fs.File
	mapping *mmap.Mapping
	img     *layout.Image
	fat     *fat.Table
	tree    *dirtree.Tree
	cwd     int
	handles map[*File]struct{}
	logger  *Logger
	metrics MetricsCollector
	closed  bool
}

// Create creates or truncates the file at path to a freshly formatted image
// and opens it.
func Create(path string, optFns ...Option) (*Disk, error) {
	return openDisk(path, true, applyOptions(optFns))
}

// Open opens an existing image file.
func Open(path string, optFns ...Option) (*Disk, error) {
	return openDisk(path, false, applyOptions(optFns))
}

func openDisk(path string, create bool, o options) (d *Disk, err error) {
	logger := o.logger.WithImage(path)
	defer func() {
		logger.LogOpen(create, err)
	}()

	flag := os.O_RDWR
	if create {
		flag |= os.O_CREATE | os.O_TRUNC
	}
	f, err := o.fs.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	d = &Disk{
		path:    path,
		file:    f,
		cwd:     layout.Root,
		handles: make(map[*File]struct{}),
		logger:  logger,
		metrics: o.metricsCollector,
	}
	if err := d.attach(create); err != nil {
		if d.mapping != nil {
			_ = d.mapping.Close()
		}
		_ = f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return d, nil
}

// attach sizes the backing file, maps it and loads the allocator state.
func (d *Disk) attach(create bool) error {
	if create {
		if err := d.file.Truncate(layout.ImageSize); err != nil {
			return err
		}
	} else {
		info, err := d.file.Stat()
		if err != nil {
			return err
		}
		if info.Size() != layout.ImageSize {
			return fmt.Errorf("%w: size %d, want %d", ErrInvalidImage, info.Size(), layout.ImageSize)
		}
	}

	m, err := mmap.Map(d.file, layout.ImageSize)
	if err != nil {
		return err
	}
	d.mapping = m
	_ = m.Advise(mmap.AccessRandom)

	img, err := layout.NewImage(m.Bytes())
	if err != nil {
		return err
	}
	if create {
		img.Format()
	} else if err := checkRoot(img); err != nil {
		return err
	}

	table, err := loadTable(img)
	if err != nil {
		return err
	}
	d.img = img
	d.fat = table
	d.tree = dirtree.New(img, table)
	return nil
}

func checkRoot(img *layout.Image) error {
	root := img.Entry(layout.Root)
	if root.Kind != layout.KindDirectory || root.Parent != layout.NoParent || root.Name.String() != layout.RootName {
		return fmt.Errorf("%w: entry 0 is not the root directory", ErrInvalidImage)
	}
	return nil
}

// loadTable builds the free-block index, turning corruption found on the
// way into ErrInvalidImage.
func loadTable(img *layout.Image) (t *fat.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok || !errors.Is(e, layout.ErrCorrupt) {
				panic(r)
			}
			err = fmt.Errorf("%w: %w", ErrInvalidImage, e)
		}
	}()
	return fat.New(img), nil
}

// Path returns the path of the image file.
func (d *Disk) Path() string {
	return d.path
}

// Stats describes the occupancy of a disk.
type Stats struct {
	TotalBlocks  int
	FreeBlocks   int
	TotalEntries int
	FreeEntries  int
	BlockSize    int
}

// Stats reports free blocks and free entry slots. The root entry is never
// counted as free.
func (d *Disk) Stats() (Stats, error) {
	if d.closed {
		return Stats{}, ErrClosed
	}
	return Stats{
		TotalBlocks:  layout.BlockCount,
		FreeBlocks:   d.fat.Free(),
		TotalEntries: layout.EntryCount,
		FreeEntries:  d.tree.FreeEntries(),
		BlockSize:    layout.BlockSize,
	}, nil
}

// invalidate marks every open handle on entry index as stale.
func (d *Disk) invalidate(index int) {
	for f := range d.handles {
		if f.index == index {
			f.stale = true
		}
	}
}
