package fatfs

import (
	"github.com/hupe1980/fatfs/internal/layout"
)

// Kind is the type of an entry.
type Kind = layout.Kind

const (
	KindFile      = layout.KindFile
	KindDirectory = layout.KindDirectory
)

// DirEntry is one element of a directory listing.
type DirEntry struct {
	Name string
	Kind Kind
}

// IsDir reports whether the entry is a directory.
func (e DirEntry) IsDir() bool { return e.Kind == KindDirectory }

// ValidName reports whether name can be created: 1 to MaxNameLen bytes,
// not "." or "..", and free of '/' and NUL. Listings of a damaged image
// may contain names that fail this check.
func ValidName(name string) bool { return layout.ValidName(name) }

// FileInfo describes a single entry.
type FileInfo struct {
	Name string
	Kind Kind
	// Size is the byte size of a file; directories report 0.
	Size int64
}

// IsDir reports whether the entry is a directory.
func (fi FileInfo) IsDir() bool { return fi.Kind == KindDirectory }

// Mkdir creates the directory name in the working directory. It returns
// ErrExists if the directory is already there.
func (d *Disk) Mkdir(name string) error {
	if d.closed {
		return ErrClosed
	}
	index, err := d.tree.Create(name, KindDirectory, d.cwd)
	d.metrics.RecordCreate(KindDirectory, err == nil, err)
	d.logger.LogCreate(name, KindDirectory, index, err)
	return opError("mkdir", name, err)
}

// Remove erases the file name in the working directory. Open handles on it
// become stale.
func (d *Disk) Remove(name string) error {
	if d.closed {
		return ErrClosed
	}
	index, err := d.tree.RemoveFile(name, d.cwd)
	if err == nil {
		d.invalidate(index)
	}
	d.metrics.RecordErase(KindFile, err)
	d.logger.LogErase(name, KindFile, err)
	return opError("remove", name, err)
}

// RemoveDir erases the empty directory name in the working directory.
func (d *Disk) RemoveDir(name string) error {
	if d.closed {
		return ErrClosed
	}
	err := d.tree.RemoveDir(name, d.cwd)
	d.metrics.RecordErase(KindDirectory, err)
	d.logger.LogErase(name, KindDirectory, err)
	return opError("rmdir", name, err)
}

func (d *Disk) erase(index int, name string, kind Kind) error {
	err := d.tree.Remove(index)
	if err == nil {
		d.invalidate(index)
	}
	d.metrics.RecordErase(kind, err)
	d.logger.LogErase(name, kind, err)
	return opError("remove", name, err)
}

// Chdir changes the working directory. target is "..", "/" or the name of
// a child directory. On failure the working directory is unchanged.
func (d *Disk) Chdir(target string) error {
	if d.closed {
		return ErrClosed
	}
	cwd, err := d.tree.Chdir(target, d.cwd)
	if err == nil {
		d.cwd = cwd
	}
	d.logger.LogChdir(target, d.tree.Path(d.cwd), err)
	return opError("chdir", target, err)
}

// Getwd returns the absolute path of the working directory.
func (d *Disk) Getwd() (string, error) {
	if d.closed {
		return "", ErrClosed
	}
	return d.tree.Path(d.cwd), nil
}

// List returns the entries of the working directory. An empty directory
// yields an empty slice.
func (d *Disk) List() ([]DirEntry, error) {
	if d.closed {
		return nil, ErrClosed
	}
	items := d.tree.List(d.cwd)
	entries := make([]DirEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, DirEntry{Name: it.Name, Kind: it.Kind})
	}
	return entries, nil
}

// Stat describes the entry name in the working directory.
func (d *Disk) Stat(name string) (FileInfo, error) {
	if d.closed {
		return FileInfo{}, ErrClosed
	}
	_, e, err := d.tree.Stat(name, d.cwd)
	if err != nil {
		return FileInfo{}, opError("stat", name, err)
	}
	fi := FileInfo{Name: e.Name.String(), Kind: e.Kind}
	if e.Kind == KindFile {
		fi.Size = int64(e.Size)
	}
	return fi, nil
}
