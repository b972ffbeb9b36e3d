package dirtree

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hupe1980/fatfs/internal/fat"
	"github.com/hupe1980/fatfs/internal/layout"
)

var (
	// ErrNotFound is returned when no entry of the wanted kind has the name.
	ErrNotFound = errors.New("no such file or directory")
	// ErrExists is returned when creating a name that is already taken.
	ErrExists = errors.New("already exists")
	// ErrNameConflict is returned when the name belongs to the other kind.
	ErrNameConflict = errors.New("name used by an entry of another kind")
	// ErrDirFull is returned when a directory holds MaxChildren children.
	ErrDirFull = errors.New("directory has reached its child capacity")
	// ErrNoFreeEntry is returned when the entry table is full.
	ErrNoFreeEntry = errors.New("no free directory entry")
	// ErrNotEmpty is returned when removing a directory with children.
	ErrNotEmpty = errors.New("directory not empty")
	// ErrAtRoot is returned by Chdir("..") at the root.
	ErrAtRoot = errors.New("already at root directory")
	// ErrRoot is returned when removing the root directory.
	ErrRoot = errors.New("root directory cannot be removed")
	// ErrInvalidName is returned for empty, oversized, "." or ".." names
	// and names containing '/' or NUL.
	ErrInvalidName = errors.New("invalid name")
)

// Lookup is the result of Find.
type Lookup struct {
	// Index of the matching entry, valid when Found.
	Index int
	Found bool
	// Slot is the first free table slot, or -1 when none is offered.
	Slot int
	// Conflict is set when the name exists with a different kind.
	Conflict bool
	// Full is set when the directory has no room for another child.
	Full bool
}

// Item is one projected child of a directory.
type Item struct {
	Index int
	Name  string
	Kind  layout.Kind
	Size  uint32
}

// Tree operates on the entry table of an image. File entries obtain and
// release their block chains through the allocator.
type Tree struct {
	img   *layout.Image
	alloc *fat.Table
}

// New returns a tree over img.
func New(img *layout.Image, alloc *fat.Table) *Tree {
	return &Tree{img: img, alloc: alloc}
}

// Entry decodes entry i.
func (t *Tree) Entry(i int) layout.Entry {
	return t.img.Entry(i)
}

// SetSize records the byte size of file entry i.
func (t *Tree) SetSize(i int, size uint32) {
	e := t.img.Entry(i)
	e.Size = size
	t.img.PutEntry(i, &e)
}

// Find looks for name among the children of cwd. The root slot is never
// considered. While scanning it remembers the first free slot as an
// insertion point, which is withheld when the name exists with another kind
// or cwd is at capacity.
func (t *Tree) Find(name layout.Name, kind layout.Kind, cwd int) Lookup {
	l := Lookup{Slot: -1}
	free := -1
	for i := layout.Root + 1; i < layout.EntryCount; i++ {
		if t.img.IsFreeEntry(i) {
			if free < 0 {
				free = i
			}
			continue
		}
		e := t.img.Entry(i)
		if e.Parent != cwd || e.Name != name {
			continue
		}
		if e.Kind != kind {
			l.Conflict = true
			return l
		}
		l.Index, l.Found = i, true
		return l
	}

	dir := t.img.Entry(cwd)
	if int(dir.Children) >= layout.MaxChildren {
		l.Full = true
		return l
	}
	l.Slot = free
	return l
}

// Create adds a new entry called name of the given kind under cwd. Files
// get a one-block chain.
func (t *Tree) Create(name string, kind layout.Kind, cwd int) (int, error) {
	n, err := makeName(name)
	if err != nil {
		return 0, err
	}

	l := t.Find(n, kind, cwd)
	switch {
	case l.Found:
		return l.Index, ErrExists
	case l.Conflict:
		return 0, ErrNameConflict
	case l.Full:
		return 0, ErrDirFull
	case l.Slot < 0:
		return 0, ErrNoFreeEntry
	}
	return t.insert(l.Slot, n, kind, cwd)
}

// Open resolves the file name under cwd, creating it when it does not exist.
func (t *Tree) Open(name string, cwd int) (index int, created bool, err error) {
	index, err = t.Create(name, layout.KindFile, cwd)
	if errors.Is(err, ErrExists) {
		return index, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return index, true, nil
}

func (t *Tree) insert(slot int, name layout.Name, kind layout.Kind, cwd int) (int, error) {
	e := layout.Entry{Name: name, Kind: kind, Parent: cwd}
	if kind == layout.KindFile {
		head, err := t.alloc.AllocateHead()
		if err != nil {
			return 0, err
		}
		e.Head = head
	}
	t.img.PutEntry(slot, &e)
	if err := t.RegisterChild(cwd, slot); err != nil {
		if kind == layout.KindFile {
			t.alloc.Release(e.Head)
		}
		t.img.ClearEntry(slot)
		return 0, err
	}
	return slot, nil
}

// RegisterChild records child in the first free or tombstoned slot of parent.
func (t *Tree) RegisterChild(parent, child int) error {
	e := t.img.Entry(parent)
	for j, s := range e.Slots {
		if s.State == layout.SlotUsed {
			continue
		}
		e.Slots[j] = layout.Child{State: layout.SlotUsed, Index: child}
		e.Children++
		t.img.PutEntry(parent, &e)
		return nil
	}
	return ErrDirFull
}

// UnregisterChild tombstones the slot of parent that holds child.
func (t *Tree) UnregisterChild(parent, child int) bool {
	e := t.img.Entry(parent)
	for j, s := range e.Slots {
		if s.State == layout.SlotFree {
			break
		}
		if s.State == layout.SlotUsed && s.Index == child {
			e.Slots[j] = layout.Child{State: layout.SlotTombstone}
			if e.Children > 0 {
				e.Children--
			}
			t.img.PutEntry(parent, &e)
			return true
		}
	}
	return false
}

// Remove deletes entry i: its chain is released, it is unregistered from
// its parent and its slot is cleared. Non-empty directories are refused.
func (t *Tree) Remove(i int) error {
	if i == layout.Root {
		return ErrRoot
	}
	e := t.img.Entry(i)
	if e.IsFree() {
		return ErrNotFound
	}
	switch e.Kind {
	case layout.KindFile:
		t.alloc.Release(e.Head)
	case layout.KindDirectory:
		if e.Children > 0 {
			return ErrNotEmpty
		}
	}
	t.UnregisterChild(e.Parent, i)
	t.img.ClearEntry(i)
	return nil
}

// RemoveFile deletes the file name under cwd and returns its former index.
func (t *Tree) RemoveFile(name string, cwd int) (int, error) {
	i, err := t.lookup(name, layout.KindFile, cwd)
	if err != nil {
		return 0, err
	}
	return i, t.Remove(i)
}

// RemoveDir deletes the empty directory name under cwd.
func (t *Tree) RemoveDir(name string, cwd int) error {
	i, err := t.lookup(name, layout.KindDirectory, cwd)
	if err != nil {
		return err
	}
	return t.Remove(i)
}

// Chdir resolves target relative to cwd: ".." is the parent, "/" (or the
// host path separator) is the root, anything else must be a child directory.
func (t *Tree) Chdir(target string, cwd int) (int, error) {
	if target == ".." {
		if cwd == layout.Root {
			return cwd, ErrAtRoot
		}
		return t.img.Entry(cwd).Parent, nil
	}
	// On Unix both spellings are "/".
	if target == layout.RootName || target == string(os.PathSeparator) {
		return layout.Root, nil
	}
	i, err := t.lookup(target, layout.KindDirectory, cwd)
	if err != nil {
		return cwd, err
	}
	return i, nil
}

// Stat resolves name under cwd regardless of its kind.
func (t *Tree) Stat(name string, cwd int) (int, layout.Entry, error) {
	n, err := makeName(name)
	if err != nil {
		return 0, layout.Entry{}, err
	}
	l := t.Find(n, layout.KindFile, cwd)
	if !l.Found && l.Conflict {
		l = t.Find(n, layout.KindDirectory, cwd)
	}
	if !l.Found {
		return 0, layout.Entry{}, ErrNotFound
	}
	return l.Index, t.img.Entry(l.Index), nil
}

// List projects the live children of cwd. The root is listed by scanning
// the whole table for entries parented to it; other directories walk their
// child slots.
func (t *Tree) List(cwd int) []Item {
	items := []Item{}
	if cwd == layout.Root {
		for i := layout.Root + 1; i < layout.EntryCount; i++ {
			if t.img.IsFreeEntry(i) {
				continue
			}
			if e := t.img.Entry(i); e.Parent == layout.Root {
				items = append(items, project(i, &e))
			}
		}
		return items
	}

	dir := t.img.Entry(cwd)
	for _, s := range dir.Slots {
		if s.State == layout.SlotFree {
			break
		}
		if s.State == layout.SlotTombstone {
			continue
		}
		e := t.img.Entry(s.Index)
		items = append(items, project(s.Index, &e))
	}
	return items
}

// Path returns the absolute path of directory cwd.
func (t *Tree) Path(cwd int) string {
	var parts []string
	for i := cwd; i != layout.Root; {
		e := t.img.Entry(i)
		parts = append(parts, e.Name.String())
		i = e.Parent
		if len(parts) > layout.EntryCount {
			panic(fmt.Errorf("%w: parent cycle above entry %d", layout.ErrCorrupt, cwd))
		}
	}
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return layout.RootName + strings.Join(parts, "/")
}

// FreeEntries returns the number of unused entry slots.
func (t *Tree) FreeEntries() int {
	n := 0
	for i := layout.Root + 1; i < layout.EntryCount; i++ {
		if t.img.IsFreeEntry(i) {
			n++
		}
	}
	return n
}

func (t *Tree) lookup(name string, kind layout.Kind, cwd int) (int, error) {
	n, err := makeName(name)
	if err != nil {
		return 0, ErrNotFound
	}
	l := t.Find(n, kind, cwd)
	if !l.Found {
		return 0, ErrNotFound
	}
	return l.Index, nil
}

func makeName(s string) (layout.Name, error) {
	if !layout.ValidName(s) {
		return layout.Name{}, ErrInvalidName
	}
	n, _ := layout.MakeName(s)
	return n, nil
}

func project(i int, e *layout.Entry) Item {
	return Item{Index: i, Name: e.Name.String(), Kind: e.Kind, Size: e.Size}
}
