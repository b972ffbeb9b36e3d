package layout

import (
	"bytes"
	"fmt"
	"strings"
)

// Kind is the type of filesystem object an entry describes.
type Kind uint8

const (
	// KindNone is stored in free slots.
	KindNone Kind = iota
	// KindFile is a regular file with a block chain.
	KindFile
	// KindDirectory is a directory with child slots.
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// SlotState is the decoded state of a child slot.
type SlotState uint8

const (
	// SlotFree was never used. Children are appended contiguously, so
	// everything after the first free slot is free as well.
	SlotFree SlotState = iota
	// SlotTombstone held a child that has been removed.
	SlotTombstone
	// SlotUsed references a live child.
	SlotUsed
)

// Child is one decoded child slot of a directory.
type Child struct {
	State SlotState
	Index int
}

// NoParent is the decoded parent of the root entry.
const NoParent = -1

// Name is the fixed-width name buffer of an entry.
type Name [NameSize]byte

// MakeName encodes s into a name buffer. It reports false when s is
// empty or does not fit.
func MakeName(s string) (Name, bool) {
	var n Name
	if len(s) == 0 || len(s) > NameSize {
		return n, false
	}
	copy(n[:], s)
	return n, true
}

func (n Name) String() string {
	if i := bytes.IndexByte(n[:], 0); i >= 0 {
		return string(n[:i])
	}
	return string(n[:])
}

// ValidName reports whether s may be used as a file or directory name.
func ValidName(s string) bool {
	if len(s) == 0 || len(s) > NameSize || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, "/\x00")
}

// Entry is a decoded directory-entry record.
type Entry struct {
	Name     Name
	Kind     Kind
	Children uint8
	Parent   int
	Size     uint32
	Head     int
	Slots    [MaxChildren]Child
}

// IsFree reports whether the record describes no object.
func (e Entry) IsFree() bool { return e.Name[0] == 0 }

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Kind == KindDirectory }
