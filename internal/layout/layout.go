package layout

import "errors"

// Geometry.
const (
	// BlockSize is the size of one data block in bytes.
	BlockSize = 512
	// BlockCount is the number of data blocks and chain table entries.
	BlockCount = 4096
	// EntryCount is the capacity of the directory-entry table.
	EntryCount = 256
	// NameSize is the width of the name buffer of an entry.
	NameSize = 64
	// MaxChildren bounds the fan-out of a single directory.
	MaxChildren = 64
	// MaxFileSize is the largest size a single file can reach.
	MaxFileSize = BlockSize * BlockCount
)

// Root is the entry index of the permanent root directory.
const Root = 0

// RootName is the name stored in the root entry.
const RootName = "/"

// Record sizes and region offsets.
const (
	ChainEntrySize = 4

	// name, kind, children, parent, size, head, slots
	EntryRecordSize = NameSize + 1 + 1 + 2 + 4 + 4 + MaxChildren*2

	ChainTableOffset = 0
	EntryTableOffset = ChainTableOffset + BlockCount*ChainEntrySize
	DataOffset       = EntryTableOffset + EntryCount*EntryRecordSize

	// ImageSize is the exact size of a disk image file.
	ImageSize = DataOffset + BlockCount*BlockSize
)

// Field offsets inside an entry record.
const (
	offName     = 0
	offKind     = offName + NameSize
	offChildren = offKind + 1
	offParent   = offChildren + 1
	offSize     = offParent + 2
	offHead     = offSize + 4
	offSlots    = offHead + 4
)

// Persisted sentinels.
const (
	rawUnused     uint32 = 0xFFFFFFFF
	rawEndOfChain uint32 = 0xFFFFFFFE
	rawNoParent   uint16 = 0xFFFF
	rawFreeSlot   uint16 = 0
	rawTombstone  uint16 = 0xFFFF
)

var (
	// ErrCorrupt marks an inconsistency in the persisted structures.
	ErrCorrupt = errors.New("layout: corrupt image")
	// ErrOutOfRange is the panic value for an index outside a table.
	ErrOutOfRange = errors.New("layout: index out of range")
	// ErrShortImage is returned when a buffer is smaller than ImageSize.
	ErrShortImage = errors.New("layout: image buffer too small")
)
