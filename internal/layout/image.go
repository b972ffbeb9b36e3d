package layout

import (
	"encoding/binary"
	"fmt"
)

// Image is a bounds-checked view over the bytes of a disk image, usually
// a memory mapping. It performs no I/O of its own.
type Image struct {
	data []byte
}

// NewImage wraps data, which must hold at least ImageSize bytes.
func NewImage(data []byte) (*Image, error) {
	if len(data) < ImageSize {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShortImage, len(data), ImageSize)
	}
	return &Image{data: data[:ImageSize]}, nil
}

// Bytes returns the whole image.
func (im *Image) Bytes() []byte { return im.data }

// Format initializes an empty filesystem: every block free, every entry
// slot cleared and the root directory in slot Root.
func (im *Image) Format() {
	for i := 0; i < BlockCount; i++ {
		im.SetChain(i, Free())
	}
	clear(im.data[EntryTableOffset:DataOffset])
	root := Entry{Kind: KindDirectory, Parent: NoParent}
	root.Name, _ = MakeName(RootName)
	im.PutEntry(Root, &root)
}

// Chain decodes the chain table entry of block i. A link to a block
// outside the table panics with ErrCorrupt.
func (im *Image) Chain(i int) Chain {
	checkBlock(i)
	off := ChainTableOffset + i*ChainEntrySize
	c := decodeChain(binary.LittleEndian.Uint32(im.data[off:]))
	if c.State == Linked && (c.Next < 0 || c.Next >= BlockCount) {
		panic(fmt.Errorf("%w: block %d links to %d", ErrCorrupt, i, c.Next))
	}
	return c
}

// SetChain stores the chain table entry of block i.
func (im *Image) SetChain(i int, c Chain) {
	checkBlock(i)
	if c.State == Linked {
		checkBlock(c.Next)
	}
	off := ChainTableOffset + i*ChainEntrySize
	binary.LittleEndian.PutUint32(im.data[off:], encodeChain(c))
}

// Block returns the data buffer of block i. The slice aliases the image.
func (im *Image) Block(i int) []byte {
	checkBlock(i)
	off := DataOffset + i*BlockSize
	return im.data[off : off+BlockSize : off+BlockSize]
}

// IsFreeEntry reports whether entry slot i is unused without decoding it.
func (im *Image) IsFreeEntry(i int) bool {
	return im.record(i)[offName] == 0
}

// Entry decodes entry slot i.
func (im *Image) Entry(i int) Entry {
	rec := im.record(i)
	var e Entry
	copy(e.Name[:], rec[offName:offKind])
	e.Kind = Kind(rec[offKind])
	e.Children = rec[offChildren]
	e.Parent = decodeParent(binary.LittleEndian.Uint16(rec[offParent:]))
	e.Size = binary.LittleEndian.Uint32(rec[offSize:])
	e.Head = int(binary.LittleEndian.Uint32(rec[offHead:]))
	for j := range e.Slots {
		e.Slots[j] = decodeChild(binary.LittleEndian.Uint16(rec[offSlots+j*2:]))
	}
	return e
}

// PutEntry encodes e into entry slot i.
func (im *Image) PutEntry(i int, e *Entry) {
	rec := im.record(i)
	copy(rec[offName:offKind], e.Name[:])
	rec[offKind] = byte(e.Kind)
	rec[offChildren] = e.Children
	binary.LittleEndian.PutUint16(rec[offParent:], encodeParent(e.Parent))
	binary.LittleEndian.PutUint32(rec[offSize:], e.Size)
	binary.LittleEndian.PutUint32(rec[offHead:], uint32(e.Head))
	for j, c := range e.Slots {
		binary.LittleEndian.PutUint16(rec[offSlots+j*2:], encodeChild(c))
	}
}

// ClearEntry zeroes entry slot i, marking it free.
func (im *Image) ClearEntry(i int) {
	clear(im.record(i))
}

func (im *Image) record(i int) []byte {
	if i < 0 || i >= EntryCount {
		panic(fmt.Errorf("%w: entry %d", ErrOutOfRange, i))
	}
	off := EntryTableOffset + i*EntryRecordSize
	return im.data[off : off+EntryRecordSize : off+EntryRecordSize]
}

func checkBlock(i int) {
	if i < 0 || i >= BlockCount {
		panic(fmt.Errorf("%w: block %d", ErrOutOfRange, i))
	}
}

func decodeParent(raw uint16) int {
	if raw == rawNoParent {
		return NoParent
	}
	return int(raw)
}

func encodeParent(p int) uint16 {
	if p == NoParent {
		return rawNoParent
	}
	return uint16(p)
}

func decodeChild(raw uint16) Child {
	switch raw {
	case rawFreeSlot:
		return Child{State: SlotFree}
	case rawTombstone:
		return Child{State: SlotTombstone}
	default:
		return Child{State: SlotUsed, Index: int(raw)}
	}
}

func encodeChild(c Child) uint16 {
	switch c.State {
	case SlotFree:
		return rawFreeSlot
	case SlotTombstone:
		return rawTombstone
	default:
		return uint16(c.Index)
	}
}
