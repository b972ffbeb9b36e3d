package layout

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImage(t *testing.T) *Image {
	t.Helper()
	im, err := NewImage(make([]byte, ImageSize))
	require.NoError(t, err)
	im.Format()
	return im
}

func TestNewImage_ShortBuffer(t *testing.T) {
	_, err := NewImage(make([]byte, ImageSize-1))
	assert.ErrorIs(t, err, ErrShortImage)
}

func TestFormat(t *testing.T) {
	im := newTestImage(t)

	for i := 0; i < BlockCount; i++ {
		require.Equal(t, Free(), im.Chain(i), "block %d", i)
	}
	for i := 1; i < EntryCount; i++ {
		require.True(t, im.IsFreeEntry(i), "entry %d", i)
	}

	root := im.Entry(Root)
	assert.Equal(t, RootName, root.Name.String())
	assert.Equal(t, KindDirectory, root.Kind)
	assert.Equal(t, NoParent, root.Parent)
	assert.Zero(t, root.Children)
	for _, c := range root.Slots {
		assert.Equal(t, SlotFree, c.State)
	}
}

func TestChainEncoding(t *testing.T) {
	im := newTestImage(t)

	im.SetChain(3, End())
	im.SetChain(2, LinkTo(3))
	im.SetChain(0, LinkTo(0))

	assert.Equal(t, End(), im.Chain(3))
	assert.Equal(t, LinkTo(3), im.Chain(2))
	assert.Equal(t, LinkTo(0), im.Chain(0))
	assert.Equal(t, Free(), im.Chain(1))

	// Sentinels only exist in the persisted form.
	assert.Equal(t, uint32(0xFFFFFFFF), binary.LittleEndian.Uint32(im.Bytes()[ChainTableOffset+1*ChainEntrySize:]))
	assert.Equal(t, uint32(0xFFFFFFFE), binary.LittleEndian.Uint32(im.Bytes()[ChainTableOffset+3*ChainEntrySize:]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(im.Bytes()[ChainTableOffset+2*ChainEntrySize:]))
}

func TestChain_CorruptLink(t *testing.T) {
	im := newTestImage(t)
	binary.LittleEndian.PutUint32(im.Bytes()[ChainTableOffset+5*ChainEntrySize:], BlockCount+7)

	assert.PanicsWithError(t, "layout: corrupt image: block 5 links to 4103", func() {
		im.Chain(5)
	})
}

func TestBoundsChecks(t *testing.T) {
	im := newTestImage(t)

	assert.Panics(t, func() { im.Chain(-1) })
	assert.Panics(t, func() { im.Chain(BlockCount) })
	assert.Panics(t, func() { im.SetChain(0, LinkTo(BlockCount)) })
	assert.Panics(t, func() { im.Block(BlockCount) })
	assert.Panics(t, func() { im.Entry(EntryCount) })
	assert.Panics(t, func() { im.ClearEntry(-1) })
}

func TestEntryRoundTrip(t *testing.T) {
	im := newTestImage(t)

	e := Entry{
		Kind:     KindDirectory,
		Children: 2,
		Parent:   Root,
		Size:     0,
		Head:     0,
	}
	e.Name, _ = MakeName("docs")
	e.Slots[0] = Child{State: SlotUsed, Index: 9}
	e.Slots[1] = Child{State: SlotTombstone}
	e.Slots[2] = Child{State: SlotUsed, Index: 12}
	im.PutEntry(4, &e)

	got := im.Entry(4)
	assert.Equal(t, e, got)
	assert.Equal(t, "docs", got.Name.String())
	assert.False(t, im.IsFreeEntry(4))

	im.ClearEntry(4)
	assert.True(t, im.IsFreeEntry(4))
	cleared := im.Entry(4)
	assert.True(t, cleared.IsFree())
}

func TestBlockAliasesImage(t *testing.T) {
	im := newTestImage(t)

	b := im.Block(1)
	require.Len(t, b, BlockSize)
	copy(b, "hello")
	assert.Equal(t, "hello", string(im.Bytes()[DataOffset+BlockSize:DataOffset+BlockSize+5]))

	// Capacity is clipped so appends cannot spill into the next block.
	assert.Equal(t, BlockSize, cap(b))
}

func TestNames(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"a", true},
		{"file.txt", true},
		{string(make([]byte, NameSize)), false},
		{"", false},
		{".", false},
		{"..", false},
		{"a/b", false},
		{"x\x00y", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidName(tt.name), "%q", tt.name)
	}

	full := make([]byte, NameSize)
	for i := range full {
		full[i] = 'n'
	}
	n, ok := MakeName(string(full))
	require.True(t, ok)
	assert.Equal(t, string(full), n.String())

	_, ok = MakeName(string(full) + "x")
	assert.False(t, ok)
}
