package fat

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/fatfs/internal/layout"
)

// ErrNoFreeBlock is returned when every block is allocated.
var ErrNoFreeBlock = errors.New("no free block")

// Table allocates blocks and manages chains over an image's chain table.
type Table struct {
	img  *layout.Image
	free *roaring.Bitmap
}

// New builds the allocator state for img.
func New(img *layout.Image) *Table {
	free := roaring.New()
	for i := 0; i < layout.BlockCount; i++ {
		if img.Chain(i).State == layout.Unused {
			free.Add(uint32(i))
		}
	}
	return &Table{img: img, free: free}
}

// FindFree returns the lowest-numbered free block.
func (t *Table) FindFree() (int, bool) {
	if t.free.IsEmpty() {
		return 0, false
	}
	return int(t.free.Minimum()), true
}

// Free returns the number of free blocks.
func (t *Table) Free() int {
	return int(t.free.GetCardinality())
}

// AllocateHead reserves a zeroed block as the single-block chain of a new file.
func (t *Table) AllocateHead() (int, error) {
	return t.take()
}

// Extend appends a zeroed block to the chain whose last block is tail.
func (t *Table) Extend(tail int) (int, error) {
	switch c := t.img.Chain(tail); c.State {
	case layout.Unused:
		corrupt("extending free block %d", tail)
	case layout.Linked:
		return 0, fmt.Errorf("fat: block %d is not the end of its chain (next %d)", tail, c.Next)
	}

	next, err := t.take()
	if err != nil {
		return 0, err
	}
	t.img.SetChain(tail, layout.LinkTo(next))
	return next, nil
}

// Successor returns the block after block in its chain. At the end of the
// chain it reports false, unless grow is set, in which case it extends the
// chain by one block.
func (t *Table) Successor(block int, grow bool) (int, bool, error) {
	switch c := t.img.Chain(block); c.State {
	case layout.Linked:
		return c.Next, true, nil
	case layout.EndOfChain:
		if !grow {
			return 0, false, nil
		}
		next, err := t.Extend(block)
		if err != nil {
			return 0, false, err
		}
		return next, true, nil
	default:
		corrupt("free block %d inside a live chain", block)
		return 0, false, nil
	}
}

// Reach returns the block at position pos of the chain starting at head.
// With grow set, missing positions are allocated; if allocation fails the
// blocks obtained so far stay linked into the chain.
func (t *Table) Reach(head, pos int, grow bool) (int, bool, error) {
	t.checkLive(head)
	block := head
	for i := 0; i < pos; i++ {
		next, ok, err := t.Successor(block, grow)
		if err != nil || !ok {
			return 0, false, err
		}
		block = next
	}
	return block, true, nil
}

// Release frees every block of the chain starting at head and returns how
// many blocks it held.
func (t *Table) Release(head int) int {
	n := 0
	for block := head; ; n++ {
		if n >= layout.BlockCount {
			corrupt("chain at %d does not terminate", head)
		}
		c := t.img.Chain(block)
		if c.State == layout.Unused {
			corrupt("free block %d inside chain at %d", block, head)
		}
		t.img.SetChain(block, layout.Free())
		t.free.Add(uint32(block))
		if c.State == layout.EndOfChain {
			return n + 1
		}
		block = c.Next
	}
}

// Chain returns the block indices of the chain starting at head.
func (t *Table) Chain(head int) []int {
	var blocks []int
	for block := head; ; {
		if len(blocks) >= layout.BlockCount {
			corrupt("chain at %d does not terminate", head)
		}
		c := t.img.Chain(block)
		if c.State == layout.Unused {
			corrupt("free block %d inside chain at %d", block, head)
		}
		blocks = append(blocks, block)
		if c.State == layout.EndOfChain {
			return blocks
		}
		block = c.Next
	}
}

func (t *Table) take() (int, error) {
	block, ok := t.FindFree()
	if !ok {
		return 0, ErrNoFreeBlock
	}
	if t.img.Chain(block).State != layout.Unused {
		corrupt("free index lists allocated block %d", block)
	}
	t.free.Remove(uint32(block))
	t.img.SetChain(block, layout.End())
	clear(t.img.Block(block))
	return block, nil
}

func (t *Table) checkLive(block int) {
	if t.img.Chain(block).State == layout.Unused {
		corrupt("chain head %d is free", block)
	}
}

func corrupt(format string, args ...any) {
	panic(fmt.Errorf("%w: "+format, append([]any{layout.ErrCorrupt}, args...)...))
}
