package layout

import "fmt"

// ChainState is the decoded state of a chain table entry.
type ChainState uint8

const (
	// Unused marks a free block.
	Unused ChainState = iota
	// EndOfChain marks the last block of a chain.
	EndOfChain
	// Linked marks a block followed by Chain.Next.
	Linked
)

func (s ChainState) String() string {
	switch s {
	case Unused:
		return "unused"
	case EndOfChain:
		return "end-of-chain"
	case Linked:
		return "linked"
	default:
		return fmt.Sprintf("ChainState(%d)", uint8(s))
	}
}

// Chain is one decoded chain table entry. Next is meaningful only when
// State is Linked.
type Chain struct {
	State ChainState
	Next  int
}

// Free returns the entry of an unallocated block.
func Free() Chain { return Chain{State: Unused} }

// End returns the entry of a terminal block.
func End() Chain { return Chain{State: EndOfChain} }

// LinkTo returns an entry pointing at block next.
func LinkTo(next int) Chain { return Chain{State: Linked, Next: next} }

func (c Chain) String() string {
	if c.State == Linked {
		return fmt.Sprintf("next(%d)", c.Next)
	}
	return c.State.String()
}

func decodeChain(raw uint32) Chain {
	switch raw {
	case rawUnused:
		return Free()
	case rawEndOfChain:
		return End()
	default:
		return LinkTo(int(raw))
	}
}

func encodeChain(c Chain) uint32 {
	switch c.State {
	case Unused:
		return rawUnused
	case EndOfChain:
		return rawEndOfChain
	default:
		return uint32(c.Next)
	}
}
