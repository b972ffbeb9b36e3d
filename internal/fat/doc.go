// Package fat implements the block-chain allocator.
//
// The chain table is the single source of truth: a block is free when its
// entry is Unused, and a file's content is the chain that starts at its head
// block and follows Next links until EndOfChain. A roaring bitmap of free
// blocks is rebuilt from the table when a [Table] is constructed and kept in
// step with every allocation and release, so the first free block is found
// without rescanning the table.
//
// An Unused entry reached while walking a live chain, a link cycle, or a
// chain longer than the table means the image is inconsistent. These panic
// with an error wrapping [layout.ErrCorrupt]; they are never returned.
package fat
