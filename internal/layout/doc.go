// Package layout defines the fixed binary layout of a disk image.
//
// # Regions
//
// An image is three consecutive regions, all little-endian:
//
//	+-------------------+ 0
//	| chain table       | BlockCount x uint32
//	+-------------------+ EntryTableOffset
//	| entry table       | EntryCount x EntryRecordSize
//	+-------------------+ DataOffset
//	| block data        | BlockCount x BlockSize
//	+-------------------+ ImageSize
//
// There is no header and no version field: the geometry is fixed at build
// time and an image built with different constants is not readable.
//
// # Encoding
//
// Sentinel values (free chain entries, tombstoned child slots, the root's
// missing parent) exist only inside this package. Callers work with the
// decoded [Chain] and [Child] variants and with [Entry] values.
//
// Every accessor on [Image] bounds-checks its index; an out-of-range index
// is a programming error and panics with [ErrOutOfRange].
package layout
