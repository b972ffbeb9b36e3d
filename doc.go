// Package fatfs implements a small hierarchical filesystem stored inside a
// single fixed-size disk image file.
//
// The image is memory-mapped read/write and shared with the file, so every
// mutation lands in the page cache immediately and reaches the disk on Sync
// or Close. Storage is split into fixed 512-byte blocks linked into chains
// by a file allocation table. Directories are entries in a fixed-size entry
// table; each records its parent and up to 64 child slots.
//
// # Quick Start
//
//	disk, _ := fatfs.Create("disk.img")
//	defer disk.Close()
//
//	f, _ := disk.Create("hello.txt")
//	f.Write([]byte("hello, world"))
//	f.Seek(0, io.SeekStart)
//	data, _ := io.ReadAll(f)
//	f.Close()
//
// # Directories
//
// All names resolve against a single working directory owned by the Disk:
//
//	disk.Mkdir("docs")
//	disk.Chdir("docs")
//	disk.Getwd()  // "/docs"
//	disk.Chdir("..")
//	entries, _ := disk.List()
//
// # Files
//
// A File is a cursor over an entry's block chain and implements io.Reader,
// io.Writer and io.Seeker. Writes extend the chain on demand and grow the
// recorded size; they never shrink it. A write that runs out of blocks
// returns the short count together with ErrNoFreeBlock. Seeking past the end
// is allowed with io.SeekStart; the next write fills the gap with zeros.
//
// Erasing a file, by name or through a handle, invalidates every open handle
// for it. Those handles report ErrStale and still have to be closed.
//
// # Archives
//
// Export streams the image as a compressed archive (zstd or lz4) and Import
// restores it:
//
//	disk.Export(w, fatfs.CodecZSTD)
//	restored, _ := fatfs.Import(r, "copy.img")
//
// # Concurrency
//
// A Disk and its Files are not safe for concurrent use. Callers that share
// them between goroutines must serialize access.
//
// # Corruption
//
// Structural corruption found while operating on an image (a chain running
// into a free block, a link outside the table) panics with an error wrapping
// ErrCorrupt. Open reports ErrInvalidImage for images it can reject up front.
package fatfs
