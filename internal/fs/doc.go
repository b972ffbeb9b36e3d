// Package fs provides host filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: an open host file with read/write/sync/truncate capabilities
//     and access to its descriptor for memory mapping
//   - [FileSystem]: host filesystem operations (open, remove, stat, etc.)
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// # Usage
//
// Production code should use fs.Default (which is [LocalFS]):
//
//	file, err := fs.Default.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
//
// Tests can inject [FaultyFS] to simulate failures:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("disk.img", fs.Fault{FailAfterBytes: -1, FailOnClose: true})
//	// inject ffs into component under test
//
// Only the disk image backing store and the fatdisk host-side utilities
// touch the host filesystem; everything else operates on mapped memory.
package fs
