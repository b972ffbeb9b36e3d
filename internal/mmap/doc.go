// Package mmap provides read-write shared memory mappings of disk images.
//
// # Overview
//
// A disk image is mapped once, in full, when it is opened. Every mutation
// of the filesystem is a store into the mapping; the kernel writes dirty
// pages back to the file on its own schedule, and [Mapping.Sync] forces
// them out synchronously.
//
// # Usage
//
//	f, _ := os.OpenFile("disk.img", os.O_RDWR, 0)
//	m, err := mmap.Map(f, size)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()   // aliases the file contents
//	data[0] = 1
//	_ = m.Sync()        // msync(MS_SYNC)
//
// The file descriptor stays owned by the caller and must outlive the
// mapping on Windows.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_SHARED, msync(2), madvise(2)
//   - Windows: CreateFileMapping/MapViewOfFile, FlushViewOfFile (madvise is a no-op)
//
// # Thread Safety
//
// Close is idempotent and protected by an atomic flag. Callers must ensure
// nothing touches the slice returned by Bytes after Close returns.
package mmap
