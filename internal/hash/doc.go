// Package hash provides the CRC32-Castagnoli checksum used by image
// archives.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums, as the archive writer does frame by frame:
//
//	h := hash.NewCRC32C()
//	h.Write(frame1)
//	h.Write(frame2)
//	checksum := h.Sum32()
//
// Go's hash/crc32 picks hardware instructions (SSE4.2, ARM CRC) when the
// CPU has them.
package hash
