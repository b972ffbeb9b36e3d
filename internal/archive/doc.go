// Package archive implements the compressed stream used to export and
// import whole disk images.
//
// # Format
//
//	header: "FATZ" | version uint8 | codec uint8 | image size uint64
//	frame:  raw size uint32 | packed size uint32 | data
//	trailer: CRC32C of the raw image uint32
//
// All integers are little-endian. A frame whose packed size is 0 carries
// its data uncompressed; this happens when the codec is [None] or when
// compression would not save at least a tenth of the frame. Frames hold at
// most [FrameSize] bytes of image data. The reader checks the trailer
// before it reports io.EOF.
//
// Images are mostly zero-filled blocks, so even the fast [LZ4] codec shrinks
// a fresh image to a few kilobytes.
package archive
