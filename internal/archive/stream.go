package archive

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	stdhash "hash"
	"io"

	"github.com/hupe1980/fatfs/internal/hash"
)

const (
	magic   = "FATZ"
	version = 1

	headerSize      = 4 + 1 + 1 + 8
	frameHeaderSize = 8
	trailerSize     = 4

	// FrameSize is the amount of image data per frame.
	FrameSize = 64 << 10
)

var (
	ErrBadMagic     = errors.New("archive: not an image archive")
	ErrBadVersion   = errors.New("archive: unsupported version")
	ErrCorruptFrame = errors.New("archive: corrupt frame")
	ErrChecksum     = errors.New("archive: checksum mismatch")
	ErrSizeMismatch = errors.New("archive: size mismatch")
	ErrWriterClosed = errors.New("archive: writer closed")
)

// Writer compresses an image of a known size into an archive.
type Writer struct {
	w       io.Writer
	codec   Codec
	size    uint64
	written uint64
	buf     []byte
	crc     stdhash.Hash32
	closed  bool
}

// NewWriter writes the archive header for an image of size bytes.
func NewWriter(w io.Writer, codec Codec, size uint64) (*Writer, error) {
	if codec > ZSTD {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, uint8(codec))
	}
	hdr := make([]byte, headerSize)
	copy(hdr, magic)
	hdr[4] = version
	hdr[5] = byte(codec)
	binary.LittleEndian.PutUint64(hdr[6:], size)
	if _, err := w.Write(hdr); err != nil {
		return nil, err
	}
	return &Writer{
		w:     w,
		codec: codec,
		size:  size,
		buf:   make([]byte, 0, FrameSize),
		crc:   hash.NewCRC32C(),
	}, nil
}

// Write buffers image data, emitting a frame every FrameSize bytes.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}
	if w.written+uint64(len(p)) > w.size {
		return 0, fmt.Errorf("%w: more than %d bytes", ErrSizeMismatch, w.size)
	}

	total := 0
	for len(p) > 0 {
		space := FrameSize - len(w.buf)
		n := min(space, len(p))
		w.buf = append(w.buf, p[:n]...)
		p = p[n:]
		total += n
		w.written += uint64(n)

		if len(w.buf) == FrameSize {
			if err := w.flush(); err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// Close emits the last partial frame and the CRC32C trailer of the image.
// It fails if fewer bytes than the announced image size were written.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.flush(); err != nil {
		return err
	}
	if w.written != w.size {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrSizeMismatch, w.written, w.size)
	}
	var trailer [trailerSize]byte
	binary.LittleEndian.PutUint32(trailer[:], w.crc.Sum32())
	_, err := w.w.Write(trailer[:])
	return err
}

func (w *Writer) flush() error {
	if len(w.buf) == 0 {
		return nil
	}
	w.crc.Write(w.buf)
	packed, err := compress(w.buf, w.codec)
	if err != nil {
		return err
	}

	var hdr [frameHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(len(w.buf)))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(len(packed)))
	if _, err := w.w.Write(hdr[:]); err != nil {
		return err
	}

	data := packed
	if data == nil {
		data = w.buf
	}
	if _, err := w.w.Write(data); err != nil {
		return err
	}
	w.buf = w.buf[:0]
	return nil
}

// Reader decompresses an archive back into the raw image stream.
type Reader struct {
	r         *bufio.Reader
	codec     Codec
	size      uint64
	remaining uint64
	frame     []byte
	pos       int
	packed    []byte
	crc       stdhash.Hash32
}

// NewReader parses the archive header.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(br, hdr); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrBadMagic
		}
		return nil, err
	}
	if string(hdr[:4]) != magic {
		return nil, ErrBadMagic
	}
	if hdr[4] != version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, hdr[4])
	}
	codec := Codec(hdr[5])
	if codec > ZSTD {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, hdr[5])
	}
	size := binary.LittleEndian.Uint64(hdr[6:])
	return &Reader{
		r:         br,
		codec:     codec,
		size:      size,
		remaining: size,
		crc:       hash.NewCRC32C(),
	}, nil
}

// Size returns the image size announced by the header.
func (r *Reader) Size() uint64 { return r.size }

// Codec returns the codec of the archive.
func (r *Reader) Codec() Codec { return r.codec }

// Read returns decompressed image bytes. The checksum trailer is verified
// before io.EOF is reported.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.pos == len(r.frame) {
		if r.remaining == 0 {
			if err := r.verify(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		if err := r.next(); err != nil {
			return 0, err
		}
	}
	n := copy(p, r.frame[r.pos:])
	r.pos += n
	return n, nil
}

func (r *Reader) next() error {
	var hdr [frameHeaderSize]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptFrame, err)
	}
	raw := binary.LittleEndian.Uint32(hdr[0:])
	packed := binary.LittleEndian.Uint32(hdr[4:])
	if raw == 0 || raw > FrameSize || uint64(raw) > r.remaining || packed > uint32(FrameSize)*2 {
		return ErrCorruptFrame
	}

	if cap(r.frame) < int(raw) {
		r.frame = make([]byte, FrameSize)
	}
	r.frame = r.frame[:raw]
	r.pos = 0

	if packed == 0 {
		if _, err := io.ReadFull(r.r, r.frame); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptFrame, err)
		}
	} else {
		if cap(r.packed) < int(packed) {
			r.packed = make([]byte, packed)
		}
		r.packed = r.packed[:packed]
		if _, err := io.ReadFull(r.r, r.packed); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptFrame, err)
		}
		if err := decompress(r.frame, r.packed, r.codec); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptFrame, err)
		}
	}
	r.remaining -= uint64(raw)
	r.crc.Write(r.frame)
	return nil
}

func (r *Reader) verify() error {
	if r.crc == nil {
		return nil
	}
	var trailer [trailerSize]byte
	if _, err := io.ReadFull(r.r, trailer[:]); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptFrame, err)
	}
	want := binary.LittleEndian.Uint32(trailer[:])
	got := r.crc.Sum32()
	r.crc = nil
	if got != want {
		return fmt.Errorf("%w: %08x, want %08x", ErrChecksum, got, want)
	}
	return nil
}
