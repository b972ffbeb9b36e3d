package archive

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies the compression algorithm of an archive.
type Codec uint8

const (
	// None stores frames uncompressed.
	None Codec = 0
	// LZ4 compresses frames with LZ4 block compression (fast).
	LZ4 Codec = 1
	// ZSTD compresses frames with Zstandard (better ratio).
	ZSTD Codec = 2
)

// ErrUnknownCodec is returned for codec names or ids that are not supported.
var ErrUnknownCodec = errors.New("archive: unknown codec")

func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Codec(%d)", uint8(c))
	}
}

// ParseCodec maps a codec name to its Codec.
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd", "zst":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownCodec, s)
	}
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	// No frame decodes to more than FrameSize.
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(FrameSize))
	return dec
}

// compress returns the packed form of data, or nil when the frame should
// be stored raw.
func compress(data []byte, c Codec) ([]byte, error) {
	var packed []byte
	switch c {
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		packed = buf[:n]
	case ZSTD:
		enc := getZstdEncoder()
		packed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, nil
	}

	// Not worth it below a 10% saving.
	if len(packed) == 0 || float64(len(packed)) > float64(len(data))*0.9 {
		return nil, nil
	}
	return packed, nil
}

// decompress unpacks a frame into dst, which has the raw frame length.
func decompress(dst, packed []byte, c Codec) error {
	switch c {
	case LZ4:
		n, err := lz4.UncompressBlock(packed, dst)
		if err != nil {
			return err
		}
		if n != len(dst) {
			return ErrCorruptFrame
		}
		return nil
	case ZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(packed, dst[:0])
		if err != nil {
			return err
		}
		if len(out) != len(dst) {
			return ErrCorruptFrame
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownCodec, uint8(c))
	}
}
