package fatfs

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/fatfs/internal/archive"
	"github.com/hupe1980/fatfs/internal/layout"
)

// Codec selects the compression of an exported image.
type Codec = archive.Codec

const (
	CodecNone = archive.None
	CodecLZ4  = archive.LZ4
	CodecZSTD = archive.ZSTD
)

// ParseCodec maps "none", "lz4" or "zstd" to a Codec.
func ParseCodec(name string) (Codec, error) {
	return archive.ParseCodec(name)
}

// Export flushes the image and writes it to w as a compressed archive.
func (d *Disk) Export(w io.Writer, codec Codec) error {
	if d.closed {
		return ErrClosed
	}
	if err := d.Sync(); err != nil {
		return err
	}

	aw, err := archive.NewWriter(w, codec, layout.ImageSize)
	if err != nil {
		return fmt.Errorf("fatfs: export %s: %w", d.path, err)
	}
	if _, err := aw.Write(d.img.Bytes()); err != nil {
		return fmt.Errorf("fatfs: export %s: %w", d.path, err)
	}
	if err := aw.Close(); err != nil {
		return fmt.Errorf("fatfs: export %s: %w", d.path, err)
	}
	d.logger.Debug("image exported", "codec", codec.String())
	return nil
}

// Import restores the archive read from r into a new image file at path and
// opens it. An existing file at path is replaced. If restoring or opening
// fails the file is removed.
func Import(r io.Reader, path string, optFns ...Option) (*Disk, error) {
	o := applyOptions(optFns)

	ar, err := archive.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, archiveError(err))
	}
	if ar.Size() != layout.ImageSize {
		return nil, fmt.Errorf("import %s: %w: archive holds %d bytes, want %d",
			path, ErrInvalidImage, ar.Size(), layout.ImageSize)
	}

	if err := restore(o, ar, path); err != nil {
		_ = o.fs.Remove(path)
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	d, err := openDisk(path, false, o)
	if err != nil {
		_ = o.fs.Remove(path)
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return d, nil
}

func restore(o options, ar *archive.Reader, path string) error {
	f, err := o.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	var firstErr error
	if _, err := io.Copy(f, ar); err != nil {
		firstErr = archiveError(err)
	}
	if firstErr == nil {
		firstErr = f.Sync()
	}
	if err := f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// archiveError classifies malformed archives as invalid images.
func archiveError(err error) error {
	switch {
	case errors.Is(err, archive.ErrBadMagic),
		errors.Is(err, archive.ErrBadVersion),
		errors.Is(err, archive.ErrCorruptFrame),
		errors.Is(err, archive.ErrChecksum),
		errors.Is(err, archive.ErrUnknownCodec):
		return fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	return err
}
