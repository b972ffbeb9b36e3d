package fatfs

import "fmt"

// Close flushes the mapping, unmaps it and closes the image file. Every step
// is attempted and the first error is returned. Files still open become
// unusable. Close is idempotent.
func (d *Disk) Close() error {
	if d == nil || d.closed {
		return nil
	}
	d.closed = true
	open := len(d.handles)
	d.handles = nil

	var firstErr error
	if err := d.mapping.Sync(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("fatfs: sync %s: %w", d.path, err)
	}
	if err := d.file.Sync(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("fatfs: sync %s: %w", d.path, err)
	}
	if err := d.mapping.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("fatfs: unmap %s: %w", d.path, err)
	}
	if err := d.file.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("fatfs: close %s: %w", d.path, err)
	}
	d.img, d.fat, d.tree = nil, nil, nil

	d.logger.LogClose(open, firstErr)
	return firstErr
}

// Sync writes dirty pages of the mapping back to the image file.
func (d *Disk) Sync() error {
	if d.closed {
		return ErrClosed
	}
	if err := d.mapping.Sync(); err != nil {
		return fmt.Errorf("fatfs: sync %s: %w", d.path, err)
	}
	if err := d.file.Sync(); err != nil {
		return fmt.Errorf("fatfs: sync %s: %w", d.path, err)
	}
	return nil
}
