package mmap

import (
	"sync/atomic"
)

// Mapping represents a read-write shared mapping of a file.
// It owns the mapped memory and is responsible for unmapping it.
type Mapping struct {
	data   []byte
	size   int
	closed atomic.Bool
	// platform-specific teardown and flush
	unmap func([]byte) error
	flush func([]byte) error
}

// Map maps the first size bytes of f read-write and shared with the file.
// The file must already be at least size bytes long.
func Map(f Fder, size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	data, unmapFunc, flushFunc, err := osMap(f.Fd(), size)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:  data,
		size:  size,
		unmap: unmapFunc,
		flush: flushFunc,
	}, nil
}

// Bytes returns the mapped memory.
// Warning: The slice is valid only until Close() is called.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Sync writes dirty pages back to the file and waits for completion.
func (m *Mapping) Sync() error {
	if m.closed.Load() {
		return ErrClosed
	}
	return m.flush(m.data)
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return osAdvise(m.data, pattern)
}

// Close unmaps the memory without flushing it. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	data := m.data
	m.data = nil
	return m.unmap(data)
}
