package memvfs

import "sync"

// Buffer is the contents of one in-memory file. Handles opened on the same
// name share a Buffer.
type Buffer struct {
	mutex sync.RWMutex
	data  []byte
}

// NewBuffer returns a buffer holding data. The buffer takes ownership of
// data.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

func (b *Buffer) Len() int64 {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return int64(len(b.data))
}

// ReadAt copies from off into p and returns the number of bytes copied,
// zero when off is at or past the end.
func (b *Buffer) ReadAt(p []byte, off int64) int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	if off >= int64(len(b.data)) {
		return 0
	}

	return copy(p, b.data[off:])
}

// WriteAt copies p to off, growing the buffer with zeroes as needed.
func (b *Buffer) WriteAt(p []byte, off int64) int {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if end := off + int64(len(p)); end > int64(len(b.data)) {
		b.grow(end)
	}

	return copy(b.data[off:], p)
}

// Truncate resizes the buffer. Growing it fills the new space with zeroes.
func (b *Buffer) Truncate(size int64) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if size > int64(len(b.data)) {
		b.grow(size)

		return
	}

	clear(b.data[size:])
	b.data = b.data[:size]
}

// Bytes returns a copy of the contents.
func (b *Buffer) Bytes() []byte {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return append([]byte(nil), b.data...)
}

// Replace swaps the contents for data.
func (b *Buffer) Replace(data []byte) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.data = data
}

func (b *Buffer) grow(size int64) {
	if size <= int64(cap(b.data)) {
		// Bytes past len may hold data from an earlier truncate.
		n := len(b.data)
		b.data = b.data[:size]
		clear(b.data[n:])

		return
	}

	data := make([]byte, size, max(size, 2*int64(cap(b.data))))
	copy(data, b.data)
	b.data = data
}
