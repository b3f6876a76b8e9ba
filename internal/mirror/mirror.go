// Package mirror holds CPU-side copies of entity pools in the exact record
// layout a renderer uploads to the GPU.
//
// After each simulation phase the owning pool's live prefix is published into
// a Buffer. The Buffer keeps its own storage so that a renderer reading it
// between steps never aliases the pool, which may reallocate on growth.
package mirror

import (
	"unsafe"

	"go.uber.org/zap"
)

// Uploader receives a published buffer. data holds count records of stride
// bytes each and is only valid for the duration of the call.
type Uploader interface {
	Upload(name string, data []byte, count, stride int)
}

// UploaderFunc adapts a function to Uploader.
type UploaderFunc func(name string, data []byte, count, stride int)

func (f UploaderFunc) Upload(name string, data []byte, count, stride int) {
	f(name, data, count, stride)
}

// Buffer mirrors the live prefix of one pool. T must be a fixed-size record
// of plain numeric fields so that its in-memory layout is the upload layout.
type Buffer[T any] struct {
	name    string
	records []T // len(records) is the buffer capacity
	count   int
	up      Uploader
	log     *zap.Logger

	publishes int
	grows     int
}

// NewBuffer returns a buffer sized for capacity records. up may be nil when
// nothing consumes the uploads; log may be nil.
func NewBuffer[T any](name string, capacity int, up Uploader, log *zap.Logger) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Buffer[T]{
		name:    name,
		records: make([]T, capacity),
		up:      up,
		log:     log,
	}
}

// Publish copies live into the buffer and forwards exactly len(live) records
// to the uploader. Slots past the live count are never uploaded.
//
// When live no longer fits, the buffer doubles until it does and a warning
// is logged; Publish reports whether that happened.
func (b *Buffer[T]) Publish(live []T) bool {
	grew := false
	if len(live) > len(b.records) {
		old := len(b.records)
		n := old
		for n < len(live) {
			n *= 2
		}
		b.records = make([]T, n)
		b.grows++
		grew = true
		b.log.Warn("mirror buffer undersized, growing",
			zap.String("buffer", b.name),
			zap.Int("count", len(live)),
			zap.Int("old_capacity", old),
			zap.Int("new_capacity", n),
		)
	}
	b.count = copy(b.records, live)
	b.publishes++
	if b.up != nil {
		b.up.Upload(b.name, b.Bytes(), b.count, b.Stride())
	}
	return grew
}

// Name returns the key the buffer uploads under.
func (b *Buffer[T]) Name() string { return b.name }

// Records returns the records from the last Publish.
func (b *Buffer[T]) Records() []T { return b.records[:b.count] }

// Len returns the number of records from the last Publish.
func (b *Buffer[T]) Len() int { return b.count }

// Cap returns the number of records the buffer can hold without growing.
func (b *Buffer[T]) Cap() int { return len(b.records) }

// Stride returns the size of one record in bytes.
func (b *Buffer[T]) Stride() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Bytes returns a raw view of the published records. The view aliases the
// buffer and is invalidated by the next Publish.
func (b *Buffer[T]) Bytes() []byte {
	if b.count == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.records[0])), b.count*b.Stride())
}

// Publishes returns how many times the buffer has been published.
func (b *Buffer[T]) Publishes() int { return b.publishes }

// Grows returns how many times Publish had to enlarge the buffer.
func (b *Buffer[T]) Grows() int { return b.grows }

// Release drops the buffer storage.
func (b *Buffer[T]) Release() {
	b.records = nil
	b.count = 0
}
