// Package pool provides a growable contiguous array of value records with
// O(1) swap-remove deletion. Records live by value in one backing array; the
// first Len() elements are the live prefix.
package pool

// Pool is a dynamic array of T with explicit count and capacity.
// Capacity only grows (doubling), never shrinks.
//
// Indices are not stable: Remove moves the last live record into the removed
// slot, so callers must not hold an index or pointer across a removal or an
// Alloc on the same pool.
type Pool[T any] struct {
	items []T // len(items) is the capacity
	count int
}

// New returns a pool with the given starting capacity. A capacity below 1 is
// raised to 1 so that doubling always makes progress.
func New[T any](capacity int) *Pool[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Pool[T]{items: make([]T, capacity)}
}

// Len returns the number of live records.
func (p *Pool[T]) Len() int { return p.count }

// Cap returns the current capacity of the backing array.
func (p *Pool[T]) Cap() int { return len(p.items) }

// Alloc appends a zeroed record to the live prefix and returns a pointer to
// it, doubling the backing array first when the pool is full.
func (p *Pool[T]) Alloc() *T {
	if p.count == len(p.items) {
		p.grow()
	}
	var zero T
	p.items[p.count] = zero
	p.count++
	return &p.items[p.count-1]
}

func (p *Pool[T]) grow() {
	next := make([]T, 2*len(p.items))
	copy(next, p.items[:p.count])
	p.items = next
}

// Remove deletes the record at i by overwriting it with the last live record
// and shrinking the live prefix by one. Removing the last record is a plain
// shrink.
func (p *Pool[T]) Remove(i int) {
	last := p.count - 1
	p.items[i] = p.items[last]
	p.count = last
}

// At returns a pointer to the live record at i. It panics when i is outside
// the live prefix.
func (p *Pool[T]) At(i int) *T {
	if i < 0 || i >= p.count {
		panic("pool: index out of live range")
	}
	return &p.items[i]
}

// Live returns the live prefix. The slice aliases the backing array and is
// only valid until the next Alloc or Remove.
func (p *Pool[T]) Live() []T {
	return p.items[:p.count]
}

// Reset drops every live record but keeps the capacity.
func (p *Pool[T]) Reset() {
	p.count = 0
}

// Release drops the backing array. The pool must not be used afterwards.
func (p *Pool[T]) Release() {
	p.items = nil
	p.count = 0
}

// Cursor returns a forward iterator positioned before the first record.
func (p *Pool[T]) Cursor() Cursor[T] {
	return Cursor[T]{p: p, i: -1}
}

// Cursor walks the live prefix of a pool front to back and allows removal of
// the current record without skipping the record swapped into its slot.
//
//	c := p.Cursor()
//	for c.Next() {
//		if dead(c.Current()) {
//			c.RemoveCurrent()
//		}
//	}
type Cursor[T any] struct {
	p *Pool[T]
	i int
}

// Next advances to the next live record and reports whether there is one.
func (c *Cursor[T]) Next() bool {
	c.i++
	return c.i < c.p.count
}

// Current returns a pointer to the record under the cursor.
func (c *Cursor[T]) Current() *T {
	return &c.p.items[c.i]
}

// Index returns the position of the cursor in the live prefix.
func (c *Cursor[T]) Index() int { return c.i }

// RemoveCurrent swap-removes the current record and steps the cursor back so
// the following Next visits the record that was moved into this slot.
func (c *Cursor[T]) RemoveCurrent() {
	c.p.Remove(c.i)
	c.i--
}
