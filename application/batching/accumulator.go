package batching

import "fmt"

// Accumulator collects items into fixed-capacity batches. It emits a batch
// exactly when the capacity is reached and never holds more than capacity
// items. It is not safe for concurrent use.
type Accumulator[T any] struct {
	capacity int
	buf      []T
}

// NewAccumulator creates an accumulator emitting batches of capacity items
func NewAccumulator[T any](capacity int) (*Accumulator[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("batch capacity must be at least 1, got %d", capacity)
	}
	return &Accumulator[T]{
		capacity: capacity,
		buf:      make([]T, 0, capacity),
	}, nil
}

// Capacity returns the configured batch size
func (a *Accumulator[T]) Capacity() int {
	return a.capacity
}

// Len returns the number of buffered items
func (a *Accumulator[T]) Len() int {
	return len(a.buf)
}

// Add appends item. When the buffer reaches capacity the batch is returned
// with full set and the accumulator is empty again.
func (a *Accumulator[T]) Add(item T) ([]T, bool) {
	a.buf = append(a.buf, item)
	if len(a.buf) < a.capacity {
		return nil, false
	}
	return a.take(), true
}

// Flush returns whatever is buffered, or nil if nothing is
func (a *Accumulator[T]) Flush() []T {
	if len(a.buf) == 0 {
		return nil
	}
	return a.take()
}

// take hands out a copy so the caller never aliases the internal buffer
func (a *Accumulator[T]) take() []T {
	batch := make([]T, len(a.buf))
	copy(batch, a.buf)
	a.buf = a.buf[:0]
	return batch
}

// Chunk splits items into consecutive slices of at most size elements,
// preserving order. The chunks share backing storage with items.
func Chunk[T any](items []T, size int) [][]T {
	if size < 1 || len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
