// Package history keeps bounded in-memory sample histories for the graph
// meters.
package history

// Ring is a fixed-capacity FIFO; pushing into a full ring evicts the oldest
// sample.
type Ring[T any] struct {
	buf  []T
	head int // next write position
	size int
}

func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{buf: make([]T, max(1, capacity))}
}

func (r *Ring[T]) Push(v T) {
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
	if r.size < len(r.buf) {
		r.size++
	}
}

func (r *Ring[T]) Len() int { return r.size }

func (r *Ring[T]) Cap() int { return len(r.buf) }

// Last returns the newest sample.
func (r *Ring[T]) Last() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.buf[(r.head-1+len(r.buf))%len(r.buf)], true
}

// Snapshot copies the samples oldest first.
func (r *Ring[T]) Snapshot() []T {
	return r.Newest(r.size)
}

// Newest copies up to n of the most recent samples, oldest first.
func (r *Ring[T]) Newest(n int) []T {
	n = min(max(n, 0), r.size)
	out := make([]T, n)
	start := r.head - n
	if start < 0 {
		start += len(r.buf)
	}
	for i := range out {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

func (r *Ring[T]) Reset() {
	clear(r.buf)
	r.head, r.size = 0, 0
}
