package gapush

// TrackedSeq is an append-only-from-the-end dynamic array that maintains a
// running byte total of the elements it owns. It is the memory-tracked
// backing store for instruction vectors, integer vectors, and float
// vectors, and for the reified bodies of BasicBlock/Loop/If instructions
// before they are turned into iterators.
//
// Ported from the original crate's generic TrackedVec<T> (original_source's
// vec.rs); Go has no blanket "every T has a size" trait, so the size of an
// element is supplied once at construction as a function instead of a
// trait bound.
type TrackedSeq[T any] struct {
	items  []T
	size   int
	sizeOf func(T) int
	clone  func(T) T
}

// NewTrackedSeq creates an empty TrackedSeq. sizeOf reports the byte cost
// of a single element; clone deep-copies one (used by Copy* opcodes and by
// Clone itself). For scalar element kinds (int64, float64) clone is the
// identity function.
func NewTrackedSeq[T any](sizeOf func(T) int, clone func(T) T) *TrackedSeq[T] {
	return &TrackedSeq[T]{sizeOf: sizeOf, clone: clone}
}

// NewTrackedSeqFrom builds a TrackedSeq from an existing slice, computing
// the total as the sum of each element's size (TrackedVec::new_from_vec).
func NewTrackedSeqFrom[T any](items []T, sizeOf func(T) int, clone func(T) T) *TrackedSeq[T] {
	total := 0
	for _, e := range items {
		total += sizeOf(e)
	}
	return &TrackedSeq[T]{items: items, size: total, sizeOf: sizeOf, clone: clone}
}

// Push appends e, incrementing the running total by its size.
func (s *TrackedSeq[T]) Push(e T) {
	s.size += s.sizeOf(e)
	s.items = append(s.items, e)
}

// Pop removes and returns the last element, decrementing the running total.
func (s *TrackedSeq[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	e := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	s.size -= s.sizeOf(e)
	return e, true
}

// Get borrows the element at index i; it does not change the total.
func (s *TrackedSeq[T]) Get(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(s.items) {
		return zero, false
	}
	return s.items[i], true
}

// Set overwrites the element at index i, adjusting the running total by
// the delta between the new and old element sizes. Reports the size delta
// it applied; the write is already committed when it returns, so callers
// (write_X_to_vec) compute the delta and budget-check before calling it.
func (s *TrackedSeq[T]) Set(i int, e T) (delta int, ok bool) {
	if i < 0 || i >= len(s.items) {
		return 0, false
	}
	oldSize := s.sizeOf(s.items[i])
	newSize := s.sizeOf(e)
	s.items[i] = e
	s.size += newSize - oldSize
	return newSize - oldSize, true
}

// Last borrows the final element without removing it.
func (s *TrackedSeq[T]) Last() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// Len returns the number of elements currently held.
func (s *TrackedSeq[T]) Len() int { return len(s.items) }

// MemorySize is the header plus the sum of the elements' sizes.
func (s *TrackedSeq[T]) MemorySize() int { return SeqHeaderSize + s.size }

// Clone deep-copies the sequence: a fresh backing array with every element
// cloned, so mutating the copy (through IntoIter consumption or further
// Set calls) never aliases the original.
func (s *TrackedSeq[T]) Clone() *TrackedSeq[T] {
	items := make([]T, len(s.items))
	for i, e := range s.items {
		items[i] = s.clone(e)
	}
	return &TrackedSeq[T]{items: items, size: s.size, sizeOf: s.sizeOf, clone: s.clone}
}

// IntoIter consumes the sequence, producing a single-pass iterator that
// carries the same running total.
func (s *TrackedSeq[T]) IntoIter() *TrackedIter[T] {
	return &TrackedIter[T]{items: s.items, size: s.size, clone: s.clone}
}

// IntoCycleIter consumes the sequence, producing an iterator that repeats
// its elements forever (or yields nothing immediately if the sequence was
// empty).
func (s *TrackedSeq[T]) IntoCycleIter() *TrackedCycleIter[T] {
	return &TrackedCycleIter[T]{items: s.items, size: s.size, clone: s.clone}
}

// TrackedIter yields the elements of a consumed TrackedSeq in order. It
// reports, as its MemorySize, the *original* total it was built with —
// even after partial consumption — because it is pushed back onto the
// execution stack between steps and the budget must conservatively
// reflect what it still owns until it is dropped.
type TrackedIter[T any] struct {
	items []T
	pos   int
	size  int
	clone func(T) T
}

// Next yields the next element, or the zero value and false when exhausted.
func (it *TrackedIter[T]) Next() (T, bool) {
	var zero T
	if it.pos >= len(it.items) {
		return zero, false
	}
	e := it.items[it.pos]
	it.pos++
	return e, true
}

// MemorySize reports the original backing-store size, never decremented.
func (it *TrackedIter[T]) MemorySize() int { return it.size }

// Clone deep-copies the remaining elements and the original size charge.
func (it *TrackedIter[T]) Clone() *TrackedIter[T] {
	remaining := it.items[it.pos:]
	items := make([]T, len(remaining))
	for i, e := range remaining {
		items[i] = it.clone(e)
	}
	return &TrackedIter[T]{items: items, size: it.size, clone: it.clone}
}

// TrackedCycleIter is the cycling counterpart of TrackedIter: it never
// finishes unless the backing sequence was empty at construction, in which
// case it yields nothing, immediately and forever.
type TrackedCycleIter[T any] struct {
	items []T
	pos   int
	size  int
	clone func(T) T
}

// Next yields the next element, cycling back to the start when exhausted.
// An empty backing sequence always yields false.
func (it *TrackedCycleIter[T]) Next() (T, bool) {
	var zero T
	if len(it.items) == 0 {
		return zero, false
	}
	e := it.items[it.pos]
	it.pos = (it.pos + 1) % len(it.items)
	return e, true
}

// MemorySize reports the original backing-store size, never decremented.
func (it *TrackedCycleIter[T]) MemorySize() int { return it.size }

// Clone deep-copies the backing elements, the current cycle position, and
// the original size charge.
func (it *TrackedCycleIter[T]) Clone() *TrackedCycleIter[T] {
	items := make([]T, len(it.items))
	for i, e := range it.items {
		items[i] = it.clone(e)
	}
	return &TrackedCycleIter[T]{items: items, pos: it.pos, size: it.size, clone: it.clone}
}

// identity is the clone function for scalar element kinds that have no
// owned state of their own.
func identity[T any](v T) T { return v }
