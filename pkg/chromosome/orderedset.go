// Package chromosome implements the evolutionary-search representation
// gapush programs are bred in: a flat gene sequence of PlainOp values plus
// an ordered set of crossover points, mirroring the original gapush
// crate's Chromosome (simple/mod.rs) rather than the teacher's coarser
// whole-genome byte mutation (pkg/sandbox/ga.go).
package chromosome

import "sort"

// OrderedIntSet is a small sorted-unique-int set, standing in for Rust's
// BTreeSet<usize> (Go has no ordered-set container in the standard
// library). Crossover points are always iterated in increasing order, so
// the backing store is kept sorted rather than built on map[int]struct{}.
type OrderedIntSet struct {
	items []int
}

// NewOrderedIntSet returns an empty set.
func NewOrderedIntSet() *OrderedIntSet { return &OrderedIntSet{} }

// Insert adds v, keeping items sorted and unique.
func (s *OrderedIntSet) Insert(v int) {
	i := sort.SearchInts(s.items, v)
	if i < len(s.items) && s.items[i] == v {
		return
	}
	s.items = append(s.items, 0)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = v
}

// Remove deletes v if present, reporting whether it was.
func (s *OrderedIntSet) Remove(v int) bool {
	i := sort.SearchInts(s.items, v)
	if i >= len(s.items) || s.items[i] != v {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// ShiftFrom adds delta to every element >= pos; used when a gene insertion
// at pos pushes every later index forward by one.
func (s *OrderedIntSet) ShiftFrom(pos, delta int) {
	for i, v := range s.items {
		if v >= pos {
			s.items[i] = v + delta
		}
	}
	sort.Ints(s.items)
}

// RemoveAndShift removes a point exactly at pos (if any) and subtracts one
// from every point after it; used when a gene is deleted at pos.
func (s *OrderedIntSet) RemoveAndShift(pos int) {
	out := s.items[:0]
	for _, v := range s.items {
		switch {
		case v == pos:
			// dropped: the gene boundary it marked no longer exists
		case v > pos:
			out = append(out, v-1)
		default:
			out = append(out, v)
		}
	}
	s.items = out
}

// Nearest returns the element closest to pos, reporting false on an empty
// set.
func (s *OrderedIntSet) Nearest(pos int) (int, bool) {
	if len(s.items) == 0 {
		return 0, false
	}
	i := sort.SearchInts(s.items, pos)
	switch {
	case i == 0:
		return s.items[0], true
	case i == len(s.items):
		return s.items[len(s.items)-1], true
	default:
		before, after := s.items[i-1], s.items[i]
		if pos-before <= after-pos {
			return before, true
		}
		return after, true
	}
}

// RemoveNearest deletes and returns the element closest to pos; false on
// an empty set.
func (s *OrderedIntSet) RemoveNearest(pos int) (int, bool) {
	v, ok := s.Nearest(pos)
	if !ok {
		return 0, false
	}
	s.Remove(v)
	return v, true
}

// Len reports the number of crossover points.
func (s *OrderedIntSet) Len() int { return len(s.items) }

// Items returns a sorted copy of the set's contents.
func (s *OrderedIntSet) Items() []int {
	out := make([]int, len(s.items))
	copy(out, s.items)
	return out
}

// Clone deep-copies the set.
func (s *OrderedIntSet) Clone() *OrderedIntSet {
	out := make([]int, len(s.items))
	copy(out, s.items)
	return &OrderedIntSet{items: out}
}
