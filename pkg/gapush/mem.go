// Package gapush implements the memory-bounded stack machine: the typed
// multi-stack State, the simple-dialect Instruction set, and the Machine
// that ties them to fallback value providers.
package gapush

// MemorySized is implemented by every value kind the machine can hold on a
// stack. It must be stable across moves (copying a value between
// containers never changes what it reports) and compositional for
// containers (a sequence reports its header plus the total of its
// elements).
type MemorySized interface {
	MemorySize() int
}

// Accounting constants. Every budgeted container charges some combination
// of these against State.size; see §4.1 of the design notes (SPEC_FULL.md)
// for the rationale. They are deliberately simple fixed costs rather than
// a reflection-based sizer: the model calls for a constant, predictable
// charge per primitive kind, not the Go runtime's actual memory layout.
const (
	// WordSize is the accounting width of a 64-bit primitive payload.
	WordSize = 8
	// TagOverhead is the fixed bookkeeping cost charged per tagged value
	// (every primitive, and the discriminant of every Instruction variant).
	TagOverhead = 8
	// SeqHeaderSize is the fixed cost of a sequence or vector container,
	// charged in addition to the sum of its elements.
	SeqHeaderSize = 16
)

// Fixed per-kind costs for the three stack-native scalar kinds. Integers
// and floats cost the same (a 64-bit payload plus the tag); booleans are
// cheaper (a single byte payload plus the tag).
const (
	IntSize   = WordSize + TagOverhead
	FloatSize = WordSize + TagOverhead
	BoolSize  = 1 + TagOverhead
)
