package gapush

import (
	"fmt"
	"io"
)

// InsHandler supplies a replacement instruction when the exe stack is
// empty at the start of a cycle. IntHandler and FloatHandler supply
// replacement scalars when an arithmetic or comparison opcode pops an
// empty int/float stack, or when a checked operation has no result.
type InsHandler func() Instruction
type IntHandler func() int64
type FloatHandler func() float64

// Machine ties a State to the three fallback providers that make every
// PlainOp total: popping a missing operand, or a checked arithmetic
// operation overflowing, never fails the machine outright, it substitutes
// a value and continues. The failures left are Full (§7), a push that
// would exceed the memory budget, and an opcode whose structural operand
// (see executePlainOp) or target is missing.
//
// Grounded on the teacher's VM (pkg/micro/vm.go): a single mutable struct
// holding all machine state plus a Debug/Output pair for tracing, stepped
// one instruction at a time by a Cycle/Step method.
type Machine struct {
	State *State

	insHandler   InsHandler
	intHandler   IntHandler
	floatHandler FloatHandler

	// Debug gates trace output to Output, exactly like the teacher's
	// VM.Debug/VM.Output. Neither is touched by operate itself; Cycle
	// writes one line per step when Debug is set.
	Debug  bool
	Output io.Writer
}

// NewMachine constructs a Machine with an empty State of the given budget
// and the three fallback providers. None of insHandler, intHandler, or
// floatHandler may be nil; a machine with no sensible fallback should
// supply one that panics or returns a sentinel, not a nil func value.
func NewMachine(maxSize int, insHandler InsHandler, intHandler IntHandler, floatHandler FloatHandler) *Machine {
	return &Machine{
		State:        NewState(maxSize),
		insHandler:   insHandler,
		intHandler:   intHandler,
		floatHandler: floatHandler,
		Output:       io.Discard,
	}
}

func (m *Machine) popInt() int64 {
	if v, ok := m.State.PopInt(); ok {
		return v
	}
	return m.intHandler()
}

func (m *Machine) popFloat() float64 {
	if v, ok := m.State.PopFloat(); ok {
		return v
	}
	return m.floatHandler()
}

// popBool defaults to false on an empty bool stack; unlike int/float, the
// boolean family never consults a handler (there is no BoolHandler, see
// DESIGN NOTES).
func (m *Machine) popBool() bool {
	v, _ := m.State.PopBool()
	return v
}

func (m *Machine) trace(format string, args ...interface{}) {
	if m.Debug {
		fmt.Fprintf(m.Output, format, args...)
	}
}

// Cycle executes exactly one step: if the exe stack is empty, insHandler
// supplies the next instruction to run; otherwise the top of the exe stack
// is popped and executed. Returns the instruction yielded by a Provide
// opcode (nil otherwise) and whether the step succeeded. A failed step
// (budget exceeded) still consumes the cycle; the instruction that failed
// is gone, matching the original's "budget failures abandon the operation,
// they do not retry it" contract.
func (m *Machine) Cycle() (Instruction, bool) {
	ins, ok := m.State.PopExe()
	if !ok {
		ins = m.insHandler()
	}
	provided, success := ins.operate(m)
	m.trace("cycle: %T success=%v\n", ins, success)
	return provided, success
}

// Provide pushes ins onto the exe stack directly, bypassing a full cycle;
// it is the external entry point a caller uses to seed the machine with
// work (§6, "provide(ins)").
func (m *Machine) Provide(ins Instruction) bool {
	return m.State.PushExe(ins)
}

// CycleUntil runs up to n cycles, stopping early and returning the
// provided instruction the first time a PlainOp(Provide) yields one.
// Returns the instruction (nil if none was yielded) and how many cycles
// actually ran.
func (m *Machine) CycleUntil(n int) (Instruction, int) {
	for i := 0; i < n; i++ {
		provided, _ := m.Cycle()
		if provided != nil {
			return provided, i + 1
		}
	}
	return nil, n
}

// ProvideAndCycleUntil seeds the machine with ins, then behaves exactly
// like CycleUntil. If the provide itself fails (budget exceeded), no
// cycles run at all: (nil, 0).
func (m *Machine) ProvideAndCycleUntil(n int, ins Instruction) (Instruction, int) {
	if !m.Provide(ins) {
		return nil, 0
	}
	return m.CycleUntil(n)
}
