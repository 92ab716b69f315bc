package gapush

import "testing"

func noMoreInstructions() Instruction { return &PlainOpInstr{Op: Nop} }
func zeroIntFallback() int64          { return 0 }
func zeroFloatFallback() float64      { return 0 }

func newTestMachine(budget int) *Machine {
	return NewMachine(budget, noMoreInstructions, zeroIntFallback, zeroFloatFallback)
}

func provideAndRunOnce(t *testing.T, m *Machine, ins Instruction) {
	t.Helper()
	if !m.Provide(ins) {
		t.Fatalf("provide failed: budget too small for the test fixture")
	}
	if _, ok := m.Cycle(); !ok {
		t.Fatalf("cycle failed unexpectedly")
	}
}

func TestAdditionCycle(t *testing.T) {
	m := newTestMachine(4096)
	provideAndRunOnce(t, m, &PushIInstr{V: 2})
	provideAndRunOnce(t, m, &PushIInstr{V: 3})
	provideAndRunOnce(t, m, &PlainOpInstr{Op: Addi64})
	v, ok := m.State.PopInt()
	if !ok || v != 5 {
		t.Fatalf("2+3 = (%d, %v), want (5, true)", v, ok)
	}
}

func TestDivisionByZeroFallsBackToIntHandler(t *testing.T) {
	calls := 0
	m := NewMachine(4096, noMoreInstructions, func() int64 { calls++; return 99 }, zeroFloatFallback)
	provideAndRunOnce(t, m, &PushIInstr{V: 10})
	provideAndRunOnce(t, m, &PushIInstr{V: 0})
	provideAndRunOnce(t, m, &PlainOpInstr{Op: Divi64})
	v, ok := m.State.PopInt()
	if !ok || v != 99 {
		t.Fatalf("10/0 = (%d, %v), want (99, true) via handler", v, ok)
	}
	if calls != 1 {
		t.Fatalf("int handler called %d times, want 1", calls)
	}
}

func TestMinInt64DivByMinusOneIsAlsoChecked(t *testing.T) {
	m := NewMachine(4096, noMoreInstructions, func() int64 { return -1 }, zeroFloatFallback)
	provideAndRunOnce(t, m, &PushIInstr{V: minInt64})
	provideAndRunOnce(t, m, &PushIInstr{V: -1})
	provideAndRunOnce(t, m, &PlainOpInstr{Op: Divi64})
	v, ok := m.State.PopInt()
	if !ok || v != -1 {
		t.Fatalf("MinInt64/-1 should overflow and fall back, got (%d, %v)", v, ok)
	}
}

func TestLoopReexecutesBody(t *testing.T) {
	m := newTestMachine(4096)
	body := NewLoop([]Instruction{&PlainOpInstr{Op: Inci64}})
	m.Provide(&PushIInstr{V: 0})
	m.Cycle()
	m.Provide(body)
	for i := 0; i < 6; i++ {
		if _, ok := m.Cycle(); !ok {
			t.Fatalf("loop cycle %d failed", i)
		}
	}
	v, ok := m.State.PopInt()
	if !ok || v != 3 {
		t.Fatalf("three loop iterations of inc = (%d, %v), want (3, true)", v, ok)
	}
}

func TestIfChoosesThenBranchOnTrue(t *testing.T) {
	m := newTestMachine(4096)
	ifIns := &IfInstr{
		Then: NewBasicBlock([]Instruction{&PushIInstr{V: 1}}).Iter,
		Else: NewBasicBlock([]Instruction{&PushIInstr{V: 2}}).Iter,
	}
	m.Provide(&PushBInstr{V: true})
	m.Cycle()
	m.Provide(ifIns)
	m.Cycle() // If: pops bool, pushes chosen BasicBlock
	m.Cycle() // BasicBlock: draws Pushi64(1), re-pushes itself plus it
	m.Cycle() // Pushi64(1) actually executes
	v, ok := m.State.PopInt()
	if !ok || v != 1 {
		t.Fatalf("if(true) = (%d, %v), want (1, true)", v, ok)
	}
}

func TestIfChoosesElseBranchOnFalse(t *testing.T) {
	m := newTestMachine(4096)
	ifIns := &IfInstr{
		Then: NewBasicBlock([]Instruction{&PushIInstr{V: 1}}).Iter,
		Else: NewBasicBlock([]Instruction{&PushIInstr{V: 2}}).Iter,
	}
	m.Provide(&PushBInstr{V: false})
	m.Cycle()
	m.Provide(ifIns)
	m.Cycle()
	m.Cycle()
	m.Cycle()
	v, ok := m.State.PopInt()
	if !ok || v != 2 {
		t.Fatalf("if(false) = (%d, %v), want (2, true)", v, ok)
	}
}

func TestIfDefaultsToFalseOnEmptyBoolStack(t *testing.T) {
	m := newTestMachine(4096)
	ifIns := &IfInstr{
		Then: NewBasicBlock([]Instruction{&PushIInstr{V: 1}}).Iter,
		Else: NewBasicBlock([]Instruction{&PushIInstr{V: 2}}).Iter,
	}
	m.Provide(ifIns)
	m.Cycle()
	m.Cycle()
	m.Cycle()
	v, ok := m.State.PopInt()
	if !ok || v != 2 {
		t.Fatalf("if with nothing on the bool stack should default to the else branch, got (%d, %v)", v, ok)
	}
}

func TestPushRejectedOverBudgetAbandonsTheOperation(t *testing.T) {
	// Room for one resident int (16 bytes) plus exactly one queued PlainOp
	// instruction (8 bytes) in flight, but not both an int AND the int that
	// instruction would produce.
	m := newTestMachine(IntSize + TagOverhead)
	m.Provide(&PlainOpInstr{Op: Zeroi64})
	m.Cycle()
	if m.State.IntDepth() != 1 {
		t.Fatalf("setup: expected one resident int, depth = %d", m.State.IntDepth())
	}
	if !m.Provide(&PlainOpInstr{Op: Zeroi64}) {
		t.Fatalf("provide itself should still be able to queue the instruction")
	}
	if _, ok := m.Cycle(); ok {
		t.Fatalf("pushing a second int over budget should fail the cycle")
	}
	if m.State.IntDepth() != 1 {
		t.Fatalf("a failed push must not partially commit, depth = %d, want 1", m.State.IntDepth())
	}
}

func TestProvideOpcodeYieldsInstructionToCaller(t *testing.T) {
	// Get an instruction onto the ins stack via CreatePlain, then exercise
	// the Provide opcode, which pops it and hands it back to the caller of
	// Cycle instead of pushing it anywhere.
	m := newTestMachine(4096)
	m.Provide(&PushIInstr{V: int64(Nop)})
	m.Cycle()
	m.Provide(&PlainOpInstr{Op: CreatePlain})
	m.Cycle()
	m.Provide(&PlainOpInstr{Op: Provide})
	provided, ok := m.Cycle()
	if !ok {
		t.Fatalf("provide opcode should succeed when the ins stack has an entry")
	}
	if provided == nil {
		t.Fatalf("provide opcode should yield the popped instruction")
	}
}

func TestCreatePlainRejectsOutOfRangeOrdinal(t *testing.T) {
	m := newTestMachine(4096)
	m.Provide(&PushIInstr{V: int64(TotalPlainInstructions)})
	m.Cycle()
	m.Provide(&PlainOpInstr{Op: CreatePlain})
	if _, ok := m.Cycle(); ok {
		t.Fatalf("CreatePlain with an out-of-range ordinal should fail")
	}
}

func TestCycleUntilStopsOnProvide(t *testing.T) {
	// The exe stack is LIFO, so setup work (building the ins-stack entry
	// CreatePlain needs) must each run its own cycle before the next is
	// queued; only the final Provide opcode is left for CycleUntil to stop
	// on, matching TestProvideOpcodeYieldsInstructionToCaller's setup.
	m := newTestMachine(4096)
	m.Provide(&PushIInstr{V: int64(Nop)})
	m.Cycle()
	m.Provide(&PlainOpInstr{Op: CreatePlain})
	m.Cycle()
	m.Provide(&PlainOpInstr{Op: Provide})
	provided, ran := m.CycleUntil(10)
	if provided == nil {
		t.Fatalf("CycleUntil should have returned the provided instruction")
	}
	if ran != 1 {
		t.Fatalf("ran %d cycles, want 1 (stopping at the Provide opcode)", ran)
	}
}
