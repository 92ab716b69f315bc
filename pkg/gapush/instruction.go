package gapush

// Instruction is anything that can sit on the exe or ins stack: a single
// PlainOp, one of the three reified control-flow shapes (BasicBlock, Loop,
// If), or a literal-push variant. It mirrors the original crate's
// Instruction trait (lib.rs) minus the type-parameterized handler
// signature, which Go's interfaces have no need of.
type Instruction interface {
	MemorySized
	// Clone deep-copies the instruction, including any nested iterator
	// state, for Copyins/Copyinsv and Readvins, whose results must not
	// alias their source.
	Clone() Instruction
	// operate executes one step of this instruction against m. The
	// returned Instruction is non-nil only for PlainOp(Provide), which
	// yields a value to the caller of Machine.Cycle instead of pushing
	// anything back.
	operate(m *Machine) (Instruction, bool)
}

func (op PlainOp) MemorySize() int { return TagOverhead }

// PlainOpInstr wraps a single primitive opcode.
type PlainOpInstr struct{ Op PlainOp }

func (p *PlainOpInstr) MemorySize() int        { return p.Op.MemorySize() }
func (p *PlainOpInstr) Clone() Instruction      { return &PlainOpInstr{Op: p.Op} }
func (p *PlainOpInstr) operate(m *Machine) (Instruction, bool) { return m.executePlainOp(p.Op) }

// BasicBlockInstr is a single-pass sequence of instructions executed one at
// a time: each cycle it draws the next inner instruction, re-pushes itself
// (advanced by one) followed by that instruction, and stops contributing
// once its iterator is exhausted.
type BasicBlockInstr struct{ Iter *TrackedIter[Instruction] }

func (b *BasicBlockInstr) MemorySize() int   { return TagOverhead + b.Iter.MemorySize() }
func (b *BasicBlockInstr) Clone() Instruction { return &BasicBlockInstr{Iter: b.Iter.Clone()} }

func (b *BasicBlockInstr) operate(m *Machine) (Instruction, bool) {
	next, ok := b.Iter.Next()
	if !ok {
		return nil, false
	}
	return nil, m.State.PushExePair(b, next)
}

// LoopInstr is the cycling counterpart of BasicBlockInstr: its iterator
// never exhausts unless it was built from an empty body, so a Loop keeps
// re-pushing itself forever (or until the budget rejects the re-push).
type LoopInstr struct{ Iter *TrackedCycleIter[Instruction] }

func (l *LoopInstr) MemorySize() int    { return TagOverhead + l.Iter.MemorySize() }
func (l *LoopInstr) Clone() Instruction { return &LoopInstr{Iter: l.Iter.Clone()} }

func (l *LoopInstr) operate(m *Machine) (Instruction, bool) {
	next, ok := l.Iter.Next()
	if !ok {
		return nil, false
	}
	return nil, m.State.PushExePair(l, next)
}

// IfInstr holds both alternative bodies; operate pops the decider (an
// empty bool stack defaults to false, per the fixed-default family) and
// pushes a BasicBlock over whichever body was chosen.
type IfInstr struct {
	Then *TrackedIter[Instruction]
	Else *TrackedIter[Instruction]
}

func (f *IfInstr) MemorySize() int {
	return TagOverhead + f.Then.MemorySize() + f.Else.MemorySize()
}
func (f *IfInstr) Clone() Instruction {
	return &IfInstr{Then: f.Then.Clone(), Else: f.Else.Clone()}
}

func (f *IfInstr) operate(m *Machine) (Instruction, bool) {
	decider, _ := m.State.PopBool()
	chosen := f.Else
	if decider {
		chosen = f.Then
	}
	return nil, m.State.PushExe(&BasicBlockInstr{Iter: chosen})
}

// PushIInstr pushes a literal int64 onto the int stack.
type PushIInstr struct{ V int64 }

func (p *PushIInstr) MemorySize() int   { return TagOverhead + WordSize }
func (p *PushIInstr) Clone() Instruction { return &PushIInstr{V: p.V} }
func (p *PushIInstr) operate(m *Machine) (Instruction, bool) { return nil, m.State.PushInt(p.V) }

// PushFInstr pushes a literal float64 onto the float stack.
type PushFInstr struct{ V float64 }

func (p *PushFInstr) MemorySize() int   { return TagOverhead + WordSize }
func (p *PushFInstr) Clone() Instruction { return &PushFInstr{V: p.V} }
func (p *PushFInstr) operate(m *Machine) (Instruction, bool) { return nil, m.State.PushFloat(p.V) }

// PushBInstr pushes a literal bool onto the bool stack.
type PushBInstr struct{ V bool }

func (p *PushBInstr) MemorySize() int   { return TagOverhead + 1 }
func (p *PushBInstr) Clone() Instruction { return &PushBInstr{V: p.V} }
func (p *PushBInstr) operate(m *Machine) (Instruction, bool) { return nil, m.State.PushBool(p.V) }

// PushIVInstr pushes an int64 vector literal onto the int-vector stack.
// operate transfers ownership of V directly (the instruction is consumed,
// so no clone is needed on the hot path; Clone exists for Copy* duplication).
type PushIVInstr struct{ V *TrackedSeq[int64] }

func (p *PushIVInstr) MemorySize() int    { return TagOverhead + p.V.MemorySize() }
func (p *PushIVInstr) Clone() Instruction { return &PushIVInstr{V: p.V.Clone()} }
func (p *PushIVInstr) operate(m *Machine) (Instruction, bool) {
	return nil, m.State.PushIntVec(p.V)
}

// PushFVInstr pushes a float64 vector literal onto the float-vector stack.
type PushFVInstr struct{ V *TrackedSeq[float64] }

func (p *PushFVInstr) MemorySize() int    { return TagOverhead + p.V.MemorySize() }
func (p *PushFVInstr) Clone() Instruction { return &PushFVInstr{V: p.V.Clone()} }
func (p *PushFVInstr) operate(m *Machine) (Instruction, bool) {
	return nil, m.State.PushFloatVec(p.V)
}

// NewBasicBlock and NewLoop build reified bodies out of plain instruction
// slices; used by the machine tests' fixtures, by pkg/asm
// assembling literal `{ }`/`loop{ }` bodies, and by pkg/chromosome's
// projection of a gene sequence into an executable BasicBlock.
func NewBasicBlock(items []Instruction) *BasicBlockInstr {
	seq := NewTrackedSeqFrom(items, insSize, cloneInstruction)
	return &BasicBlockInstr{Iter: seq.IntoIter()}
}

func NewLoop(items []Instruction) *LoopInstr {
	seq := NewTrackedSeqFrom(items, insSize, cloneInstruction)
	return &LoopInstr{Iter: seq.IntoCycleIter()}
}

func cloneInstruction(ins Instruction) Instruction { return ins.Clone() }
