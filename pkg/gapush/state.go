package gapush

// State is the machine's full stack memory: eight typed stacks (the
// execution stack plus the seven value-kind stacks) and the single live
// byte counter that every budgeted mutation keeps in exact sync. It is the
// literal realization of the original gapush crate's State<Ins> (see
// original_source/src/state.rs), generalized from one type parameter to
// the seven concrete value kinds the simple dialect needs.
type State struct {
	maxSize int
	size    int

	exe []Instruction // instructions awaiting dispatch; not directly addressable by opcodes
	ins []Instruction // instructions handled as data

	intS   []int64
	floatS []float64
	boolS  []bool

	insVec   []*TrackedSeq[Instruction]
	intVec   []*TrackedSeq[int64]
	floatVec []*TrackedSeq[float64]
}

// NewState creates an empty State with the given memory budget.
func NewState(maxSize int) *State {
	return &State{maxSize: maxSize}
}

// Size returns the live byte count: the exact sum of MemorySize across
// every element currently held in any stack.
func (st *State) Size() int { return st.size }

// MaxSize returns the configured budget.
func (st *State) MaxSize() int { return st.maxSize }

// Depth accessors, for read-only test/driver observability (§6).
func (st *State) ExeDepth() int      { return len(st.exe) }
func (st *State) InsDepth() int      { return len(st.ins) }
func (st *State) IntDepth() int      { return len(st.intS) }
func (st *State) FloatDepth() int    { return len(st.floatS) }
func (st *State) BoolDepth() int     { return len(st.boolS) }
func (st *State) InsVecDepth() int   { return len(st.insVec) }
func (st *State) IntVecDepth() int   { return len(st.intVec) }
func (st *State) FloatVecDepth() int { return len(st.floatVec) }

// --- generic push/pop/rotate/copy machinery -------------------------------
//
// Go methods cannot carry their own type parameters, so the budgeted
// push/pop/rotate/copy operations are implemented once as free functions
// parameterized over the stack's element type, and every exported
// per-stack method is a one-line call into the shared implementation. This
// mirrors the teacher's own preference for small, composed helpers
// (pkg/micro/vm.go's PushByte/PushWord/PopByte/PopWord) while avoiding the
// eight-fold duplication the original's per-type impl blocks required.

func pushTo[T any](st *State, stack *[]T, v T, size int) bool {
	if st.size+size > st.maxSize {
		return false
	}
	*stack = append(*stack, v)
	st.size += size
	return true
}

func popFrom[T any](st *State, stack *[]T, sizeOf func(T) int) (T, bool) {
	var zero T
	s := *stack
	if len(s) == 0 {
		return zero, false
	}
	v := s[len(s)-1]
	*stack = s[:len(s)-1]
	st.size -= sizeOf(v)
	return v, true
}

// rotate moves the element n-from-the-top to the top of the stack. A no-op
// (returns true) when n == 0; fails when n is not a valid position.
func rotate[T any](stack *[]T, n int) bool {
	s := *stack
	if n < 0 || n >= len(s) {
		return false
	}
	idx := len(s) - 1 - n
	e := s[idx]
	s = append(s[:idx], s[idx+1:]...)
	s = append(s, e)
	*stack = s
	return true
}

// copyNth borrows the element n-from-the-top without mutating the stack.
func copyNth[T any](stack []T, n int) (T, bool) {
	var zero T
	if n < 0 || n >= len(stack) {
		return zero, false
	}
	return stack[len(stack)-1-n], true
}

func lastOf[T any](stack []*TrackedSeq[T]) (*TrackedSeq[T], bool) {
	if len(stack) == 0 {
		return nil, false
	}
	return stack[len(stack)-1], true
}

func insSize(ins Instruction) int { return ins.MemorySize() }
func intSize(int64) int           { return IntSize }
func floatSize(float64) int       { return FloatSize }
func boolSize(bool) int           { return BoolSize }
func insVecSize(v *TrackedSeq[Instruction]) int { return v.MemorySize() }
func intVecSize(v *TrackedSeq[int64]) int       { return v.MemorySize() }
func floatVecSize(v *TrackedSeq[float64]) int   { return v.MemorySize() }

// --- push -------------------------------------------------------------

func (st *State) PushExe(v Instruction) bool { return pushTo(st, &st.exe, v, v.MemorySize()) }
func (st *State) PushIns(v Instruction) bool { return pushTo(st, &st.ins, v, v.MemorySize()) }
func (st *State) PushInt(v int64) bool       { return pushTo(st, &st.intS, v, IntSize) }
func (st *State) PushFloat(v float64) bool   { return pushTo(st, &st.floatS, v, FloatSize) }
func (st *State) PushBool(v bool) bool       { return pushTo(st, &st.boolS, v, BoolSize) }

func (st *State) PushInsVec(v *TrackedSeq[Instruction]) bool {
	return pushTo(st, &st.insVec, v, v.MemorySize())
}
func (st *State) PushIntVec(v *TrackedSeq[int64]) bool {
	return pushTo(st, &st.intVec, v, v.MemorySize())
}
func (st *State) PushFloatVec(v *TrackedSeq[float64]) bool {
	return pushTo(st, &st.floatVec, v, v.MemorySize())
}

// PushExePair pushes a and then b as a single budgeted operation: the
// composite control-flow instructions (BasicBlock/Loop) re-push their own
// advanced iterator followed by the next inner instruction, and the two
// pushes share one budget check so that partial commits never happen (see
// DESIGN NOTES, "Composite control flow without a program counter").
func (st *State) PushExePair(a, b Instruction) bool {
	total := a.MemorySize() + b.MemorySize()
	if st.size+total > st.maxSize {
		return false
	}
	st.exe = append(st.exe, a, b)
	st.size += total
	return true
}

// --- pop --------------------------------------------------------------

func (st *State) PopExe() (Instruction, bool) { return popFrom(st, &st.exe, insSize) }
func (st *State) PopIns() (Instruction, bool) { return popFrom(st, &st.ins, insSize) }
func (st *State) PopInt() (int64, bool)       { return popFrom(st, &st.intS, intSize) }
func (st *State) PopFloat() (float64, bool)   { return popFrom(st, &st.floatS, floatSize) }
func (st *State) PopBool() (bool, bool)       { return popFrom(st, &st.boolS, boolSize) }

func (st *State) PopInsVec() (*TrackedSeq[Instruction], bool) {
	return popFrom(st, &st.insVec, insVecSize)
}
func (st *State) PopIntVec() (*TrackedSeq[int64], bool) {
	return popFrom(st, &st.intVec, intVecSize)
}
func (st *State) PopFloatVec() (*TrackedSeq[float64], bool) {
	return popFrom(st, &st.floatVec, floatVecSize)
}

// --- rotate -------------------------------------------------------------
//
// rot_ins_vec, rot_int_vec, and rot_float_vec are each bounded by their OWN
// stack's length. (The original crate bounded rot_ins_vec by the float
// stack's length — almost certainly a copy-paste bug per spec.md §9's open
// question; this implementation uses the corrected bound throughout.)

func (st *State) RotIns(n int) bool      { return rotate(&st.ins, n) }
func (st *State) RotInt(n int) bool      { return rotate(&st.intS, n) }
func (st *State) RotFloat(n int) bool    { return rotate(&st.floatS, n) }
func (st *State) RotBool(n int) bool     { return rotate(&st.boolS, n) }
func (st *State) RotInsVec(n int) bool   { return rotate(&st.insVec, n) }
func (st *State) RotIntVec(n int) bool   { return rotate(&st.intVec, n) }
func (st *State) RotFloatVec(n int) bool { return rotate(&st.floatVec, n) }

// --- copy ---------------------------------------------------------------
//
// Copy never mutates size on its own; the caller pushes the returned value
// through the ordinary budgeted push, which is where the budget is spent.

func (st *State) CopyIns(n int) (Instruction, bool) {
	v, ok := copyNth(st.ins, n)
	if !ok {
		return nil, false
	}
	return v.Clone(), true
}
func (st *State) CopyInt(n int) (int64, bool)     { return copyNth(st.intS, n) }
func (st *State) CopyFloat(n int) (float64, bool) { return copyNth(st.floatS, n) }
func (st *State) CopyBool(n int) (bool, bool)     { return copyNth(st.boolS, n) }

func (st *State) CopyInsVec(n int) (*TrackedSeq[Instruction], bool) {
	v, ok := copyNth(st.insVec, n)
	if !ok {
		return nil, false
	}
	return v.Clone(), true
}
func (st *State) CopyIntVec(n int) (*TrackedSeq[int64], bool) {
	v, ok := copyNth(st.intVec, n)
	if !ok {
		return nil, false
	}
	return v.Clone(), true
}
func (st *State) CopyFloatVec(n int) (*TrackedSeq[float64], bool) {
	v, ok := copyNth(st.floatVec, n)
	if !ok {
		return nil, false
	}
	return v.Clone(), true
}

// --- vector-element primitives -------------------------------------------
//
// These act on the top element of the corresponding vector stack; the
// vector itself is never popped, only mutated in place, so its own
// contribution to State.size (via its MemorySize) changes and that delta
// is folded into State.size directly.

func (st *State) PushInsToVec(e Instruction) bool { return pushElemToVec(st, st.insVec, e) }
func (st *State) PushIntToVec(e int64) bool       { return pushElemToVec(st, st.intVec, e) }
func (st *State) PushFloatToVec(e float64) bool   { return pushElemToVec(st, st.floatVec, e) }

// pushElemToVec pushes e onto the top vector of stack. Per spec.md §9's
// open question, pushing to an empty vector stack (no top vector to append
// to) is preserved as a successful no-op rather than tightened to a
// distinct failure, matching the original crate's observed behavior.
func pushElemToVec[T any](st *State, stack []*TrackedSeq[T], e T) bool {
	vec, ok := lastOf(stack)
	if !ok {
		return true
	}
	delta := vec.sizeOf(e)
	if st.size+delta > st.maxSize {
		return false
	}
	vec.Push(e)
	st.size += delta
	return true
}

func (st *State) PopInsFromVec() (Instruction, bool) { return popElemFromVec(st, st.insVec) }
func (st *State) PopIntFromVec() (int64, bool)       { return popElemFromVec(st, st.intVec) }
func (st *State) PopFloatFromVec() (float64, bool)   { return popElemFromVec(st, st.floatVec) }

func popElemFromVec[T any](st *State, stack []*TrackedSeq[T]) (T, bool) {
	var zero T
	vec, ok := lastOf(stack)
	if !ok {
		return zero, false
	}
	e, ok2 := vec.Pop()
	if !ok2 {
		return zero, false
	}
	st.size -= vec.sizeOf(e)
	return e, true
}

func (st *State) GetInsFromVec(i int) (Instruction, bool) {
	v, ok := getElemFromVec(st.insVec, i)
	if !ok {
		return nil, false
	}
	return v.Clone(), true
}
func (st *State) GetIntFromVec(i int) (int64, bool)     { return getElemFromVec(st.intVec, i) }
func (st *State) GetFloatFromVec(i int) (float64, bool) { return getElemFromVec(st.floatVec, i) }

func getElemFromVec[T any](stack []*TrackedSeq[T], i int) (T, bool) {
	var zero T
	vec, ok := lastOf(stack)
	if !ok {
		return zero, false
	}
	return vec.Get(i)
}

func (st *State) WriteInsToVec(i int, e Instruction) bool {
	return writeElemToVec(st, st.insVec, i, e)
}
func (st *State) WriteIntToVec(i int, e int64) bool {
	return writeElemToVec(st, st.intVec, i, e)
}
func (st *State) WriteFloatToVec(i int, e float64) bool {
	return writeElemToVec(st, st.floatVec, i, e)
}

func writeElemToVec[T any](st *State, stack []*TrackedSeq[T], i int, e T) bool {
	vec, ok := lastOf(stack)
	if !ok {
		return false
	}
	old, ok2 := vec.Get(i)
	if !ok2 {
		return false
	}
	delta := vec.sizeOf(e) - vec.sizeOf(old)
	if st.size+delta > st.maxSize {
		return false
	}
	vec.Set(i, e)
	st.size += delta
	return true
}
