package gapush

import "testing"

func TestPushRespectsBudget(t *testing.T) {
	st := NewState(IntSize) // room for exactly one int
	if !st.PushInt(7) {
		t.Fatalf("first push should fit the budget")
	}
	if st.PushInt(8) {
		t.Fatalf("second push should exceed the budget and fail")
	}
	if st.Size() != IntSize {
		t.Fatalf("size = %d, want %d", st.Size(), IntSize)
	}
}

func TestPopUpdatesSize(t *testing.T) {
	st := NewState(1024)
	st.PushInt(1)
	st.PushInt(2)
	if st.Size() != 2*IntSize {
		t.Fatalf("size = %d, want %d", st.Size(), 2*IntSize)
	}
	v, ok := st.PopInt()
	if !ok || v != 2 {
		t.Fatalf("pop = (%d, %v), want (2, true)", v, ok)
	}
	if st.Size() != IntSize {
		t.Fatalf("size after pop = %d, want %d", st.Size(), IntSize)
	}
}

func TestPopFromEmptyFails(t *testing.T) {
	st := NewState(1024)
	if _, ok := st.PopInt(); ok {
		t.Fatalf("pop from empty int stack should fail")
	}
}

func TestRotateMovesElementToTop(t *testing.T) {
	st := NewState(1024)
	st.PushInt(1)
	st.PushInt(2)
	st.PushInt(3)
	if !st.RotInt(2) { // bring the bottom (1) to the top
		t.Fatalf("rotate should succeed for a valid position")
	}
	top, _ := st.PopInt()
	if top != 1 {
		t.Fatalf("top after rotate = %d, want 1", top)
	}
	if st.RotInt(5) {
		t.Fatalf("rotate with an out-of-range position should fail")
	}
}

func TestCopyDoesNotMutateStack(t *testing.T) {
	st := NewState(1024)
	st.PushInt(10)
	st.PushInt(20)
	before := st.IntDepth()
	v, ok := st.CopyInt(1)
	if !ok || v != 10 {
		t.Fatalf("copy = (%d, %v), want (10, true)", v, ok)
	}
	if st.IntDepth() != before {
		t.Fatalf("copy must not change stack depth")
	}
}

func TestVectorElementPushPopOperateOnTopVector(t *testing.T) {
	st := NewState(1024)
	vec := NewTrackedSeq[int64](intElemSize, identity[int64])
	st.PushIntVec(vec)
	if !st.PushIntToVec(42) {
		t.Fatalf("push to top vector should succeed")
	}
	v, ok := st.GetIntFromVec(0)
	if !ok || v != 42 {
		t.Fatalf("get = (%d, %v), want (42, true)", v, ok)
	}
	popped, ok := st.PopIntFromVec()
	if !ok || popped != 42 {
		t.Fatalf("pop from vec = (%d, %v), want (42, true)", popped, ok)
	}
}

func TestPushToVecWithNoTopVectorIsANoOpSuccess(t *testing.T) {
	st := NewState(1024)
	if !st.PushIntToVec(1) {
		t.Fatalf("push to vec with an empty vector stack is documented as a no-op success")
	}
	if st.Size() != 0 {
		t.Fatalf("no-op push must not change size, got %d", st.Size())
	}
}

func TestWriteToVecChecksBudgetBeforeCommitting(t *testing.T) {
	vec := NewTrackedSeqFrom([]int64{1}, intElemSize, identity[int64])
	st := NewState(SeqHeaderSize + intElemSize(1))
	st.PushIntVec(vec)
	if !st.WriteIntToVec(0, 2) {
		t.Fatalf("same-size overwrite should always fit")
	}
}

func intElemSize(int64) int { return IntSize }
