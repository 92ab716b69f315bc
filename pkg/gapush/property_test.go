package gapush

import (
	"testing"

	"pgregory.net/rapid"
)

// TestSizeNeverExceedsBudget is the accounting-soundness law from §8: no
// random sequence of int/float/bool pushes and int/float pops should ever
// leave State.size greater than State.MaxSize or below zero.
func TestSizeNeverExceedsBudget(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		budget := rapid.IntRange(0, 512).Draw(rt, "budget")
		st := NewState(budget)
		steps := rapid.IntRange(0, 64).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 4).Draw(rt, "op") {
			case 0:
				st.PushInt(rapid.Int64().Draw(rt, "v"))
			case 1:
				st.PushFloat(rapid.Float64().Draw(rt, "v"))
			case 2:
				st.PushBool(rapid.Bool().Draw(rt, "v"))
			case 3:
				st.PopInt()
			case 4:
				st.PopFloat()
			}
			if st.Size() > st.MaxSize() {
				rt.Fatalf("size %d exceeded budget %d after step %d", st.Size(), st.MaxSize(), i)
			}
			if st.Size() < 0 {
				rt.Fatalf("size went negative (%d) after step %d", st.Size(), i)
			}
		}
	})
}

// TestWrappingArithmeticNeverFails checks that Addi64, one of the wrapping
// family, always succeeds regardless of operand magnitude (it wraps, it
// never consults the int handler), matching §3's "wrapping unless noted"
// family.
func TestWrappingArithmeticNeverFails(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.Int64().Draw(rt, "a")
		b := rapid.Int64().Draw(rt, "b")
		m := NewMachine(4096, noMoreInstructions, func() int64 {
			rt.Fatalf("wrapping op should never consult the int handler")
			return 0
		}, zeroFloatFallback)
		m.Provide(&PushIInstr{V: a})
		m.Cycle()
		m.Provide(&PushIInstr{V: b})
		m.Cycle()
		m.Provide(&PlainOpInstr{Op: Addi64})
		if _, ok := m.Cycle(); !ok {
			rt.Fatalf("wrapping add should never fail for budget reasons here")
		}
	})
}

// TestCheckedDivRemAgreeOnFailureCases confirms division and remainder
// agree on exactly which operand pairs are "checked failures": zero
// divisor, or MinInt64 by -1.
func TestCheckedDivRemAgreeOnFailureCases(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.Int64().Draw(rt, "a")
		b := rapid.Int64().Draw(rt, "b")
		_, divOk := checkedDivI64(a, b)
		_, remOk := checkedRemI64(a, b)
		wantOk := !(b == 0 || (a == minInt64 && b == -1))
		if divOk != wantOk || remOk != wantOk {
			rt.Fatalf("div/rem disagreement for a=%d b=%d: div=%v rem=%v want=%v", a, b, divOk, remOk, wantOk)
		}
	})
}

// TestCopyThenPopEquivalence: Copy(0) must leave the stack depth
// unchanged, and the copied value must equal what a following Pop
// returns.
func TestCopyThenPopEquivalence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		st := NewState(1 << 20)
		n := rapid.IntRange(1, 16).Draw(rt, "n")
		for i := 0; i < n; i++ {
			st.PushInt(rapid.Int64().Draw(rt, "v"))
		}
		depthBefore := st.IntDepth()
		copied, ok := st.CopyInt(0)
		if !ok {
			rt.Fatalf("copy(0) should succeed on a non-empty stack")
		}
		if st.IntDepth() != depthBefore {
			rt.Fatalf("copy must not change depth")
		}
		popped, ok := st.PopInt()
		if !ok || popped != copied {
			rt.Fatalf("copy(0) (%d) should equal a subsequent pop (%d)", copied, popped)
		}
	})
}

// TestRotatePreservesMultiset: rotating any valid position to the top
// succeeds and leaves the stack holding the same values with the same
// counts.
func TestRotatePreservesMultiset(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		st := NewState(1 << 20)
		n := rapid.IntRange(1, 16).Draw(rt, "n")
		values := make(map[int64]int)
		for i := 0; i < n; i++ {
			v := rapid.Int64().Draw(rt, "v")
			st.PushInt(v)
			values[v]++
		}
		pos := rapid.IntRange(0, n-1).Draw(rt, "pos")
		if !st.RotInt(pos) {
			rt.Fatalf("rotate with a valid position should succeed")
		}
		after := make(map[int64]int)
		for {
			v, ok := st.PopInt()
			if !ok {
				break
			}
			after[v]++
		}
		if len(after) != len(values) {
			rt.Fatalf("rotate must preserve the multiset of elements")
		}
		for k, v := range values {
			if after[k] != v {
				rt.Fatalf("rotate changed the count of %d: %d vs %d", k, v, after[k])
			}
		}
	})
}
