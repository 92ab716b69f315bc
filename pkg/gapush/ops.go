package gapush

import "math/bits"

const posMask = 0x7FFFFFFF

// executePlainOp dispatches a single PlainOp. It returns (nil, success) for
// every opcode except Provide, which hands a popped instruction back to the
// caller of Machine.Cycle instead of pushing it anywhere.
//
// Two families of operand handling appear throughout, matching the
// original crate's simple_instruction.rs exactly:
//
//   - arithmetic/comparison/conversion operands are popped through the
//     machine's int/float handler fallback (m.popInt/m.popFloat) so a
//     computation always has something to work with;
//   - structural operands (Pop<X>, vector push/pop/read/write indices and
//     payloads, instruction construction) are popped directly with no
//     substitution: an empty source stack simply fails the opcode.
func (m *Machine) executePlainOp(op PlainOp) (Instruction, bool) {
	st := m.State
	switch op {

	// --- integer arithmetic, wrapping ---------------------------------
	case Inci64:
		return nil, st.PushInt(m.popInt() + 1)
	case Deci64:
		return nil, st.PushInt(m.popInt() - 1)
	case Addi64:
		b, a := m.popInt(), m.popInt()
		return nil, st.PushInt(a + b)
	case Subi64:
		b, a := m.popInt(), m.popInt()
		return nil, st.PushInt(a - b)
	case Muli64:
		b, a := m.popInt(), m.popInt()
		return nil, st.PushInt(a * b)

	// --- integer arithmetic, checked (Pow wraps, rotates are infallible) ---
	case Divi64:
		b, a := m.popInt(), m.popInt()
		v, ok := checkedDivI64(a, b)
		if !ok {
			v = m.intHandler()
		}
		return nil, st.PushInt(v)
	case Remi64:
		b, a := m.popInt(), m.popInt()
		v, ok := checkedRemI64(a, b)
		if !ok {
			v = m.intHandler()
		}
		return nil, st.PushInt(v)
	case Negi64:
		a := m.popInt()
		v, ok := checkedNegI64(a)
		if !ok {
			v = m.intHandler()
		}
		return nil, st.PushInt(v)
	case Absi64:
		a := m.popInt()
		v, ok := checkedAbsI64(a)
		if !ok {
			v = m.intHandler()
		}
		return nil, st.PushInt(v)
	case Powi64:
		b, a := m.popInt(), m.popInt()
		exp := uint32(wrappingAbsI64(b)) & posMask
		return nil, st.PushInt(wrappingPowI64(a, exp))
	case Rotli64:
		b, a := m.popInt(), m.popInt()
		return nil, st.PushInt(int64(bits.RotateLeft64(uint64(a), int(uint32(b)&posMask))))
	case Rotri64:
		b, a := m.popInt(), m.popInt()
		return nil, st.PushInt(int64(bits.RotateLeft64(uint64(a), -int(uint32(b)&posMask))))
	case Shftli64:
		b, a := m.popInt(), m.popInt()
		v, ok := checkedShlI64(a, uint32(b)&posMask)
		if !ok {
			v = m.intHandler()
		}
		return nil, st.PushInt(v)
	case Shftri64:
		b, a := m.popInt(), m.popInt()
		v, ok := checkedShrI64(a, uint32(b)&posMask)
		if !ok {
			v = m.intHandler()
		}
		return nil, st.PushInt(v)

	// --- integer bitwise, infallible ------------------------------------
	case Andi64:
		b, a := m.popInt(), m.popInt()
		return nil, st.PushInt(a & b)
	case Ori64:
		b, a := m.popInt(), m.popInt()
		return nil, st.PushInt(a | b)
	case Xori64:
		b, a := m.popInt(), m.popInt()
		return nil, st.PushInt(a ^ b)
	case Invi64:
		return nil, st.PushInt(^m.popInt())

	// --- integer comparison -----------------------------------------------
	case Lesi64:
		b, a := m.popInt(), m.popInt()
		return nil, st.PushBool(a < b)
	case Grti64:
		b, a := m.popInt(), m.popInt()
		return nil, st.PushBool(a > b)
	case Eqi64:
		b, a := m.popInt(), m.popInt()
		return nil, st.PushBool(a == b)
	case Neqi64:
		b, a := m.popInt(), m.popInt()
		return nil, st.PushBool(a != b)

	// --- float arithmetic --------------------------------------------------
	case Incf64:
		return nil, st.PushFloat(m.popFloat() + 1)
	case Decf64:
		return nil, st.PushFloat(m.popFloat() - 1)
	case Addf64:
		b, a := m.popFloat(), m.popFloat()
		return nil, st.PushFloat(a + b)
	case Subf64:
		b, a := m.popFloat(), m.popFloat()
		return nil, st.PushFloat(a - b)
	case Mulf64:
		b, a := m.popFloat(), m.popFloat()
		return nil, st.PushFloat(a * b)
	case Divf64:
		b, a := m.popFloat(), m.popFloat()
		return nil, st.PushFloat(a / b)
	case Remf64:
		b, a := m.popFloat(), m.popFloat()
		return nil, st.PushFloat(floatMod(a, b))
	case Negf64:
		return nil, st.PushFloat(-m.popFloat())
	case Absf64:
		a := m.popFloat()
		if a < 0 {
			a = -a
		}
		return nil, st.PushFloat(a)
	case Powif64:
		b, a := m.popInt(), m.popFloat()
		var exp int32
		if b >= minInt32 && b <= maxInt32 {
			exp = int32(b)
		} else {
			exp = 1
		}
		return nil, st.PushFloat(powi(a, exp))
	case Powff64:
		b, a := m.popFloat(), m.popFloat()
		return nil, st.PushFloat(powf(a, b))

	// --- float comparison ----------------------------------------------
	case Lesf64:
		b, a := m.popFloat(), m.popFloat()
		return nil, st.PushBool(a < b)
	case Grtf64:
		b, a := m.popFloat(), m.popFloat()
		return nil, st.PushBool(a > b)
	case Eqf64:
		b, a := m.popFloat(), m.popFloat()
		return nil, st.PushBool(a == b)
	case Neqf64:
		b, a := m.popFloat(), m.popFloat()
		return nil, st.PushBool(a != b)

	// --- boolean, empty pops default to false ------------------------------
	case Andb:
		b, a := m.popBool(), m.popBool()
		return nil, st.PushBool(a && b)
	case Orb:
		b, a := m.popBool(), m.popBool()
		return nil, st.PushBool(a || b)
	case Eqb:
		b, a := m.popBool(), m.popBool()
		return nil, st.PushBool(a == b)
	case Neqb:
		b, a := m.popBool(), m.popBool()
		return nil, st.PushBool(a != b)
	case Notb:
		return nil, st.PushBool(!m.popBool())

	// --- conversion ------------------------------------------------------
	case Itof:
		return nil, st.PushFloat(float64(m.popInt()))
	case Ftoi:
		a := m.popFloat()
		switch classifyFloat64(a) {
		case fcZero:
			return nil, st.PushInt(0)
		case fcNormal:
			return nil, st.PushInt(int64(a))
		default:
			return nil, st.PushInt(m.intHandler())
		}

	// --- rotate, position popped through the int handler ------------------
	case Rotins:
		return nil, st.RotIns(maskedPos(m.popInt()))
	case Roti64:
		return nil, st.RotInt(maskedPos(m.popInt()))
	case Rotf64:
		return nil, st.RotFloat(maskedPos(m.popInt()))
	case Rotb:
		return nil, st.RotBool(maskedPos(m.popInt()))
	case Rotinsv:
		return nil, st.RotInsVec(maskedPos(m.popInt()))
	case Roti64v:
		return nil, st.RotIntVec(maskedPos(m.popInt()))
	case Rotf64v:
		return nil, st.RotFloatVec(maskedPos(m.popInt()))

	// --- copy, position popped through the int handler ----------------------
	case Copyins:
		v, ok := st.CopyIns(maskedPos(m.popInt()))
		return nil, ok && st.PushIns(v)
	case Copyi64:
		v, ok := st.CopyInt(maskedPos(m.popInt()))
		return nil, ok && st.PushInt(v)
	case Copyf64:
		v, ok := st.CopyFloat(maskedPos(m.popInt()))
		return nil, ok && st.PushFloat(v)
	case Copyb:
		v, ok := st.CopyBool(maskedPos(m.popInt()))
		return nil, ok && st.PushBool(v)
	case Copyinsv:
		v, ok := st.CopyInsVec(maskedPos(m.popInt()))
		return nil, ok && st.PushInsVec(v)
	case Copyi64v:
		v, ok := st.CopyIntVec(maskedPos(m.popInt()))
		return nil, ok && st.PushIntVec(v)
	case Copyf64v:
		v, ok := st.CopyFloatVec(maskedPos(m.popInt()))
		return nil, ok && st.PushFloatVec(v)

	// --- pop-and-discard, no handler fallback -------------------------------
	case Popins:
		_, ok := st.PopIns()
		return nil, ok
	case Popi64:
		_, ok := st.PopInt()
		return nil, ok
	case Popf64:
		_, ok := st.PopFloat()
		return nil, ok
	case Popb:
		_, ok := st.PopBool()
		return nil, ok
	case Popinsv:
		_, ok := st.PopInsVec()
		return nil, ok
	case Popi64v:
		_, ok := st.PopIntVec()
		return nil, ok
	case Popf64v:
		_, ok := st.PopFloatVec()
		return nil, ok

	// --- vector manipulation, no handler fallback anywhere ------------------
	case Pushvins:
		e, ok := st.PopIns()
		return nil, ok && st.PushInsToVec(e)
	case Pushvi64:
		e, ok := st.PopInt()
		return nil, ok && st.PushIntToVec(e)
	case Pushvf64:
		e, ok := st.PopFloat()
		return nil, ok && st.PushFloatToVec(e)
	case Popvins:
		_, ok := st.PopInsFromVec()
		return nil, ok
	case Popvi64:
		_, ok := st.PopIntFromVec()
		return nil, ok
	case Popvf64:
		_, ok := st.PopFloatFromVec()
		return nil, ok
	case Readvins:
		ix, ok := st.PopInt()
		if !ok {
			return nil, false
		}
		e, ok2 := st.GetInsFromVec(int(maskedPos(ix)))
		return nil, ok2 && st.PushIns(e)
	case Readvi64:
		ix, ok := st.PopInt()
		if !ok {
			return nil, false
		}
		e, ok2 := st.GetIntFromVec(int(maskedPos(ix)))
		return nil, ok2 && st.PushInt(e)
	case Readvf64:
		ix, ok := st.PopInt()
		if !ok {
			return nil, false
		}
		e, ok2 := st.GetFloatFromVec(int(maskedPos(ix)))
		return nil, ok2 && st.PushFloat(e)
	case Writevins:
		ix, ok := st.PopInt()
		if !ok {
			return nil, false
		}
		e, ok2 := st.PopIns()
		return nil, ok2 && st.WriteInsToVec(int(maskedPos(ix)), e)
	case Writevi64:
		ix, ok := st.PopInt()
		if !ok {
			return nil, false
		}
		e, ok2 := st.PopInt()
		return nil, ok2 && st.WriteIntToVec(int(maskedPos(ix)), e)
	case Writevf64:
		ix, ok := st.PopInt()
		if !ok {
			return nil, false
		}
		e, ok2 := st.PopFloat()
		return nil, ok2 && st.WriteFloatToVec(int(maskedPos(ix)), e)

	// --- auxiliary --------------------------------------------------------
	case Zeroi64:
		return nil, st.PushInt(0)

	// --- instruction construction -------------------------------------------
	case CreatePlain:
		n, ok := st.PopInt()
		if !ok {
			return nil, false
		}
		sampled, ok2 := opcodeFromOrdinal(maskedPos(n))
		if !ok2 {
			return nil, false
		}
		return nil, st.PushIns(&PlainOpInstr{Op: sampled})
	case CreateBasicBlock:
		v, ok := st.PopInsVec()
		if !ok {
			return nil, false
		}
		return nil, st.PushIns(&BasicBlockInstr{Iter: v.IntoIter()})
	case CreateLoop:
		v, ok := st.PopInsVec()
		if !ok {
			return nil, false
		}
		return nil, st.PushIns(&LoopInstr{Iter: v.IntoCycleIter()})
	case CreateIf:
		falseVec, ok := st.PopInsVec()
		if !ok {
			return nil, false
		}
		trueVec, ok2 := st.PopInsVec()
		if !ok2 {
			return nil, false
		}
		return nil, st.PushIns(&IfInstr{Then: trueVec.IntoIter(), Else: falseVec.IntoIter()})
	case CreatePushi64:
		v, ok := st.PopInt()
		if !ok {
			return nil, false
		}
		return nil, st.PushIns(&PushIInstr{V: v})
	case CreatePushf64:
		v, ok := st.PopFloat()
		if !ok {
			return nil, false
		}
		return nil, st.PushIns(&PushFInstr{V: v})
	case CreatePushb:
		v, ok := st.PopBool()
		if !ok {
			return nil, false
		}
		return nil, st.PushIns(&PushBInstr{V: v})
	case CreatePushi64v:
		v, ok := st.PopIntVec()
		if !ok {
			return nil, false
		}
		return nil, st.PushIns(&PushIVInstr{V: v})
	case CreatePushf64v:
		v, ok := st.PopFloatVec()
		if !ok {
			return nil, false
		}
		return nil, st.PushIns(&PushFVInstr{V: v})

	// --- execution control --------------------------------------------------
	case Return:
		_, ok := st.PopExe()
		return nil, ok
	case Yield:
		e, ok := st.PopExe()
		if !ok {
			return nil, false
		}
		return nil, st.PushIns(e)
	case Call:
		ins, ok := st.PopIns()
		if !ok {
			return nil, false
		}
		return nil, st.PushExe(ins)
	case Nop:
		return nil, true

	// --- external communication ----------------------------------------------
	case Provide:
		ins, ok := st.PopIns()
		if !ok {
			return nil, false
		}
		return ins, true
	}
	return nil, false
}

// maskedPos applies the uniform 0x7FFFFFFF position mask every rotate,
// copy, and vector-index opcode uses.
func maskedPos(n int64) int { return int(uint32(n) & posMask) }

func checkedDivI64(a, b int64) (int64, bool) {
	if b == 0 || (a == minInt64 && b == -1) {
		return 0, false
	}
	return a / b, true
}

func checkedRemI64(a, b int64) (int64, bool) {
	if b == 0 || (a == minInt64 && b == -1) {
		return 0, false
	}
	return a % b, true
}

func checkedNegI64(a int64) (int64, bool) {
	if a == minInt64 {
		return 0, false
	}
	return -a, true
}

func checkedAbsI64(a int64) (int64, bool) {
	if a == minInt64 {
		return 0, false
	}
	if a < 0 {
		return -a, true
	}
	return a, true
}

// wrappingAbsI64 mirrors Rust's unchecked i64::abs: two's-complement
// wraparound means abs(minInt64) is minInt64 itself rather than a panic.
func wrappingAbsI64(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

func checkedShlI64(a int64, amt uint32) (int64, bool) {
	if amt >= 64 {
		return 0, false
	}
	return a << amt, true
}

func checkedShrI64(a int64, amt uint32) (int64, bool) {
	if amt >= 64 {
		return 0, false
	}
	return a >> amt, true
}

// wrappingPowI64 raises base to exp by squaring, relying on Go's defined
// wraparound semantics for signed integer overflow (no panic, no handler).
func wrappingPowI64(base int64, exp uint32) int64 {
	result := int64(1)
	b := base
	e := exp
	for e > 0 {
		if e&1 == 1 {
			result *= b
		}
		b *= b
		e >>= 1
	}
	return result
}

// powi mirrors f64::powi: integer-exponent exponentiation by squaring,
// supporting negative exponents via reciprocal.
func powi(base float64, exp int32) float64 {
	if exp < 0 {
		return 1 / powi(base, -exp)
	}
	result := 1.0
	b := base
	e := exp
	for e > 0 {
		if e&1 == 1 {
			result *= b
		}
		b *= b
		e >>= 1
	}
	return result
}

const (
	minInt64 = -1 << 63
	minInt32 = -1 << 31
	maxInt32 = 1<<31 - 1
)
