package gapush

// PlainOp is the flat enumeration of primitive opcodes: the subset of the
// instruction set that is encodable as a single integer and that the
// chromosome/GA layer mutates and samples directly. Ordinal order matches
// the original gapush crate's PlainOp enum (simple_instruction.rs) so that
// CreatePlain's "sample an ordinal, construct the matching opcode" contract
// and TOTAL_PLAIN_INSTRUCTIONS stay meaningful across implementations.
type PlainOp uint8

const (
	// Integer arithmetic (wrapping).
	Inci64 PlainOp = iota
	Deci64
	Addi64
	Subi64
	Muli64
	// Integer arithmetic: Div/Rem/Neg/Abs/Shftl/Shftr are checked and fall
	// back to the int handler; Pow wraps and the rotates cannot fail.
	Divi64
	Remi64
	Negi64
	Absi64
	Powi64
	Rotli64
	Rotri64
	Shftli64
	Shftri64
	// Integer bitwise.
	Andi64
	Ori64
	Xori64
	Invi64
	// Integer comparison.
	Lesi64
	Grti64
	Eqi64
	Neqi64

	// Float arithmetic.
	Incf64
	Decf64
	Addf64
	Subf64
	Mulf64
	Divf64
	Remf64
	Negf64
	Absf64
	Powif64
	Powff64
	// Float comparison.
	Lesf64
	Grtf64
	Eqf64
	Neqf64

	// Boolean.
	Andb
	Orb
	Eqb
	Neqb
	Notb

	// Conversion.
	Itof
	Ftoi

	// Stack manipulation: rotate.
	Rotins
	Roti64
	Rotf64
	Rotb
	Rotinsv
	Roti64v
	Rotf64v
	// Stack manipulation: copy.
	Copyins
	Copyi64
	Copyf64
	Copyb
	Copyinsv
	Copyi64v
	Copyf64v
	// Stack manipulation: pop-and-discard.
	Popins
	Popi64
	Popf64
	Popb
	Popinsv
	Popi64v
	Popf64v

	// Vector manipulation.
	Pushvins
	Pushvi64
	Pushvf64
	Popvins
	Popvi64
	Popvf64
	Readvins
	Readvi64
	Readvf64
	Writevins
	Writevi64
	Writevf64

	// Auxiliary.
	Zeroi64

	// Instruction construction.
	CreatePlain
	CreateBasicBlock
	CreateLoop
	CreateIf
	CreatePushi64
	CreatePushf64
	CreatePushb
	CreatePushi64v
	CreatePushf64v

	// Execution control.
	Return
	Yield
	Call
	Nop

	// External communication.
	Provide

	totalPlainOps
)

// TotalPlainInstructions is the number of valid PlainOp ordinals; CreatePlain
// rejects any sampled value outside [0, TotalPlainInstructions).
const TotalPlainInstructions = int(totalPlainOps)

// plainOpNames mirrors TotalPlainInstructions exactly, in ordinal order, for
// disassembly and the assembler's mnemonic table.
var plainOpNames = [totalPlainOps]string{
	Inci64: "inc.i", Deci64: "dec.i", Addi64: "add.i", Subi64: "sub.i", Muli64: "mul.i",
	Divi64: "div.i", Remi64: "rem.i", Negi64: "neg.i", Absi64: "abs.i", Powi64: "pow.i",
	Rotli64: "rotl.i", Rotri64: "rotr.i", Shftli64: "shl.i", Shftri64: "shr.i",
	Andi64: "and.i", Ori64: "or.i", Xori64: "xor.i", Invi64: "inv.i",
	Lesi64: "lt.i", Grti64: "gt.i", Eqi64: "eq.i", Neqi64: "neq.i",

	Incf64: "inc.f", Decf64: "dec.f", Addf64: "add.f", Subf64: "sub.f", Mulf64: "mul.f",
	Divf64: "div.f", Remf64: "rem.f", Negf64: "neg.f", Absf64: "abs.f",
	Powif64: "powi.f", Powff64: "powf.f",
	Lesf64: "lt.f", Grtf64: "gt.f", Eqf64: "eq.f", Neqf64: "neq.f",

	Andb: "and.b", Orb: "or.b", Eqb: "eq.b", Neqb: "neq.b", Notb: "not.b",

	Itof: "itof", Ftoi: "ftoi",

	Rotins: "rot.ins", Roti64: "rot.i", Rotf64: "rot.f", Rotb: "rot.b",
	Rotinsv: "rot.insv", Roti64v: "rot.iv", Rotf64v: "rot.fv",
	Copyins: "copy.ins", Copyi64: "copy.i", Copyf64: "copy.f", Copyb: "copy.b",
	Copyinsv: "copy.insv", Copyi64v: "copy.iv", Copyf64v: "copy.fv",
	Popins: "pop.ins", Popi64: "pop.i", Popf64: "pop.f", Popb: "pop.b",
	Popinsv: "pop.insv", Popi64v: "pop.iv", Popf64v: "pop.fv",

	Pushvins: "pushv.ins", Pushvi64: "pushv.i", Pushvf64: "pushv.f",
	Popvins: "popv.ins", Popvi64: "popv.i", Popvf64: "popv.f",
	Readvins: "readv.ins", Readvi64: "readv.i", Readvf64: "readv.f",
	Writevins: "writev.ins", Writevi64: "writev.i", Writevf64: "writev.f",

	Zeroi64: "zero.i",

	CreatePlain: "create.plain", CreateBasicBlock: "create.block", CreateLoop: "create.loop",
	CreateIf: "create.if", CreatePushi64: "create.pushi", CreatePushf64: "create.pushf",
	CreatePushb: "create.pushb", CreatePushi64v: "create.pushiv", CreatePushf64v: "create.pushfv",

	Return: "return", Yield: "yield", Call: "call", Nop: "nop",

	Provide: "provide",
}

// String returns the mnemonic used by the assembler and disassembler.
func (op PlainOp) String() string {
	if int(op) < 0 || int(op) >= TotalPlainInstructions {
		return "?"
	}
	return plainOpNames[op]
}

// opcodeFromOrdinal constructs the PlainOp with the given ordinal, the
// interface the evolutionary layer's gene sampling and CreatePlain rely on.
// Reports false if n is out of range.
func opcodeFromOrdinal(n int) (PlainOp, bool) {
	if n < 0 || n >= TotalPlainInstructions {
		return 0, false
	}
	return PlainOp(n), true
}

// OpcodeFromOrdinal is the exported form of opcodeFromOrdinal, used by
// pkg/chromosome to construct opcodes from sampled ordinals outside this
// package.
func OpcodeFromOrdinal(n int) (PlainOp, bool) { return opcodeFromOrdinal(n) }

var mnemonicToOp = func() map[string]PlainOp {
	m := make(map[string]PlainOp, totalPlainOps)
	for i, name := range plainOpNames {
		m[name] = PlainOp(i)
	}
	return m
}()

// OpcodeByMnemonic looks up a PlainOp by its assembler mnemonic (the same
// string String returns), used by pkg/asm to parse opcode terms.
func OpcodeByMnemonic(mnemonic string) (PlainOp, bool) {
	op, ok := mnemonicToOp[mnemonic]
	return op, ok
}
