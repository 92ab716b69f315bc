// Package asm provides a mnemonic assembly language for gapush programs,
// parsed with Participle v2 in exactly the style the teacher's pkg/parser
// uses for PSIL source (Go struct tags describing the grammar, plus a
// lexer.MustSimple token set). A gapush program has no bound variables or
// definitions, so the grammar is much flatter than PSIL's: a sequence of
// terms, where a term is a plain opcode mnemonic, a literal push, or a
// reified `{ }` / `loop{ }` / `if{ } else{ }` body.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/psilLang/gapush/pkg/gapush"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Program is the top-level AST node: a flat sequence of terms executed in
// order once assembled (conceptually, the body of an implicit outermost
// BasicBlock).
type Program struct {
	Terms []*Term `@@*`
}

// Term is one assembly-level instruction.
type Term struct {
	PushI    *int64   `  "push.i" @Int`
	PushF    *float64 `| "push.f" @Float`
	PushB    *string  `| "push.b" @("true" | "false")`
	Loop     *Program `| "loop" "{" @@ "}"`
	If       *IfTerm  `| @@`
	Block    *Program `| "{" @@ "}"`
	Mnemonic *string  `| @Ident`
}

// IfTerm is its own struct (rather than two Term fields) so the optional
// trailing "else { }" binds unambiguously to the "if { }" that precedes it.
type IfTerm struct {
	Then *Program `"if" "{" @@ "}"`
	Else *Program `("else" "{" @@ "}")?`
}

var asmLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "Float", Pattern: `-?[0-9]+\.[0-9]+`},
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "Punct", Pattern: `[{}]`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},
})

// Parser is the gapush assembly parser.
var Parser = participle.MustBuild[Program](
	participle.Lexer(asmLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// Parse assembles source into a flat instruction sequence.
func Parse(source string) ([]gapush.Instruction, error) {
	prog, err := Parser.ParseString("", source)
	if err != nil {
		return nil, fmt.Errorf("asm: parse: %w", err)
	}
	return prog.toInstructions()
}

func (p *Program) toInstructions() ([]gapush.Instruction, error) {
	out := make([]gapush.Instruction, 0, len(p.Terms))
	for _, t := range p.Terms {
		ins, err := t.toInstruction()
		if err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
	return out, nil
}

func (t *Term) toInstruction() (gapush.Instruction, error) {
	switch {
	case t.PushI != nil:
		return &gapush.PushIInstr{V: *t.PushI}, nil
	case t.PushF != nil:
		return &gapush.PushFInstr{V: *t.PushF}, nil
	case t.PushB != nil:
		return &gapush.PushBInstr{V: *t.PushB == "true"}, nil
	case t.Loop != nil:
		body, err := t.Loop.toInstructions()
		if err != nil {
			return nil, err
		}
		return gapush.NewLoop(body), nil
	case t.If != nil:
		thenBody, err := t.If.Then.toInstructions()
		if err != nil {
			return nil, err
		}
		var elseBody []gapush.Instruction
		if t.If.Else != nil {
			elseBody, err = t.If.Else.toInstructions()
			if err != nil {
				return nil, err
			}
		}
		return &gapush.IfInstr{
			Then: gapush.NewBasicBlock(thenBody).Iter,
			Else: gapush.NewBasicBlock(elseBody).Iter,
		}, nil
	case t.Block != nil:
		body, err := t.Block.toInstructions()
		if err != nil {
			return nil, err
		}
		return gapush.NewBasicBlock(body), nil
	case t.Mnemonic != nil:
		op, ok := gapush.OpcodeByMnemonic(*t.Mnemonic)
		if !ok {
			return nil, fmt.Errorf("asm: unknown mnemonic %q", *t.Mnemonic)
		}
		return &gapush.PlainOpInstr{Op: op}, nil
	}
	return nil, fmt.Errorf("asm: empty term")
}

// Disassemble renders a flat instruction sequence back to source text, one
// term per line, in the same mnemonic vocabulary Parse accepts. It covers
// the leaf terms (plain opcodes and scalar literal pushes); a composite
// term (BasicBlock, Loop, If, or a vector literal push) prints as a
// placeholder comment rather than a re-parseable nested block, and a
// non-finite float literal (NaN or an infinity) has no assembly form.
func Disassemble(program []gapush.Instruction) string {
	var b strings.Builder
	disassembleInto(&b, program, 0)
	return b.String()
}

func disassembleInto(b *strings.Builder, program []gapush.Instruction, indent int) {
	pad := strings.Repeat("  ", indent)
	for _, ins := range program {
		b.WriteString(pad)
		switch v := ins.(type) {
		case *gapush.PlainOpInstr:
			b.WriteString(v.Op.String())
			b.WriteString("\n")
		case *gapush.PushIInstr:
			fmt.Fprintf(b, "push.i %d\n", v.V)
		case *gapush.PushFInstr:
			s := strconv.FormatFloat(v.V, 'f', -1, 64)
			if strings.Trim(s, "-0123456789") == "" {
				s += ".0" // the Float token needs a fractional part
			}
			fmt.Fprintf(b, "push.f %s\n", s)
		case *gapush.PushBInstr:
			fmt.Fprintf(b, "push.b %v\n", v.V)
		default:
			fmt.Fprintf(b, "; unsupported term %T\n", v)
		}
	}
}
