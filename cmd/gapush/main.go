// gapush is a minimal driver and REPL for the gapush stack machine.
// Designed to exercise the core package the way the teacher's
// micro-psil assembled and ran PSIL bytecode: load a program, either run
// it one cycle per top-level term (subject to a cycle cap) or disassemble
// it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/psilLang/gapush/pkg/asm"
	"github.com/psilLang/gapush/pkg/gapush"
)

func main() {
	debug := flag.Bool("debug", false, "enable cycle tracing")
	disasm := flag.Bool("disasm", false, "disassemble instead of run")
	budget := flag.Int("budget", 1<<16, "memory budget in bytes")
	cycles := flag.Int("cycles", 10000, "maximum number of cycles to run")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		repl(*debug, *budget, *cycles)
		return
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	program, err := asm.Parse(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "assembly error: %v\n", err)
		os.Exit(1)
	}

	if *disasm {
		fmt.Print(asm.Disassemble(program))
		return
	}

	m := newIdleMachine(*budget)
	m.Debug = *debug
	m.Output = os.Stderr
	runProgram(m, program, *cycles)
	fmt.Println("int stack depth:", m.State.IntDepth())
}

// repl is a line-at-a-time loop: each line is assembled and run through
// runProgram against a single persistent Machine, so state accumulates
// across lines, mirroring micro-psil's REPL mode.
func repl(debug bool, budget, cycles int) {
	m := newIdleMachine(budget)
	m.Debug = debug
	m.Output = os.Stdout
	fmt.Println("gapush REPL, empty line to exit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return
		}
		program, err := asm.Parse(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "assembly error: %v\n", err)
			continue
		}
		runProgram(m, program, cycles)
		fmt.Printf("int=%d float=%d bool=%d\n", m.State.IntDepth(), m.State.FloatDepth(), m.State.BoolDepth())
	}
}

// runProgram provides each term in order and runs one cycle per term,
// stopping early if the budget rejects queuing a term and reporting, but
// not stopping on, a cycle that fails. A composite term ({ }, loop{ },
// if{ }) advances only one step in its cycle; the rest of its body stays
// queued on the exe stack.
func runProgram(m *gapush.Machine, program []gapush.Instruction, cycles int) {
	for i, ins := range program {
		if i >= cycles {
			fmt.Fprintln(os.Stderr, "cycle cap reached")
			return
		}
		if !m.Provide(ins) {
			fmt.Fprintln(os.Stderr, "budget exceeded queuing instruction", i)
			return
		}
		if _, ok := m.Cycle(); !ok {
			fmt.Fprintln(os.Stderr, "cycle failed at instruction", i)
		}
	}
}

// newIdleMachine builds a Machine whose fallback handlers hand back a
// no-op (Nop) instruction and zero scalars: a program that runs off the
// end of the exe stack, or pops an empty int/float stack, keeps going
// instead of stalling, exactly as §4.5 describes.
func newIdleMachine(budget int) *gapush.Machine {
	return gapush.NewMachine(budget,
		func() gapush.Instruction { return &gapush.PlainOpInstr{Op: gapush.Nop} },
		func() int64 { return 0 },
		func() float64 { return 0 },
	)
}
