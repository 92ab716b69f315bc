// gabreed is an evolutionary search driver: it breeds a population of
// gapush chromosomes toward leaving a target integer on top of the int
// stack, in the generation-loop-plus-CSV-report shape of the teacher's
// cmd/sandbox (which bred NPC bytecode genomes against a fitness score
// instead of a numeric target).
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/psilLang/gapush/pkg/chromosome"
	"github.com/psilLang/gapush/pkg/gapush"

	"pgregory.net/rand"
)

func main() {
	popSize := flag.Int("pop", 64, "population size")
	genes := flag.Int("genes", 16, "starting gene length per chromosome")
	generations := flag.Int("generations", 200, "number of generations to run")
	target := flag.Int64("target", 42, "target int value to breed toward")
	budget := flag.Int("budget", 4096, "machine memory budget per evaluation")
	cycles := flag.Int("cycles", 256, "cycle cap per evaluation")
	mutationRate := flag.Float64("mutation-rate", 0.1, "exponential mutation gap rate")
	seed := flag.Int64("seed", 1, "random seed")
	csvOut := flag.Bool("csv", false, "write per-generation stats as CSV to stdout")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	pop := make([]*chromosome.Chromosome, *popSize)
	for i := range pop {
		pop[i] = chromosome.NewRandom(*genes, rng)
	}

	var cw *csv.Writer
	if *csvOut {
		cw = csv.NewWriter(os.Stdout)
		cw.Write([]string{"generation", "best_fitness", "avg_fitness"})
	}

	for gen := 0; gen < *generations; gen++ {
		fitness := make([]int64, len(pop))
		for i, c := range pop {
			fitness[i] = evaluate(c, *target, *budget, *cycles)
		}

		order := make([]int, len(pop))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool { return fitness[order[a]] > fitness[order[b]] })

		best := fitness[order[0]]
		var total int64
		for _, f := range fitness {
			total += f
		}
		avg := float64(total) / float64(len(fitness))

		if cw != nil {
			cw.Write([]string{fmt.Sprint(gen), fmt.Sprint(best), fmt.Sprintf("%.2f", avg)})
			cw.Flush()
		} else {
			fmt.Printf("gen %d: best=%d avg=%.2f\n", gen, best, avg)
		}

		if best == 0 {
			break
		}

		pop = nextGeneration(pop, order, rng, *genes, *mutationRate)
	}
}

// evaluate runs c's program against a fresh Machine and returns the
// negative absolute distance between the target and whatever sits on top
// of the int stack afterward (0 is a perfect match, more negative is
// worse); a program that leaves nothing on the int stack scores a fixed
// -(1<<40).
func evaluate(c *chromosome.Chromosome, target int64, budget, cycles int) int64 {
	m := gapush.NewMachine(budget,
		func() gapush.Instruction { return &gapush.PlainOpInstr{Op: gapush.Nop} },
		func() int64 { return 0 },
		func() float64 { return 0 },
	)
	m.Provide(c.ToInstruction())
	for i := 0; i < cycles; i++ {
		if _, ok := m.Cycle(); !ok {
			break
		}
	}
	top, ok := m.State.PopInt()
	if !ok {
		return -(1 << 40)
	}
	diff := top - target
	if diff < 0 {
		diff = -diff
	}
	return -diff
}

// nextGeneration keeps the top half of the ranked population unchanged as
// breeding stock, fills the rest by mating pairs drawn from that stock,
// and mutates every offspring (but never the kept elites), matching the
// teacher's truncation-plus-tournament shape (sandbox/ga.go's Evolve) at
// the population level while using the chromosome-specific Mate/Mutate
// this package supplements over the teacher's raw-byte crossover.
func nextGeneration(pop []*chromosome.Chromosome, order []int, rng *rand.Rand, maxGenes int, mutationRate float64) []*chromosome.Chromosome {
	eliteCount := len(pop) / 2
	next := make([]*chromosome.Chromosome, 0, len(pop))
	for i := 0; i < eliteCount; i++ {
		next = append(next, pop[order[i]])
	}
	for len(next) < len(pop) {
		a := pop[order[rng.Intn(eliteCount)]]
		b := pop[order[rng.Intn(eliteCount)]]
		child := a.Mate(b, rng)
		child.Mutate(maxGenes*2, mutationRate, rng)
		next = append(next, child)
	}
	return next
}
