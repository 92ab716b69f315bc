package chromosome

import (
	"github.com/psilLang/gapush/pkg/gapush"

	"pgregory.net/rand"
)

// Chromosome is a bred gapush program: a flat sequence of primitive
// opcodes plus a set of crossover points marking where Mate may cut. The
// points carry no runtime meaning on their own (a Chromosome's genes
// project straight to a BasicBlock regardless of where its crossover
// points sit) — they only guide how future Mate calls recombine it with
// another parent.
type Chromosome struct {
	Genes      []gapush.PlainOp
	Crossovers *OrderedIntSet
}

// New wraps an existing gene sequence with no crossover points.
func New(genes []gapush.PlainOp) *Chromosome {
	return &Chromosome{Genes: genes, Crossovers: NewOrderedIntSet()}
}

// NewRandom builds a chromosome of the given gene length, sampling each
// gene uniformly from the TotalPlainInstructions ordinals, with no
// crossover points yet (mutate is what introduces them).
func NewRandom(length int, rng *rand.Rand) *Chromosome {
	genes := make([]gapush.PlainOp, length)
	for i := range genes {
		genes[i] = randomPlainOp(rng)
	}
	return New(genes)
}

func randomPlainOp(rng *rand.Rand) gapush.PlainOp {
	op, ok := gapush.OpcodeFromOrdinal(rng.Intn(gapush.TotalPlainInstructions))
	if !ok {
		// unreachable: rng.Intn is bounded by TotalPlainInstructions itself
		return gapush.Nop
	}
	return op
}

// GeneLen reports the number of genes.
func (c *Chromosome) GeneLen() int { return len(c.Genes) }

// CrossoverLen reports the number of crossover points.
func (c *Chromosome) CrossoverLen() int { return c.Crossovers.Len() }

// ToInstruction projects the chromosome into an executable BasicBlock,
// cloning each gene into its own PlainOpInstr wrapper. Crossover points do
// not survive the projection; they are a breeding-time concept only.
func (c *Chromosome) ToInstruction() gapush.Instruction {
	items := make([]gapush.Instruction, len(c.Genes))
	for i, op := range c.Genes {
		items[i] = &gapush.PlainOpInstr{Op: op}
	}
	return gapush.NewBasicBlock(items)
}

// Mutate performs one exponential-gap-sampled walk over the gene
// sequence: starting at 0, it repeatedly jumps forward by a
// geometrically-distributed gap (so mutations cluster near each other
// roughly every 1/rate genes on average) and, at each landing position
// short of maxLen, applies one of five equally likely edits: insert a
// random gene (skipped once the sequence already holds maxLen genes),
// remove the gene there, point-mutate it to a different random gene, add a
// crossover point, or remove the nearest existing one.
// The walk stops once it runs past maxLen or past the current gene
// length, whichever the edits have made relevant.
func (c *Chromosome) Mutate(maxLen int, rate float64, rng *rand.Rand) {
	pos := 0
	for {
		gap := int(rng.ExpFloat64()/rate) + 1
		pos += gap
		if pos >= maxLen || pos > len(c.Genes) {
			return
		}
		switch rng.Intn(5) {
		case 0:
			if len(c.Genes) < maxLen {
				c.insertGeneAt(pos, rng)
			}
		case 1:
			c.removeGeneAt(pos)
		case 2:
			c.pointMutateAt(pos, rng)
		case 3:
			c.Crossovers.Insert(pos)
		case 4:
			c.Crossovers.RemoveNearest(pos)
		}
	}
}

func (c *Chromosome) insertGeneAt(pos int, rng *rand.Rand) {
	if pos > len(c.Genes) {
		pos = len(c.Genes)
	}
	c.Genes = append(c.Genes, gapush.Nop)
	copy(c.Genes[pos+1:], c.Genes[pos:])
	c.Genes[pos] = randomPlainOp(rng)
	c.Crossovers.ShiftFrom(pos, 1)
}

func (c *Chromosome) removeGeneAt(pos int) {
	if pos >= len(c.Genes) {
		return
	}
	c.Genes = append(c.Genes[:pos], c.Genes[pos+1:]...)
	c.Crossovers.RemoveAndShift(pos)
}

func (c *Chromosome) pointMutateAt(pos int, rng *rand.Rand) {
	if pos >= len(c.Genes) {
		return
	}
	c.Genes[pos] = randomPlainOp(rng)
}

// Mate recombines c with other by walking both parents' crossover points
// in increasing order, alternating which parent contributes each segment:
// the child takes c's genes up to c's first crossover point, then other's
// genes up to other's first crossover point, then c's next segment from
// where c left off, and so on, until both parents are exhausted. Each
// parent keeps its own cursor, so every gene of both parents ends up in
// the child exactly once. A fresh crossover point is recorded in the
// child at each boundary where a segment was cut short of its parent's
// full remaining length.
func (c *Chromosome) Mate(other *Chromosome, rng *rand.Rand) *Chromosome {
	parents := [2]*Chromosome{c, other}
	cursor := [2]int{0, 0}
	points := [2][]int{c.Crossovers.Items(), other.Crossovers.Items()}
	pidx := [2]int{0, 0}

	var genes []gapush.PlainOp
	crossovers := NewOrderedIntSet()
	turn := 0

	for cursor[0] < len(parents[0].Genes) || cursor[1] < len(parents[1].Genes) {
		p := parents[turn]
		cur := cursor[turn]
		if cur >= len(p.Genes) {
			turn = 1 - turn
			continue
		}
		for pidx[turn] < len(points[turn]) && points[turn][pidx[turn]] <= cur {
			pidx[turn]++
		}
		end := len(p.Genes)
		if pidx[turn] < len(points[turn]) {
			end = points[turn][pidx[turn]]
			pidx[turn]++
		}
		genes = append(genes, p.Genes[cur:end]...)
		cursor[turn] = end
		if end < len(p.Genes) {
			crossovers.Insert(len(genes))
		}
		turn = 1 - turn
	}

	return &Chromosome{Genes: genes, Crossovers: crossovers}
}
