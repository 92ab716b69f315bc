package chromosome

import (
	"testing"

	"github.com/psilLang/gapush/pkg/gapush"

	"pgregory.net/rand"
)

func TestNewRandomProducesRequestedLength(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := NewRandom(32, rng)
	if c.GeneLen() != 32 {
		t.Fatalf("gene length = %d, want 32", c.GeneLen())
	}
	if c.CrossoverLen() != 0 {
		t.Fatalf("a freshly sampled chromosome should have no crossover points yet")
	}
}

func TestToInstructionProjectsEveryGene(t *testing.T) {
	c := New([]gapush.PlainOp{gapush.Inci64, gapush.Deci64, gapush.Nop})
	ins := c.ToInstruction()
	block, ok := ins.(*gapush.BasicBlockInstr)
	if !ok {
		t.Fatalf("ToInstruction should produce a *BasicBlockInstr, got %T", ins)
	}
	count := 0
	for {
		_, ok := block.Iter.Next()
		if !ok {
			break
		}
		count++
	}
	if count != 3 {
		t.Fatalf("projected block yielded %d instructions, want 3", count)
	}
}

func TestMutateNeverGrowsPastMaxLen(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := NewRandom(8, rng)
	for i := 0; i < 50; i++ {
		c.Mutate(64, 0.3, rng)
		if c.GeneLen() > 64 {
			t.Fatalf("mutate grew the genome past maxLen: %d", c.GeneLen())
		}
	}
}

func TestMateProducesChildFromBothParents(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := New([]gapush.PlainOp{gapush.Inci64, gapush.Inci64, gapush.Inci64, gapush.Inci64})
	b := New([]gapush.PlainOp{gapush.Deci64, gapush.Deci64, gapush.Deci64, gapush.Deci64})
	a.Crossovers.Insert(2)
	b.Crossovers.Insert(1)
	b.Crossovers.Insert(3)

	child := a.Mate(b, rng)
	if child.GeneLen() == 0 {
		t.Fatalf("child should inherit genes from both parents")
	}
	hasInc, hasDec := false, false
	for _, g := range child.Genes {
		if g == gapush.Inci64 {
			hasInc = true
		}
		if g == gapush.Deci64 {
			hasDec = true
		}
	}
	if !hasInc || !hasDec {
		t.Fatalf("child should contain genes contributed by both parents (inc=%v dec=%v)", hasInc, hasDec)
	}
}

func TestOrderedIntSetStaysSortedAndUnique(t *testing.T) {
	s := NewOrderedIntSet()
	s.Insert(5)
	s.Insert(1)
	s.Insert(5)
	s.Insert(3)
	got := s.Items()
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("items = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("items = %v, want %v", got, want)
		}
	}
}

func TestOrderedIntSetRemoveAndShift(t *testing.T) {
	s := NewOrderedIntSet()
	s.Insert(2)
	s.Insert(5)
	s.Insert(7)
	s.RemoveAndShift(5)
	got := s.Items()
	want := []int{2, 6}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("after RemoveAndShift(5) = %v, want %v", got, want)
	}
}
