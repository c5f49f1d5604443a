package bitvec

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Crossover draws points cut indices uniformly in [0, n) and recombines v and other
// around them, as CrossoverAt does.
func (v Vector) Crossover(other Vector, points int, rng *rand.Rand) (Vector, Vector) {
	if points <= 0 || v.n == 0 {
		return v.Clone(), other.Clone()
	}
	cuts := make([]int, points)
	for i := range cuts {
		cuts[i] = rng.IntN(v.n)
	}
	return v.CrossoverAt(other, cuts)
}

// CrossoverAt splits both parents into segments delimited by cuts and returns two children.
// The first child takes the even segments (starting with segment 0) from v and the odd ones from other;
// the second child gets the complementary assignment.
// cuts need not be sorted. It panics if v and other do not have the same capacity.
func (v Vector) CrossoverAt(other Vector, cuts []int) (Vector, Vector) {
	if v.n != other.n {
		panic(fmt.Sprintf("bitvec: crossover between vectors of %d and %d bits", v.n, other.n))
	}
	sorted := slices.Clone(cuts)
	slices.Sort(sorted)
	mask := make([]uint64, len(v.words))
	for i := 0; i < len(sorted); i += 2 {
		from := sorted[i]
		to := v.n
		if i+1 < len(sorted) {
			to = sorted[i+1]
		}
		if from < 0 || to > v.n {
			panic(fmt.Sprintf("bitvec: cut out of range [0, %d)", v.n))
		}
		fillRange(mask, from, to)
	}
	c1, c2 := New(v.n), New(v.n)
	for i, m := range mask {
		a, b := v.words[i], other.words[i]
		c1.words[i] = a&^m | b&m
		c2.words[i] = b&^m | a&m
	}
	return c1, c2
}

// fillRange sets bits [from, to) in words.
func fillRange(words []uint64, from, to int) {
	for from < to {
		off := uint(from % wordSize)
		span := min(to-from, wordSize-int(off))
		m := ^uint64(0)
		if span < wordSize {
			m = (uint64(1)<<uint(span) - 1) << off
		}
		words[from/wordSize] |= m
		from += span
	}
}
