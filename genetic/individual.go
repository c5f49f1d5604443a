package genetic

import (
	"math/rand/v2"

	"github.com/crillab/gophergen/bitvec"
)

// An Individual is a candidate solution: a chromosome and its fitness.
// A negative fitness means the individual is infeasible.
type Individual struct {
	Fitness    float64
	Chromosome bitvec.Vector
}

// Valid returns true iff ind is feasible.
func (ind Individual) Valid() bool {
	return ind.Fitness >= 0
}

// Clone returns a copy of ind that shares no memory with it.
func (ind Individual) Clone() Individual {
	return Individual{Fitness: ind.Fitness, Chromosome: ind.Chromosome.Clone()}
}

// Mutate applies the given mutation method to ind's chromosome.
// The fitness is not updated.
func (ind *Individual) Mutate(m Mutation, rng *rand.Rand) {
	c := &ind.Chromosome
	switch m {
	case Replacement:
		c.Replacement(rng)
	case Removal:
		c.Removal(rng)
	case RandomSwap:
		c.RandomSwap(rng)
	case AdjacentSwap:
		c.AdjacentSwap(rng)
	case EndForEndSwap:
		c.EndForEndSwap()
	case Inversion:
		c.Inversion(rng)
	}
}

// Cross recombines dad and mum with the given method.
// The children's fitness is not computed.
func Cross(dad, mum Individual, method Crossover, rng *rand.Rand) (Individual, Individual) {
	c1, c2 := dad.Chromosome.Crossover(mum.Chromosome, method.points(dad.Chromosome.Len(), rng), rng)
	return Individual{Chromosome: c1}, Individual{Chromosome: c2}
}

// An Evaluator computes the fitness of ind in place and returns whether ind is feasible.
// A feasible individual must get a non-negative fitness.
type Evaluator func(ind *Individual) bool

// A Factory draws a new candidate individual. It returns false when it could not produce one.
type Factory func(rng *rand.Rand) (Individual, bool)

// NewRand returns a PCG-backed random source. A seed of 0 yields a randomly seeded source.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
