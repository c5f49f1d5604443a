package knapsack

import (
	"fmt"
	"math/rand/v2"

	"github.com/crillab/gophergen/bitvec"
	"github.com/crillab/gophergen/genetic"
)

// A Solution is a set of items, along with its total cost and weight.
type Solution struct {
	Items  bitvec.Vector
	Cost   int
	Weight int
}

func (inst *Instance) solution(items bitvec.Vector) Solution {
	return Solution{Items: items, Cost: inst.Cost(items), Weight: inst.Weight(items)}
}

// A Step is the best solution found by the genetic solver after a given number of generations.
type Step struct {
	Solution
	Generation  int
	Evaluations int
}

// Evaluator returns the fitness function of inst: the total cost of a feasible solution.
// Infeasible solutions get a fitness of -1.
func (inst *Instance) Evaluator() genetic.Evaluator {
	return func(ind *genetic.Individual) bool {
		weight, cost := 0, 0
		for i, item := range inst.Items {
			if ind.Chromosome.Get(i) {
				weight += item.Weight
				cost += item.Cost
			}
		}
		if weight > inst.Capacity {
			ind.Fitness = -1
			return false
		}
		ind.Fitness = float64(cost)
		return true
	}
}

// Factory returns a generator of random feasible solutions:
// items are considered in random order, and each one is taken with probability 1/2 if it still fits.
func (inst *Instance) Factory() genetic.Factory {
	n := len(inst.Items)
	return func(rng *rand.Rand) (genetic.Individual, bool) {
		sol := bitvec.New(n)
		weight := 0
		for _, i := range rng.Perm(n) {
			if rng.IntN(2) == 0 && weight+inst.Items[i].Weight <= inst.Capacity {
				sol.Set(i, true)
				weight += inst.Items[i].Weight
			}
		}
		return genetic.Individual{Chromosome: sol}, true
	}
}

// NewPopulation returns a random population of feasible solutions to inst.
// The optimization direction of cfg is forced to genetic.Maximize.
func (inst *Instance) NewPopulation(cfg genetic.Config, size int, opts ...genetic.Option) (*genetic.Population, error) {
	cfg.Optimization = genetic.Maximize
	ev, err := genetic.NewEvolver(cfg, inst.Evaluator(), opts...)
	if err != nil {
		return nil, err
	}
	return genetic.NewPopulation(size, ev, inst.Factory())
}

// SolveSteps evolves a population of size individuals for upTo generations, and records its best solution
// every `every` generations. If every is 0 or greater than upTo, only the final solution is recorded.
// If step is not nil, it is called after each record.
func SolveSteps(inst *Instance, cfg genetic.Config, size, every, upTo int, step func(pop *genetic.Population, generation int), opts ...genetic.Option) ([]Step, error) {
	if upTo < 0 {
		return nil, fmt.Errorf("invalid number of generations %d", upTo)
	}
	if every <= 0 || every > upTo {
		every = upTo
	}
	pop, err := inst.NewPopulation(cfg, size, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create population for instance %d: %w", inst.ID, err)
	}
	record := func() Step {
		return Step{
			Solution:    inst.solution(pop.Best().Chromosome),
			Generation:  pop.Generation(),
			Evaluations: pop.Evolver().Evaluations(),
		}
	}
	if upTo == 0 {
		return []Step{record()}, nil
	}
	var steps []Step
	for pop.Generation()+every <= upTo {
		if _, _, err := pop.EvolveTimes(every, nil); err != nil {
			return steps, err
		}
		steps = append(steps, record())
		if step != nil {
			step(pop, pop.Generation())
		}
	}
	return steps, nil
}

// Solve evolves a population of size individuals for the given number of generations
// and returns its best solution.
func Solve(inst *Instance, cfg genetic.Config, size, generations int, opts ...genetic.Option) (Step, error) {
	steps, err := SolveSteps(inst, cfg, size, 0, generations, nil, opts...)
	if err != nil {
		return Step{}, err
	}
	return steps[len(steps)-1], nil
}
