package sat

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/crillab/gophergen/bitvec"
	"github.com/crillab/gophergen/genetic"
)

// SatisfiedFitness is the fitness, during the satisfiability phase, of an assignment satisfying every clause.
const SatisfiedFitness = 100

// ErrNotSatisfied is returned when the genetic solver could not find any model of a formula.
var ErrNotSatisfied = errors.New("formula not satisfied")

// A NotSatisfiedError is returned when no model was found. Best is the assignment
// satisfying the most clauses.
type NotSatisfiedError struct {
	Best genetic.Individual
}

func (e *NotSatisfiedError) Error() string {
	return fmt.Sprintf("%v: best assignment satisfies %.2f%% of the clauses", ErrNotSatisfied, e.Best.Fitness)
}

func (e *NotSatisfiedError) Unwrap() error {
	return ErrNotSatisfied
}

// BoolEvaluator returns the satisfiability fitness of inst: the percentage of clauses satisfied.
// Every assignment is valid.
func (inst *Instance) BoolEvaluator() genetic.Evaluator {
	return func(ind *genetic.Individual) bool {
		ind.Fitness = SatisfiedFitness * inst.SatisfiedRate(ind.Chromosome)
		return true
	}
}

// WeightEvaluator returns the weight fitness of inst: the weighted value of a model.
// Assignments that are not models are not valid.
func (inst *Instance) WeightEvaluator() genetic.Evaluator {
	return func(ind *genetic.Individual) bool {
		if !inst.Satisfies(ind.Chromosome) {
			ind.Fitness = -1
			return false
		}
		ind.Fitness = float64(inst.WeightedValue(ind.Chromosome))
		return true
	}
}

// Factory returns a generator of uniformly random assignments.
func (inst *Instance) Factory() genetic.Factory {
	return func(rng *rand.Rand) (genetic.Individual, bool) {
		return genetic.Individual{Chromosome: bitvec.Random(inst.NbVars, rng)}, true
	}
}

// Options are the parameters of the two-phase genetic solver.
type Options struct {
	Size              int // Initial population size of the satisfiability phase.
	SizeStep          int // Population growth after each unsuccessful round.
	Rounds            int // Maximum number of satisfiability rounds.
	Generations       int // Generations per satisfiability round.
	WeightGenerations int // Generations of the weight phase.
	MinWeightSize     int // Minimum population size of the weight phase.
	Mutation          float64
	Crossover         float64
	Elitism           int
	CrossoverMethod   genetic.Crossover
}

// DefaultOptions returns the default parameters of the genetic solver.
func DefaultOptions() Options {
	return Options{
		Size:              2000,
		SizeStep:          1000,
		Rounds:            3,
		Generations:       150,
		WeightGenerations: 1000,
		MinWeightSize:     10,
		Mutation:          0.1,
		Crossover:         0.9,
		Elitism:           1,
		CrossoverMethod:   genetic.UniformOf(3),
	}
}

func (o Options) config(sel genetic.Selection) genetic.Config {
	return genetic.Config{
		MutationProbability:  o.Mutation,
		CrossoverProbability: o.Crossover,
		Elitism:              o.Elitism,
		Optimization:         genetic.Maximize,
		Selection:            sel,
		Crossover:            o.CrossoverMethod,
		Mutations:            genetic.AllMutations(),
	}
}

// A Result is the outcome of the genetic solver.
type Result struct {
	Best        bitvec.Vector
	Weight      int
	Models      int // Distinct models found during the satisfiability phase.
	Stagnation  int // Generations of the weight phase since the last improvement; -1 if that phase was skipped.
	Evaluations int // Fitness evaluations of both phases.
}

// Solve looks for a model of inst with a high weight.
//
// During the satisfiability phase, populations evolve with satisfiability as fitness, and every model evaluated
// along the way is recorded. The first round needs at least 2 models to stop early; later rounds stop as soon as one
// model is known, while the population grows by opts.SizeStep each round.
// The recorded models then seed the weight phase, where fitness is the weighted value.
//
// If no model was found, a *NotSatisfiedError is returned.
func (inst *Instance) Solve(opts Options, evOpts ...genetic.Option) (Result, error) {
	boolOpts := append([]genetic.Option{genetic.WithCollectTarget(SatisfiedFitness)}, evOpts...)
	boolEv, err := genetic.NewEvolver(opts.config(genetic.TournamentOf(5)), inst.BoolEvaluator(), boolOpts...)
	if err != nil {
		return Result{}, err
	}
	models := make(map[string]genetic.Individual)
	collect := func() {
		for _, ind := range boolEv.Collected() {
			models[ind.Chromosome.String()] = ind
		}
	}
	var best genetic.Individual
	found := false
	size := opts.Size
	target := 1
	for round := 0; round < max(opts.Rounds, 1); round++ {
		pop, err := genetic.NewPopulation(size, boolEv, inst.Factory())
		if err != nil {
			return Result{}, err
		}
		collect()
		for g := 0; g < opts.Generations; g++ {
			if _, err := pop.Evolve(); err != nil {
				return Result{}, err
			}
			collect()
		}
		if b := pop.Best(); !found || b.Fitness > best.Fitness {
			best, found = b, true
		}
		boolEv.Logger().Debug("satisfiability round done",
			slog.Int("round", round),
			slog.Int("size", size),
			slog.Int("models", len(models)),
			slog.Float64("best", best.Fitness))
		if len(models) > target {
			break
		}
		target = 0
		size += opts.SizeStep
	}
	if len(models) == 0 {
		return Result{}, &NotSatisfiedError{Best: best}
	}
	inds := make([]genetic.Individual, 0, len(models))
	for _, ind := range models {
		inds = append(inds, ind)
	}
	sortByChromosome(inds)
	if len(inds) < 2 {
		return Result{
			Best:        inds[0].Chromosome,
			Weight:      inst.WeightedValue(inds[0].Chromosome),
			Models:      1,
			Stagnation:  -1,
			Evaluations: boolEv.Evaluations(),
		}, nil
	}
	weightEv, err := genetic.NewEvolver(opts.config(genetic.TournamentOf(2)), inst.WeightEvaluator(), evOpts...)
	if err != nil {
		return Result{}, err
	}
	pop, err := genetic.FromIndividuals(inds, weightEv, nil)
	if err != nil {
		return Result{}, fmt.Errorf("could not seed weight phase: %w", err)
	}
	if len(inds) < opts.MinWeightSize {
		pop.SetExpansion(opts.MinWeightSize)
	}
	stagnation := 0
	bestWeight := pop.Best().Fitness
	for g := 0; g < opts.WeightGenerations; g++ {
		b, err := pop.Evolve()
		if err != nil {
			return Result{}, err
		}
		if b.Fitness == bestWeight {
			stagnation++
		} else {
			stagnation = 0
			bestWeight = b.Fitness
		}
	}
	b := pop.Best()
	return Result{
		Best:        b.Chromosome,
		Weight:      int(b.Fitness),
		Models:      len(inds),
		Stagnation:  stagnation,
		Evaluations: boolEv.Evaluations() + weightEv.Evaluations(),
	}, nil
}

// Find hunts for at least minimum distinct models of inst with the satisfiability fitness,
// inspecting the population at each generation of the schedule.
func (inst *Instance) Find(cfg genetic.Config, size, minimum int, schedule []int, attempts int, opts ...genetic.Option) ([]genetic.Checkpoint, int, error) {
	cfg.Optimization = genetic.Maximize
	ev, err := genetic.NewEvolver(cfg, inst.BoolEvaluator(), opts...)
	if err != nil {
		return nil, 0, err
	}
	pop, err := genetic.NewPopulation(size, ev, inst.Factory())
	if err != nil {
		return nil, 0, err
	}
	h := genetic.Hunt{Minimum: minimum, Target: SatisfiedFitness, Schedule: schedule, Attempts: attempts}
	return h.Run(pop)
}

// sortByChromosome sorts inds so that the weight phase does not depend on map ordering.
func sortByChromosome(inds []genetic.Individual) {
	slices.SortFunc(inds, func(a, b genetic.Individual) int {
		return strings.Compare(a.Chromosome.String(), b.Chromosome.String())
	})
}
