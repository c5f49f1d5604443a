package genetic

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoFactory is returned when new individuals are needed but the population has no factory.
var ErrNoFactory = errors.New("no factory to draw individuals from")

// A Population is the current generation of an evolution, along with its best individual.
type Population struct {
	ev         *Evolver
	factory    Factory
	gen        Generation
	generation int
	expansion  int
}

// NewPopulation returns a population of size valid individuals drawn from factory.
func NewPopulation(size int, ev *Evolver, factory Factory) (*Population, error) {
	if size < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrPopulationTooSmall, size)
	}
	if factory == nil {
		return nil, ErrNoFactory
	}
	inds, err := ev.draw(size, factory)
	if err != nil {
		return nil, fmt.Errorf("could not initialize population: %w", err)
	}
	ev.logger.Debug("population initialized", slog.Int("size", size), slog.Int("evaluations", ev.evaluations))
	return &Population{ev: ev, factory: factory, gen: ev.generation(inds)}, nil
}

// FromIndividuals returns a population made of the given individuals.
// Every individual is evaluated again; the ones that are not valid anymore are discarded.
// factory is only needed if the population is expanded later, and can be nil.
func FromIndividuals(initial []Individual, ev *Evolver, factory Factory) (*Population, error) {
	if len(initial) == 0 {
		return nil, ErrEmptyInitialPopulation
	}
	inds := ev.reevaluate(initial)
	if len(inds) == 0 {
		return nil, fmt.Errorf("%w: all %d individuals were discarded", ErrConfiguration, len(initial))
	}
	ev.logger.Debug("population configured", slog.Int("given", len(initial)), slog.Int("kept", len(inds)))
	return &Population{ev: ev, factory: factory, gen: ev.generation(inds)}, nil
}

// Expand draws new individuals from the factory until the population holds toSize individuals.
func (p *Population) Expand(toSize int) error {
	missing := toSize - len(p.gen.Individuals)
	if missing <= 0 {
		return nil
	}
	if p.factory == nil {
		return ErrNoFactory
	}
	inds, err := p.ev.draw(missing, p.factory)
	if err != nil {
		return fmt.Errorf("could not expand population: %w", err)
	}
	p.gen = p.ev.generation(append(p.gen.Individuals, inds...))
	return nil
}

// ExpandBy draws n new individuals from the factory.
func (p *Population) ExpandBy(n int) error {
	return p.Expand(len(p.gen.Individuals) + n)
}

// SetExpansion lets the population grow, generation after generation, up to size individuals.
// A generation never grows by more than half of its size. A size of 0 disables expansion.
func (p *Population) SetExpansion(size int) {
	p.expansion = size
}

// Evolve computes the next generation and returns its best individual.
func (p *Population) Evolve() (Individual, error) {
	gen, err := p.ev.Evolve(p.gen, p.expansion)
	if err != nil {
		return p.Best(), err
	}
	p.gen = gen
	p.generation++
	return p.Best(), nil
}

// EvolveTimes evolves the population times times and returns its best individual,
// along with the best fitness of every generation.
// If observe is not nil, it is called after each generation.
func (p *Population) EvolveTimes(times int, observe func(p *Population, generation int)) (Individual, []float64, error) {
	trace := make([]float64, 0, max(times, 0))
	for i := 0; i < times; i++ {
		best, err := p.Evolve()
		if err != nil {
			return best, trace, err
		}
		trace = append(trace, best.Fitness)
		if observe != nil {
			observe(p, p.generation)
		}
	}
	return p.Best(), trace, nil
}

// Individuals returns a copy of the current generation.
func (p *Population) Individuals() []Individual {
	res := make([]Individual, len(p.gen.Individuals))
	for i, ind := range p.gen.Individuals {
		res[i] = ind.Clone()
	}
	return res
}

// Best returns a copy of the best individual of the current generation.
func (p *Population) Best() Individual {
	return p.gen.Best.Clone()
}

// MaxFitness returns the highest fitness of the current generation.
func (p *Population) MaxFitness() float64 {
	return p.gen.MaxFitness
}

// Generation returns the number of generations computed so far.
func (p *Population) Generation() int {
	return p.generation
}

// Size returns the number of individuals in the current generation.
func (p *Population) Size() int {
	return len(p.gen.Individuals)
}

// Evolver returns the evolver p relies on.
func (p *Population) Evolver() *Evolver {
	return p.ev
}

// Clone returns an independent copy of p, sharing its evolver and factory.
func (p *Population) Clone() *Population {
	cpy := *p
	cpy.gen = p.ev.generation(p.Individuals())
	return &cpy
}
