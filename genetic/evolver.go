package genetic

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
)

// DefaultAttemptsPerIndividual is the default number of factory draws allowed, per requested individual,
// when filling a population.
const DefaultAttemptsPerIndividual = 1000

// A Generation is a set of individuals along with its cached statistics.
type Generation struct {
	Individuals []Individual
	Best        Individual // Best individual according to the optimization direction.
	MaxFitness  float64    // Highest fitness, whatever the optimization direction.
}

// An Evolver computes successive generations of individuals.
// It is not safe for concurrent use.
type Evolver struct {
	cfg         Config
	evaluate    Evaluator
	rng         *rand.Rand
	logger      *slog.Logger
	attempts    int
	target      *float64
	collected   []Individual
	evaluations int
}

// An Option customizes an Evolver.
type Option func(*Evolver)

// WithRand makes the evolver draw its random numbers from rng.
func WithRand(rng *rand.Rand) Option {
	return func(ev *Evolver) { ev.rng = rng }
}

// WithLogger makes the evolver log its progress to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(ev *Evolver) { ev.logger = logger }
}

// WithCollectTarget makes the evolver record every valid individual it evaluates with the given fitness.
func WithCollectTarget(fitness float64) Option {
	return func(ev *Evolver) { ev.target = &fitness }
}

// WithAttemptsPerIndividual sets the number of factory draws allowed per requested individual.
func WithAttemptsPerIndividual(n int) Option {
	return func(ev *Evolver) { ev.attempts = n }
}

// NewEvolver returns an evolver for the given configuration and evaluation function.
func NewEvolver(cfg Config, evaluate Evaluator, opts ...Option) (*Evolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if evaluate == nil {
		return nil, fmt.Errorf("nil evaluation function")
	}
	cfg.Mutations = slices.Clone(cfg.Mutations)
	ev := &Evolver{
		cfg:      cfg,
		evaluate: evaluate,
		attempts: DefaultAttemptsPerIndividual,
	}
	for _, opt := range opts {
		opt(ev)
	}
	if ev.rng == nil {
		ev.rng = NewRand(0)
	}
	if ev.logger == nil {
		ev.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if ev.attempts < 1 {
		ev.attempts = 1
	}
	return ev, nil
}

// Config returns the configuration of ev.
func (ev *Evolver) Config() Config {
	cfg := ev.cfg
	cfg.Mutations = slices.Clone(cfg.Mutations)
	return cfg
}

// Logger returns the logger of ev.
func (ev *Evolver) Logger() *slog.Logger {
	return ev.logger
}

// Evaluations returns the number of calls to the evaluation function so far.
func (ev *Evolver) Evaluations() int {
	return ev.evaluations
}

// Collected returns the individuals reaching the collect target during the last call to Evolve.
func (ev *Evolver) Collected() []Individual {
	return slices.Clone(ev.collected)
}

func (ev *Evolver) eval(ind *Individual) bool {
	ev.evaluations++
	if !ev.evaluate(ind) || !ind.Valid() {
		return false
	}
	if ev.target != nil && ind.Fitness == *ev.target {
		ev.collected = append(ev.collected, ind.Clone())
	}
	return true
}

// draw asks the factory for size valid individuals.
func (ev *Evolver) draw(size int, factory Factory) ([]Individual, error) {
	res := make([]Individual, 0, size)
	budget := size * ev.attempts
	for tries := 0; len(res) < size; tries++ {
		if tries >= budget {
			return res, fmt.Errorf("%w: %d valid individuals out of %d after %d draws", ErrInitStalled, len(res), size, tries)
		}
		ind, ok := factory(ev.rng)
		if ok && ev.eval(&ind) {
			res = append(res, ind)
		}
	}
	return res, nil
}

// reevaluate returns the valid individuals of inds, with their fitness recomputed.
func (ev *Evolver) reevaluate(inds []Individual) []Individual {
	res := make([]Individual, 0, len(inds))
	for _, ind := range inds {
		cpy := ind.Clone()
		if ev.eval(&cpy) {
			res = append(res, cpy)
		}
	}
	return res
}

// generation scans inds and returns them with their statistics.
func (ev *Evolver) generation(inds []Individual) Generation {
	g := Generation{Individuals: inds}
	if len(inds) == 0 {
		return g
	}
	best := 0
	g.MaxFitness = inds[0].Fitness
	for i := 1; i < len(inds); i++ {
		f := inds[i].Fitness
		if f > g.MaxFitness {
			g.MaxFitness = f
		}
		if ev.cfg.Optimization.better(f, inds[best].Fitness) {
			best = i
		}
	}
	g.Best = inds[best]
	return g
}

// eliteCount returns the number of elites kept in a generation of n individuals.
func (ev *Evolver) eliteCount(n int) int {
	e := ev.cfg.Elitism
	if e%n < e {
		e = max(n/2, 1)
	}
	return e
}

// Evolve computes the generation following g.
// When expansion is positive, the new generation can grow up to min(expansion, 1.5*len(g.Individuals)) individuals;
// otherwise it has exactly as many individuals as g.
// The individuals of g must not be used by the caller afterwards.
func (ev *Evolver) Evolve(g Generation, expansion int) (Generation, error) {
	n := len(g.Individuals)
	if n < 2 {
		return g, fmt.Errorf("%w: got %d", ErrPopulationTooSmall, n)
	}
	ev.collected = nil
	e := ev.eliteCount(n)
	elite := ev.elites(g.Individuals, e)
	survivors := ev.selectSurvivors(g.Individuals, g.Best.Fitness, g.MaxFitness)
	limit := n
	if expansion > 0 {
		limit = max(n, min(n*3/2, expansion))
	}
	next := ev.recombine(survivors, limit-e)
	ev.mutate(next)
	next = append(next, elite...)
	res := ev.generation(next)
	ev.logger.Debug("generation evolved",
		slog.Int("size", len(next)),
		slog.Int("elites", e),
		slog.Int("survivors", len(survivors)),
		slog.Float64("best", res.Best.Fitness),
		slog.Int("evaluations", ev.evaluations))
	return res, nil
}

// extreme returns the index of the best individual of pop.
func (ev *Evolver) extreme(pop []Individual) int {
	best := 0
	for i := 1; i < len(pop); i++ {
		if ev.cfg.Optimization.better(pop[i].Fitness, pop[best].Fitness) {
			best = i
		}
	}
	return best
}

// elites returns copies of the e best individuals of pop.
// Already extracted individuals are masked with an infinite fitness while searching;
// pop is left unchanged once the function returns.
func (ev *Evolver) elites(pop []Individual, e int) []Individual {
	if e <= 0 {
		return nil
	}
	sentinel := math.Inf(1)
	if ev.cfg.Optimization == Maximize {
		sentinel = math.Inf(-1)
	}
	res := make([]Individual, 0, e)
	indices := make([]int, 0, e)
	values := make([]float64, 0, e)
	for len(res) < e {
		i := ev.extreme(pop)
		indices = append(indices, i)
		values = append(values, pop[i].Fitness)
		res = append(res, pop[i].Clone())
		pop[i].Fitness = sentinel
	}
	for k, i := range indices {
		pop[i].Fitness = values[k]
	}
	return res
}

// recombine builds the slots first individuals of the next generation from survivors.
// Survivors are copied first, then parent pairs are drawn by cycling over them.
func (ev *Evolver) recombine(survivors []Individual, slots int) []Individual {
	if len(survivors) > slots {
		survivors = survivors[:slots]
	}
	next := make([]Individual, 0, slots)
	for _, s := range survivors {
		next = append(next, s.Clone())
	}
	if len(survivors) == 0 {
		return next
	}
	idx := 0
	for len(next) < slots {
		dad := survivors[idx]
		idx = (idx + 1) % len(survivors)
		mum := survivors[idx]
		kid1, kid2 := dad, mum
		if ev.rng.Float64() < ev.cfg.CrossoverProbability {
			c1, c2 := Cross(dad, mum, ev.cfg.Crossover, ev.rng)
			if !c1.Chromosome.Equal(dad.Chromosome) && ev.eval(&c1) {
				kid1 = c1
			}
			if !c2.Chromosome.Equal(mum.Chromosome) && ev.eval(&c2) {
				kid2 = c2
			}
		}
		next = append(next, kid1.Clone())
		if len(next) < slots {
			next = append(next, kid2.Clone())
		}
	}
	return next
}

// mutate perturbs each individual of inds with the configured probability.
// A mutated individual replaces the original only if it is still valid.
func (ev *Evolver) mutate(inds []Individual) {
	methods := ev.cfg.Mutations
	picks := pairStream{rng: ev.rng, n: len(methods)}
	for i := range inds {
		if ev.rng.Float64() >= ev.cfg.MutationProbability {
			continue
		}
		cpy := inds[i].Clone()
		cpy.Mutate(methods[picks.next()], ev.rng)
		if ev.eval(&cpy) {
			inds[i] = cpy
		}
	}
}

// pairStream yields uniform indices in [0, n), two per random word drawn.
type pairStream struct {
	rng  *rand.Rand
	n    int
	buf  [2]int
	left int
}

func (s *pairStream) next() int {
	if s.left == 0 {
		x := s.rng.Uint64()
		n := uint64(s.n)
		s.buf[0] = int((x >> 32) * n >> 32)
		s.buf[1] = int((x & 0xffffffff) * n >> 32)
		s.left = 2
	}
	s.left--
	return s.buf[s.left]
}
