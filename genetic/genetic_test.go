package genetic

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/gophergen/bitvec"
)

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// oneMax rates a chromosome by its number of bits set.
func oneMax(ind *Individual) bool {
	ind.Fitness = float64(ind.Chromosome.OnesCount())
	return true
}

// cappedOneMax rejects chromosomes with more than limit bits set.
func cappedOneMax(limit int) Evaluator {
	return func(ind *Individual) bool {
		ones := ind.Chromosome.OnesCount()
		if ones > limit {
			ind.Fitness = -1
			return false
		}
		ind.Fitness = float64(ones)
		return true
	}
}

func randomFactory(n int) Factory {
	return func(rng *rand.Rand) (Individual, bool) {
		return Individual{Chromosome: bitvec.Random(n, rng)}, true
	}
}

func newEvolver(t *testing.T, cfg Config, eval Evaluator, seed uint64, opts ...Option) *Evolver {
	t.Helper()
	ev, err := NewEvolver(cfg, eval, append([]Option{WithRand(testRand(seed))}, opts...)...)
	require.NoError(t, err)
	return ev
}

func withFitness(values ...float64) []Individual {
	res := make([]Individual, len(values))
	for i, v := range values {
		res[i] = Individual{Fitness: v, Chromosome: bitvec.New(4)}
	}
	return res
}

func fitnessOf(inds []Individual) []float64 {
	res := make([]float64, len(inds))
	for i, ind := range inds {
		res[i] = ind.Fitness
	}
	return res
}

func TestEvolveKeepsSize(t *testing.T) {
	selections := []Selection{{Kind: Scaling}, TournamentOf(1), TournamentOf(3), {Kind: Wheel}}
	crossovers := []Crossover{{Kind: OnePoint}, {Kind: TwoPoint}, UniformOf(2)}
	evals := map[string]Evaluator{"oneMax": oneMax, "capped": cappedOneMax(12)}
	seed := uint64(1)
	for _, size := range []int{2, 3, 10, 21} {
		for _, elitism := range []int{0, 1, 3, size, size + 5} {
			for _, sel := range selections {
				for _, cross := range crossovers {
					for name, eval := range evals {
						for _, opt := range []Optimization{Minimize, Maximize} {
							cfg := DefaultConfig()
							cfg.Elitism = elitism
							cfg.Selection = sel
							cfg.Crossover = cross
							cfg.Optimization = opt
							cfg.MutationProbability = 0.3
							seed++
							ev := newEvolver(t, cfg, eval, seed)
							pop, err := NewPopulation(size, ev, randomFactory(24))
							require.NoError(t, err)
							for g := 0; g < 5; g++ {
								_, err := pop.Evolve()
								require.NoError(t, err)
								require.Equal(t, size, pop.Size(), "size=%d elitism=%d %v %v %s %v", size, elitism, sel, cross, name, opt)
							}
							for _, ind := range pop.Individuals() {
								assert.True(t, ind.Valid())
							}
						}
					}
				}
			}
		}
	}
}

func TestEliteCount(t *testing.T) {
	tests := []struct {
		elitism, size, expected int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{9, 10, 9},
		{10, 10, 5},
		{25, 10, 5},
		{3, 2, 1},
		{2, 3, 2},
	}
	for _, test := range tests {
		cfg := DefaultConfig()
		cfg.Elitism = test.elitism
		ev := newEvolver(t, cfg, oneMax, 1)
		assert.Equal(t, test.expected, ev.eliteCount(test.size), "elitism %d, size %d", test.elitism, test.size)
	}
}

func TestElitesPreserveFitness(t *testing.T) {
	values := []float64{3, 7, 1, 7, 0, 5, 2}
	for _, opt := range []Optimization{Minimize, Maximize} {
		cfg := DefaultConfig()
		cfg.Optimization = opt
		ev := newEvolver(t, cfg, oneMax, 2)
		for e := 1; e < len(values); e++ {
			pop := withFitness(values...)
			elite := ev.elites(pop, e)
			assert.Equal(t, values, fitnessOf(pop), "population must be restored")
			require.Len(t, elite, e)
			for i := 1; i < e; i++ {
				assert.False(t, opt.better(elite[i].Fitness, elite[i-1].Fitness), "elites must be ordered")
			}
			for _, ind := range elite {
				assert.Contains(t, values, ind.Fitness)
			}
		}
	}
	cfg := DefaultConfig()
	cfg.Optimization = Maximize
	ev := newEvolver(t, cfg, oneMax, 3)
	assert.Equal(t, []float64{7, 7, 5}, fitnessOf(ev.elites(withFitness(values...), 3)))
	cfg.Optimization = Minimize
	ev = newEvolver(t, cfg, oneMax, 3)
	assert.Equal(t, []float64{0, 1, 2}, fitnessOf(ev.elites(withFitness(values...), 3)))
	assert.Empty(t, ev.elites(withFitness(values...), 0))
}

func TestElitismNeverLosesBest(t *testing.T) {
	for _, sel := range []Selection{{Kind: Scaling}, TournamentOf(2), {Kind: Wheel}} {
		cfg := DefaultConfig()
		cfg.Selection = sel
		cfg.MutationProbability = 0.5
		ev := newEvolver(t, cfg, oneMax, 4)
		pop, err := NewPopulation(16, ev, randomFactory(40))
		require.NoError(t, err)
		prev := pop.Best().Fitness
		for g := 0; g < 30; g++ {
			best, err := pop.Evolve()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, best.Fitness, prev, "%v, generation %d", sel, g)
			prev = best.Fitness
		}
	}
}

func TestTournamentOfOneIsUniform(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Selection = TournamentOf(1)
	ev := newEvolver(t, cfg, oneMax, 5)
	pop := withFitness(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	counts := make(map[float64]int)
	const rounds = 20000
	for i := 0; i < rounds; i++ {
		for _, ind := range ev.tournament(pop, 1) {
			counts[ind.Fitness]++
		}
	}
	total := rounds * len(pop) * 3 / 5
	expected := float64(total) / float64(len(pop))
	for _, ind := range pop {
		assert.InDelta(t, expected, float64(counts[ind.Fitness]), expected*0.05, "fitness %v", ind.Fitness)
	}
}

func TestTournamentFavoursBest(t *testing.T) {
	pop := withFitness(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	mean := func(opt Optimization, size int) float64 {
		cfg := DefaultConfig()
		cfg.Optimization = opt
		ev := newEvolver(t, cfg, oneMax, 6)
		sum, nb := 0.0, 0
		for i := 0; i < 2000; i++ {
			for _, ind := range ev.tournament(pop, size) {
				sum += ind.Fitness
				nb++
			}
		}
		return sum / float64(nb)
	}
	assert.Greater(t, mean(Maximize, 3), 6.0)
	assert.Less(t, mean(Minimize, 3), 3.0)
	assert.Len(t, newEvolver(t, DefaultConfig(), oneMax, 6).tournament(pop, 3), 6)
}

func TestScalingSelection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Optimization = Maximize
	ev := newEvolver(t, cfg, oneMax, 7)
	pop := withFitness(4, 4, 4, 4, 4)
	assert.Len(t, ev.scaling(pop, 4, 4), 5, "individuals as good as the best are always accepted")

	cfg.Optimization = Minimize
	ev = newEvolver(t, cfg, oneMax, 7)
	pop = withFitness(2, 2, 2)
	assert.Len(t, ev.scaling(pop, 2, 2), 3)

	// Maximizing with a best fitness of 0 accepts nobody: the first two individuals are returned.
	cfg.Optimization = Maximize
	ev = newEvolver(t, cfg, oneMax, 7)
	pop = withFitness(0, 0, 0, 0)
	assert.Equal(t, pop[:2], ev.scaling(pop, 0, 0))
}

func TestWheelSelection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Optimization = Maximize
	cfg.Selection = Selection{Kind: Wheel}
	ev := newEvolver(t, cfg, oneMax, 8)
	pop := withFitness(0, 0, 0, 0, 0, 0, 0, 0, 0, 10)
	res := ev.wheel(pop, 10)
	require.Len(t, res, 6)
	for _, ind := range res {
		assert.Equal(t, 10.0, ind.Fitness, "only the range of the single non-null individual can be hit")
	}

	cfg.Optimization = Minimize
	ev = newEvolver(t, cfg, oneMax, 8)
	for _, ind := range ev.wheel(withFitness(10, 10, 10, 10, 0), 10) {
		assert.Equal(t, 0.0, ind.Fitness)
	}
}

// When all weights are null, the cumulative ranges are not numbers and no draw can match any of them.
// The selection then falls back to the first two individuals. This quirk is kept on purpose.
func TestWheelFallsBackToFirstTwo(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Optimization = Maximize
	ev := newEvolver(t, cfg, oneMax, 9)
	pop := withFitness(0, 0, 0, 0, 0)
	res := ev.wheel(pop, 0)
	require.Len(t, res, 2)
	assert.Same(t, &pop[0], &res[0])

	cfg.Optimization = Minimize
	ev = newEvolver(t, cfg, oneMax, 9)
	res = ev.wheel(withFitness(3, 3, 3), 3)
	assert.Len(t, res, 2)
}

func TestCrossoverPoints(t *testing.T) {
	rng := testRand(10)
	assert.Equal(t, 1, Crossover{Kind: OnePoint}.points(10, rng))
	assert.Equal(t, 2, Crossover{Kind: TwoPoint}.points(10, rng))
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		p := UniformOf(2).points(10, rng)
		assert.GreaterOrEqual(t, p, 5)
		assert.LessOrEqual(t, p, 10)
		seen[p] = true
	}
	assert.Len(t, seen, 6)
	assert.Equal(t, 1, UniformOf(4).points(2, rng))
}

func TestCrossOnePoint(t *testing.T) {
	dad := Individual{Chromosome: bitvec.New(8)}
	for i := 0; i < 8; i++ {
		dad.Chromosome.Set(i, true)
	}
	mum := Individual{Chromosome: bitvec.New(8)}
	c1, c2 := Cross(dad, mum, Crossover{Kind: OnePoint}, testRand(11))
	assert.Equal(t, 8, c1.Chromosome.OnesCount()+c2.Chromosome.OnesCount())
	cut := c1.Chromosome.OnesCount()
	for i := 0; i < 8; i++ {
		assert.Equal(t, i < cut, c1.Chromosome.Get(i))
		assert.Equal(t, i >= cut, c2.Chromosome.Get(i))
	}
}

func TestMutate(t *testing.T) {
	rng := testRand(12)
	for _, m := range AllMutations() {
		ind := Individual{Chromosome: bitvec.New(10)}
		ind.Chromosome.Set(0, true)
		ind.Chromosome.Set(1, true)
		ind.Mutate(m, rng)
		switch m {
		case Replacement:
			assert.NotEqual(t, 2, ind.Chromosome.OnesCount())
		case Removal:
			assert.LessOrEqual(t, ind.Chromosome.OnesCount(), 2)
		case EndForEndSwap:
			assert.Equal(t, "0000000011", ind.Chromosome.String())
		default:
			assert.Equal(t, 2, ind.Chromosome.OnesCount(), m.String())
		}
	}
}

func TestParseMethods(t *testing.T) {
	selections := []struct {
		str      string
		expected Selection
	}{
		{"scaling", Selection{Kind: Scaling}},
		{"tournament5", TournamentOf(5)},
		{"wheelSelection", Selection{Kind: Wheel}},
		{"wheel", Selection{Kind: Wheel}},
	}
	for _, test := range selections {
		sel, err := ParseSelection(test.str)
		require.NoError(t, err, test.str)
		assert.Equal(t, test.expected, sel)
	}
	for _, bad := range []string{"", "tournament", "tournament0", "roulette"} {
		_, err := ParseSelection(bad)
		assert.Error(t, err, bad)
	}
	crossovers := []struct {
		str      string
		expected Crossover
	}{
		{"onePoint", Crossover{Kind: OnePoint}},
		{"twoPoint", Crossover{Kind: TwoPoint}},
		{"uniform3", UniformOf(3)},
	}
	for _, test := range crossovers {
		c, err := ParseCrossover(test.str)
		require.NoError(t, err, test.str)
		assert.Equal(t, test.expected, c)
		assert.Equal(t, test.str, c.String())
	}
	for _, bad := range []string{"uniform", "uniform0", "threePoint"} {
		_, err := ParseCrossover(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, "tournament5", TournamentOf(5).String())
	assert.Equal(t, "inversion", Inversion.String())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	tests := map[string]func(*Config){
		"mutation":   func(c *Config) { c.MutationProbability = 1.5 },
		"crossover":  func(c *Config) { c.CrossoverProbability = -0.1 },
		"elitism":    func(c *Config) { c.Elitism = -1 },
		"mutations":  func(c *Config) { c.Mutations = nil },
		"method":     func(c *Config) { c.Mutations = []Mutation{Mutation(12)} },
		"tournament": func(c *Config) { c.Selection = TournamentOf(0) },
		"uniform":    func(c *Config) { c.Crossover = UniformOf(0) },
		"direction":  func(c *Config) { c.Optimization = Optimization(4) },
	}
	for name, change := range tests {
		cfg := DefaultConfig()
		change(&cfg)
		assert.Error(t, cfg.Validate(), name)
		_, err := NewEvolver(cfg, oneMax)
		assert.Error(t, err, name)
	}
	_, err := NewEvolver(DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestNewPopulationErrors(t *testing.T) {
	ev := newEvolver(t, DefaultConfig(), oneMax, 13)
	_, err := NewPopulation(1, ev, randomFactory(4))
	assert.ErrorIs(t, err, ErrPopulationTooSmall)
	_, err = NewPopulation(5, ev, nil)
	assert.ErrorIs(t, err, ErrNoFactory)

	never := func(*rand.Rand) (Individual, bool) { return Individual{}, false }
	ev = newEvolver(t, DefaultConfig(), oneMax, 13, WithAttemptsPerIndividual(3))
	_, err = NewPopulation(4, ev, never)
	assert.ErrorIs(t, err, ErrInitStalled)
	assert.Zero(t, ev.Evaluations())

	ev = newEvolver(t, DefaultConfig(), cappedOneMax(0), 13, WithAttemptsPerIndividual(2))
	_, err = NewPopulation(10, ev, func(rng *rand.Rand) (Individual, bool) {
		ind := Individual{Chromosome: bitvec.New(3)}
		ind.Chromosome.Set(0, true)
		return ind, true
	})
	assert.ErrorIs(t, err, ErrInitStalled)
	assert.Equal(t, 20, ev.Evaluations())
}

func TestFromIndividuals(t *testing.T) {
	ev := newEvolver(t, DefaultConfig(), cappedOneMax(1), 14)
	_, err := FromIndividuals(nil, ev, nil)
	assert.ErrorIs(t, err, ErrEmptyInitialPopulation)

	full := Individual{Fitness: 3, Chromosome: bitvec.New(3)}
	for i := 0; i < 3; i++ {
		full.Chromosome.Set(i, true)
	}
	_, err = FromIndividuals([]Individual{full, full}, ev, nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	single := Individual{Fitness: 42, Chromosome: bitvec.New(3)}
	single.Chromosome.Set(1, true)
	pop, err := FromIndividuals([]Individual{full, single, {Chromosome: bitvec.New(3)}}, ev, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, pop.Size())
	assert.Equal(t, 1.0, pop.Best().Fitness, "fitness must be recomputed")
	assert.Equal(t, 42.0, single.Fitness, "caller's individuals must be left untouched")
	assert.ErrorIs(t, pop.ExpandBy(2), ErrNoFactory)

	pop, err = FromIndividuals([]Individual{single}, ev, nil)
	require.NoError(t, err)
	_, err = pop.Evolve()
	assert.ErrorIs(t, err, ErrPopulationTooSmall)
	assert.Equal(t, 0, pop.Generation())
}

func TestExpansion(t *testing.T) {
	ev := newEvolver(t, DefaultConfig(), oneMax, 15)
	pop, err := NewPopulation(10, ev, randomFactory(12))
	require.NoError(t, err)
	pop.SetExpansion(5)
	_, err = pop.Evolve()
	require.NoError(t, err)
	assert.Equal(t, 10, pop.Size(), "expansion never shrinks a population")

	pop.SetExpansion(40)
	expected := []int{15, 22, 33, 40, 40}
	for _, size := range expected {
		_, err = pop.Evolve()
		require.NoError(t, err)
		assert.Equal(t, size, pop.Size())
	}

	require.NoError(t, pop.Expand(45))
	assert.Equal(t, 45, pop.Size())
	require.NoError(t, pop.ExpandBy(5))
	assert.Equal(t, 50, pop.Size())
	require.NoError(t, pop.Expand(3))
	assert.Equal(t, 50, pop.Size())
}

func TestEvolveTimes(t *testing.T) {
	ev := newEvolver(t, DefaultConfig(), oneMax, 16)
	pop, err := NewPopulation(12, ev, randomFactory(30))
	require.NoError(t, err)
	assert.Equal(t, 12, ev.Evaluations())
	var observed []int
	best, trace, err := pop.EvolveTimes(8, func(p *Population, generation int) {
		assert.Same(t, pop, p)
		observed = append(observed, generation)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, observed)
	require.Len(t, trace, 8)
	assert.Equal(t, trace[7], best.Fitness)
	assert.Equal(t, pop.Best().Fitness, best.Fitness)
	assert.Equal(t, 8, pop.Generation())
	assert.Greater(t, ev.Evaluations(), 12)
	for _, ind := range pop.Individuals() {
		assert.LessOrEqual(t, ind.Fitness, pop.MaxFitness())
	}
}

func TestOneMaxConverges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Elitism = 2
	ev := newEvolver(t, cfg, oneMax, 17)
	pop, err := NewPopulation(30, ev, randomFactory(20))
	require.NoError(t, err)
	best, _, err := pop.EvolveTimes(150, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, best.Fitness, 18.0)
}

func TestMinimize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Optimization = Minimize
	ev := newEvolver(t, cfg, oneMax, 18)
	pop, err := NewPopulation(30, ev, randomFactory(20))
	require.NoError(t, err)
	best, _, err := pop.EvolveTimes(150, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, best.Fitness, 2.0)
	assert.GreaterOrEqual(t, pop.MaxFitness(), best.Fitness)
}

func TestCollected(t *testing.T) {
	ev := newEvolver(t, DefaultConfig(), oneMax, 19, WithCollectTarget(4))
	pop, err := NewPopulation(20, ev, randomFactory(4))
	require.NoError(t, err)
	for g := 0; g < 10; g++ {
		_, err := pop.Evolve()
		require.NoError(t, err)
		for _, ind := range ev.Collected() {
			assert.Equal(t, 4.0, ind.Fitness)
			assert.Equal(t, 4, ind.Chromosome.OnesCount())
		}
	}
}

func TestPopulationClone(t *testing.T) {
	ev := newEvolver(t, DefaultConfig(), oneMax, 20)
	pop, err := NewPopulation(10, ev, randomFactory(16))
	require.NoError(t, err)
	before := fitnessOf(pop.Individuals())
	cpy := pop.Clone()
	_, _, err = cpy.EvolveTimes(5, nil)
	require.NoError(t, err)
	assert.Equal(t, before, fitnessOf(pop.Individuals()))
	assert.Equal(t, 0, pop.Generation())
	assert.Equal(t, 5, cpy.Generation())
}

func TestHunt(t *testing.T) {
	ev := newEvolver(t, DefaultConfig(), oneMax, 21)
	pop, err := NewPopulation(30, ev, randomFactory(6))
	require.NoError(t, err)

	h := Hunt{Minimum: 1, Target: 6, Schedule: []int{20, 5}, Attempts: 3}
	checkpoints, attempts, err := h.Run(pop)
	require.NoError(t, err)
	assert.LessOrEqual(t, attempts, 3)
	require.Len(t, checkpoints, 2)
	assert.Equal(t, 5, checkpoints[0].Generation)
	assert.Equal(t, 20, checkpoints[1].Generation)
	assert.GreaterOrEqual(t, checkpoints[1].Hits, 1)
	assert.Equal(t, 6.0, checkpoints[1].Best.Fitness)
	assert.Len(t, checkpoints[1].Individuals, 30)
	assert.Equal(t, 6.0, checkpoints[1].Stats.Max)
	assert.Equal(t, 0, pop.Generation(), "seed population must be left untouched")

	h = Hunt{Minimum: 1, Target: 100, Schedule: []int{2, 4}, Attempts: 2}
	checkpoints, attempts, err = h.Run(pop)
	assert.ErrorIs(t, err, ErrMinimumNotMet)
	var notMet *MinimumNotMetError
	require.True(t, errors.As(err, &notMet))
	assert.Equal(t, 2, notMet.Attempts)
	assert.Equal(t, 2, attempts)
	assert.Zero(t, notMet.Hits)
	assert.Len(t, notMet.Checkpoints, 2)
	assert.Len(t, checkpoints, 2, "partial results are returned along with the error")

	_, _, err = Hunt{Minimum: 1}.Run(pop)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s := Summarize(withFitness(1, 2, 3, 4))
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 2.5, s.Mean, 1e-9)
	assert.InDelta(t, 1.2910, s.StdDev, 1e-4)
	assert.Equal(t, Stats{Min: 3, Max: 3, Mean: 3}, Summarize(withFitness(3)))
	assert.Equal(t, Stats{}, Summarize(nil))
}

func TestPairStream(t *testing.T) {
	s := pairStream{rng: testRand(22), n: 6}
	seen := make(map[int]int)
	for i := 0; i < 6000; i++ {
		v := s.next()
		require.True(t, v >= 0 && v < 6)
		seen[v]++
	}
	assert.Len(t, seen, 6)
}

func ExamplePopulation() {
	cfg := DefaultConfig()
	ev, err := NewEvolver(cfg, func(ind *Individual) bool {
		ind.Fitness = float64(ind.Chromosome.OnesCount())
		return true
	}, WithRand(NewRand(42)))
	if err != nil {
		fmt.Println(err)
		return
	}
	pop, err := NewPopulation(20, ev, func(rng *rand.Rand) (Individual, bool) {
		return Individual{Chromosome: bitvec.Random(16, rng)}, true
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	if _, _, err := pop.EvolveTimes(10, nil); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%d individuals after %d generations\n", pop.Size(), pop.Generation())
	// Output:
	// 20 individuals after 10 generations
}
