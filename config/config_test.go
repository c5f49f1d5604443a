package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/gophergen/genetic"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Population)
	assert.Equal(t, 200, cfg.Generations)
	assert.Equal(t, 0.05, cfg.Mutation)
	assert.Equal(t, 0.7, cfg.Crossover)
	assert.Equal(t, 1, cfg.Elitism)
	assert.Equal(t, "tournament3", cfg.Selection)
	assert.Equal(t, "uniform2", cfg.CrossoverMethod)
	assert.Zero(t, cfg.Seed)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, 2000, cfg.SAT.Size)
	assert.Equal(t, 3, cfg.SAT.Rounds)

	gcfg, err := cfg.Genetic()
	require.NoError(t, err)
	assert.Equal(t, genetic.DefaultConfig(), gcfg)

	opts, err := cfg.SATOptions()
	require.NoError(t, err)
	assert.Equal(t, 0.1, opts.Mutation)
	assert.Equal(t, 0.9, opts.Crossover)
	assert.Equal(t, genetic.UniformOf(3), opts.CrossoverMethod)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOPHERGEN_POPULATION", "40")
	t.Setenv("GOPHERGEN_MUTATION", "0.2")
	t.Setenv("GOPHERGEN_SELECTION", "wheel")
	t.Setenv("GOPHERGEN_CROSSOVER_METHOD", "twoPoint")
	t.Setenv("GOPHERGEN_SEED", "17")
	t.Setenv("GOPHERGEN_VERBOSE", "true")
	t.Setenv("GOPHERGEN_SAT_ROUNDS", "5")
	t.Setenv("GOPHERGEN_SAT_MAX_WEIGHT", "20")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Population)
	assert.Equal(t, uint64(17), cfg.Seed)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 20, cfg.SAT.MaxWeight)

	gcfg, err := cfg.Genetic()
	require.NoError(t, err)
	assert.Equal(t, 0.2, gcfg.MutationProbability)
	assert.Equal(t, genetic.Selection{Kind: genetic.Wheel}, gcfg.Selection)
	assert.Equal(t, genetic.Crossover{Kind: genetic.TwoPoint}, gcfg.Crossover)

	opts, err := cfg.SATOptions()
	require.NoError(t, err)
	assert.Equal(t, 5, opts.Rounds)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"not an int", "GOPHERGEN_POPULATION", "many"},
		{"too small", "GOPHERGEN_POPULATION", "1"},
		{"probability", "GOPHERGEN_CROSSOVER", "1.5"},
		{"negative elitism", "GOPHERGEN_ELITISM", "-1"},
		{"selection", "GOPHERGEN_SELECTION", "roulette"},
		{"tournament", "GOPHERGEN_SELECTION", "tournament0"},
		{"crossover", "GOPHERGEN_CROSSOVER_METHOD", "uniform"},
		{"sat crossover", "GOPHERGEN_SAT_CROSSOVER_METHOD", "threePoint"},
		{"sat rounds", "GOPHERGEN_SAT_ROUNDS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
