// Package config loads the parameters of a gophergen run from the environment.
//
// Every variable is prefixed with GOPHERGEN_, e.g. GOPHERGEN_POPULATION or GOPHERGEN_SAT_ROUNDS.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/crillab/gophergen/genetic"
	"github.com/crillab/gophergen/sat"
)

// Prefix is the prefix of every environment variable read by Load.
const Prefix = "GOPHERGEN_"

// Config holds the parameters of a run.
type Config struct {
	Population      int     `env:"POPULATION" envDefault:"100" validate:"gte=2"`
	Generations     int     `env:"GENERATIONS" envDefault:"200" validate:"gte=0"`
	Mutation        float64 `env:"MUTATION" envDefault:"0.05" validate:"gte=0,lte=1"`
	Crossover       float64 `env:"CROSSOVER" envDefault:"0.7" validate:"gte=0,lte=1"`
	Elitism         int     `env:"ELITISM" envDefault:"1" validate:"gte=0"`
	Selection       string  `env:"SELECTION" envDefault:"tournament3" validate:"required"`
	CrossoverMethod string  `env:"CROSSOVER_METHOD" envDefault:"uniform2" validate:"required"`
	Seed            uint64  `env:"SEED"` // 0 draws a random seed.
	Verbose         bool    `env:"VERBOSE"`
	SAT             struct {
		Size              int     `env:"SIZE" envDefault:"2000" validate:"gte=2"`
		SizeStep          int     `env:"SIZE_STEP" envDefault:"1000" validate:"gte=0"`
		Rounds            int     `env:"ROUNDS" envDefault:"3" validate:"gte=1"`
		Generations       int     `env:"GENERATIONS" envDefault:"150" validate:"gte=0"`
		WeightGenerations int     `env:"WEIGHT_GENERATIONS" envDefault:"1000" validate:"gte=0"`
		Mutation          float64 `env:"MUTATION" envDefault:"0.1" validate:"gte=0,lte=1"`
		Crossover         float64 `env:"CROSSOVER" envDefault:"0.9" validate:"gte=0,lte=1"`
		CrossoverMethod   string  `env:"CROSSOVER_METHOD" envDefault:"uniform3" validate:"required"`
		MaxWeight         int     `env:"MAX_WEIGHT" envDefault:"0" validate:"gte=0"` // When positive, weights are drawn in [1, MaxWeight].
	} `envPrefix:"SAT_"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: Prefix}); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			return nil, fmt.Errorf("could not load configuration: %w", aggErr.Errors[0])
		}
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if some parameter of cfg is out of range.
func (cfg *Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := cfg.Genetic(); err != nil {
		return err
	}
	if _, err := cfg.SATOptions(); err != nil {
		return err
	}
	return nil
}

// Genetic returns the engine configuration of cfg. The problem being solved may
// override the optimization direction.
func (cfg *Config) Genetic() (genetic.Config, error) {
	sel, err := genetic.ParseSelection(cfg.Selection)
	if err != nil {
		return genetic.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	cross, err := genetic.ParseCrossover(cfg.CrossoverMethod)
	if err != nil {
		return genetic.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	res := genetic.Config{
		MutationProbability:  cfg.Mutation,
		CrossoverProbability: cfg.Crossover,
		Elitism:              cfg.Elitism,
		Optimization:         genetic.Maximize,
		Selection:            sel,
		Crossover:            cross,
		Mutations:            genetic.AllMutations(),
	}
	if err := res.Validate(); err != nil {
		return genetic.Config{}, err
	}
	return res, nil
}

// SATOptions returns the parameters of the two-phase 3-SAT solver.
// Selection methods are fixed by the solver itself.
func (cfg *Config) SATOptions() (sat.Options, error) {
	cross, err := genetic.ParseCrossover(cfg.SAT.CrossoverMethod)
	if err != nil {
		return sat.Options{}, fmt.Errorf("invalid SAT configuration: %w", err)
	}
	opts := sat.DefaultOptions()
	opts.Size = cfg.SAT.Size
	opts.SizeStep = cfg.SAT.SizeStep
	opts.Rounds = cfg.SAT.Rounds
	opts.Generations = cfg.SAT.Generations
	opts.WeightGenerations = cfg.SAT.WeightGenerations
	opts.Mutation = cfg.SAT.Mutation
	opts.Crossover = cfg.SAT.Crossover
	opts.Elitism = cfg.Elitism
	opts.CrossoverMethod = cross
	return opts, nil
}
