package genetic

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the parameters of an evolution.
type Config struct {
	MutationProbability  float64      `validate:"gte=0,lte=1"`
	CrossoverProbability float64      `validate:"gte=0,lte=1"`
	Elitism              int          `validate:"gte=0"`
	Optimization         Optimization `validate:"oneof=0 1"`
	Selection            Selection
	Crossover            Crossover
	Mutations            []Mutation `validate:"min=1,dive,gte=0,lte=5"`
}

// DefaultConfig returns a maximizing configuration using tournaments of 3 individuals,
// uniform crossover and every mutation method.
func DefaultConfig() Config {
	return Config{
		MutationProbability:  0.05,
		CrossoverProbability: 0.7,
		Elitism:              1,
		Optimization:         Maximize,
		Selection:            TournamentOf(3),
		Crossover:            UniformOf(2),
		Mutations:            AllMutations(),
	}
}

// Validate returns an error if some parameter of cfg is out of range.
func (cfg Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid genetic configuration: %w", err)
	}
	if cfg.Selection.Kind == Tournament && cfg.Selection.Size < 1 {
		return fmt.Errorf("invalid genetic configuration: tournament size %d", cfg.Selection.Size)
	}
	if cfg.Crossover.Kind == Uniform && cfg.Crossover.Division < 1 {
		return fmt.Errorf("invalid genetic configuration: uniform division %d", cfg.Crossover.Division)
	}
	return nil
}
