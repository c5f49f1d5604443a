package genetic

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInitialPopulation is returned when a population is built from no individual at all.
	ErrEmptyInitialPopulation = errors.New("empty initial population")
	// ErrConfiguration is returned when none of the individuals of an initial population is valid.
	ErrConfiguration = errors.New("no valid individual in initial population")
	// ErrPopulationTooSmall is returned when evolving, or asking for, a population of less than 2 individuals.
	ErrPopulationTooSmall = errors.New("population must hold at least 2 individuals")
	// ErrInitStalled is returned when the factory could not produce enough valid individuals.
	ErrInitStalled = errors.New("population initialization stalled")
	// ErrMinimumNotMet is returned when a hunt did not find enough target individuals.
	ErrMinimumNotMet = errors.New("minimum number of solutions not met")
)

// A MinimumNotMetError is returned by Hunt.Run when it did not collect enough solutions.
// It holds the checkpoints of the last attempt.
type MinimumNotMetError struct {
	Attempts    int
	Hits        int
	Checkpoints []Checkpoint
}

func (e *MinimumNotMetError) Error() string {
	return fmt.Sprintf("%v: %d solutions found after %d attempts", ErrMinimumNotMet, e.Hits, e.Attempts)
}

func (e *MinimumNotMetError) Unwrap() error {
	return ErrMinimumNotMet
}
