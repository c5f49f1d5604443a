package genetic

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the fitness values of a set of individuals.
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summarize computes the fitness statistics of inds.
// The standard deviation is the unbiased one, and is 0 for less than 2 individuals.
func Summarize(inds []Individual) Stats {
	if len(inds) == 0 {
		return Stats{}
	}
	fitness := make([]float64, len(inds))
	for i, ind := range inds {
		fitness[i] = ind.Fitness
	}
	s := Stats{
		Min:  floats.Min(fitness),
		Max:  floats.Max(fitness),
		Mean: stat.Mean(fitness, nil),
	}
	if len(fitness) > 1 {
		s.StdDev = stat.StdDev(fitness, nil)
	}
	return s
}
