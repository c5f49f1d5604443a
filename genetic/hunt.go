package genetic

import (
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// A Hunt evolves copies of a population, looking for individuals reaching a target fitness.
//
// Each attempt starts again from the initial population and evolves it through every generation
// of the schedule. The hunt stops as soon as an attempt ends with at least Minimum distinct
// individuals reaching Target in its last generation.
type Hunt struct {
	Minimum  int     // Minimum number of solutions wanted.
	Target   float64 // Fitness of a solution.
	Schedule []int   // Generations, counted from the initial population, at which the population is inspected.
	Attempts int     // Maximum number of attempts.
}

// A Checkpoint is the state of a population at a scheduled generation.
type Checkpoint struct {
	Generation  int
	Individuals []Individual
	Best        Individual
	Hits        int           // Number of distinct individuals reaching the target.
	Elapsed     time.Duration // Time since the beginning of the hunt.
	Stats       Stats
}

// Run performs the hunt starting from pop, which is left untouched.
// It returns the checkpoints of the successful attempt, and the number of attempts performed.
// If no attempt was successful, it returns the checkpoints of the last one along with
// a *MinimumNotMetError.
func (h Hunt) Run(pop *Population) ([]Checkpoint, int, error) {
	schedule := slices.Clone(h.Schedule)
	slices.Sort(schedule)
	schedule = slices.Compact(schedule)
	if len(schedule) == 0 {
		return nil, 0, fmt.Errorf("empty generation schedule")
	}
	if schedule[0] < 0 {
		return nil, 0, fmt.Errorf("negative generation %d in schedule", schedule[0])
	}
	start := time.Now()
	var res []Checkpoint
	attempts := 0
	for attempts < max(h.Attempts, 1) {
		attempts++
		res = make([]Checkpoint, 0, len(schedule))
		cur := pop.Clone()
		base := cur.Generation()
		for _, g := range schedule {
			for cur.Generation()-base < g {
				if _, err := cur.Evolve(); err != nil {
					return res, attempts, err
				}
			}
			inds := cur.Individuals()
			res = append(res, Checkpoint{
				Generation:  g,
				Individuals: inds,
				Best:        cur.Best(),
				Hits:        h.hits(inds),
				Elapsed:     time.Since(start),
				Stats:       Summarize(inds),
			})
		}
		last := res[len(res)-1]
		pop.ev.logger.Debug("hunt attempt done", slog.Int("attempt", attempts), slog.Int("hits", last.Hits))
		if last.Hits >= h.Minimum {
			return res, attempts, nil
		}
	}
	return res, attempts, &MinimumNotMetError{Attempts: attempts, Hits: res[len(res)-1].Hits, Checkpoints: res}
}

// hits counts the distinct chromosomes of inds reaching the target fitness.
func (h Hunt) hits(inds []Individual) int {
	seen := make(map[string]struct{})
	for _, ind := range inds {
		if ind.Fitness == h.Target {
			seen[ind.Chromosome.String()] = struct{}{}
		}
	}
	return len(seen)
}
