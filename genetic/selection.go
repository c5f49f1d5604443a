package genetic

// percent draws a value among 0, 0.01, ..., 1.
func (ev *Evolver) percent() float64 {
	return float64(ev.rng.IntN(101)) / 100
}

// selectSurvivors picks the individuals of pop allowed to breed.
// Tournament and wheel selections pick 3/5 of the population, with replacement.
func (ev *Evolver) selectSurvivors(pop []Individual, bestFitness, maxFitness float64) []Individual {
	switch ev.cfg.Selection.Kind {
	case Tournament:
		return ev.tournament(pop, ev.cfg.Selection.Size)
	case Wheel:
		return ev.wheel(pop, maxFitness)
	default:
		return ev.scaling(pop, bestFitness, maxFitness)
	}
}

// firstTwo is the selection result used when no individual was picked.
func firstTwo(pop []Individual) []Individual {
	return pop[:min(2, len(pop))]
}

// scaling accepts each individual independently.
// When maximizing, an individual is accepted iff U <= f/best.
// When minimizing, it is accepted iff U >= (f-best)/(max-best).
func (ev *Evolver) scaling(pop []Individual, bestFitness, maxFitness float64) []Individual {
	var res []Individual
	if ev.cfg.Optimization == Maximize {
		for _, ind := range pop {
			if ev.percent() <= ind.Fitness/bestFitness {
				res = append(res, ind)
			}
		}
	} else {
		scaledMax := maxFitness - bestFitness
		if scaledMax <= 0 {
			scaledMax = 1
		}
		for _, ind := range pop {
			if ev.percent() >= (ind.Fitness-bestFitness)/scaledMax {
				res = append(res, ind)
			}
		}
	}
	if len(res) == 0 {
		return firstTwo(pop)
	}
	return res
}

func (ev *Evolver) tournament(pop []Individual, size int) []Individual {
	count := len(pop) * 3 / 5
	res := make([]Individual, 0, count)
	for len(res) < count {
		chosen := pop[ev.rng.IntN(len(pop))]
		for i := 1; i < size; i++ {
			cur := pop[ev.rng.IntN(len(pop))]
			if ev.cfg.Optimization.better(cur.Fitness, chosen.Fitness) {
				chosen = cur
			}
		}
		res = append(res, chosen)
	}
	return res
}

// wheel splits [0, 1] in ranges proportional to each individual's fitness
// (or to its distance to the max fitness, when minimizing), then draws values among them.
// The last range is extended up to 1.01 so that a draw of 1 always belongs to a range.
// If no draw matched any range (which happens when the fitness sum is zero), the first two
// individuals are returned.
func (ev *Evolver) wheel(pop []Individual, maxFitness float64) []Individual {
	weights := make([]float64, len(pop))
	sum := 0.0
	for i, ind := range pop {
		if ev.cfg.Optimization == Maximize {
			weights[i] = ind.Fitness
		} else {
			weights[i] = maxFitness - ind.Fitness
		}
		sum += weights[i]
	}
	lower := make([]float64, len(pop))
	upper := make([]float64, len(pop))
	start := 0.0
	for i, w := range weights {
		lower[i] = start
		start += w / sum
		upper[i] = start
	}
	upper[len(upper)-1] = 1.01
	count := len(pop) * 3 / 5
	var res []Individual
	for k := 0; k < count; k++ {
		u := ev.percent()
		for i := range pop {
			if lower[i] <= u && u < upper[i] {
				res = append(res, pop[i])
				break
			}
		}
	}
	if len(res) == 0 {
		return firstTwo(pop)
	}
	return res
}
