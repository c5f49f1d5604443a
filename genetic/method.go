package genetic

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Optimization tells whether the fitness must be minimized or maximized.
type Optimization int

const (
	// Minimize means the best individual has the lowest fitness.
	Minimize Optimization = iota
	// Maximize means the best individual has the highest fitness.
	Maximize
)

func (o Optimization) String() string {
	if o == Maximize {
		return "max"
	}
	return "min"
}

// better returns true iff a fitness of f1 is strictly better than f2.
func (o Optimization) better(f1, f2 float64) bool {
	if o == Maximize {
		return f1 > f2
	}
	return f1 < f2
}

// SelectionKind is the kind of a selection method.
type SelectionKind int

const (
	// Scaling accepts each individual with a probability proportional to its distance to the best fitness.
	Scaling SelectionKind = iota
	// Tournament keeps the best of a few randomly drawn individuals.
	Tournament
	// Wheel draws individuals with a probability proportional to their fitness.
	Wheel
)

// A Selection describes how survivors are picked from a population.
// Size is only meaningful for tournaments.
type Selection struct {
	Kind SelectionKind
	Size int
}

// TournamentOf returns a tournament selection among size individuals.
func TournamentOf(size int) Selection {
	return Selection{Kind: Tournament, Size: size}
}

func (s Selection) String() string {
	switch s.Kind {
	case Tournament:
		return fmt.Sprintf("tournament%d", s.Size)
	case Wheel:
		return "wheelSelection"
	default:
		return "scaling"
	}
}

// ParseSelection parses the textual representation of a selection method,
// as returned by Selection.String. "wheel" is accepted as a synonym for "wheelSelection".
func ParseSelection(str string) (Selection, error) {
	s := strings.ToLower(strings.TrimSpace(str))
	switch {
	case s == "scaling":
		return Selection{Kind: Scaling}, nil
	case s == "wheel" || s == "wheelselection":
		return Selection{Kind: Wheel}, nil
	case strings.HasPrefix(s, "tournament"):
		size, err := strconv.Atoi(s[len("tournament"):])
		if err != nil || size < 1 {
			return Selection{}, fmt.Errorf("invalid tournament size in %q", str)
		}
		return TournamentOf(size), nil
	default:
		return Selection{}, fmt.Errorf("unknown selection method %q", str)
	}
}

// CrossoverKind is the kind of a crossover method.
type CrossoverKind int

const (
	// OnePoint cuts the chromosomes once.
	OnePoint CrossoverKind = iota
	// TwoPoint cuts the chromosomes twice.
	TwoPoint
	// Uniform cuts the chromosomes around capacity/Division times.
	Uniform
)

// A Crossover describes how two chromosomes are recombined.
// Division is only meaningful for uniform crossovers.
type Crossover struct {
	Kind     CrossoverKind
	Division int
}

// UniformOf returns a uniform crossover cutting chromosomes around capacity/division times.
func UniformOf(division int) Crossover {
	return Crossover{Kind: Uniform, Division: division}
}

func (c Crossover) String() string {
	switch c.Kind {
	case TwoPoint:
		return "twoPoint"
	case Uniform:
		return fmt.Sprintf("uniform%d", c.Division)
	default:
		return "onePoint"
	}
}

// points returns the number of cuts to perform on chromosomes of the given capacity.
// Uniform crossovers draw it in [limit, 2*limit], with limit = capacity/Division, and never less than 1.
func (c Crossover) points(capacity int, rng *rand.Rand) int {
	switch c.Kind {
	case TwoPoint:
		return 2
	case Uniform:
		div := max(c.Division, 1)
		limit := capacity / div
		return max(limit+rng.IntN(limit+1), 1)
	default:
		return 1
	}
}

// ParseCrossover parses the textual representation of a crossover method,
// as returned by Crossover.String.
func ParseCrossover(str string) (Crossover, error) {
	s := strings.ToLower(strings.TrimSpace(str))
	switch {
	case s == "onepoint":
		return Crossover{Kind: OnePoint}, nil
	case s == "twopoint":
		return Crossover{Kind: TwoPoint}, nil
	case strings.HasPrefix(s, "uniform"):
		div, err := strconv.Atoi(s[len("uniform"):])
		if err != nil || div < 1 {
			return Crossover{}, fmt.Errorf("invalid uniform division in %q", str)
		}
		return UniformOf(div), nil
	default:
		return Crossover{}, fmt.Errorf("unknown crossover method %q", str)
	}
}

// A Mutation is a method used to perturb a chromosome.
type Mutation int

const (
	// Replacement flips a random bit.
	Replacement Mutation = iota
	// Removal clears a random bit.
	Removal
	// RandomSwap swaps two random bits.
	RandomSwap
	// AdjacentSwap swaps a random bit with its neighbour.
	AdjacentSwap
	// EndForEndSwap reverses the whole chromosome.
	EndForEndSwap
	// Inversion mirrors a random section of the chromosome.
	Inversion
)

var mutationNames = [...]string{"replacement", "removal", "randomSwap", "adjacentSwap", "endForEndSwap", "inversion"}

func (m Mutation) String() string {
	if m < 0 || int(m) >= len(mutationNames) {
		return fmt.Sprintf("Mutation(%d)", int(m))
	}
	return mutationNames[m]
}

// AllMutations returns every available mutation method.
func AllMutations() []Mutation {
	return []Mutation{Replacement, Removal, RandomSwap, AdjacentSwap, EndForEndSwap, Inversion}
}
