// Package sat solves weighted 3-SAT problems.
//
// A weighted 3-SAT problem is a CNF formula whose clauses all have exactly 3 literals,
// along with a weight for each variable. A solution is a model of the formula;
// the best solutions maximize the total weight of the variables bound to true.
//
// Besides the exact solver (Optimal), the package provides a two-phase genetic solver (Instance.Solve):
// the first phase looks for models of the formula, the second one evolves those models
// to increase their weight.
package sat

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/crillab/gophergen/bitvec"
)

// ErrNot3SAT is returned when a formula has a clause that does not have exactly 3 literals.
var ErrNot3SAT = errors.New("formula is not 3-SAT")

// A Lit is a possibly negated variable. Variables are numbered from 0.
type Lit struct {
	Var     int
	Negated bool
}

// IntToLit converts a DIMACS literal (a non-null int, variables numbered from 1) into a Lit.
func IntToLit(i int) Lit {
	if i < 0 {
		return Lit{Var: -i - 1, Negated: true}
	}
	return Lit{Var: i - 1}
}

// Int returns the DIMACS representation of l.
func (l Lit) Int() int {
	if l.Negated {
		return -(l.Var + 1)
	}
	return l.Var + 1
}

// True returns true iff l is satisfied by the given assignment.
func (l Lit) True(assignment bitvec.Vector) bool {
	return assignment.Get(l.Var) != l.Negated
}

// A Clause is a disjunction of 3 literals.
type Clause [3]Lit

// An Instance is a weighted 3-SAT problem.
type Instance struct {
	NbVars  int
	Clauses []Clause
	Weights []int // Weight of each variable.
}

// NewInstance returns the instance made of the given DIMACS clauses.
// weights[i] is the weight of variable i+1; missing weights are 0.
// The number of variables is the highest variable index appearing in the clauses or the weights.
func NewInstance(clauses [][]int, weights []int) (*Instance, error) {
	inst := Instance{NbVars: len(weights), Clauses: make([]Clause, len(clauses))}
	for i, raw := range clauses {
		if len(raw) != 3 {
			return nil, fmt.Errorf("%w: clause #%d has %d literals", ErrNot3SAT, i+1, len(raw))
		}
		for j, val := range raw {
			if val == 0 {
				return nil, fmt.Errorf("null literal in clause #%d", i+1)
			}
			lit := IntToLit(val)
			inst.Clauses[i][j] = lit
			if lit.Var >= inst.NbVars {
				inst.NbVars = lit.Var + 1
			}
		}
	}
	inst.Weights = make([]int, inst.NbVars)
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative weight %d for variable %d", w, i+1)
		}
		inst.Weights[i] = w
	}
	return &inst, nil
}

// RandomWeights binds every variable to a weight drawn uniformly in [1, maxWeight].
func (inst *Instance) RandomWeights(maxWeight int, rng *rand.Rand) {
	for i := range inst.Weights {
		inst.Weights[i] = 1 + rng.IntN(maxWeight)
	}
}

func (c Clause) satisfied(assignment bitvec.Vector) bool {
	return c[0].True(assignment) || c[1].True(assignment) || c[2].True(assignment)
}

// Satisfies returns true iff the assignment satisfies all clauses of inst.
func (inst *Instance) Satisfies(assignment bitvec.Vector) bool {
	for _, c := range inst.Clauses {
		if !c.satisfied(assignment) {
			return false
		}
	}
	return true
}

// SatisfiedRate returns the proportion of clauses satisfied by the assignment, between 0 and 1.
// The empty formula is fully satisfied.
func (inst *Instance) SatisfiedRate(assignment bitvec.Vector) float64 {
	if len(inst.Clauses) == 0 {
		return 1
	}
	nb := 0
	for _, c := range inst.Clauses {
		if c.satisfied(assignment) {
			nb++
		}
	}
	return float64(nb) / float64(len(inst.Clauses))
}

// WeightedValue returns the total weight of the variables bound to true in the assignment.
func (inst *Instance) WeightedValue(assignment bitvec.Vector) int {
	res := 0
	for i, w := range inst.Weights {
		if assignment.Get(i) {
			res += w
		}
	}
	return res
}
