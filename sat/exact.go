package sat

import (
	"errors"
	"fmt"

	"github.com/crillab/gophersat/maxsat"

	"github.com/crillab/gophergen/bitvec"
)

// ErrUnsatisfiable is returned when a formula has no model at all.
var ErrUnsatisfiable = errors.New("formula is unsatisfiable")

func varName(v int) string {
	return fmt.Sprintf("x%d", v+1)
}

func (l Lit) maxsat() maxsat.Lit {
	if l.Negated {
		return maxsat.Not(varName(l.Var))
	}
	return maxsat.Var(varName(l.Var))
}

// Optimal returns a model of inst with the highest possible weight, along with that weight.
// Clauses are hard constraints, and binding a variable to false costs its weight.
func (inst *Instance) Optimal() (bitvec.Vector, int, error) {
	constrs := make([]maxsat.Constr, 0, len(inst.Clauses)+inst.NbVars)
	for _, c := range inst.Clauses {
		constrs = append(constrs, maxsat.HardClause(c[0].maxsat(), c[1].maxsat(), c[2].maxsat()))
	}
	for v, w := range inst.Weights {
		if w > 0 {
			constrs = append(constrs, maxsat.WeightedClause([]maxsat.Lit{maxsat.Var(varName(v))}, w))
		}
	}
	assignment := bitvec.New(inst.NbVars)
	if len(constrs) == 0 {
		return assignment, 0, nil
	}
	model, _ := maxsat.New(constrs...).Solve()
	if model == nil {
		return assignment, 0, ErrUnsatisfiable
	}
	for v := 0; v < inst.NbVars; v++ {
		if model[varName(v)] {
			assignment.Set(v, true)
		}
	}
	return assignment, inst.WeightedValue(assignment), nil
}
