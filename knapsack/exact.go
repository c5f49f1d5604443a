package knapsack

import (
	"fmt"
	"math"

	"github.com/crillab/gophersat/maxsat"

	"github.com/crillab/gophergen/bitvec"
)

// Dynamic solves inst exactly, by dynamic programming over the total cost:
// for each prefix of the items and each cost c, it computes the lowest weight of a subset costing exactly c.
// It also returns the number of table cells computed.
func Dynamic(inst *Instance) (Solution, int) {
	n := len(inst.Items)
	total := 0
	for _, item := range inst.Items {
		total += item.Cost
	}
	const unreachable = math.MaxInt
	weights := make([][]int, n+1)
	for i := range weights {
		weights[i] = make([]int, total+1)
	}
	for c := 1; c <= total; c++ {
		weights[0][c] = unreachable
	}
	steps := 0
	for i := 1; i <= n; i++ {
		item := inst.Items[i-1]
		prev, cur := weights[i-1], weights[i]
		for c := 0; c <= total; c++ {
			steps++
			cur[c] = prev[c]
			if c < item.Cost || prev[c-item.Cost] == unreachable {
				continue
			}
			if w := prev[c-item.Cost] + item.Weight; w < cur[c] {
				cur[c] = w
			}
		}
	}
	best := 0
	for c := total; c >= 0; c-- {
		if weights[n][c] <= inst.Capacity {
			best = c
			break
		}
	}
	items := bitvec.New(n)
	for i, c := n, best; i > 0; i-- {
		if weights[i][c] != weights[i-1][c] {
			items.Set(i-1, true)
			c -= inst.Items[i-1].Cost
		}
	}
	return inst.solution(items), steps
}

func itemVar(i int) string {
	return fmt.Sprintf("x%d", i)
}

// Optimal solves inst exactly, as a weighted partial MAXSAT problem:
// the capacity is a hard pseudo-boolean constraint on the items left out,
// and leaving out an item costs its own cost.
func Optimal(inst *Instance) (Solution, error) {
	n := len(inst.Items)
	items := bitvec.New(n)
	totalWeight := 0
	var (
		lits   []maxsat.Lit
		coeffs []int
	)
	for i, item := range inst.Items {
		totalWeight += item.Weight
		if item.Weight > 0 {
			lits = append(lits, maxsat.Not(itemVar(i)))
			coeffs = append(coeffs, item.Weight)
		}
	}
	if totalWeight <= inst.Capacity {
		for i := 0; i < n; i++ {
			items.Set(i, true)
		}
		return inst.solution(items), nil
	}
	constrs := []maxsat.Constr{maxsat.HardPBConstr(lits, coeffs, totalWeight-inst.Capacity)}
	for i, item := range inst.Items {
		if item.Cost > 0 {
			constrs = append(constrs, maxsat.WeightedClause([]maxsat.Lit{maxsat.Var(itemVar(i))}, item.Cost))
		}
	}
	model, _ := maxsat.New(constrs...).Solve()
	if model == nil {
		return Solution{}, fmt.Errorf("could not solve instance %d", inst.ID)
	}
	for i := range inst.Items {
		if model[itemVar(i)] {
			items.Set(i, true)
		}
	}
	return inst.solution(items), nil
}
