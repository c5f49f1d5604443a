// Package knapsack solves 0/1 knapsack problems, either exactly or with the genetic engine.
//
// An instance is a capacity and a list of items, each with a weight and a cost.
// A solution is a subset of the items whose total weight does not exceed the capacity;
// the best solutions maximize their total cost.
package knapsack

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/crillab/gophergen/bitvec"
)

// An Item can be put in the knapsack.
type Item struct {
	Weight int
	Cost   int
}

// An Instance is a knapsack problem.
type Instance struct {
	ID       int
	Capacity int
	Items    []Item
}

// Weight returns the total weight of the items selected in sol.
func (inst *Instance) Weight(sol bitvec.Vector) int {
	res := 0
	for i, item := range inst.Items {
		if sol.Get(i) {
			res += item.Weight
		}
	}
	return res
}

// Cost returns the total cost of the items selected in sol.
func (inst *Instance) Cost(sol bitvec.Vector) int {
	res := 0
	for i, item := range inst.Items {
		if sol.Get(i) {
			res += item.Cost
		}
	}
	return res
}

// Feasible returns true iff the items selected in sol fit in the knapsack.
func (inst *Instance) Feasible(sol bitvec.Vector) bool {
	return inst.Weight(sol) <= inst.Capacity
}

// Parse parses a list of knapsack instances, one per line, with the format
//
//	id n capacity w1 c1 w2 c2 ... wn cn
//
// Empty lines and lines starting with '#' are ignored.
func Parse(r io.Reader) ([]Instance, error) {
	scanner := bufio.NewScanner(r)
	var res []Instance
	nbLine := 0
	for scanner.Scan() {
		nbLine++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		inst, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", nbLine, err)
		}
		res = append(res, inst)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read instances: %v", err)
	}
	return res, nil
}

func parseLine(line string) (Instance, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Instance{}, fmt.Errorf("invalid syntax %q", line)
	}
	vals := make([]int, len(fields))
	for i, field := range fields {
		val, err := strconv.Atoi(field)
		if err != nil {
			return Instance{}, fmt.Errorf("%q is not an int", field)
		}
		if val < 0 {
			return Instance{}, fmt.Errorf("negative value %d", val)
		}
		vals[i] = val
	}
	n := vals[1]
	if len(vals) != 3+2*n {
		return Instance{}, fmt.Errorf("expected %d items, found %d values", n, len(vals)-3)
	}
	inst := Instance{ID: vals[0], Capacity: vals[2], Items: make([]Item, n)}
	for i := range inst.Items {
		inst.Items[i] = Item{Weight: vals[3+2*i], Cost: vals[4+2*i]}
	}
	return inst, nil
}
