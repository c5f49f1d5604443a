package sat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse parses a weighted 3-SAT problem in the DIMACS CNF format.
// Weights are given on an optional line starting with 'w', listing the weight of each variable in order,
// optionally terminated by a 0:
//
//	c an example
//	p cnf 3 2
//	w 2 4 1 0
//	1 -2 3 0
//	-1 2 3 0
//
// Clauses can span several lines. A line starting with '%' ends the formula.
func Parse(r io.Reader) (*Instance, error) {
	scanner := bufio.NewScanner(r)
	var (
		clauses  [][]int
		weights  []int
		lits     []int
		nbVars   = -1
		nbLine   = 0
		nbDeclar int
	)
	for scanner.Scan() {
		nbLine++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == 'c' {
			continue
		}
		if line[0] == '%' {
			break
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "p":
			var err error
			nbVars, nbDeclar, err = parseHeader(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", nbLine, err)
			}
			clauses = make([][]int, 0, nbDeclar)
		case "w":
			ws, err := parseInts(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid weights: %v", nbLine, err)
			}
			if len(ws) > 0 && ws[len(ws)-1] == 0 && (nbVars < 0 || len(ws) == nbVars+1) {
				ws = ws[:len(ws)-1]
			}
			if nbVars >= 0 && len(ws) > nbVars {
				return nil, fmt.Errorf("line %d: %d weights for %d vars", nbLine, len(ws), nbVars)
			}
			weights = ws
		default:
			vals, err := parseInts(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid clause: %v", nbLine, err)
			}
			for _, val := range vals {
				if val == 0 {
					clauses = append(clauses, lits)
					lits = nil
					continue
				}
				if nbVars >= 0 && (val > nbVars || -val > nbVars) {
					return nil, fmt.Errorf("line %d: invalid literal %d for problem with %d vars only", nbLine, val, nbVars)
				}
				lits = append(lits, val)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read CNF: %v", err)
	}
	if len(lits) != 0 {
		return nil, fmt.Errorf("unfinished clause while EOF found")
	}
	if nbVars > len(weights) {
		weights = append(weights, make([]int, nbVars-len(weights))...)
	}
	return NewInstance(clauses, weights)
}

func parseHeader(fields []string) (nbVars, nbClauses int, err error) {
	if len(fields) != 4 || fields[1] != "cnf" {
		return 0, 0, fmt.Errorf("invalid syntax %q in header", strings.Join(fields, " "))
	}
	nbVars, err = strconv.Atoi(fields[2])
	if err != nil || nbVars < 0 {
		return 0, 0, fmt.Errorf("nbvars not a positive int: %q", fields[2])
	}
	nbClauses, err = strconv.Atoi(fields[3])
	if err != nil || nbClauses < 0 {
		return 0, 0, fmt.Errorf("nbClauses not a positive int: %q", fields[3])
	}
	return nbVars, nbClauses, nil
}

func parseInts(fields []string) ([]int, error) {
	res := make([]int, len(fields))
	for i, field := range fields {
		val, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%q is not an int", field)
		}
		res[i] = val
	}
	return res, nil
}
