package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/crillab/gophergen/config"
	"github.com/crillab/gophergen/genetic"
	"github.com/crillab/gophergen/knapsack"
	"github.com/crillab/gophergen/sat"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	exact := true
	flag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "sets verbose mode on")
	flag.BoolVar(&exact, "exact", exact, "also solves the problem with an exact solver, for comparison")
	flag.IntVar(&cfg.Population, "population", cfg.Population, "size of the knapsack population")
	flag.IntVar(&cfg.Generations, "generations", cfg.Generations, "number of knapsack generations")
	flag.Float64Var(&cfg.Mutation, "mutation", cfg.Mutation, "mutation probability")
	flag.Float64Var(&cfg.Crossover, "crossover", cfg.Crossover, "crossover probability")
	flag.IntVar(&cfg.Elitism, "elitism", cfg.Elitism, "number of elites kept in each generation")
	flag.StringVar(&cfg.Selection, "selection", cfg.Selection, "selection method (scaling, wheel, tournamentN)")
	flag.StringVar(&cfg.CrossoverMethod, "crossover-method", cfg.CrossoverMethod, "crossover method (onePoint, twoPoint, uniformN)")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed, 0 for a random one")
	flag.IntVar(&cfg.SAT.MaxWeight, "max-weight", cfg.SAT.MaxWeight, "if positive, draws random 3-SAT weights between 1 and this value")
	flag.Parse()
	if len(flag.Args()) != 1 {
		fmt.Fprintf(os.Stderr, "Syntax : %s [options] (file.cnf|file.dat)\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	path := flag.Args()[0]
	fmt.Printf("c solving %s\n", path)
	if strings.HasSuffix(path, ".cnf") {
		err = solveSAT(path, cfg, exact, logger)
	} else {
		err = solveKnapsack(path, cfg, exact, logger)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func solveKnapsack(path string, cfg *config.Config, exact bool, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open %q: %v", path, err)
	}
	defer f.Close()
	insts, err := knapsack.Parse(f)
	if err != nil {
		return fmt.Errorf("could not parse knapsack file %q: %v", path, err)
	}
	gcfg, err := cfg.Genetic()
	if err != nil {
		return err
	}
	rng := genetic.NewRand(cfg.Seed)
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Knapsack")
	header := table.Row{"ID", "Items", "Capacity", "Cost", "Weight", "Evaluations", "Time"}
	if exact {
		header = append(header, "Optimum", "DP steps", "Gap")
	}
	t.AppendHeader(header)
	for i := range insts {
		inst := &insts[i]
		start := time.Now()
		step, err := knapsack.Solve(inst, gcfg, cfg.Population, cfg.Generations, genetic.WithRand(rng), genetic.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("could not solve instance %d: %w", inst.ID, err)
		}
		elapsed := time.Since(start)
		logger.Info("instance solved", slog.Int("id", inst.ID), slog.Int("cost", step.Solution.Cost), slog.Duration("elapsed", elapsed))
		row := table.Row{inst.ID, len(inst.Items), inst.Capacity, step.Solution.Cost, step.Solution.Weight, step.Evaluations, elapsed.Round(time.Microsecond)}
		if exact {
			opt, steps := knapsack.Dynamic(inst)
			gap := 0.0
			if opt.Cost > 0 {
				gap = 100 * float64(opt.Cost-step.Solution.Cost) / float64(opt.Cost)
			}
			row = append(row, opt.Cost, steps, fmt.Sprintf("%.2f%%", gap))
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}

func solveSAT(path string, cfg *config.Config, exact bool, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open %q: %v", path, err)
	}
	defer f.Close()
	inst, err := sat.Parse(f)
	if err != nil {
		return fmt.Errorf("could not parse DIMACS file %q: %v", path, err)
	}
	rng := genetic.NewRand(cfg.Seed)
	if cfg.SAT.MaxWeight > 0 {
		inst.RandomWeights(cfg.SAT.MaxWeight, rng)
	}
	opts, err := cfg.SATOptions()
	if err != nil {
		return err
	}
	fmt.Printf("c nb vars: %d\nc nb clauses: %d\n", inst.NbVars, len(inst.Clauses))
	start := time.Now()
	res, err := inst.Solve(opts, genetic.WithRand(rng), genetic.WithLogger(logger))
	var notSat *sat.NotSatisfiedError
	if errors.As(err, &notSat) {
		fmt.Printf("c best assignment satisfies %.2f%% of the clauses\n", notSat.Best.Fitness)
		fmt.Println("s UNKNOWN")
		return nil
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	fmt.Println("s SATISFIABLE")
	fmt.Printf("v %s\n", formatModel(res, inst.NbVars))
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Weighted 3-SAT")
	t.AppendRows([]table.Row{
		{"Weight", res.Weight},
		{"Models found", res.Models},
		{"Stagnation", res.Stagnation},
		{"Evaluations", res.Evaluations},
		{"Time", elapsed.Round(time.Microsecond)},
	})
	if exact {
		_, weight, err := inst.Optimal()
		if err != nil {
			return fmt.Errorf("could not compute optimum: %w", err)
		}
		t.AppendRow(table.Row{"Optimum", weight})
	}
	t.Render()
	return nil
}

// formatModel returns the DIMACS representation of the model found by the genetic solver.
func formatModel(res sat.Result, nbVars int) string {
	var sb strings.Builder
	for v := 0; v < nbVars; v++ {
		lit := sat.Lit{Var: v, Negated: !res.Best.Get(v)}
		fmt.Fprintf(&sb, "%d ", lit.Int())
	}
	sb.WriteString("0")
	return sb.String()
}
