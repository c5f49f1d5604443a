// Package genetic provides a generic evolutionary engine over bit-vector chromosomes.
//
// A problem is described by two functions: a Factory drawing random candidate individuals,
// and an Evaluator computing their fitness. An individual with a negative fitness is infeasible
// and never enters a population.
//
// An Evolver holds the evolution parameters (selection, crossover and mutation methods,
// probabilities, elitism) and performs one generation transition at a time:
// elite extraction, selection, recombination, mutation, then elite reinsertion.
// A Population owns the current generation and the best individual found so far.
//
// All randomness comes from the *rand.Rand given to the Evolver, so that a run can be
// replayed from its seed.
package genetic
