// Package bitvec provides fixed-capacity, word-packed bit vectors.
//
// Vectors are the chromosomes manipulated by the genetic engine: each bit encodes
// one binary decision of a candidate solution (an item taken in a knapsack, a variable
// bound to true in a SAT formula, ...).
//
// Representation
//
// A Vector of capacity n stores its bits in ceil(n/64) uint64 words. Bit i lives in word i/64,
// at position i%64. Bits beyond the capacity are always zero, so two vectors with the same bits
// have the same words and can be compared word by word.
//
// Operators
//
// The package provides the mutation operators used by the engine (Replacement, Removal, RandomSwap,
// AdjacentSwap, EndForEndSwap and Inversion) and n-point crossover. Every random operator takes
// a *rand.Rand, so that runs can be reproduced from a seed.
package bitvec
