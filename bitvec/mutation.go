package bitvec

import (
	"math/bits"
	"math/rand/v2"
)

// Replacement flips one uniformly chosen bit.
func (v *Vector) Replacement(rng *rand.Rand) {
	if v.n == 0 {
		return
	}
	v.Flip(rng.IntN(v.n))
}

// Removal sets one uniformly chosen bit to false.
func (v *Vector) Removal(rng *rand.Rand) {
	if v.n == 0 {
		return
	}
	v.Set(rng.IntN(v.n), false)
}

// RandomSwap swaps the values of two distinct, uniformly chosen bits.
// Vectors of less than 2 bits are left untouched.
func (v *Vector) RandomSwap(rng *rand.Rand) {
	if v.n < 2 {
		return
	}
	i := rng.IntN(v.n)
	j := rng.IntN(v.n)
	for j == i {
		j = rng.IntN(v.n)
	}
	v.Swap(i, j)
}

// AdjacentSwap swaps a uniformly chosen bit with its successor,
// or with its predecessor when it is the last bit.
func (v *Vector) AdjacentSwap(rng *rand.Rand) {
	if v.n < 2 {
		return
	}
	i := rng.IntN(v.n)
	j := i + 1
	if j == v.n {
		j = i - 1
	}
	v.Swap(i, j)
}

// EndForEndSwap reverses the order of all bits of v: bit i becomes bit n-1-i.
func (v *Vector) EndForEndSwap() {
	if v.n < 2 {
		return
	}
	k := len(v.words)
	rev := make([]uint64, k)
	for i, w := range v.words {
		rev[k-1-i] = bits.Reverse64(w)
	}
	// Reversing the words moved bit i to 64k-1-i: realign everything on bit 0.
	if pad := uint(k*wordSize - v.n); pad != 0 {
		for i := 0; i < k; i++ {
			rev[i] >>= pad
			if i+1 < k {
				rev[i] |= rev[i+1] << (wordSize - pad)
			}
		}
	}
	copy(v.words, rev)
}

// Inversion draws a center c in [1, n-1) and a spread s in [1, max(1, min(c, n-c)/2)],
// then mirrors the bits around c, as InvertAround does.
// Vectors of less than 3 bits are left untouched.
func (v *Vector) Inversion(rng *rand.Rand) {
	if v.n < 3 {
		return
	}
	c := 1 + rng.IntN(v.n-2)
	m := min(c, v.n-c) / 2
	if m < 1 {
		m = 1
	}
	v.InvertAround(c, 1+rng.IntN(m))
}

// InvertAround swaps bits c-k and c+k, for each k in [1, spread].
// Applying it twice with the same arguments leaves v unchanged.
func (v *Vector) InvertAround(c, spread int) {
	for k := 1; k <= spread; k++ {
		v.Swap(c-k, c+k)
	}
}
