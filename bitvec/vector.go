package bitvec

import (
	"fmt"
	"math/bits"
	"math/rand/v2"
	"slices"
	"strings"
)

const wordSize = 64

// A Vector is a fixed-capacity sequence of bits.
// The zero value is an empty vector.
type Vector struct {
	words []uint64
	n     int // capacity, in bits
}

func nbWords(n int) int {
	return (n + wordSize - 1) / wordSize
}

// New returns a vector of n bits, all set to false.
func New(n int) Vector {
	if n < 0 {
		panic(fmt.Sprintf("bitvec: negative capacity %d", n))
	}
	return Vector{words: make([]uint64, nbWords(n)), n: n}
}

// FromWords returns a vector of n bits whose content is copied from words.
// Bits beyond n in the last word are ignored.
func FromWords(words []uint64, n int) (Vector, error) {
	if n < 0 {
		return Vector{}, fmt.Errorf("invalid capacity %d", n)
	}
	if len(words) != nbWords(n) {
		return Vector{}, fmt.Errorf("%d words cannot hold exactly %d bits", len(words), n)
	}
	v := Vector{words: slices.Clone(words), n: n}
	v.clearTail()
	return v, nil
}

// Random returns a vector of n bits, each of them drawn uniformly.
func Random(n int, rng *rand.Rand) Vector {
	v := New(n)
	for i := range v.words {
		v.words[i] = rng.Uint64()
	}
	v.clearTail()
	return v
}

// clearTail zeroes the unused bits of the last word.
func (v *Vector) clearTail() {
	if r := v.n % wordSize; r != 0 {
		v.words[len(v.words)-1] &= (uint64(1) << uint(r)) - 1
	}
}

func (v Vector) check(i int) {
	if i < 0 || i >= v.n {
		panic(fmt.Sprintf("bitvec: index %d out of range [0, %d)", i, v.n))
	}
}

// Len returns the capacity of v, in bits.
func (v Vector) Len() int {
	return v.n
}

// Words returns a copy of the words backing v.
func (v Vector) Words() []uint64 {
	return slices.Clone(v.words)
}

// Get returns the value of the i-th bit.
func (v Vector) Get(i int) bool {
	v.check(i)
	return v.words[i/wordSize]>>uint(i%wordSize)&1 == 1
}

// Set binds the i-th bit to b.
func (v *Vector) Set(i int, b bool) {
	v.check(i)
	mask := uint64(1) << uint(i%wordSize)
	if b {
		v.words[i/wordSize] |= mask
	} else {
		v.words[i/wordSize] &^= mask
	}
}

// Flip negates the i-th bit.
func (v *Vector) Flip(i int) {
	v.check(i)
	v.words[i/wordSize] ^= uint64(1) << uint(i%wordSize)
}

// Swap exchanges the values of the i-th and j-th bits.
func (v *Vector) Swap(i, j int) {
	bi, bj := v.Get(i), v.Get(j)
	if bi != bj {
		v.Set(i, bj)
		v.Set(j, bi)
	}
}

// Clone returns a deep copy of v.
func (v Vector) Clone() Vector {
	return Vector{words: slices.Clone(v.words), n: v.n}
}

// Equal returns true iff v and other have the same capacity and the same bits.
func (v Vector) Equal(other Vector) bool {
	return v.n == other.n && slices.Equal(v.words, other.words)
}

// OnesCount returns the number of bits set to true.
func (v Vector) OnesCount() int {
	res := 0
	for _, w := range v.words {
		res += bits.OnesCount64(w)
	}
	return res
}

// String returns the bits of v as a sequence of '0' and '1', bit 0 first.
func (v Vector) String() string {
	var sb strings.Builder
	sb.Grow(v.n)
	for i := 0; i < v.n; i++ {
		if v.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
