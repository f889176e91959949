package engine

import (
	"math/rand/v2"
	"time"
)

// Rand is the single source of randomness for generation, dealing and shot
// resolution. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a PCG-backed generator for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// NewSeed returns a seed for courses that do not pin one.
func NewSeed() int64 {
	seed := time.Now().UnixNano() & 0x7fffffffffff
	if seed == 0 {
		seed = 1
	}
	return seed
}

// pick returns a uniformly random element. items must not be empty.
func pick[T any](rng Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

// shuffle is an in-place Fisher-Yates shuffle driven by rng.
func shuffle[T any](rng Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
