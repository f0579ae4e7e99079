// Package rng derives independent, reproducible random streams from one
// explicit seed. Stream k of a seed is the same sequence no matter which
// goroutine draws it or in what order, which is what lets per-strand and
// per-row work run in parallel without changing the output.
package rng

import (
	"math/rand/v2"
)

// Stream returns the random stream with the given index under seed.
func Stream(seed, index uint64) *rand.Rand {
	hi := splitmix64(seed ^ splitmix64(index))
	lo := splitmix64(hi + index)
	return rand.New(rand.NewPCG(hi, lo))
}

// Range draws a float32 uniformly from [lo, hi).
func Range(r *rand.Rand, lo, hi float32) float32 {
	return lo + r.Float32()*(hi-lo)
}

// Signed draws a float32 uniformly from [-1, 1).
func Signed(r *rand.Rand) float32 {
	return r.Float32()*2 - 1
}

func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}
