package game

import "math/rand"

// Rand is the random source behind every placement and difficulty roll.
// *rand.Rand satisfies it; tests pass a seeded one.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a seeded source.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- game only
}

// randRange draws uniformly from [lo, hi] inclusive.
func randRange(rng Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
