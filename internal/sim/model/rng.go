package model

import "math/rand"

// RNG is the only source of randomness the engine consumes.
type RNG interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
}

type seededRNG struct{ r *rand.Rand }

func NewRNG(seed int64) RNG {
	return &seededRNG{r: rand.New(rand.NewSource(seed))}
}

func (s *seededRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.Intn(n)
}

// FixedRNG always picks the midpoint, which turns every jitter into zero.
type FixedRNG struct{}

func (FixedRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return n / 2
}

// Jitter scales weight by a random percentage in [-pct, +pct].
func Jitter(rng RNG, weight, pct int) int {
	if rng == nil || pct <= 0 || weight == 0 {
		return weight
	}
	delta := rng.Intn(2*pct+1) - pct
	return weight + weight*delta/100
}
