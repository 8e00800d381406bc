package utils

import (
	"math"
	"math/rand"
	"time"
)

// RandSource is a seedable random number generator. A zero seed picks a
// time-based seed; any other seed makes draws reproducible.
type RandSource struct {
	rng *rand.Rand
}

// NewRandSource creates a new random source with the given seed
func NewRandSource(seed int64) *RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandSource{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Float64 returns a random float64 in [0.0, 1.0)
func (r *RandSource) Float64() float64 {
	return r.rng.Float64()
}

// Intn returns a random int in [0, n)
func (r *RandSource) Intn(n int) int {
	return r.rng.Intn(n)
}

// NormFloat64 returns a normally distributed random number with mean and stddev
func (r *RandSource) NormFloat64(mean, stddev float64) float64 {
	return r.rng.NormFloat64()*stddev + mean
}

// NormInt returns a normally distributed draw rounded to the nearest
// integer and clipped below at zero.
func (r *RandSource) NormInt(mean, stddev float64) int {
	d := int(math.Round(r.NormFloat64(mean, stddev)))
	if d < 0 {
		return 0
	}
	return d
}
