package systems

import "math/rand"

// Clamp functions for common value ranges

// clamp32 clamps a float32 value between lo and hi.
func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Random draws

// uniform returns a uniform value in [lo, hi).
func uniform(rng *rand.Rand, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}

// symmetric returns a uniform value in [-r, r).
func symmetric(rng *rand.Rand, r float32) float32 {
	return (rng.Float32()*2 - 1) * r
}
