package otherUtils

import "math/rand/v2"

// Sample returns n distinct elements of pool in random order. pool is not
// modified; n is clamped to len(pool).
func Sample[T any](r *rand.Rand, pool []T, n int) []T {
	n = min(max(n, 0), len(pool))

	shuffled := make([]T, len(pool))
	copy(shuffled, pool)

	// partial Fisher-Yates, only the first n positions are needed
	for i := 0; i < n; i++ {
		j := i + r.IntN(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:n]
}

// IntBetween returns a uniform integer in [lo, hi].
func IntBetween(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}
