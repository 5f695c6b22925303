// Package hash implements the fast modular hash used to derive reproducible
// random decisions (drop masks, shuffles) from a seed and a position.
package hash

// Hash mixes n with the salt s and reduces the result into [0, max).
// A max of 0 always yields 0.
func Hash(n uint32, s uint32, max uint32) uint32 {
	return reduce(mix(n, s), max)
}

func mix(n uint32, s uint32) uint32 {
	// mix input with salt using subtraction
	var m = n - s

	// xor shift with prime coefficients
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	return m + s
}

// reduce maps m into [0, max) using the multiply shift trick by Daniel Lemire
// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
func reduce(m, max uint32) uint32 {
	return uint32((uint64(m) * uint64(max)) >> 32)
}

// Uniform returns a value in [0, 1) which depends only on n and seed.
func Uniform(n uint32, seed uint32) float64 {
	return float64(mix(n, seed)) / (1 << 32)
}

// Bernoulli reports true with probability p for the pair (n, seed).
func Bernoulli(n uint32, seed uint32, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return Uniform(n, seed) < p
}
