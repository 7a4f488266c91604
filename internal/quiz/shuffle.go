package quiz

import "math/rand"

// Shuffle returns a uniformly shuffled copy of pool. The input is left untouched.
func Shuffle[T any](pool []T, rng *rand.Rand) []T {
	out := append([]T(nil), pool...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
