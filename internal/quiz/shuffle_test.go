package quiz

import (
	"math/rand"
	"slices"
	"testing"

	"gotest.tools/v3/assert"
)

func TestShuffle_IsPermutation(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	orig := slices.Clone(in)

	out := Shuffle(in, rand.New(rand.NewSource(1)))

	assert.DeepEqual(t, in, orig)
	sorted := slices.Clone(out)
	slices.Sort(sorted)
	assert.DeepEqual(t, sorted, orig)
}

func TestShuffle_Deterministic(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e", "f"}
	a := Shuffle(in, rand.New(rand.NewSource(99)))
	b := Shuffle(in, rand.New(rand.NewSource(99)))
	assert.DeepEqual(t, a, b)
}

func TestShuffle_Empty(t *testing.T) {
	out := Shuffle([]int(nil), rand.New(rand.NewSource(1)))
	assert.Equal(t, len(out), 0)
}

func TestShuffle_Uniform(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	counts := map[[3]int]int{}
	const rounds = 6000
	for i := 0; i < rounds; i++ {
		out := Shuffle([]int{0, 1, 2}, rng)
		counts[[3]int{out[0], out[1], out[2]}]++
	}

	assert.Equal(t, len(counts), 6)
	for perm, n := range counts {
		assert.Assert(t, n > 800 && n < 1200, "permutation %v drawn %d times", perm, n)
	}
}
