package sortutil

import (
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSort_Ints(t *testing.T) {
	in := []int{10, 3, 7}

	assert.Equal(t, []int{3, 7, 10}, Sort(in, func(v int) int { return v }, false))
	assert.Equal(t, []int{10, 7, 3}, Sort(in, func(v int) int { return v }, true))
	assert.Equal(t, []int{10, 3, 7}, in, "input must be untouched")
}

func TestSort_Empty(t *testing.T) {
	out := Sort([]string{}, func(v string) string { return v }, false)
	assert.Empty(t, out)
}

func TestSort_SingleReturnsCopy(t *testing.T) {
	in := []int{42}
	out := Sort(in, func(v int) int { return v }, false)
	require.Equal(t, in, out)

	out[0] = 7
	assert.Equal(t, 42, in[0])
}

func TestSort_Strings(t *testing.T) {
	in := []string{"pear", "apple", "fig"}
	assert.Equal(t, []string{"apple", "fig", "pear"}, Sort(in, func(v string) string { return v }, false))
}

func TestSort_TimeKeys(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []time.Time{base.AddDate(0, 0, 2), base, base.AddDate(0, 0, 1)}

	out := Sort(in, func(v time.Time) int64 { return v.Unix() }, false)
	assert.True(t, out[0].Equal(base))
	assert.True(t, out[2].Equal(base.AddDate(0, 0, 2)))
}

func TestSort_Stability(t *testing.T) {
	type row struct {
		key int
		seq int
	}
	in := []row{{1, 0}, {0, 1}, {1, 2}, {0, 3}, {1, 4}}

	asc := Sort(in, func(r row) int { return r.key }, false)
	assert.Equal(t, []row{{0, 1}, {0, 3}, {1, 0}, {1, 2}, {1, 4}}, asc)

	desc := Sort(in, func(r row) int { return r.key }, true)
	assert.Equal(t, []row{{1, 0}, {1, 2}, {1, 4}, {0, 1}, {0, 3}}, desc)
}

func TestSort_MatchesStdlibOnRandomInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for range 100 {
		in := make([]int, rng.Intn(50))
		for i := range in {
			in[i] = rng.Intn(20)
		}

		want := slices.Clone(in)
		slices.Sort(want)

		got := Sort(in, func(v int) int { return v }, false)
		require.Equal(t, want, got)
	}
}
