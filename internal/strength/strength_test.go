package strength

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEst1RM checks the Epley formula against known values.
func TestEst1RM(t *testing.T) {
	cases := []struct {
		weight float64
		reps   int
		want   float64
	}{
		{100, 1, 103.3333333},
		{80, 5, 93.3333333},
		{60, 10, 80},
		{100, 0, 0},
		{100, -2, 0},
		{0, 10, 0},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, Est1RM(tc.weight, tc.reps), 1e-6, "Est1RM(%v, %d)", tc.weight, tc.reps)
	}
}

// TestEst1RMs verifies the slice form mirrors the scalar form.
func TestEst1RMs(t *testing.T) {
	got, err := Est1RMs([]float64{100, 60, 50}, []int{1, 10, 0})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 103.333333, got[0], 1e-5)
	assert.InDelta(t, 80, got[1], 1e-9)
	assert.Zero(t, got[2])

	_, err = Est1RMs([]float64{1}, nil)
	assert.Error(t, err)
}

// TestPercentChange covers the zero and NaN guards.
func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 5.0, PercentChange(105, 100), 1e-9)
	assert.InDelta(t, -3.0, PercentChange(97, 100), 1e-9)
	assert.Zero(t, PercentChange(50, 0))
	assert.Zero(t, PercentChange(50, math.NaN()))
	assert.Zero(t, PercentChangePtr(50, nil))
	prev := 40.0
	assert.InDelta(t, 25.0, PercentChangePtr(50, &prev), 1e-9)
}

// TestPearson covers perfect correlation and the nil cases.
func TestPearson(t *testing.T) {
	r := Pearson([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	require.NotNil(t, r)
	assert.InDelta(t, 1.0, *r, 1e-12)

	r = Pearson([]float64{1, 2, 3}, []float64{3, 2, 1})
	require.NotNil(t, r)
	assert.InDelta(t, -1.0, *r, 1e-12)

	assert.Nil(t, Pearson([]float64{1}, []float64{1}))
	assert.Nil(t, Pearson([]float64{1, 2}, []float64{1}))
	assert.Nil(t, Pearson([]float64{5, 5, 5}, []float64{1, 2, 3}))
	assert.Nil(t, Pearson([]float64{0, 0, 0}, []float64{1, 2, 3}))
}

// TestPearsonInexactConstant verifies constant series with values that are
// not exact in binary still count as zero variance.
func TestPearsonInexactConstant(t *testing.T) {
	assert.Nil(t, Pearson([]float64{0.1, 0.1, 0.1}, []float64{1, 2, 3}))
	assert.Nil(t, Pearson([]float64{1, 2, 3}, []float64{0.1, 0.1, 0.1}))

	flat := []float64{1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1}
	assert.Nil(t, Pearson(flat, []float64{1, 2, 3, 4, 5, 6, 7}))

	r := Pearson([]float64{0.1, 0.2, 0.3}, []float64{1.1, 1.2, 1.3})
	require.NotNil(t, r)
	assert.InDelta(t, 1.0, *r, 1e-9)
}

// TestMedian verifies odd and even lengths without mutating the input.
func TestMedian(t *testing.T) {
	in := []float64{5, 1, 3}
	assert.Equal(t, 3.0, Median(in))
	assert.Equal(t, []float64{5, 1, 3}, in)
	assert.Equal(t, 2.5, Median([]float64{4, 1, 2, 3}))
	assert.Zero(t, Median(nil))
}

// TestRound verifies half-away-from-zero rounding.
func TestRound(t *testing.T) {
	assert.Equal(t, 0.54, Round(0.5366, 2))
	assert.Equal(t, 0.537, Round(0.53667, 3))
	assert.Equal(t, -1.25, Round(-1.2501, 2))
	assert.Nil(t, RoundPtr(nil, 2))
}
