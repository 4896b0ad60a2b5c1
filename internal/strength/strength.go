// Package strength holds the numeric kernels shared by every metric group.
package strength

import (
	"fmt"
	"math"
	"slices"
)

// Est1RM estimates a one-rep max with the Epley formula. Sets with no
// repetitions contribute 0.
func Est1RM(weight float64, reps int) float64 {
	if reps <= 0 {
		return 0
	}
	return weight * (1 + float64(reps)/30)
}

// Est1RMs applies Est1RM element-wise to parallel slices.
func Est1RMs(weights []float64, reps []int) ([]float64, error) {
	if len(weights) != len(reps) {
		return nil, fmt.Errorf("est1rm: %d weights but %d rep counts", len(weights), len(reps))
	}
	out := make([]float64, len(weights))
	for i := range weights {
		out[i] = Est1RM(weights[i], reps[i])
	}
	return out, nil
}

// PercentChange returns (cur-prev)/prev*100, or 0 when prev is zero or NaN.
func PercentChange(cur, prev float64) float64 {
	if prev == 0 || math.IsNaN(prev) {
		return 0
	}
	return (cur - prev) / prev * 100
}

// PercentChangePtr is PercentChange with an optional previous value.
func PercentChangePtr(cur float64, prev *float64) float64 {
	if prev == nil {
		return 0
	}
	return PercentChange(cur, *prev)
}

const varianceEps = 1e-12

// Pearson returns the correlation coefficient of x and y, or nil when the
// slices differ in length, have fewer than two points, or either is constant.
func Pearson(x, y []float64) *float64 {
	if len(x) != len(y) || len(x) < 2 {
		return nil
	}
	mx, my := Mean(x), Mean(y)
	var num, dx, dy, sx, sy float64
	for i := range x {
		a, b := x[i]-mx, y[i]-my
		num += a * b
		dx += a * a
		dy += b * b
		sx += x[i] * x[i]
		sy += y[i] * y[i]
	}
	// A constant series that is not exact in binary leaves rounding noise
	// in the deviations, so variance is zero relative to the magnitudes.
	if dx <= varianceEps*sx || dy <= varianceEps*sy {
		return nil
	}
	r := num / (math.Sqrt(dx) * math.Sqrt(dy))
	return &r
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Median returns the middle value (mean of the two middle values for even
// lengths), or 0 for an empty slice. The input is not modified.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := slices.Clone(xs)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

// Max returns the largest value, or 0 for an empty slice.
func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return slices.Max(xs)
}

// Round rounds half away from zero to n decimal places.
func Round(x float64, n int) float64 {
	p := math.Pow(10, float64(n))
	return math.Round(x*p) / p
}

// RoundPtr rounds a nullable value.
func RoundPtr(x *float64, n int) *float64 {
	if x == nil {
		return nil
	}
	v := Round(*x, n)
	return &v
}
