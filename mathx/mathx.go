// Package mathx provides small numerical helpers shared by the range and colormap code.
package mathx

import (
	"math"
	"sort"
)

// Round rounds a float to the nearest "unit" (0.1 for tenth, 0.01 for hundredth, and so on).
func Round(x, unit float64) float64 {
	return float64(int64(x/unit+0.5)) * unit
}

// Lerp linearly interpolates between a and b; t=0 yields a, t=1 yields b.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Percentile returns the pth percentile of xs, 0 <= p <= 100, using linear
// interpolation between the two closest ranks.  The input is not mutated.
// It panics if xs is empty.
func Percentile(xs []float64, p float64) float64 {
	c := make([]float64, len(xs))
	copy(c, xs)
	sort.Float64s(c)
	return PercentileSorted(c, p)
}

// PercentileSorted is Percentile for data already in ascending order.  Use it
// to avoid re-sorting when several percentiles are taken from one dataset.
func PercentileSorted(xs []float64, p float64) float64 {
	n := len(xs)
	if n == 1 {
		return xs[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return Lerp(xs[lo], xs[hi], frac)
}
