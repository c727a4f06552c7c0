package lord

import "math"

// defaultDiscountScale normalizes the standard LORD discount sequence so it
// sums to one over an infinite horizon.
const defaultDiscountScale = 0.07720838

// DefaultDiscount returns the first n terms of the standard LORD discount
// sequence, gamma_j proportional to log(max(j,2)) / (j * exp(sqrt(log j)))
// for 1-based j. The sequence is positive and eventually decreasing.
func DefaultDiscount(n int) []float64 {
	g := make([]float64, n)
	for i := range g {
		j := float64(i + 1)
		g[i] = defaultDiscountScale * math.Log(math.Max(j, 2)) / (j * math.Exp(math.Sqrt(math.Log(j))))
	}
	return g
}
