// Package lord implements the LORD* family of online false discovery rate
// procedures: threshold recursions over a sequentially observed stream of
// p-values where each test's significance threshold depends on which earlier
// rejections are visible at that step. Three visibility regimes are
// supported: asynchronous decision horizons, fixed local-dependence lags,
// and batched arrivals.
//
// The engine consumes plain numeric sequences and returns plain numeric
// sequences. Length consistency and numeric domain are the caller's
// contract: a discount sequence that is too short surfaces as an index
// bounds panic rather than being silently clamped.
package lord

import "context"

// Params holds the spending parameters shared by all procedures.
type Params struct {
	W0    float64 // initial-wealth fraction
	Alpha float64 // target FDR level
}

// DefaultParams returns the standard LORD* parameters.
func DefaultParams() Params {
	return Params{W0: 0.005, Alpha: 0.05}
}

// visibilityRule reports whether the decision of earlier test j is visible
// when computing the threshold for test i. Rules must be monotone in i:
// once visible, a decision stays visible.
type visibilityRule func(i, j int) bool

// run is the recursion shared by the asynchronous and dependent procedures.
// Step 0 is seeded with gammai[0]*w0 and no history; every later step scans
// the finalized decisions under the visibility rule, inverts the cumulative
// visible-rejection counts, and applies the threshold formula.
func run(ctx context.Context, pvals, gammai []float64, p Params, visible visibilityRule, progress ProgressFunc) ([]float64, []bool, error) {
	n := len(pvals)
	thresholds := make([]float64, n)
	decisions := make([]bool, n)
	if n == 0 {
		return thresholds, decisions, nil
	}

	thresholds[0] = gammai[0] * p.W0
	decisions[0] = pvals[0] <= thresholds[0]

	visibleCounts := make([]int, 0, n-1)
	m := &meter{total: int64(n) * int64(n), fn: progress}

	for i := 1; i < n; i++ {
		count := 0
		for j := 0; j < i; j++ {
			if err := m.tick(ctx); err != nil {
				return nil, nil, err
			}
			if decisions[j] && visible(i, j) {
				count++
			}
		}
		visibleCounts = append(visibleCounts, count)

		positions, err := InvertCumulative(visibleCounts)
		if err != nil {
			return nil, nil, err
		}

		thresholds[i] = threshold(gammai, p, i, stepAges(i, positions))
		decisions[i] = pvals[i] <= thresholds[i]
	}

	return thresholds, decisions, nil
}

// stepAges converts inverted positions (offsets into the count sequence,
// which starts at step 1) into discount-sequence ages for step i.
func stepAges(i int, positions []int) []int {
	ages := make([]int, len(positions))
	for g, r := range positions {
		ages[g] = i - r - 1
	}
	return ages
}

// threshold applies the three-way LORD* spending formula. ages[g] is the
// discount offset of the (g+1)-th visible rejection; the first rejection
// earns the (alpha - w0) boost, every later one a full alpha boost.
func threshold(gammai []float64, p Params, idx int, ages []int) float64 {
	t := gammai[idx] * p.W0
	if len(ages) == 0 {
		return t
	}
	t += (p.Alpha - p.W0) * gammai[ages[0]]
	for _, age := range ages[1:] {
		t += p.Alpha * gammai[age]
	}
	return t
}
