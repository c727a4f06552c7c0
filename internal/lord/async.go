package lord

import "context"

// AsyncResult holds the outcome of the asynchronous procedure: the echoed
// p-values plus one threshold and one decision per test.
type AsyncResult struct {
	PValues    []float64
	Thresholds []float64
	Rejections []bool
}

// Async runs the asynchronous LORD* procedure. horizons[j] is the step at
// which test j's decision becomes known; the rejection of j is visible to
// test i exactly when horizons[j] <= i. Horizons of j+1 (decision available
// at the next step) reduce the procedure to the fully sequential case.
//
// The run is strictly sequential in test index. Cancelling ctx aborts the
// whole run with no result.
func Async(ctx context.Context, pvals []float64, horizons []int, gammai []float64, p Params, progress ProgressFunc) (*AsyncResult, error) {
	thresholds, decisions, err := run(ctx, pvals, gammai, p, horizonRule(horizons), progress)
	if err != nil {
		return nil, err
	}
	return &AsyncResult{
		PValues:    append([]float64(nil), pvals...),
		Thresholds: thresholds,
		Rejections: decisions,
	}, nil
}

func horizonRule(horizons []int) visibilityRule {
	return func(i, j int) bool {
		return horizons[j] <= i
	}
}
