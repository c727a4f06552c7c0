package lord

import "context"

// DependentResult holds the outcome of the dependency/lag procedure with the
// p-values and lags echoed alongside thresholds and decisions.
type DependentResult struct {
	PValues    []float64
	Lags       []int
	Thresholds []float64
	Rejections []bool
}

// Dependent runs the LORD* procedure under local serial dependence. A
// rejection at step j is visible to step i only when j lies more than
// lags[i] steps back, i.e. j < i - lags[i]. A lag covering the whole
// history leaves the step with zero visible rejections and the bare
// gammai[i]*w0 threshold.
func Dependent(ctx context.Context, pvals []float64, lags []int, gammai []float64, p Params, progress ProgressFunc) (*DependentResult, error) {
	thresholds, decisions, err := run(ctx, pvals, gammai, p, lagRule(lags), progress)
	if err != nil {
		return nil, err
	}
	return &DependentResult{
		PValues:    append([]float64(nil), pvals...),
		Lags:       append([]int(nil), lags...),
		Thresholds: thresholds,
		Rejections: decisions,
	}, nil
}

func lagRule(lags []int) visibilityRule {
	return func(i, j int) bool {
		return j < i-lags[i]
	}
}
