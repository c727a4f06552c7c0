package stream

import (
	"fmt"
	"math"

	"onlinefdr/domain/core"
)

// RunKind identifies which visibility regime a screening run used.
type RunKind string

const (
	RunAsync     RunKind = "async"     // per-test decision horizons
	RunDependent RunKind = "dependent" // fixed local-dependence lags
	RunBatch     RunKind = "batch"     // batched arrivals
)

// Spending holds the significance-budget parameters of a run. Zero values
// mean "use the procedure defaults" (w0 = 0.005, alpha = 0.05).
type Spending struct {
	W0    float64 `json:"w0"`
	Alpha float64 `json:"alpha"`
}

// AsyncRequest describes one asynchronous screening run.
type AsyncRequest struct {
	PValues  []float64 `json:"p_values"`
	Horizons []int     `json:"horizons"`
	Discount []float64 `json:"discount,omitempty"` // defaults to the standard LORD sequence
	Spending Spending  `json:"spending"`
}

// DependentRequest describes one dependency/lag screening run.
type DependentRequest struct {
	PValues  []float64 `json:"p_values"`
	Lags     []int     `json:"lags"`
	Discount []float64 `json:"discount,omitempty"`
	Spending Spending  `json:"spending"`
}

// BatchRequest describes one batched screening run. PValues is the flat
// stream in arrival order; BatchSizes partitions it.
type BatchRequest struct {
	PValues    []float64 `json:"p_values"`
	BatchSizes []int     `json:"batch_sizes"`
	Discount   []float64 `json:"discount,omitempty"`
	Spending   Spending  `json:"spending"`
}

// Validate checks the caller-side contract the threshold engine itself does
// not enforce: length consistency, finiteness, and p-value domain.
func (r AsyncRequest) Validate() error {
	if err := validateStream(r.PValues, r.Discount); err != nil {
		return err
	}
	if len(r.Horizons) != len(r.PValues) {
		return fmt.Errorf("horizons length %d does not match %d p-values", len(r.Horizons), len(r.PValues))
	}
	return nil
}

// Validate checks the caller-side contract for a dependent run.
func (r DependentRequest) Validate() error {
	if err := validateStream(r.PValues, r.Discount); err != nil {
		return err
	}
	if len(r.Lags) != len(r.PValues) {
		return fmt.Errorf("lags length %d does not match %d p-values", len(r.Lags), len(r.PValues))
	}
	for i, lag := range r.Lags {
		if lag < 0 {
			return fmt.Errorf("lag %d is negative", i)
		}
	}
	return nil
}

// Validate checks the caller-side contract for a batch run.
func (r BatchRequest) Validate() error {
	if err := validateStream(r.PValues, r.Discount); err != nil {
		return err
	}
	total := 0
	for i, size := range r.BatchSizes {
		if size < 0 {
			return fmt.Errorf("batch size %d is negative", i)
		}
		total += size
	}
	if total != len(r.PValues) {
		return fmt.Errorf("batch sizes sum to %d but %d p-values supplied", total, len(r.PValues))
	}
	return nil
}

// PrefixSums returns the cumulative batch sizes used for the
// batch-to-test-index mapping.
func (r BatchRequest) PrefixSums() []int {
	prefix := make([]int, len(r.BatchSizes))
	running := 0
	for i, size := range r.BatchSizes {
		running += size
		prefix[i] = running
	}
	return prefix
}

func validateStream(pvals, discount []float64) error {
	if len(pvals) == 0 {
		return fmt.Errorf("p-value stream is empty")
	}
	for i, p := range pvals {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("p-value %d is not finite", i)
		}
		if p < 0 || p > 1 {
			return fmt.Errorf("p-value %d is outside [0,1]: %g", i, p)
		}
	}
	if discount != nil && len(discount) < len(pvals) {
		return fmt.Errorf("discount sequence length %d shorter than %d p-values", len(discount), len(pvals))
	}
	for i, g := range discount {
		if math.IsNaN(g) || math.IsInf(g, 0) || g < 0 {
			return fmt.Errorf("discount term %d must be a finite non-negative value", i)
		}
	}
	return nil
}

// Input is a p-value stream loaded from an external source, carrying
// whichever per-variant schedule columns the source provided.
type Input struct {
	PValues    []float64 `json:"p_values"`
	Horizons   []int     `json:"horizons,omitempty"`
	Lags       []int     `json:"lags,omitempty"`
	BatchSizes []int     `json:"batch_sizes,omitempty"`
}

// RunArtifact is the immutable record of one completed screening run.
// Decisions and thresholds are computed once and never revised.
type RunArtifact struct {
	ID   core.RunID `json:"id"`
	Kind RunKind    `json:"kind"`

	W0       float64 `json:"w0"`
	Alpha    float64 `json:"alpha"`
	NumTests int     `json:"num_tests"`

	PValues    []float64 `json:"p_values"`
	Horizons   []int     `json:"horizons,omitempty"`
	Lags       []int     `json:"lags,omitempty"`
	BatchSizes []int     `json:"batch_sizes,omitempty"`

	// Sequential variants.
	Thresholds []float64 `json:"thresholds,omitempty"`
	Decisions  []bool    `json:"decisions,omitempty"`

	// Batch variant, shaped [batch count][max batch size].
	ThresholdMatrix [][]float64 `json:"threshold_matrix,omitempty"`
	DecisionMatrix  [][]bool    `json:"decision_matrix,omitempty"`

	Summary   RunSummary     `json:"summary"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// FlatThresholds returns the thresholds in arrival order regardless of
// variant, skipping unused matrix cells.
func (a *RunArtifact) FlatThresholds() []float64 {
	if a.Kind != RunBatch {
		return a.Thresholds
	}
	flat := make([]float64, 0, a.NumTests)
	for b, size := range a.BatchSizes {
		flat = append(flat, a.ThresholdMatrix[b][:size]...)
	}
	return flat
}

// FlatDecisions returns the decisions in arrival order regardless of variant.
func (a *RunArtifact) FlatDecisions() []bool {
	if a.Kind != RunBatch {
		return a.Decisions
	}
	flat := make([]bool, 0, a.NumTests)
	for b, size := range a.BatchSizes {
		flat = append(flat, a.DecisionMatrix[b][:size]...)
	}
	return flat
}
