package stream

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	thresholds := []float64{0.002, 0.019, 0.012, 0.007}
	decisions := []bool{true, false, true, false}

	s := Summarize(thresholds, decisions)

	if s.Rejections != 2 {
		t.Errorf("expected 2 rejections, got %d", s.Rejections)
	}
	if math.Abs(s.RejectionRate-0.5) > 1e-15 {
		t.Errorf("expected rejection rate 0.5, got %g", s.RejectionRate)
	}
	if s.FirstRejection != 0 {
		t.Errorf("expected first rejection at 0, got %d", s.FirstRejection)
	}
	if math.Abs(s.MeanThreshold-0.01) > 1e-12 {
		t.Errorf("expected mean threshold 0.01, got %g", s.MeanThreshold)
	}
	if s.MinThreshold != 0.002 || s.MaxThreshold != 0.019 {
		t.Errorf("unexpected min/max: %g/%g", s.MinThreshold, s.MaxThreshold)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil)
	if s.Rejections != 0 || s.FirstRejection != -1 {
		t.Errorf("unexpected empty summary: %+v", s)
	}
}

func TestValidate_Async(t *testing.T) {
	req := AsyncRequest{
		PValues:  []float64{0.1, 0.2},
		Horizons: []int{1, 2},
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	req.Horizons = []int{1}
	if err := req.Validate(); err == nil {
		t.Error("expected length mismatch error")
	}

	req.Horizons = []int{1, 2}
	req.PValues = []float64{0.1, 1.5}
	if err := req.Validate(); err == nil {
		t.Error("expected out-of-range p-value error")
	}
}

func TestValidate_Batch(t *testing.T) {
	req := BatchRequest{
		PValues:    []float64{0.1, 0.2, 0.3},
		BatchSizes: []int{2, 1},
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	prefix := req.PrefixSums()
	if len(prefix) != 2 || prefix[0] != 2 || prefix[1] != 3 {
		t.Errorf("unexpected prefix sums: %v", prefix)
	}

	req.BatchSizes = []int{2, 2}
	if err := req.Validate(); err == nil {
		t.Error("expected batch size sum mismatch error")
	}
}

func TestFlatDecisions_Batch(t *testing.T) {
	a := &RunArtifact{
		Kind:       RunBatch,
		NumTests:   3,
		BatchSizes: []int{2, 1},
		DecisionMatrix: [][]bool{
			{true, false},
			{true, false}, // second cell unused
		},
		ThresholdMatrix: [][]float64{
			{0.002, 0.001},
			{0.01, 0},
		},
	}

	flat := a.FlatDecisions()
	if len(flat) != 3 {
		t.Fatalf("expected 3 flat decisions, got %d", len(flat))
	}
	if !flat[0] || flat[1] || !flat[2] {
		t.Errorf("unexpected flat decisions: %v", flat)
	}
	if th := a.FlatThresholds(); len(th) != 3 || th[2] != 0.01 {
		t.Errorf("unexpected flat thresholds: %v", th)
	}
}
