package lord

import (
	"context"
	"math"
	"testing"
)

func TestDependent_FullLagSeesNothing(t *testing.T) {
	n := 25
	pvals := noisyStream(n, 13)
	lags := make([]int, n)
	for i := range lags {
		lags[i] = i
	}
	gammai := DefaultDiscount(n)
	p := DefaultParams()

	res, err := Dependent(context.Background(), pvals, lags, gammai, p, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < n; i++ {
		want := gammai[i] * p.W0
		if math.Abs(res.Thresholds[i]-want) > 1e-15 {
			t.Errorf("threshold[%d]: expected bare %g, got %g", i, want, res.Thresholds[i])
		}
	}
}

func TestDependent_ZeroLagMatchesImmediateAsync(t *testing.T) {
	n := 40
	pvals := noisyStream(n, 21)
	gammai := DefaultDiscount(n)
	lags := make([]int, n)

	dep, err := Dependent(context.Background(), pvals, lags, gammai, DefaultParams(), nil)
	if err != nil {
		t.Fatalf("dependent: unexpected error: %v", err)
	}
	async, err := Async(context.Background(), pvals, immediateHorizons(n), gammai, DefaultParams(), nil)
	if err != nil {
		t.Fatalf("async: unexpected error: %v", err)
	}

	for i := 0; i < n; i++ {
		if dep.Thresholds[i] != async.Thresholds[i] {
			t.Errorf("threshold[%d]: dependent %g != async %g", i, dep.Thresholds[i], async.Thresholds[i])
		}
		if dep.Rejections[i] != async.Rejections[i] {
			t.Errorf("decision[%d]: dependent %v != async %v", i, dep.Rejections[i], async.Rejections[i])
		}
	}
}

// TestDependent_LagDelaysVisibility pins the lag semantics on a small
// stream: with lag 2 everywhere, the rejection at step 0 first becomes
// visible at step 3.
func TestDependent_LagDelaysVisibility(t *testing.T) {
	pvals := []float64{0.001, 0.9, 0.9, 0.9}
	gammai := []float64{0.4, 0.25, 0.15, 0.1}
	lags := []int{2, 2, 2, 2}
	p := DefaultParams()

	res, err := Dependent(context.Background(), pvals, lags, gammai, p, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Rejections[0] {
		t.Fatal("step 0 should reject at p=0.001")
	}
	// Steps 1 and 2 still see an empty history.
	for i := 1; i <= 2; i++ {
		want := gammai[i] * p.W0
		if math.Abs(res.Thresholds[i]-want) > 1e-15 {
			t.Errorf("threshold[%d]: expected bare %g, got %g", i, want, res.Thresholds[i])
		}
	}
	// Step 3 is the first where the cumulative visible count rises, so the
	// inverted position is 2 (the count sequence covers steps 1..3) and the
	// boost discount is gammai[3-2-1] = gammai[0]: ages count from when a
	// rejection becomes visible, not from when it was made.
	want := gammai[3]*p.W0 + (p.Alpha-p.W0)*gammai[0]
	if math.Abs(res.Thresholds[3]-want) > 1e-15 {
		t.Errorf("threshold[3]: expected %g, got %g", want, res.Thresholds[3])
	}
}

func TestDependent_EchoesLags(t *testing.T) {
	pvals := []float64{0.5, 0.5, 0.5}
	lags := []int{0, 1, 2}

	res, err := Dependent(context.Background(), pvals, lags, []float64{0.4, 0.25, 0.15}, DefaultParams(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, lag := range lags {
		if res.Lags[i] != lag {
			t.Errorf("lag[%d]: expected %d, got %d", i, lag, res.Lags[i])
		}
	}
	// The echo must be a copy, not an alias of the caller's slice.
	lags[0] = 99
	if res.Lags[0] == 99 {
		t.Error("result lags alias the input slice")
	}
}
