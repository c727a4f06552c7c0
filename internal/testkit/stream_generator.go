package testkit

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// StreamConfig controls synthetic p-value stream generation. Null tests
// draw uniform p-values; signal tests draw a normal test statistic with
// the given mean and convert it to a one-sided p-value.
type StreamConfig struct {
	N              int
	SignalFraction float64 // fraction of tests carrying real signal
	SignalMean     float64 // mean shift of the signal test statistic
	Seed           int64
}

// DefaultStreamConfig returns a stream with sparse, clearly separated signal
func DefaultStreamConfig(n int) StreamConfig {
	return StreamConfig{
		N:              n,
		SignalFraction: 0.1,
		SignalMean:     3.0,
		Seed:           42,
	}
}

// GenerateStream produces a deterministic p-value stream and the ground
// truth of which tests carry signal.
func GenerateStream(cfg StreamConfig) (pvals []float64, signal []bool) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	pvals = make([]float64, cfg.N)
	signal = make([]bool, cfg.N)

	for i := 0; i < cfg.N; i++ {
		if rng.Float64() < cfg.SignalFraction {
			z := rng.NormFloat64() + cfg.SignalMean
			pvals[i] = 1 - distuv.UnitNormal.CDF(z)
			signal[i] = true
		} else {
			pvals[i] = rng.Float64()
		}
	}
	return pvals, signal
}

// ImmediateHorizons returns horizons where every decision is available at
// the next step.
func ImmediateHorizons(n int) []int {
	horizons := make([]int, n)
	for i := range horizons {
		horizons[i] = i + 1
	}
	return horizons
}

// ConstantLags returns a lag schedule with the same lag at every step
func ConstantLags(n, lag int) []int {
	lags := make([]int, n)
	for i := range lags {
		lags[i] = lag
	}
	return lags
}

// EvenBatches splits n tests into batches of the given size, with a
// shorter final batch if size does not divide n.
func EvenBatches(n, size int) []int {
	var sizes []int
	for remaining := n; remaining > 0; remaining -= size {
		if remaining < size {
			sizes = append(sizes, remaining)
		} else {
			sizes = append(sizes, size)
		}
	}
	return sizes
}
