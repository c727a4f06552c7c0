package stream

import (
	"github.com/montanaflynn/stats"
)

// RunSummary aggregates a run's thresholds and decisions for display and
// persistence. FirstRejection is -1 when nothing was rejected.
type RunSummary struct {
	Rejections     int     `json:"rejections"`
	RejectionRate  float64 `json:"rejection_rate"`
	MeanThreshold  float64 `json:"mean_threshold"`
	MinThreshold   float64 `json:"min_threshold"`
	MaxThreshold   float64 `json:"max_threshold"`
	FirstRejection int     `json:"first_rejection"`
}

// Summarize computes the run summary from flat threshold and decision
// sequences in arrival order.
func Summarize(thresholds []float64, decisions []bool) RunSummary {
	summary := RunSummary{FirstRejection: -1}
	if len(thresholds) == 0 {
		return summary
	}

	for i, rejected := range decisions {
		if rejected {
			summary.Rejections++
			if summary.FirstRejection < 0 {
				summary.FirstRejection = i
			}
		}
	}
	summary.RejectionRate = float64(summary.Rejections) / float64(len(decisions))

	mean, _ := stats.Mean(thresholds)
	min, _ := stats.Min(thresholds)
	max, _ := stats.Max(thresholds)
	summary.MeanThreshold = mean
	summary.MinThreshold = min
	summary.MaxThreshold = max

	return summary
}
