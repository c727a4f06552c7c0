package lord

import "context"

// BatchResult holds the outcome of the batch procedure as matrices shaped
// [batch count][max batch size]. Cells beyond a batch's actual size are
// unused and stay at their zero values.
type BatchResult struct {
	Thresholds [][]float64
	Rejections [][]bool
}

// Batch runs the LORD* procedure over batched arrivals. pvals is the flat
// stream in arrival order, sizes the per-batch test counts, and prefix the
// cumulative batch sizes (prefix[b] = sizes[0]+...+sizes[b]), which supplies
// the batch-to-test-index mapping for discount lookups.
//
// Tests in batch 0 are seeded independently with gammai[x]*w0. Every later
// batch sees the rejection totals of all completed batches and nothing from
// its own batch, so all tests within a batch share one inverted history.
func Batch(ctx context.Context, pvals []float64, sizes, prefix []int, gammai []float64, p Params, progress ProgressFunc) (*BatchResult, error) {
	nb := len(sizes)
	maxSize := 0
	for _, s := range sizes {
		if s > maxSize {
			maxSize = s
		}
	}

	thresholds := make([][]float64, nb)
	rejections := make([][]bool, nb)
	for b := 0; b < nb; b++ {
		thresholds[b] = make([]float64, maxSize)
		rejections[b] = make([]bool, maxSize)
	}
	if nb == 0 {
		return &BatchResult{Thresholds: thresholds, Rejections: rejections}, nil
	}

	var total int64
	for b := 1; b < nb; b++ {
		total += int64(sizes[b])
	}
	m := &meter{total: total, fn: progress}

	for x := 0; x < sizes[0]; x++ {
		thresholds[0][x] = gammai[x] * p.W0
		rejections[0][x] = pvals[x] <= thresholds[0][x]
	}

	// Per-batch rejection totals, finalized as each batch completes.
	// Batches not yet evaluated contribute zero, so the cumulative sequence
	// plateaus and inversion only ever yields completed batch indices.
	rowRejections := make([]int, nb)

	for b := 1; b < nb; b++ {
		rowRejections[b-1] = countRejections(rejections[b-1], sizes[b-1])

		cum := make([]int, nb)
		running := 0
		for k := 0; k < nb; k++ {
			running += rowRejections[k]
			cum[k] = running
		}
		positions, err := InvertCumulative(cum)
		if err != nil {
			return nil, err
		}

		for x := 0; x < sizes[b]; x++ {
			if err := m.tick(ctx); err != nil {
				return nil, err
			}

			t := prefix[b-1] + x
			ages := make([]int, len(positions))
			for g, r := range positions {
				ages[g] = t - prefix[r]
			}
			thresholds[b][x] = threshold(gammai, p, t, ages)
			rejections[b][x] = pvals[t] <= thresholds[b][x]
		}
	}

	return &BatchResult{Thresholds: thresholds, Rejections: rejections}, nil
}

func countRejections(row []bool, size int) int {
	n := 0
	for _, r := range row[:size] {
		if r {
			n++
		}
	}
	return n
}
