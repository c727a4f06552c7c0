package lord

import "context"

// ProgressFunc receives one callback per unit of inner work: one per
// history-scan iteration for the sequential procedures (total n*n), one per
// non-seed test for the batch procedure. The scan totals overcount the
// triangular loop, so completed never reaches total for the sequential
// variants; callers wanting a percentage should treat it as an upper bound.
type ProgressFunc func(completed, total int64)

// meter combines progress reporting with the cooperative cancellation
// checkpoint. A non-nil error from tick means the run must abort and
// return no result.
type meter struct {
	done  int64
	total int64
	fn    ProgressFunc
}

func (m *meter) tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.done++
	if m.fn != nil {
		m.fn(m.done, m.total)
	}
	return nil
}
