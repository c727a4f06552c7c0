package lord

import (
	"errors"
	"sort"
)

// ErrNonMonotonicCounts reports a cumulative visible-rejection sequence that
// decreased. Visibility only accumulates, so the procedures never produce
// such a sequence; the check exists so a broken visibility rule fails loudly
// instead of silently corrupting the inversion.
var ErrNonMonotonicCounts = errors.New("cumulative rejection counts decreased")

// InvertCumulative inverts a non-decreasing cumulative count sequence into
// the ordered positions at which each additional count level first appears:
// result[y] is the leftmost index z with counts[z] > y, for y from 0 up to
// the final count. Ties resolve leftmost.
func InvertCumulative(counts []int) ([]int, error) {
	for k := 1; k < len(counts); k++ {
		if counts[k] < counts[k-1] {
			return nil, ErrNonMonotonicCounts
		}
	}
	if len(counts) == 0 {
		return nil, nil
	}

	max := counts[len(counts)-1]
	positions := make([]int, 0, max)
	for y := 0; y < max; y++ {
		z := sort.Search(len(counts), func(k int) bool { return counts[k] > y })
		positions = append(positions, z)
	}
	return positions, nil
}
