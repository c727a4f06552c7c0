package lord

import (
	"errors"
	"testing"
)

func TestInvertCumulative_Positions(t *testing.T) {
	positions, err := InvertCumulative([]int{1, 2, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []int{0, 1, 3}
	if len(positions) != len(expected) {
		t.Fatalf("expected %d positions, got %d", len(expected), len(positions))
	}
	for i, want := range expected {
		if positions[i] != want {
			t.Errorf("position %d: expected %d, got %d", i, want, positions[i])
		}
	}
}

func TestInvertCumulative_TiesResolveLeftmost(t *testing.T) {
	// A jump straight to 2 means both levels invert to the same index.
	positions, err := InvertCumulative([]int{2, 2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}
	if positions[0] != 0 || positions[1] != 0 {
		t.Errorf("expected leftmost ties [0 0], got %v", positions)
	}
}

func TestInvertCumulative_ZeroCounts(t *testing.T) {
	positions, err := InvertCumulative([]int{0, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("expected no positions for all-zero counts, got %v", positions)
	}
}

func TestInvertCumulative_Empty(t *testing.T) {
	positions, err := InvertCumulative(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("expected no positions for empty counts, got %v", positions)
	}
}

func TestInvertCumulative_RejectsDecreasingCounts(t *testing.T) {
	_, err := InvertCumulative([]int{2, 1})
	if !errors.Is(err, ErrNonMonotonicCounts) {
		t.Fatalf("expected ErrNonMonotonicCounts, got %v", err)
	}
}
