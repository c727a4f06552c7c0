package testkit

import "testing"

func TestGenerateStream_Deterministic(t *testing.T) {
	cfg := DefaultStreamConfig(200)

	first, firstSignal := GenerateStream(cfg)
	second, secondSignal := GenerateStream(cfg)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("p-value %d differs between identically seeded streams", i)
		}
		if firstSignal[i] != secondSignal[i] {
			t.Fatalf("signal flag %d differs between identically seeded streams", i)
		}
	}
}

func TestGenerateStream_Domain(t *testing.T) {
	pvals, signal := GenerateStream(DefaultStreamConfig(500))

	signals := 0
	for i, p := range pvals {
		if p < 0 || p > 1 {
			t.Errorf("p-value %d outside [0,1]: %g", i, p)
		}
		if signal[i] {
			signals++
		}
	}
	// 10% signal fraction over 500 tests; allow generous slack.
	if signals < 20 || signals > 100 {
		t.Errorf("unexpected signal count: %d", signals)
	}
}

func TestEvenBatches(t *testing.T) {
	sizes := EvenBatches(10, 4)
	if len(sizes) != 3 || sizes[0] != 4 || sizes[1] != 4 || sizes[2] != 2 {
		t.Errorf("unexpected batch sizes: %v", sizes)
	}

	total := 0
	for _, s := range sizes {
		total += s
	}
	if total != 10 {
		t.Errorf("batch sizes sum to %d, expected 10", total)
	}
}
