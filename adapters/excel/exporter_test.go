package excel

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"onlinefdr/domain/core"
	"onlinefdr/domain/stream"
)

func TestExportRun_Sequential(t *testing.T) {
	artifact := &stream.RunArtifact{
		ID:         core.NewRunID(),
		Kind:       stream.RunAsync,
		W0:         0.005,
		Alpha:      0.05,
		NumTests:   3,
		PValues:    []float64{0.001, 0.5, 0.02},
		Thresholds: []float64{0.002, 0.019, 0.012},
		Decisions:  []bool{true, false, false},
		CreatedAt:  core.Now(),
	}
	artifact.Summary = stream.Summarize(artifact.Thresholds, artifact.Decisions)

	path := filepath.Join(t.TempDir(), "run.xlsx")
	if err := NewResultExporter().ExportRun(artifact, path); err != nil {
		t.Fatalf("ExportRun failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Results")
	if err != nil {
		t.Fatalf("missing Results sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "index" || rows[0][3] != "decision" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][1] != "0.001" {
		t.Errorf("unexpected first p-value cell: %q", rows[1][1])
	}

	summary, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("missing Summary sheet: %v", err)
	}
	if len(summary) == 0 || summary[0][0] != "run_id" {
		t.Errorf("unexpected summary sheet: %v", summary)
	}
}

func TestExportRun_BatchMatrices(t *testing.T) {
	artifact := &stream.RunArtifact{
		ID:         core.NewRunID(),
		Kind:       stream.RunBatch,
		W0:         0.005,
		Alpha:      0.05,
		NumTests:   3,
		PValues:    []float64{0.001, 0.5, 0.02},
		BatchSizes: []int{2, 1},
		ThresholdMatrix: [][]float64{
			{0.002, 0.019},
			{0.012, 0},
		},
		DecisionMatrix: [][]bool{
			{true, false},
			{false, false},
		},
		CreatedAt: core.Now(),
	}
	artifact.Summary = stream.Summarize(artifact.FlatThresholds(), artifact.FlatDecisions())

	path := filepath.Join(t.TempDir(), "batch.xlsx")
	if err := NewResultExporter().ExportRun(artifact, path); err != nil {
		t.Fatalf("ExportRun failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	thresholds, err := f.GetRows("Thresholds")
	if err != nil {
		t.Fatalf("missing Thresholds sheet: %v", err)
	}
	if len(thresholds) != 2 || thresholds[0][0] != "batch_0" {
		t.Errorf("unexpected thresholds sheet: %v", thresholds)
	}
	// Batch 1 has one test; the padded cell must stay empty.
	if len(thresholds[1]) > 2 {
		t.Errorf("padded matrix cell leaked into export: %v", thresholds[1])
	}

	if _, err := f.GetRows("Decisions"); err != nil {
		t.Fatalf("missing Decisions sheet: %v", err)
	}

	results, err := f.GetRows("Results")
	if err != nil {
		t.Fatalf("missing Results sheet: %v", err)
	}
	if len(results) != 4 {
		t.Errorf("batch export should flatten to 3 result rows, got %d", len(results)-1)
	}
}
