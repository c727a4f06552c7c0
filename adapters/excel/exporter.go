package excel

import (
	"fmt"

	"onlinefdr/domain/stream"
	"onlinefdr/internal/errors"

	"github.com/xuri/excelize/v2"
)

// ResultExporter writes run artifacts to .xlsx workbooks. Sequential runs
// get a Results sheet plus a Summary sheet; batch runs additionally get
// Thresholds and Decisions matrix sheets with one row per batch.
type ResultExporter struct{}

// NewResultExporter creates a new Excel result exporter
func NewResultExporter() *ResultExporter {
	return &ResultExporter{}
}

// ExportRun writes the run artifact to the given .xlsx path
func (e *ResultExporter) ExportRun(artifact *stream.RunArtifact, path string) error {
	f := excelize.NewFile()

	if err := writeResultsSheet(f, artifact); err != nil {
		return err
	}
	if err := writeSummarySheet(f, artifact); err != nil {
		return err
	}
	if artifact.Kind == stream.RunBatch {
		if err := writeMatrixSheet(f, "Thresholds", artifact.BatchSizes, artifact.ThresholdMatrix); err != nil {
			return err
		}
		decisions := make([][]float64, len(artifact.DecisionMatrix))
		for b, row := range artifact.DecisionMatrix {
			decisions[b] = make([]float64, len(row))
			for x, d := range row {
				if d {
					decisions[b][x] = 1
				}
			}
		}
		if err := writeMatrixSheet(f, "Decisions", artifact.BatchSizes, decisions); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "failed to save workbook")
	}
	return nil
}

func writeResultsSheet(f *excelize.File, artifact *stream.RunArtifact) error {
	sheet := "Sheet1"
	if err := f.SetSheetName(sheet, "Results"); err != nil {
		return errors.Wrap(err, "failed to rename sheet")
	}
	sheet = "Results"

	headers := []string{"index", "pvalue", "threshold", "decision"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return errors.Wrap(err, "failed to write header")
		}
	}

	thresholds := artifact.Thresholds
	decisions := artifact.Decisions
	if artifact.Kind == stream.RunBatch {
		thresholds = artifact.FlatThresholds()
		decisions = artifact.FlatDecisions()
	}
	for i := range artifact.PValues {
		values := []interface{}{i, artifact.PValues[i], thresholds[i], decisions[i]}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return errors.Wrap(err, "failed to write result row")
			}
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, artifact *stream.RunArtifact) error {
	sheet := "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "failed to create summary sheet")
	}

	rows := [][]interface{}{
		{"run_id", string(artifact.ID)},
		{"kind", string(artifact.Kind)},
		{"w0", artifact.W0},
		{"alpha", artifact.Alpha},
		{"num_tests", artifact.NumTests},
		{"rejections", artifact.Summary.Rejections},
		{"rejection_rate", artifact.Summary.RejectionRate},
		{"mean_threshold", artifact.Summary.MeanThreshold},
		{"first_rejection", artifact.Summary.FirstRejection},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return errors.Wrap(err, "failed to write summary row")
			}
		}
	}
	return nil
}

func writeMatrixSheet(f *excelize.File, name string, sizes []int, matrix [][]float64) error {
	if _, err := f.NewSheet(name); err != nil {
		return errors.Wrap(err, "failed to create matrix sheet")
	}

	for b, row := range matrix {
		label, _ := excelize.CoordinatesToCellName(1, b+1)
		if err := f.SetCellValue(name, label, fmt.Sprintf("batch_%d", b)); err != nil {
			return errors.Wrap(err, "failed to write batch label")
		}
		// Unused trailing cells in shorter batches stay empty.
		for x := 0; x < sizes[b]; x++ {
			cell, _ := excelize.CoordinatesToCellName(x+2, b+1)
			if err := f.SetCellValue(name, cell, row[x]); err != nil {
				return errors.Wrap(err, "failed to write matrix cell")
			}
		}
	}
	return nil
}
