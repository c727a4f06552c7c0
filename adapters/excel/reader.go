package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"onlinefdr/domain/stream"
	"onlinefdr/internal/errors"

	"github.com/xuri/excelize/v2"
)

// StreamReader reads p-value streams from Excel and CSV files. The first
// row is a header; the pvalue column is required, and optional horizon,
// lag and batch columns feed the corresponding run variants. The batch
// column holds a 0-based batch index per test and must be contiguous and
// non-decreasing.
type StreamReader struct{}

// NewStreamReader creates a new stream file reader
func NewStreamReader() *StreamReader {
	return &StreamReader{}
}

// ReadStream reads a p-value stream from the given .xlsx or .csv file
func (r *StreamReader) ReadStream(path string) (*stream.Input, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.InvalidInput(fmt.Sprintf("stream file not found: %s", path))
	}

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSVRows(path)
	case ".xlsx":
		rows, err = readExcelRows(path)
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", filepath.Ext(path)))
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, errors.InvalidInput("stream file must have a header row and at least one data row")
	}
	return parseRows(rows)
}

func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read Sheet1")
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}
	return rows, nil
}

func parseRows(rows [][]string) (*stream.Input, error) {
	cols := map[string]int{}
	for i, header := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(header))] = i
	}
	pvalCol, ok := cols["pvalue"]
	if !ok {
		return nil, errors.InvalidInput("stream file missing pvalue column")
	}
	horizonCol, hasHorizons := cols["horizon"]
	lagCol, hasLags := cols["lag"]
	batchCol, hasBatches := cols["batch"]

	input := &stream.Input{}
	var batchIndexes []int
	for rowIdx, row := range rows[1:] {
		p, err := cellFloat(row, pvalCol)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d: bad pvalue: %v", rowIdx+2, err))
		}
		input.PValues = append(input.PValues, p)

		if hasHorizons {
			h, err := cellInt(row, horizonCol)
			if err != nil {
				return nil, errors.InvalidInput(fmt.Sprintf("row %d: bad horizon: %v", rowIdx+2, err))
			}
			input.Horizons = append(input.Horizons, h)
		}
		if hasLags {
			l, err := cellInt(row, lagCol)
			if err != nil {
				return nil, errors.InvalidInput(fmt.Sprintf("row %d: bad lag: %v", rowIdx+2, err))
			}
			input.Lags = append(input.Lags, l)
		}
		if hasBatches {
			b, err := cellInt(row, batchCol)
			if err != nil {
				return nil, errors.InvalidInput(fmt.Sprintf("row %d: bad batch index: %v", rowIdx+2, err))
			}
			batchIndexes = append(batchIndexes, b)
		}
	}

	if hasBatches {
		sizes, err := batchSizes(batchIndexes)
		if err != nil {
			return nil, err
		}
		input.BatchSizes = sizes
	}
	return input, nil
}

// batchSizes collapses per-test batch indexes into a size list
func batchSizes(indexes []int) ([]int, error) {
	var sizes []int
	for i, idx := range indexes {
		if idx != len(sizes)-1 && idx != len(sizes) {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d: batch indexes must start at 0 and be contiguous", i+2))
		}
		if idx == len(sizes) {
			sizes = append(sizes, 0)
		}
		sizes[idx]++
	}
	return sizes, nil
}

func cellFloat(row []string, col int) (float64, error) {
	if col >= len(row) {
		return 0, fmt.Errorf("cell missing")
	}
	return strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
}

func cellInt(row []string, col int) (int, error) {
	if col >= len(row) {
		return 0, fmt.Errorf("cell missing")
	}
	return strconv.Atoi(strings.TrimSpace(row[col]))
}
