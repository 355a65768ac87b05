// Package excel loads observation tables from spreadsheet and CSV files.
// The expected layout is a header row followed by one row per entity:
// entity name, successes, trials.
package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gobayes/domain/bayes"
	"gobayes/domain/core"

	"github.com/xuri/excelize/v2"
)

// ObservationReader handles reading Excel and CSV observation files
type ObservationReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewObservationReader creates a reader that handles both Excel and CSV files
func NewObservationReader(filePath string) *ObservationReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &ObservationReader{filePath: filePath, fileType: fileType}
}

// Read loads all observation rows from the file.
func (r *ObservationReader) Read() ([]bayes.Observation, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *ObservationReader) readExcel() ([]bayes.Observation, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return parseRows(rows)
}

func (r *ObservationReader) readCSV() ([]bayes.Observation, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return parseRows(rows)
}

// parseRows converts raw string rows into observations, skipping the header
// row and any fully empty rows.
func parseRows(rows [][]string) ([]bayes.Observation, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("observation file must have a header row and at least one data row")
	}

	observations := make([]bayes.Observation, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d: need entity, successes, trials; got %d columns", i+2, len(row))
		}

		successes, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad successes %q: %w", i+2, row[1], err)
		}
		trials, err := strconv.ParseInt(strings.TrimSpace(row[2]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad trials %q: %w", i+2, row[2], err)
		}

		obs := bayes.Observation{
			Entity:    core.EntityKey(strings.TrimSpace(row[0])),
			Successes: successes,
			Trials:    trials,
		}
		if err := obs.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		observations = append(observations, obs)
	}

	if len(observations) == 0 {
		return nil, fmt.Errorf("observation file contains no data rows")
	}
	return observations, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
