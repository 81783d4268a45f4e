package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/avolkov/sales-dashboard/internal/storage"
)

// rawRow is one unprocessed input row with every field as written in the
// source, kept with its origin for batch-failure messages.
type rawRow struct {
	product  string
	price    string
	quantity string
	date     string
	region   string
	source   string
	line     int
}

// readRows loads one raw daily export. The format is picked by extension:
// .xlsx via excelize, anything else as delimited text.
func readRows(data []byte, path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(data)
	}
	return readCSV(data)
}

func readCSV(data []byte) ([][]string, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// fetch resolves a source path to bytes; gs:// URIs come from object
// storage, everything else from the local filesystem.
var fetch = storage.Fetch
