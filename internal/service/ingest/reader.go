package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"io"
	"path/filepath"
	"strings"
)

var ErrEmptyFile = errors.New("file has no header row")

// ReadRows parses an export into rows keyed by the header line. The format is
// chosen by extension: .xlsx and .xls are read as workbooks (first sheet),
// everything else as CSV. Short rows get empty cells, extra cells are dropped.
func ReadRows(r io.Reader, fileName string) ([]Row, error) {
	const op = "ingest.ReadRows"

	var (
		records [][]string
		err     error
	)

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx":
		records, err = readXLSX(r)
	case ".xls":
		records, err = readXLS(r)
	default:
		records, err = readCSV(r)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, fileName, err)
	}

	rows, err := toRows(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, fileName, err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}

func readXLS(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, errors.New("no workbook stream found")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("no worksheet found")
	}
	// MaxRow is the last row index; a header-only sheet cannot be told apart
	// from an empty one
	if sheet.MaxRow == 0 {
		return nil, nil
	}
	// ReadAllCells walks every sheet until the row limit is reached, so the
	// limit is the first sheet's own height
	return wb.ReadAllCells(int(sheet.MaxRow) + 1), nil
}

func toRows(records [][]string) ([]Row, error) {
	// leading blank lines are common in hand-edited exports
	for len(records) > 0 && blank(records[0]) {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row := make(Row, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
