// Package ingest turns uploaded spreadsheets into loosely-typed row records.
// It absorbs format variability (CSV vs XLSX, heterogeneous date encodings)
// before the stricter schema validation runs.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/z12guilherme/gestao-atipicos/internal/models"
)

// Rows parses an uploaded file into ordered RawRow records, using the first
// row as the column-name header. The format is picked by file extension;
// anything that is not .xlsx is treated as delimited text.
func Rows(filename string, r io.Reader) ([]models.RawRow, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return rowsFromXLSX(r)
	}
	return rowsFromCSV(r)
}

func rowsFromCSV(r io.Reader) ([]models.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []models.RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, rowFromRecord(header, record))
	}
	return rows, nil
}

func rowsFromXLSX(r io.Reader) ([]models.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet rows: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]models.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, rowFromRecord(header, record))
	}
	return rows, nil
}

func rowFromRecord(header, record []string) models.RawRow {
	row := make(models.RawRow, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		if i < len(record) {
			row[name] = record[i]
		} else {
			row[name] = ""
		}
	}
	return row
}

// DropBlank removes rows whose required "name" column is missing or blank.
// Spreadsheet tools routinely emit trailing empty rows; those are not data
// errors and never reach validation.
func DropBlank(rows []models.RawRow) []models.RawRow {
	kept := make([]models.RawRow, 0, len(rows))
	for _, row := range rows {
		if row == nil || row.Name() == "" {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}
