package models

import (
	"fmt"
	"strconv"
	"strings"
)

// RawRow is one line of an imported spreadsheet before schema validation:
// an unordered mapping of column name to loosely-typed value. Unknown
// columns are carried along and ignored, never rejected.
type RawRow map[string]interface{}

// Name returns the trimmed value of the required "name" column, or "".
func (r RawRow) Name() string {
	return r.String("name")
}

// String coerces a column value to a trimmed string. Numeric values keep
// their shortest decimal form (JSON numbers arrive as float64).
func (r RawRow) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// RowError is one line-indexed diagnostic of an import run. Line numbers are
// 1-based plus one for the header row, so the first data row is line 2.
type RowError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// ImportResult aggregates the outcome of one bulk import invocation.
// Invariant: SuccessCount + ErrorCount equals the number of rows processed
// (blank rows are dropped before processing and count toward neither).
type ImportResult struct {
	SuccessCount int        `json:"successCount"`
	ErrorCount   int        `json:"errorCount"`
	Errors       []RowError `json:"errors"`
}

// AddError records one row-level diagnostic.
func (r *ImportResult) AddError(line int, message string) {
	r.ErrorCount++
	r.Errors = append(r.Errors, RowError{Line: line, Error: message})
}
