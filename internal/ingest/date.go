package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Spreadsheet serials count days from this epoch (the 1900 date system with
// its leap-year quirk already folded in).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxSerial is 9999-12-31 in serial days; larger numbers are not dates.
const maxSerial = 2958465

// NormalizeDate converts the heterogeneous date encodings spreadsheet tools
// emit into ISO "2006-01-02" form. A small integer is read as a date serial;
// "DD/MM/YYYY" is rebuilt by explicit field extraction so no timezone math
// can shift the day; anything else is parsed permissively. An unparseable
// value yields "" rather than an error - whether that matters is for the
// schema validation to decide.
func NormalizeDate(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format("2006-01-02")
	case float64:
		return fromSerial(v)
	case int:
		return fromSerial(float64(v))
	case string:
		return fromString(strings.TrimSpace(v))
	default:
		return fromString(strings.TrimSpace(fmt.Sprint(value)))
	}
}

func fromSerial(serial float64) string {
	if serial < 1 || serial > maxSerial {
		return ""
	}
	return serialEpoch.AddDate(0, 0, int(serial)).Format("2006-01-02")
}

func fromString(raw string) string {
	if raw == "" {
		return ""
	}

	// Bare numbers are serials even when they arrive as text.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		return fromSerial(serial)
	}

	if parts := strings.Split(raw, "/"); len(parts) == 3 {
		day, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
		month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
		year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
		if errD == nil && errM == nil && errY == nil {
			return checkedDate(year, month, day)
		}
		return ""
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// checkedDate rejects field values that time.Date would silently roll over
// (e.g. 31/02 becoming March 3rd).
func checkedDate(year, month, day int) string {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return ""
	}
	return t.Format("2006-01-02")
}
