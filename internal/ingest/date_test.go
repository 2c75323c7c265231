package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDateEncodings(t *testing.T) {
	// 40313 is the spreadsheet serial for 2010-05-15.
	cases := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"serial number", float64(40313), "2010-05-15"},
		{"serial as text", "40313", "2010-05-15"},
		{"slash day first", "15/05/2010", "2010-05-15"},
		{"iso", "2010-05-15", "2010-05-15"},
		{"iso datetime", "2010-05-15 00:00:00", "2010-05-15"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeDate(tc.value))
		})
	}
}

func TestNormalizeDateInvalidValuesAreUnset(t *testing.T) {
	for _, value := range []interface{}{
		nil,
		"",
		"not a date",
		"31/02/2020",
		"99/99/9999",
		"0",
		float64(-3),
		float64(99999999),
	} {
		assert.Empty(t, NormalizeDate(value), "value %v", value)
	}
}

func TestNormalizeDateDoesNotShiftAcrossTimezones(t *testing.T) {
	// Explicit field extraction: the day must never roll back to the 14th.
	assert.Equal(t, "2010-05-15", NormalizeDate("15/05/2010"))
	assert.Equal(t, "2010-01-01", NormalizeDate("01/01/2010"))
	assert.Equal(t, "2010-12-31", NormalizeDate("31/12/2010"))
}
