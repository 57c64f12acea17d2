package validator

import (
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar date form written to and shown from the store.
const DateLayout = "2006-01-02"

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse(DateLayout, dateStr)
	return date, err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// Layouts accepted for dates typed into a spreadsheet cell by hand.
var calendarLayouts = []string{
	DateLayout,
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006.1.2",
	"2006. 1. 2",
	"2006-01-02 15:04:05",
	time.RFC3339,
	// month first, as a US-locale sheet displays dates
	"1/2/2006",
	"01/02/2006",
	"1/2/2006 15:04:05",
}

// ParseCalendarDate parses a cell value into a date at UTC midnight.
// Values that match none of the accepted layouts report false.
func ParseCalendarDate(value string) (time.Time, bool) {
	value = strings.TrimSuffix(strings.TrimSpace(value), ".")
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range calendarLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return TruncateDate(t), true
		}
	}
	return time.Time{}, false
}

// spreadsheetEpoch is day zero of spreadsheet serial dates.
var spreadsheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// SerialDate converts a spreadsheet serial day number into a date. The
// fractional part holds the time of day and is dropped.
func SerialDate(serial float64) time.Time {
	return spreadsheetEpoch.AddDate(0, 0, int(math.Floor(serial)))
}

// TruncateDate drops the clock part of t, keeping its calendar day.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
