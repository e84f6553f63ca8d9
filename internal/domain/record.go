package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canonical field names, in export order.
const (
	FieldDate   = "date"
	FieldValue  = "value"
	FieldRating = "rating"
)

// CanonicalFields lists the canonical columns in their fixed order.
var CanonicalFields = []string{FieldDate, FieldValue, FieldRating}

// RawRecord is a single upstream row keyed by the source's own field names.
type RawRecord map[string]string

// RawTable is the adapter output before normalization. It may be shared
// through the cache, so consumers must treat it as read-only.
type RawTable struct {
	Columns []string
	Rows    []RawRecord
}

// Record is one canonical sentiment observation.
type Record struct {
	Date   time.Time
	Value  decimal.Decimal
	Rating string
}

// Table is an ordered sequence of records. Same-date duplicates are allowed.
type Table []Record

// NewDate returns the calendar date at UTC midnight.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Bounds returns the earliest and latest dates in the table.
func (t Table) Bounds() (minDate, maxDate time.Time, ok bool) {
	if len(t) == 0 {
		return time.Time{}, time.Time{}, false
	}
	minDate, maxDate = t[0].Date, t[0].Date
	for _, rec := range t[1:] {
		if rec.Date.Before(minDate) {
			minDate = rec.Date
		}
		if rec.Date.After(maxDate) {
			maxDate = rec.Date
		}
	}
	return minDate, maxDate, true
}
