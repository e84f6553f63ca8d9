package rangefilter

import (
	"slices"
	"time"

	"SentimentExporter/internal/domain"
)

// Filter selects records inside a DateRange and orders them newest first.
type Filter struct {
	now func() time.Time
}

// New returns a Filter anchored on now; a nil clock means time.Now.
func New(now func() time.Time) *Filter {
	if now == nil {
		now = time.Now
	}
	return &Filter{now: now}
}

// Apply returns a new table; same-date records keep their input order.
func (f *Filter) Apply(table domain.Table, rng domain.DateRange) domain.Table {
	today := f.now()
	out := make(domain.Table, 0, len(table))
	for _, rec := range table {
		if rng.Contains(rec.Date, today) {
			out = append(out, rec)
		}
	}

	slices.SortStableFunc(out, func(a, b domain.Record) int {
		return b.Date.Compare(a.Date)
	})
	return out
}
