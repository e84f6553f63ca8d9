package domain

import (
	"fmt"
	"time"
)

// DateLayout is the canonical text form of a date.
const DateLayout = "2006-01-02"

// RangeKind tells which selection predicate a DateRange applies.
type RangeKind int

const (
	RangeAll RangeKind = iota
	RangeExplicit
	RangeLastDays
)

// DateRange is built once per pipeline run from user input.
type DateRange struct {
	Kind  RangeKind
	Start time.Time
	End   time.Time
	Days  int
}

// Between builds an inclusive [start, end] range over calendar dates.
func Between(start, end time.Time) DateRange {
	return DateRange{Kind: RangeExplicit, Start: DateOf(start), End: DateOf(end)}
}

// LastDays builds a relative window ending now.
func LastDays(n int) DateRange {
	return DateRange{Kind: RangeLastDays, Days: n}
}

// AllDates selects every record.
func AllDates() DateRange {
	return DateRange{Kind: RangeAll}
}

// Validate checks the range before any fetch is made.
func (r DateRange) Validate() error {
	switch r.Kind {
	case RangeAll:
		return nil
	case RangeExplicit:
		if r.Start.After(r.End) {
			return &ConfigError{
				Kind:    InvalidRange,
				Message: fmt.Sprintf("start date %s is after end date %s", r.Start.Format(DateLayout), r.End.Format(DateLayout)),
			}
		}
		return nil
	case RangeLastDays:
		if r.Days <= 0 {
			return &ConfigError{Kind: InvalidRange, Message: fmt.Sprintf("relative window must be positive, got %d days", r.Days)}
		}
		return nil
	default:
		return &ConfigError{Kind: InvalidRange, Message: fmt.Sprintf("unknown range kind %d", r.Kind)}
	}
}

// Contains reports whether date falls inside the range; today anchors relative windows.
func (r DateRange) Contains(date, today time.Time) bool {
	switch r.Kind {
	case RangeExplicit:
		return !date.Before(r.Start) && !date.After(r.End)
	case RangeLastDays:
		return !date.Before(DateOf(today).AddDate(0, 0, -r.Days))
	default:
		return true
	}
}

func (r DateRange) String() string {
	switch r.Kind {
	case RangeExplicit:
		return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
	case RangeLastDays:
		return fmt.Sprintf("last %d days", r.Days)
	default:
		return "all"
	}
}
