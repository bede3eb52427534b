package core

import (
	"fmt"
	"time"
)

// ResolveRange converts a symbolic period into a concrete inclusive date
// range relative to the reference instant. The end date is always the
// reference date with the time component discarded; 7d/30d/90d subtract that
// many calendar days for the start, 1y subtracts one calendar year.
func ResolveRange(p Period, ref time.Time) (DateRange, error) {
	var start time.Time
	switch p {
	case PeriodWeek:
		start = ref.AddDate(0, 0, -7)
	case PeriodMonth:
		start = ref.AddDate(0, 0, -30)
	case PeriodQuarter:
		start = ref.AddDate(0, 0, -90)
	case PeriodYear:
		start = ref.AddDate(-1, 0, 0)
	default:
		return DateRange{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, p)
	}
	return DateRange{
		StartDate: start.Format(time.DateOnly),
		EndDate:   ref.Format(time.DateOnly),
	}, nil
}

// RangeFromBounds builds a range from explicit YYYY-MM-DD bounds. Explicit
// bounds always take precedence over a period-derived range.
func RangeFromBounds(start, end string) (DateRange, error) {
	r := DateRange{StartDate: start, EndDate: end}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// MonthsForPeriod maps a period to the trend window it covers:
// 7d and 30d fit in one month, 90d in three, 1y in twelve.
func MonthsForPeriod(p Period) (int, error) {
	switch p {
	case PeriodWeek, PeriodMonth:
		return 1, nil
	case PeriodQuarter:
		return 3, nil
	case PeriodYear:
		return 12, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPeriod, p)
	}
}
