package core

// DefaultTrendMonths is the window served when a caller names neither a
// period nor an explicit month count.
const DefaultTrendMonths = 12

// SliceTrends returns the most recent months entries of the trend history,
// oldest of the selected window first. Asking for more history than exists
// returns everything; a non-positive count returns an empty window.
func SliceTrends(trends []MonthlyTrend, months int) SpendingTrends {
	if months < 0 {
		months = 0
	}
	if months > len(trends) {
		months = len(trends)
	}
	window := make([]MonthlyTrend, months)
	copy(window, trends[len(trends)-months:])
	return SpendingTrends{Trends: window}
}

// SliceTrendsForPeriod selects the trend window covered by a period. The
// period mapping takes precedence over any explicit count the caller holds.
func SliceTrendsForPeriod(trends []MonthlyTrend, p Period) (SpendingTrends, error) {
	months, err := MonthsForPeriod(p)
	if err != nil {
		return SpendingTrends{}, err
	}
	return SliceTrends(trends, months), nil
}
