package core

import "time"

// BuildSummary derives the headline figures for a period directly from the
// transaction list: total spend, count, average ticket, highest-spend
// category, and the change versus the previous window of equal length.
//
// Fixture datasets carry canned summaries instead; this derivation is used
// by producers that hold raw transactions only (the SQLite store).
func BuildSummary(txns []Transaction, categories []Category, p Period, ref time.Time) (SpendingSummary, error) {
	rng, err := ResolveRange(p, ref)
	if err != nil {
		return SpendingSummary{}, err
	}

	current := AggregateByCategory(txns, rng, categories)
	count := 0
	for _, c := range current.Categories {
		count += c.TransactionCount
	}

	summary := SpendingSummary{
		Period:           p,
		TotalSpent:       current.TotalAmount,
		TransactionCount: count,
	}
	if count > 0 {
		summary.AverageTransaction = Round2(current.TotalAmount / float64(count))
	}
	if len(current.Categories) > 0 {
		summary.TopCategory = current.Categories[0].Name
	}

	prev := AggregateByCategory(txns, previousWindow(rng), categories)
	prevCount := 0
	for _, c := range prev.Categories {
		prevCount += c.TransactionCount
	}
	summary.ComparedToPrevious = ChangeComparison{
		SpentChange:       percentChange(prev.TotalAmount, current.TotalAmount),
		TransactionChange: percentChange(float64(prevCount), float64(count)),
	}
	return summary, nil
}

// previousWindow shifts a range back by its own length, keeping it adjacent:
// the previous window ends the day before the current one starts.
func previousWindow(rng DateRange) DateRange {
	start, _ := time.Parse(time.DateOnly, rng.StartDate)
	end, _ := time.Parse(time.DateOnly, rng.EndDate)
	days := int(end.Sub(start).Hours() / 24)
	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -days)
	return DateRange{
		StartDate: prevStart.Format(time.DateOnly),
		EndDate:   prevEnd.Format(time.DateOnly),
	}
}

// percentChange returns the signed change from prev to cur, rounded to one
// decimal. From zero, any growth reads as +100%.
func percentChange(prev, cur float64) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	return Round1((cur - prev) / prev * 100)
}
