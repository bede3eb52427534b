package core

import "sort"

type categoryBucket struct {
	cents int64
	count int
}

// AggregateByCategory groups the transactions falling inside the range by
// category name and computes per-category totals, counts and shares of the
// range total.
//
// Only categories with at least one transaction in range appear in the
// output. Amounts are rounded to the cent, percentages to one decimal place
// (both half-up); a zero total yields zero percentages across the board.
// The result is sorted by amount descending; ties keep the order of the
// known-category list.
func AggregateByCategory(txns []Transaction, rng DateRange, categories []Category) SpendingByCategory {
	buckets := make(map[string]*categoryBucket, len(categories))
	for _, t := range txns {
		if !rng.Contains(t.Date) {
			continue
		}
		b := buckets[t.Category]
		if b == nil {
			b = &categoryBucket{}
			buckets[t.Category] = b
		}
		b.cents += Cents(t.Amount)
		b.count++
	}

	var totalCents int64
	rows := make([]CategorySpending, 0, len(buckets))
	for _, c := range categories {
		b, ok := buckets[c.Name]
		if !ok || b.count == 0 {
			continue
		}
		totalCents += b.cents
		rows = append(rows, CategorySpending{
			Name:             c.Name,
			Amount:           FromCents(b.cents),
			TransactionCount: b.count,
			Color:            c.Color,
			Icon:             c.Icon,
		})
	}

	total := FromCents(totalCents)
	for i := range rows {
		if totalCents > 0 {
			rows[i].Percentage = Round1(rows[i].Amount / total * 100)
		}
	}

	// Stable: equal amounts keep known-category order.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Amount > rows[j].Amount
	})

	return SpendingByCategory{
		DateRange:   rng,
		TotalAmount: total,
		Categories:  rows,
	}
}
