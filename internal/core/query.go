package core

import (
	"fmt"
	"sort"
	"time"
)

// DefaultPageLimit is applied when a query does not set a limit.
const DefaultPageLimit = 20

// QueryTransactions applies category filter, date-range filter, sort order
// and pagination to the transaction list and returns one page plus metadata.
//
// Range resolution: explicit startDate/endDate bounds win; otherwise a
// period (if set) is resolved against ref; otherwise no date filter applies.
// Sorts are stable, so equal keys keep their original relative order.
//
// Pagination never errors: an out-of-range offset yields an empty page. A
// zero limit means unset and falls back to the default page size; a negative
// limit yields an empty page, with the metadata echoing the caller's values.
func QueryTransactions(txns []Transaction, f TransactionFilters, ref time.Time) (TransactionsResponse, error) {
	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = SortDateDesc
	}
	if !sortBy.IsValid() {
		return TransactionsResponse{}, fmt.Errorf("%w: %q", ErrUnknownSort, f.SortBy)
	}

	limit := f.Limit
	if limit == 0 {
		limit = DefaultPageLimit
	}
	offset := f.Offset

	var rng *DateRange
	switch {
	case f.StartDate != "" && f.EndDate != "":
		r, err := RangeFromBounds(f.StartDate, f.EndDate)
		if err != nil {
			return TransactionsResponse{}, err
		}
		rng = &r
	case f.Period != "":
		r, err := ResolveRange(f.Period, ref)
		if err != nil {
			return TransactionsResponse{}, err
		}
		rng = &r
	}

	// empty array in JSON rather than null when nothing matches
	filtered := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if rng != nil && !rng.Contains(t.Date) {
			continue
		}
		filtered = append(filtered, t)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		switch sortBy {
		case SortDateAsc:
			return a.Date < b.Date
		case SortAmountDesc:
			return a.Amount > b.Amount
		case SortAmountAsc:
			return a.Amount < b.Amount
		default: // SortDateDesc
			return a.Date > b.Date
		}
	})

	total := len(filtered)
	page := make([]Transaction, 0, min(max(limit, 0), total))
	if limit > 0 && offset >= 0 && offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		page = append(page, filtered[offset:end]...)
	}

	return TransactionsResponse{
		Transactions: page,
		Pagination: Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+limit < total,
		},
	}, nil
}
