package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"spendash/internal/core"
)

func (c *Client) customerPath(suffix string) string {
	return fmt.Sprintf("/api/customers/%s%s", url.PathEscape(c.customerID), suffix)
}

// Profile fetches the customer profile.
func (c *Client) Profile(ctx context.Context) (core.CustomerProfile, error) {
	if c.Local() {
		ds, err := c.dataset(ctx)
		if err != nil {
			return core.CustomerProfile{}, err
		}
		return ds.Profile, nil
	}
	return getJSON[core.CustomerProfile](ctx, c, c.customerPath("/profile"), nil)
}

// SpendingSummary fetches the headline figures for a period. Unknown
// periods are rejected before any request or dataset load.
func (c *Client) SpendingSummary(ctx context.Context, period core.Period) (core.SpendingSummary, error) {
	if !period.IsValid() {
		return core.SpendingSummary{}, fmt.Errorf("%w: %q", core.ErrUnknownPeriod, period)
	}
	if c.Local() {
		ds, err := c.dataset(ctx)
		if err != nil {
			return core.SpendingSummary{}, err
		}
		if s, ok := ds.Summaries[period]; ok {
			return s, nil
		}
		return core.BuildSummary(ds.Transactions, ds.Categories, period, c.now())
	}
	q := url.Values{"period": {string(period)}}
	return getJSON[core.SpendingSummary](ctx, c, c.customerPath("/spending/summary"), q)
}

// SpendingByCategory fetches the category breakdown for an inclusive
// date range.
func (c *Client) SpendingByCategory(ctx context.Context, rng core.DateRange) (core.SpendingByCategory, error) {
	if err := rng.Validate(); err != nil {
		return core.SpendingByCategory{}, err
	}
	if c.Local() {
		ds, err := c.dataset(ctx)
		if err != nil {
			return core.SpendingByCategory{}, err
		}
		return core.AggregateByCategory(ds.Transactions, rng, ds.Categories), nil
	}
	q := url.Values{
		"startDate": {rng.StartDate},
		"endDate":   {rng.EndDate},
	}
	return getJSON[core.SpendingByCategory](ctx, c, c.customerPath("/spending/categories"), q)
}

// SpendingTrends fetches the monthly trend window covering a period.
func (c *Client) SpendingTrends(ctx context.Context, period core.Period) (core.SpendingTrends, error) {
	if !period.IsValid() {
		return core.SpendingTrends{}, fmt.Errorf("%w: %q", core.ErrUnknownPeriod, period)
	}
	if c.Local() {
		ds, err := c.dataset(ctx)
		if err != nil {
			return core.SpendingTrends{}, err
		}
		return core.SliceTrendsForPeriod(ds.Trends, period)
	}
	q := url.Values{"period": {string(period)}}
	return getJSON[core.SpendingTrends](ctx, c, c.customerPath("/spending/trends"), q)
}

// SpendingTrendsWindow fetches the last months monthly aggregates.
func (c *Client) SpendingTrendsWindow(ctx context.Context, months int) (core.SpendingTrends, error) {
	if months < 1 {
		return core.SpendingTrends{}, fmt.Errorf("invalid months %d: must be at least 1", months)
	}
	if c.Local() {
		ds, err := c.dataset(ctx)
		if err != nil {
			return core.SpendingTrends{}, err
		}
		return core.SliceTrends(ds.Trends, months), nil
	}
	q := url.Values{"months": {strconv.Itoa(months)}}
	return getJSON[core.SpendingTrends](ctx, c, c.customerPath("/spending/trends"), q)
}

// Transactions fetches one page of filtered, sorted transactions.
func (c *Client) Transactions(ctx context.Context, filters core.TransactionFilters) (core.TransactionsResponse, error) {
	if c.Local() {
		ds, err := c.dataset(ctx)
		if err != nil {
			return core.TransactionsResponse{}, err
		}
		return core.QueryTransactions(ds.Transactions, filters, c.now())
	}
	q := url.Values{}
	if filters.Category != "" {
		q.Set("category", filters.Category)
	}
	if filters.StartDate != "" {
		q.Set("startDate", filters.StartDate)
	}
	if filters.EndDate != "" {
		q.Set("endDate", filters.EndDate)
	}
	if filters.Period != "" {
		q.Set("period", string(filters.Period))
	}
	if filters.SortBy != "" {
		q.Set("sortBy", string(filters.SortBy))
	}
	if filters.Limit > 0 {
		q.Set("limit", strconv.Itoa(filters.Limit))
	}
	if filters.Offset > 0 {
		q.Set("offset", strconv.Itoa(filters.Offset))
	}
	return getJSON[core.TransactionsResponse](ctx, c, c.customerPath("/transactions"), q)
}

// Goals fetches the monthly spending goals.
func (c *Client) Goals(ctx context.Context) (core.SpendingGoalsResponse, error) {
	if c.Local() {
		ds, err := c.dataset(ctx)
		if err != nil {
			return core.SpendingGoalsResponse{}, err
		}
		return core.SpendingGoalsResponse{Goals: ds.Goals}, nil
	}
	return getJSON[core.SpendingGoalsResponse](ctx, c, c.customerPath("/goals"), nil)
}

// Filters fetches the filter options the dashboard may offer.
func (c *Client) Filters(ctx context.Context) (core.FiltersResponse, error) {
	if c.Local() {
		ds, err := c.dataset(ctx)
		if err != nil {
			return core.FiltersResponse{}, err
		}
		return core.FiltersResponse{
			Categories:       ds.Categories,
			DateRangePresets: ds.Presets,
		}, nil
	}
	return getJSON[core.FiltersResponse](ctx, c, c.customerPath("/filters"), nil)
}
