// Package dashboard holds the view state of one dashboard session and
// a cached data service the HTTP layer reads through.
package dashboard

import (
	"spendash/internal/core"
)

// DefaultPageSize matches the query engine's default page limit.
const DefaultPageSize = core.DefaultPageLimit

// State is the serializable UI state of a dashboard session. Values are
// plain data so the state can round-trip through JSON unchanged.
type State struct {
	SelectedPeriod   core.Period    `json:"selectedPeriod"`
	SelectedCategory string         `json:"selectedCategory,omitempty"`
	CustomStartDate  string         `json:"customStartDate,omitempty"`
	CustomEndDate    string         `json:"customEndDate,omitempty"`
	SortBy           core.SortOrder `json:"sortBy"`
	Page             int            `json:"page"`
	PageSize         int            `json:"pageSize"`
}

// NewState returns the initial session state.
func NewState() State {
	return State{
		SelectedPeriod: core.PeriodMonth,
		SortBy:         core.SortDateDesc,
		Page:           1,
		PageSize:       DefaultPageSize,
	}
}

// WithPeriod selects a period and returns to the first page.
func (s State) WithPeriod(p core.Period) State {
	s.SelectedPeriod = p
	s.Page = 1
	return s
}

// WithCategory selects a category filter and returns to the first page.
// An empty category clears the filter.
func (s State) WithCategory(category string) State {
	s.SelectedCategory = category
	s.Page = 1
	return s
}

// WithCustomRange selects explicit date bounds and returns to the first
// page. While set, the bounds override the selected period in queries.
func (s State) WithCustomRange(start, end string) State {
	s.CustomStartDate = start
	s.CustomEndDate = end
	s.Page = 1
	return s
}

// ClearCustomRange drops the explicit bounds so the selected period
// applies again, and returns to the first page.
func (s State) ClearCustomRange() State {
	s.CustomStartDate = ""
	s.CustomEndDate = ""
	s.Page = 1
	return s
}

// WithSort selects a sort order and returns to the first page.
func (s State) WithSort(order core.SortOrder) State {
	s.SortBy = order
	s.Page = 1
	return s
}

// WithPage moves to a page. Pages start at 1; smaller values clamp.
func (s State) WithPage(page int) State {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// Filters translates the state into a transaction query.
func (s State) Filters() core.TransactionFilters {
	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	f := core.TransactionFilters{
		Category: s.SelectedCategory,
		SortBy:   s.SortBy,
		Limit:    size,
		Offset:   (s.Page - 1) * size,
	}
	if s.CustomStartDate != "" && s.CustomEndDate != "" {
		f.StartDate = s.CustomStartDate
		f.EndDate = s.CustomEndDate
	} else {
		f.Period = s.SelectedPeriod
	}
	return f
}
