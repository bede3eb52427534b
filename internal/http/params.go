// Request parameter parsing for the dashboard API. Unknown period and
// sort values are rejected with a 400 everywhere; there is no silent
// fallback to a default for an unrecognised value.

package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"spendash/internal/core"
)

// parsePeriod reads the period parameter. A missing period selects the
// default 30-day window; an unrecognised one is an error.
func parsePeriod(query url.Values) (core.Period, error) {
	v := strings.TrimSpace(query.Get("period"))
	if v == "" {
		return core.PeriodMonth, nil
	}
	return core.ParsePeriod(v)
}

// parseRange resolves the date range of a breakdown request. Explicit
// startDate/endDate bounds win over a period; with neither present the
// default period is resolved against now.
func parseRange(query url.Values, now time.Time) (core.DateRange, error) {
	start := strings.TrimSpace(query.Get("startDate"))
	end := strings.TrimSpace(query.Get("endDate"))

	if start != "" || end != "" {
		if start == "" || end == "" {
			return core.DateRange{}, fmt.Errorf("%w: startDate and endDate must be provided together", core.ErrInvalidDate)
		}
		rng := core.DateRange{StartDate: start, EndDate: end}
		if err := rng.Validate(); err != nil {
			return core.DateRange{}, err
		}
		return rng, nil
	}

	period, err := parsePeriod(query)
	if err != nil {
		return core.DateRange{}, err
	}
	return core.ResolveRange(period, now)
}

// parseTrendWindow resolves how much trend history a request wants. A
// period takes precedence over an explicit months count; a bare request
// gets the default twelve month window.
func parseTrendWindow(query url.Values) (core.Period, int, error) {
	if v := strings.TrimSpace(query.Get("period")); v != "" {
		p, err := core.ParsePeriod(v)
		if err != nil {
			return "", 0, err
		}
		return p, 0, nil
	}
	if v := strings.TrimSpace(query.Get("months")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return "", 0, fmt.Errorf("invalid months %q: must be a positive number", v)
		}
		return "", n, nil
	}
	return "", core.DefaultTrendMonths, nil
}

// parseTransactionFilters reads the optional filter, sort and paging
// parameters of a transaction query.
func parseTransactionFilters(query url.Values) (core.TransactionFilters, error) {
	var f core.TransactionFilters

	f.Category = strings.TrimSpace(query.Get("category"))
	f.StartDate = strings.TrimSpace(query.Get("startDate"))
	f.EndDate = strings.TrimSpace(query.Get("endDate"))

	if v := strings.TrimSpace(query.Get("period")); v != "" {
		p, err := core.ParsePeriod(v)
		if err != nil {
			return f, err
		}
		f.Period = p
	}

	sortBy, err := core.ParseSortOrder(query.Get("sortBy"))
	if err != nil {
		return f, err
	}
	f.SortBy = sortBy

	if v := strings.TrimSpace(query.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("invalid limit %q: must be a number", v)
		}
		f.Limit = n
	}
	if v := strings.TrimSpace(query.Get("offset")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("invalid offset %q: must be a number", v)
		}
		f.Offset = n
	}

	return f, nil
}
