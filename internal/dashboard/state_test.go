package dashboard

import (
	"encoding/json"
	"testing"

	"spendash/internal/core"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s.SelectedPeriod != core.PeriodMonth {
		t.Errorf("default period = %s, want 30d", s.SelectedPeriod)
	}
	if s.SortBy != core.SortDateDesc {
		t.Errorf("default sort = %s, want date_desc", s.SortBy)
	}
	if s.Page != 1 || s.PageSize != DefaultPageSize {
		t.Errorf("default page window = %d/%d", s.Page, s.PageSize)
	}
	if s.SelectedCategory != "" {
		t.Errorf("default category = %q, want empty", s.SelectedCategory)
	}
}

func TestTransitionsResetPage(t *testing.T) {
	cases := []struct {
		name string
		next func(State) State
	}{
		{"period change", func(s State) State { return s.WithPeriod(core.PeriodWeek) }},
		{"category change", func(s State) State { return s.WithCategory("Dining") }},
		{"category cleared", func(s State) State { return s.WithCategory("") }},
		{"sort change", func(s State) State { return s.WithSort(core.SortAmountAsc) }},
		{"custom range set", func(s State) State { return s.WithCustomRange("2024-09-01", "2024-09-16") }},
		{"custom range cleared", func(s State) State { return s.ClearCustomRange() }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewState().WithPage(4)
			if got := tc.next(s); got.Page != 1 {
				t.Errorf("page = %d after transition, want 1", got.Page)
			}
		})
	}
}

func TestWithPageClamps(t *testing.T) {
	s := NewState().WithPage(0)
	if s.Page != 1 {
		t.Errorf("page = %d, want 1", s.Page)
	}
	s = s.WithPage(-3)
	if s.Page != 1 {
		t.Errorf("page = %d, want 1", s.Page)
	}
	s = s.WithPage(7)
	if s.Page != 7 {
		t.Errorf("page = %d, want 7", s.Page)
	}
}

func TestTransitionsAreValueSemantics(t *testing.T) {
	s := NewState()
	_ = s.WithCategory("Dining").WithPage(3)
	if s.SelectedCategory != "" || s.Page != 1 {
		t.Error("transitions mutated the original state")
	}
}

func TestFilters(t *testing.T) {
	s := NewState().WithCategory("Groceries").WithSort(core.SortAmountDesc).WithPage(3)
	f := s.Filters()

	if f.Category != "Groceries" {
		t.Errorf("category = %q", f.Category)
	}
	if f.Period != core.PeriodMonth {
		t.Errorf("period = %s", f.Period)
	}
	if f.SortBy != core.SortAmountDesc {
		t.Errorf("sort = %s", f.SortBy)
	}
	if f.Limit != DefaultPageSize || f.Offset != 2*DefaultPageSize {
		t.Errorf("page window = %d/%d, want %d/%d", f.Limit, f.Offset, DefaultPageSize, 2*DefaultPageSize)
	}
}

func TestCustomRangeOverridesPeriod(t *testing.T) {
	s := NewState().WithCustomRange("2024-09-01", "2024-09-16")
	f := s.Filters()

	if f.StartDate != "2024-09-01" || f.EndDate != "2024-09-16" {
		t.Errorf("bounds = %q/%q", f.StartDate, f.EndDate)
	}
	if f.Period != "" {
		t.Errorf("period = %s, want empty while custom range is set", f.Period)
	}

	f = s.ClearCustomRange().Filters()
	if f.StartDate != "" || f.EndDate != "" {
		t.Errorf("bounds = %q/%q after clear, want empty", f.StartDate, f.EndDate)
	}
	if f.Period != core.PeriodMonth {
		t.Errorf("period = %s after clear, want 30d", f.Period)
	}
}

func TestStateRoundTripsThroughJSON(t *testing.T) {
	s := NewState().WithCategory("Dining").WithSort(core.SortAmountAsc).WithPage(2)

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got State
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != s {
		t.Errorf("round trip changed state: %+v != %+v", got, s)
	}
}
