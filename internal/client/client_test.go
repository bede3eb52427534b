package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spendash/internal/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticLoader struct {
	ds *core.Dataset
}

func (l *staticLoader) Load(ctx context.Context) (*core.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.ds.Clone(), nil
}

func testDataset() *core.Dataset {
	return &core.Dataset{
		Profile: core.CustomerProfile{
			CustomerID:  "12345",
			Name:        "Jane Doe",
			Email:       "jane@example.com",
			AccountType: core.AccountPremium,
			Currency:    "ZAR",
		},
		Summaries: map[core.Period]core.SpendingSummary{
			core.PeriodWeek: {Period: core.PeriodWeek, TotalSpent: 500, TransactionCount: 5, AverageTransaction: 100, TopCategory: "Groceries"},
		},
		Transactions: []core.Transaction{
			{ID: "t1", Date: "2024-09-10T08:00:00Z", Merchant: "Spar", Category: "Groceries", Amount: 120.50},
			{ID: "t2", Date: "2024-09-09T12:00:00Z", Merchant: "Uber", Category: "Transportation", Amount: 80},
			{ID: "t3", Date: "2024-09-08T19:00:00Z", Merchant: "Nandos", Category: "Dining", Amount: 185},
		},
		Trends: []core.MonthlyTrend{
			{Month: "2024-07", TotalSpent: 1000, TransactionCount: 10, AverageTransaction: 100},
			{Month: "2024-08", TotalSpent: 1100, TransactionCount: 11, AverageTransaction: 100},
			{Month: "2024-09", TotalSpent: 900, TransactionCount: 9, AverageTransaction: 100},
		},
		Goals: []core.SpendingGoal{
			{ID: "g1", Category: "Dining", MonthlyBudget: 600, CurrentSpent: 185, PercentageUsed: 30.83, DaysRemaining: 12, Status: core.GoalOnTrack},
		},
		Categories: []core.Category{
			{Name: "Groceries", Color: "#FF6B6B", Icon: "shopping-cart"},
			{Name: "Transportation", Color: "#45B7D1", Icon: "car"},
			{Name: "Dining", Color: "#F7DC6F", Icon: "utensils"},
		},
		Presets: []core.DateRangePreset{
			{Label: "Last 7 days", Value: core.PeriodWeek},
		},
	}
}

func localClient(t *testing.T) *Client {
	t.Helper()
	c := NewLocal(testLogger(), &staticLoader{ds: testDataset()}, 0)
	return c.WithClock(func() time.Time {
		return time.Date(2024, 9, 10, 12, 0, 0, 0, time.UTC)
	})
}

func TestLocalProfile(t *testing.T) {
	c := localClient(t)
	p, err := c.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.CustomerID != "12345" || p.Currency != "ZAR" {
		t.Errorf("profile = %+v", p)
	}
}

func TestLocalSummaryPrecomputed(t *testing.T) {
	c := localClient(t)
	s, err := c.SpendingSummary(context.Background(), core.PeriodWeek)
	if err != nil {
		t.Fatalf("SpendingSummary: %v", err)
	}
	if s.TotalSpent != 500 || s.TopCategory != "Groceries" {
		t.Errorf("summary = %+v", s)
	}
}

func TestLocalSummaryComputedFallback(t *testing.T) {
	// 30d has no precomputed summary, so it is derived from the
	// transactions.
	c := localClient(t)
	s, err := c.SpendingSummary(context.Background(), core.PeriodMonth)
	if err != nil {
		t.Fatalf("SpendingSummary: %v", err)
	}
	if s.TransactionCount != 3 {
		t.Errorf("transaction count = %d, want 3", s.TransactionCount)
	}
	if s.TotalSpent != 385.50 {
		t.Errorf("total spent = %v, want 385.50", s.TotalSpent)
	}
}

func TestLocalRejectsUnknownPeriod(t *testing.T) {
	c := localClient(t)
	if _, err := c.SpendingSummary(context.Background(), "14d"); !errors.Is(err, core.ErrUnknownPeriod) {
		t.Errorf("summary error = %v, want ErrUnknownPeriod", err)
	}
	if _, err := c.SpendingTrends(context.Background(), "fortnight"); !errors.Is(err, core.ErrUnknownPeriod) {
		t.Errorf("trends error = %v, want ErrUnknownPeriod", err)
	}
}

func TestLocalTransactionsIsolation(t *testing.T) {
	c := localClient(t)
	ctx := context.Background()

	first, err := c.Transactions(ctx, core.TransactionFilters{})
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	first.Transactions[0].Merchant = "mutated"

	second, err := c.Transactions(ctx, core.TransactionFilters{})
	if err != nil {
		t.Fatalf("second Transactions: %v", err)
	}
	if second.Transactions[0].Merchant == "mutated" {
		t.Error("mutation of one response leaked into the next")
	}
}

func TestLocalCategoriesAndTrends(t *testing.T) {
	c := localClient(t)
	ctx := context.Background()

	breakdown, err := c.SpendingByCategory(ctx, core.DateRange{StartDate: "2024-09-08", EndDate: "2024-09-10"})
	if err != nil {
		t.Fatalf("SpendingByCategory: %v", err)
	}
	if breakdown.TotalAmount != 385.50 {
		t.Errorf("total = %v, want 385.50", breakdown.TotalAmount)
	}

	trends, err := c.SpendingTrends(ctx, core.PeriodQuarter)
	if err != nil {
		t.Fatalf("SpendingTrends: %v", err)
	}
	if len(trends.Trends) != 3 {
		t.Errorf("trend months = %d, want 3", len(trends.Trends))
	}
}

func TestLocalTrendsWindow(t *testing.T) {
	c := localClient(t)
	ctx := context.Background()

	trends, err := c.SpendingTrendsWindow(ctx, 2)
	if err != nil {
		t.Fatalf("SpendingTrendsWindow: %v", err)
	}
	if len(trends.Trends) != 2 {
		t.Fatalf("trend months = %d, want 2", len(trends.Trends))
	}
	if trends.Trends[0].Month != "2024-08" || trends.Trends[1].Month != "2024-09" {
		t.Errorf("window = %s..%s, want 2024-08..2024-09", trends.Trends[0].Month, trends.Trends[1].Month)
	}

	if _, err := c.SpendingTrendsWindow(ctx, 0); err == nil {
		t.Error("expected error for a zero month window")
	}
}

func TestLocalLatencyHonoursCancellation(t *testing.T) {
	c := NewLocal(testLogger(), &staticLoader{ds: testDataset()}, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Profile(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took %s", elapsed)
	}
}

func TestRemoteProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/customers/12345/profile" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"customerId":"12345","name":"Jane","email":"jane@example.com","joinDate":"2023-01-15","accountType":"premium","totalSpent":100,"currency":"ZAR"}`))
	}))
	defer srv.Close()

	c := NewRemote(testLogger(), srv.URL, "12345")
	p, err := c.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Name != "Jane" {
		t.Errorf("name = %q", p.Name)
	}
}

func TestRemoteQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("category") != "Groceries" || q.Get("limit") != "5" || q.Get("sortBy") != "amount_desc" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"transactions":[],"pagination":{"total":0,"limit":5,"offset":0,"hasMore":false}}`))
	}))
	defer srv.Close()

	c := NewRemote(testLogger(), srv.URL, "12345")
	_, err := c.Transactions(context.Background(), core.TransactionFilters{
		Category: "Groceries",
		SortBy:   core.SortAmountDesc,
		Limit:    5,
	})
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
}

func TestRemoteStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewRemote(testLogger(), srv.URL, "12345")
	_, err := c.Goals(context.Background())

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want StatusError", err)
	}
	if statusErr.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", statusErr.Code)
	}
}

func TestRemoteDecodeError(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"goals": [`},
		{"invalid shape", `{"goals":[{"id":"","category":"Dining","monthlyBudget":100,"status":"on_track"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewRemote(testLogger(), srv.URL, "12345")
			_, err := c.Goals(context.Background())

			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("error = %v, want DecodeError", err)
			}
		})
	}
}
