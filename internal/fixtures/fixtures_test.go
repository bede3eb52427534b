package fixtures

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"spendash/internal/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad(t *testing.T) {
	ds, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if ds.Profile.CustomerID != "12345" {
		t.Errorf("customer id = %q, want 12345", ds.Profile.CustomerID)
	}
	if len(ds.Transactions) != 20 {
		t.Errorf("transactions = %d, want 20", len(ds.Transactions))
	}
	if len(ds.Trends) != 12 {
		t.Errorf("trends = %d, want 12", len(ds.Trends))
	}
	if len(ds.Goals) != 4 {
		t.Errorf("goals = %d, want 4", len(ds.Goals))
	}
	if len(ds.Categories) != 6 {
		t.Errorf("categories = %d, want 6", len(ds.Categories))
	}
	if len(ds.Presets) != 4 {
		t.Errorf("presets = %d, want 4", len(ds.Presets))
	}
	if len(ds.Summaries) != len(core.Periods) {
		t.Errorf("summaries = %d, want one per period", len(ds.Summaries))
	}
	for _, p := range core.Periods {
		s, ok := ds.Summaries[p]
		if !ok {
			t.Errorf("missing summary for %s", p)
			continue
		}
		if s.Period != p {
			t.Errorf("summary keyed %s carries period %s", p, s.Period)
		}
	}
}

func TestStoreLoadIsolation(t *testing.T) {
	st, err := NewStore(testLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	a, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	a.Transactions[0].Amount = -999
	a.Goals[0].Status = "corrupted"

	b, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if b.Transactions[0].Amount == -999 {
		t.Error("mutating a loaded dataset leaked into the store")
	}
	if b.Goals[0].Status == "corrupted" {
		t.Error("mutating a loaded goal leaked into the store")
	}
}

func TestStoreLoadCancelled(t *testing.T) {
	st, err := NewStore(testLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := st.Load(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestQueryOverFixtures(t *testing.T) {
	ds, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ref := time.Date(2024, 9, 16, 12, 0, 0, 0, time.UTC)

	t.Run("category filter", func(t *testing.T) {
		resp, err := core.QueryTransactions(ds.Transactions, core.TransactionFilters{Category: "Groceries"}, ref)
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if resp.Pagination.Total != 5 {
			t.Errorf("groceries total = %d, want 5", resp.Pagination.Total)
		}
		for _, tx := range resp.Transactions {
			if tx.Category != "Groceries" {
				t.Errorf("transaction %s has category %s", tx.ID, tx.Category)
			}
		}
	})

	t.Run("two pages cover without overlap", func(t *testing.T) {
		first, err := core.QueryTransactions(ds.Transactions, core.TransactionFilters{Limit: 5, Offset: 0}, ref)
		if err != nil {
			t.Fatalf("first page: %v", err)
		}
		second, err := core.QueryTransactions(ds.Transactions, core.TransactionFilters{Limit: 5, Offset: 5}, ref)
		if err != nil {
			t.Fatalf("second page: %v", err)
		}
		if len(first.Transactions) != 5 || len(second.Transactions) != 5 {
			t.Fatalf("page sizes = %d, %d, want 5 each", len(first.Transactions), len(second.Transactions))
		}
		seen := make(map[string]bool)
		for _, tx := range first.Transactions {
			seen[tx.ID] = true
		}
		for _, tx := range second.Transactions {
			if seen[tx.ID] {
				t.Errorf("transaction %s appears on both pages", tx.ID)
			}
		}
		full, err := core.QueryTransactions(ds.Transactions, core.TransactionFilters{Limit: 10}, ref)
		if err != nil {
			t.Fatalf("full page: %v", err)
		}
		got := append(first.Transactions, second.Transactions...)
		for i := range full.Transactions {
			if full.Transactions[i].ID != got[i].ID {
				t.Errorf("position %d: pages give %s, single page gives %s", i, got[i].ID, full.Transactions[i].ID)
			}
		}
	})

	t.Run("default order is date descending", func(t *testing.T) {
		resp, err := core.QueryTransactions(ds.Transactions, core.TransactionFilters{}, ref)
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		for i := 1; i < len(resp.Transactions); i++ {
			if resp.Transactions[i-1].Date < resp.Transactions[i].Date {
				t.Fatalf("out of order at %d: %s before %s", i, resp.Transactions[i-1].Date, resp.Transactions[i].Date)
			}
		}
	})
}

func TestAggregateOverFixtures(t *testing.T) {
	ds, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rng := core.DateRange{StartDate: "2024-08-28", EndDate: "2024-09-16"}
	breakdown := core.AggregateByCategory(ds.Transactions, rng, ds.Categories)

	if len(breakdown.Categories) != 6 {
		t.Errorf("breakdown categories = %d, want 6", len(breakdown.Categories))
	}
	var sum int64
	for _, c := range breakdown.Categories {
		sum += core.Cents(c.Amount)
	}
	if sum != core.Cents(breakdown.TotalAmount) {
		t.Errorf("category amounts sum to %d cents, total is %d", sum, core.Cents(breakdown.TotalAmount))
	}
	for i := 1; i < len(breakdown.Categories); i++ {
		if breakdown.Categories[i-1].Amount < breakdown.Categories[i].Amount {
			t.Errorf("breakdown not sorted by amount at %d", i)
		}
	}
}
