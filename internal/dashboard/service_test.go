package dashboard

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"spendash/internal/client"
	"spendash/internal/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingLoader struct {
	loads atomic.Int32
	ds    *core.Dataset
}

func (l *countingLoader) Load(ctx context.Context) (*core.Dataset, error) {
	l.loads.Add(1)
	return l.ds.Clone(), nil
}

func serviceDataset() *core.Dataset {
	return &core.Dataset{
		Profile: core.CustomerProfile{
			CustomerID:  "12345",
			Email:       "jane@example.com",
			AccountType: core.AccountBasic,
		},
		Transactions: []core.Transaction{
			{ID: "t1", Date: "2024-09-10T08:00:00Z", Category: "Groceries", Amount: 100},
			{ID: "t2", Date: "2024-09-09T08:00:00Z", Category: "Dining", Amount: 50},
		},
		Goals: []core.SpendingGoal{
			{ID: "g1", Category: "Groceries", MonthlyBudget: 500, Status: core.GoalOnTrack},
		},
		Categories: []core.Category{
			{Name: "Groceries"}, {Name: "Dining"},
		},
	}
}

func newTestService(t *testing.T) (*Service, *countingLoader) {
	t.Helper()
	loader := &countingLoader{ds: serviceDataset()}
	cli := client.NewLocal(testLogger(), loader, 0)
	svc := NewService(testLogger(), cli, Options{
		StaleAfter: time.Minute,
		TTL:        time.Hour,
		MaxEntries: 32,
	}, nil)
	return svc, loader
}

func TestServiceCachesRepeatedReads(t *testing.T) {
	svc, loader := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Goals(ctx); err != nil {
			t.Fatalf("Goals: %v", err)
		}
	}
	if n := loader.loads.Load(); n != 1 {
		t.Errorf("dataset loaded %d times for repeated reads, want 1", n)
	}
}

func TestServiceKeysByQuery(t *testing.T) {
	svc, loader := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Transactions(ctx, core.TransactionFilters{Category: "Groceries"}); err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if _, err := svc.Transactions(ctx, core.TransactionFilters{Category: "Dining"}); err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if _, err := svc.Transactions(ctx, core.TransactionFilters{Category: "Groceries"}); err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if n := loader.loads.Load(); n != 2 {
		t.Errorf("dataset loaded %d times for two distinct queries, want 2", n)
	}
}

func TestServiceHitsAreIsolated(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Transactions(ctx, core.TransactionFilters{})
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	first.Transactions[0].Merchant = "mutated"

	second, err := svc.Transactions(ctx, core.TransactionFilters{})
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if second.Transactions[0].Merchant == "mutated" {
		t.Error("cache hit shares memory with a previous response")
	}
}

func TestServiceInvalidateAll(t *testing.T) {
	svc, loader := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Profile(ctx); err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if _, err := svc.Goals(ctx); err != nil {
		t.Fatalf("Goals: %v", err)
	}

	svc.InvalidateAll()

	if _, err := svc.Profile(ctx); err != nil {
		t.Fatalf("Profile after invalidation: %v", err)
	}
	if n := loader.loads.Load(); n != 3 {
		t.Errorf("dataset loaded %d times, want 3 (two before purge, one after)", n)
	}
}

func TestServicePropagatesValidationErrors(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.SpendingSummary(context.Background(), "bad"); err == nil {
		t.Fatal("expected error for unknown period")
	}
}
