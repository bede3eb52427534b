package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spendash/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore loads the dashboard dataset from a SQLite database.
// Amounts are stored as integer cents. Derived goal fields are computed
// at load time against the current date.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger,
		now:    time.Now,
	}, nil
}

// WithClock overrides the clock used for derived goal fields.
func (s *SQLiteStore) WithClock(now func() time.Time) *SQLiteStore {
	s.now = now
	return s
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load assembles the full dataset and validates its cross-references.
func (s *SQLiteStore) Load(ctx context.Context) (*core.Dataset, error) {
	ds := &core.Dataset{}

	var err error
	if ds.Profile, err = s.loadProfile(ctx); err != nil {
		return nil, err
	}
	if ds.Categories, err = s.loadCategories(ctx); err != nil {
		return nil, err
	}
	if ds.Transactions, err = s.loadTransactions(ctx); err != nil {
		return nil, err
	}
	if ds.Trends, err = s.loadTrends(ctx); err != nil {
		return nil, err
	}
	if ds.Goals, err = s.loadGoals(ctx); err != nil {
		return nil, err
	}
	if ds.Summaries, err = s.loadSummaries(ctx); err != nil {
		return nil, err
	}
	if ds.Presets, err = s.loadPresets(ctx); err != nil {
		return nil, err
	}

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("stored dataset invalid: %w", err)
	}

	s.logger.DebugContext(ctx, "dataset loaded from sqlite",
		"transactions", len(ds.Transactions),
		"goals", len(ds.Goals))
	return ds, nil
}

func (s *SQLiteStore) loadProfile(ctx context.Context) (core.CustomerProfile, error) {
	var p core.CustomerProfile
	var totalCents int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, join_date, account_type, total_spent_cents, currency
		 FROM customers LIMIT 1`,
	).Scan(&p.CustomerID, &p.Name, &p.Email, &p.JoinDate, &p.AccountType, &totalCents, &p.Currency)
	if err != nil {
		return p, fmt.Errorf("load customer profile: %w", err)
	}
	p.TotalSpent = core.FromCents(totalCents)
	return p, nil
}

func (s *SQLiteStore) loadCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, color, icon FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.Name, &c.Color, &c.Icon); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.date, t.merchant, t.category, t.amount_cents,
		        t.description, t.payment_method, c.icon, c.color
		 FROM transactions t
		 JOIN categories c ON c.name = t.category
		 ORDER BY t.date DESC`)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var cents int64
		if err := rows.Scan(&t.ID, &t.Date, &t.Merchant, &t.Category, &cents,
			&t.Description, &t.PaymentMethod, &t.Icon, &t.CategoryColor); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Amount = core.FromCents(cents)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadTrends(ctx context.Context) ([]core.MonthlyTrend, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT month, total_spent_cents, transaction_count
		 FROM monthly_trends ORDER BY month`)
	if err != nil {
		return nil, fmt.Errorf("load trends: %w", err)
	}
	defer rows.Close()

	var out []core.MonthlyTrend
	for rows.Next() {
		var tr core.MonthlyTrend
		var cents int64
		if err := rows.Scan(&tr.Month, &cents, &tr.TransactionCount); err != nil {
			return nil, fmt.Errorf("scan trend: %w", err)
		}
		tr.TotalSpent = core.FromCents(cents)
		if tr.TransactionCount > 0 {
			tr.AverageTransaction = core.Round2(tr.TotalSpent / float64(tr.TransactionCount))
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadGoals(ctx context.Context) ([]core.SpendingGoal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, monthly_budget_cents, current_spent_cents
		 FROM goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}
	defer rows.Close()

	now := s.now()
	var out []core.SpendingGoal
	for rows.Next() {
		var g core.SpendingGoal
		var budgetCents, spentCents int64
		if err := rows.Scan(&g.ID, &g.Category, &budgetCents, &spentCents); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.MonthlyBudget = core.FromCents(budgetCents)
		out = append(out, core.GoalProgress(g, core.FromCents(spentCents), now))
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadSummaries(ctx context.Context) (map[core.Period]core.SpendingSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT period, total_spent_cents, transaction_count, average_cents,
		        top_category, spent_change, transaction_change
		 FROM period_summaries`)
	if err != nil {
		return nil, fmt.Errorf("load summaries: %w", err)
	}
	defer rows.Close()

	out := make(map[core.Period]core.SpendingSummary)
	for rows.Next() {
		var sum core.SpendingSummary
		var totalCents, avgCents int64
		if err := rows.Scan(&sum.Period, &totalCents, &sum.TransactionCount, &avgCents,
			&sum.TopCategory, &sum.ComparedToPrevious.SpentChange,
			&sum.ComparedToPrevious.TransactionChange); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		sum.TotalSpent = core.FromCents(totalCents)
		sum.AverageTransaction = core.FromCents(avgCents)
		out[sum.Period] = sum
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadPresets(ctx context.Context) ([]core.DateRangePreset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label, value FROM date_range_presets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load presets: %w", err)
	}
	defer rows.Close()

	var out []core.DateRangePreset
	for rows.Next() {
		var p core.DateRangePreset
		if err := rows.Scan(&p.Label, &p.Value); err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Seed replaces all customer data with the given dataset. Used by the
// demo seeding flag so a fresh database serves the same data as the
// embedded fixtures.
func (s *SQLiteStore) Seed(ctx context.Context, ds *core.Dataset) error {
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("seed dataset invalid: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"transactions", "goals", "monthly_trends", "period_summaries", "customers", "categories"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, c := range ds.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (name, color, icon, position) VALUES (?, ?, ?, ?)`,
			c.Name, c.Color, c.Icon, i+1); err != nil {
			return fmt.Errorf("insert category %s: %w", c.Name, err)
		}
	}

	p := ds.Profile
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO customers (id, name, email, join_date, account_type, total_spent_cents, currency)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.CustomerID, p.Name, p.Email, p.JoinDate, string(p.AccountType),
		core.Cents(p.TotalSpent), p.Currency); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}

	for _, t := range ds.Transactions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (id, date, merchant, category, amount_cents, description, payment_method)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Date, t.Merchant, t.Category, core.Cents(t.Amount),
			t.Description, t.PaymentMethod); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	for _, tr := range ds.Trends {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO monthly_trends (month, total_spent_cents, transaction_count)
			 VALUES (?, ?, ?)`,
			tr.Month, core.Cents(tr.TotalSpent), tr.TransactionCount); err != nil {
			return fmt.Errorf("insert trend %s: %w", tr.Month, err)
		}
	}

	for _, g := range ds.Goals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO goals (id, category, monthly_budget_cents, current_spent_cents)
			 VALUES (?, ?, ?, ?)`,
			g.ID, g.Category, core.Cents(g.MonthlyBudget), core.Cents(g.CurrentSpent)); err != nil {
			return fmt.Errorf("insert goal %s: %w", g.ID, err)
		}
	}

	for period, sum := range ds.Summaries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO period_summaries (period, total_spent_cents, transaction_count, average_cents, top_category, spent_change, transaction_change)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(period), core.Cents(sum.TotalSpent), sum.TransactionCount,
			core.Cents(sum.AverageTransaction), sum.TopCategory,
			sum.ComparedToPrevious.SpentChange, sum.ComparedToPrevious.TransactionChange); err != nil {
			return fmt.Errorf("insert summary %s: %w", period, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	s.logger.InfoContext(ctx, "database seeded",
		"transactions", len(ds.Transactions),
		"categories", len(ds.Categories),
		"goals", len(ds.Goals))
	return nil
}
