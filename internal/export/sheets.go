// Package export writes a spending report into a Google Sheet so the
// dashboard data can be shared outside the app. The report is a
// snapshot: each run clears the target sheet and rewrites it.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"spendash/internal/core"
	"spendash/internal/dashboard"
)

// Config carries the Sheets destination and credentials.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Exporter struct {
	logger        *slog.Logger
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewExporter authenticates against the Sheets API with a service
// account. Inline JSON credentials win over a credentials file.
func NewExporter(ctx context.Context, logger *slog.Logger, cfg Config) (*Exporter, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Spending Report"
	}

	credentials, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Exporter{
		logger:        logger,
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func loadCredentials(cfg Config) ([]byte, error) {
	if json := strings.TrimSpace(cfg.ServiceAccountJSON); json != "" {
		return []byte(json), nil
	}
	if file := strings.TrimSpace(cfg.ServiceAccountFile); file != "" {
		credentials, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return credentials, nil
	}
	return nil, errors.New("missing service account credentials")
}

// report bundles the views a single export run needs.
type report struct {
	profile    core.CustomerProfile
	summary    core.SpendingSummary
	categories core.SpendingByCategory
	trends     core.SpendingTrends
	goals      core.SpendingGoalsResponse
}

// Export fetches every dashboard view for the period and rewrites the
// target sheet with the assembled report.
func (e *Exporter) Export(ctx context.Context, svc *dashboard.Service, period core.Period, now time.Time) error {
	rng, err := core.ResolveRange(period, now)
	if err != nil {
		return err
	}

	var rep report
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rep.profile, err = svc.Profile(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rep.summary, err = svc.SpendingSummary(gctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		rep.categories, err = svc.SpendingByCategory(gctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		rep.trends, err = svc.SpendingTrends(gctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		rep.goals, err = svc.Goals(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetch report views: %w", err)
	}

	rows := buildRows(rep, now)

	clearRange := fmt.Sprintf("%s!A:Z", e.sheetName)
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", e.sheetName, err)
	}

	writeRange := fmt.Sprintf("%s!A1", e.sheetName)
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write sheet %s: %w", e.sheetName, err)
	}

	e.logger.InfoContext(ctx, "Report exported",
		"spreadsheet_id", e.spreadsheetID,
		"sheet", e.sheetName,
		"period", period,
		"rows", len(rows))
	return nil
}

// buildRows lays the report out as sections separated by blank rows.
func buildRows(rep report, now time.Time) [][]any {
	rows := [][]any{
		{"Spending Report", rep.profile.Name, rep.profile.Currency},
		{"Generated", now.Format("2006-01-02 15:04")},
		{"Period", string(rep.summary.Period), rep.categories.DateRange.StartDate, rep.categories.DateRange.EndDate},
		{},
		{"Summary"},
		{"Total spent", rep.summary.TotalSpent},
		{"Transactions", rep.summary.TransactionCount},
		{"Average transaction", rep.summary.AverageTransaction},
		{"Top category", rep.summary.TopCategory},
		{"Spend change vs previous %", rep.summary.ComparedToPrevious.SpentChange},
		{"Transaction change vs previous %", rep.summary.ComparedToPrevious.TransactionChange},
		{},
		{"Category", "Amount", "Share %", "Transactions"},
	}
	for _, c := range rep.categories.Categories {
		rows = append(rows, []any{c.Name, c.Amount, c.Percentage, c.TransactionCount})
	}

	rows = append(rows, []any{}, []any{"Month", "Total", "Transactions", "Average"})
	for _, tr := range rep.trends.Trends {
		rows = append(rows, []any{tr.Month, tr.TotalSpent, tr.TransactionCount, tr.AverageTransaction})
	}

	rows = append(rows, []any{}, []any{"Goal category", "Budget", "Spent", "Used %", "Status"})
	for _, g := range rep.goals.Goals {
		rows = append(rows, []any{g.Category, g.MonthlyBudget, g.CurrentSpent, g.PercentageUsed, string(g.Status)})
	}

	return rows
}
