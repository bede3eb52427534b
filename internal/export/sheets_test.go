package export

import (
	"testing"
	"time"

	"spendash/internal/core"
)

func sampleReport() report {
	return report{
		profile: core.CustomerProfile{Name: "John Doe", Currency: "ZAR"},
		summary: core.SpendingSummary{
			Period:             core.PeriodMonth,
			TotalSpent:         4250.75,
			TransactionCount:   47,
			AverageTransaction: 90.44,
			TopCategory:        "Groceries",
		},
		categories: core.SpendingByCategory{
			DateRange: core.DateRange{StartDate: "2024-08-17", EndDate: "2024-09-16"},
			Categories: []core.CategorySpending{
				{Name: "Groceries", Amount: 1200, Percentage: 28.2, TransactionCount: 12},
				{Name: "Dining", Amount: 800, Percentage: 18.8, TransactionCount: 8},
			},
		},
		trends: core.SpendingTrends{
			Trends: []core.MonthlyTrend{
				{Month: "2024-08", TotalSpent: 4100, TransactionCount: 44, AverageTransaction: 93.18},
				{Month: "2024-09", TotalSpent: 2100, TransactionCount: 23, AverageTransaction: 91.30},
			},
		},
		goals: core.SpendingGoalsResponse{
			Goals: []core.SpendingGoal{
				{ID: "g1", Category: "Groceries", MonthlyBudget: 1500, CurrentSpent: 1200, PercentageUsed: 80, Status: core.GoalOnTrack},
			},
		},
	}
}

func TestBuildRowsLayout(t *testing.T) {
	now := time.Date(2024, time.September, 16, 12, 0, 0, 0, time.UTC)
	rows := buildRows(sampleReport(), now)

	if len(rows) == 0 {
		t.Fatal("no rows built")
	}
	if rows[0][0] != "Spending Report" || rows[0][1] != "John Doe" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][1] != "2024-09-16 12:00" {
		t.Errorf("generated row = %v", rows[1])
	}

	var categoryRows, trendRows, goalRows int
	var section string
	for _, row := range rows {
		if len(row) == 0 {
			section = ""
			continue
		}
		switch row[0] {
		case "Category":
			section = "categories"
			continue
		case "Month":
			section = "trends"
			continue
		case "Goal category":
			section = "goals"
			continue
		}
		switch section {
		case "categories":
			categoryRows++
		case "trends":
			trendRows++
		case "goals":
			goalRows++
		}
	}
	if categoryRows != 2 {
		t.Errorf("category rows = %d, want 2", categoryRows)
	}
	if trendRows != 2 {
		t.Errorf("trend rows = %d, want 2", trendRows)
	}
	if goalRows != 1 {
		t.Errorf("goal rows = %d, want 1", goalRows)
	}
}

func TestLoadCredentials(t *testing.T) {
	t.Run("inline json wins", func(t *testing.T) {
		got, err := loadCredentials(Config{ServiceAccountJSON: `{"type":"service_account"}`, ServiceAccountFile: "/does/not/exist"})
		if err != nil {
			t.Fatalf("loadCredentials: %v", err)
		}
		if string(got) != `{"type":"service_account"}` {
			t.Errorf("credentials = %s", got)
		}
	})

	t.Run("missing credentials rejected", func(t *testing.T) {
		if _, err := loadCredentials(Config{}); err == nil {
			t.Fatal("expected error without credentials")
		}
	})

	t.Run("unreadable file surfaces error", func(t *testing.T) {
		if _, err := loadCredentials(Config{ServiceAccountFile: "/does/not/exist"}); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
