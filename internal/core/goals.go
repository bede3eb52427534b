package core

import "time"

// Goal status thresholds, a policy of the data producers: a goal is
// exceeded at 100% of budget and a warning from 90% up.
const (
	goalExceededPct = 100
	goalWarningPct  = 90
)

// GoalProgress fills the derived fields of a goal from its budget and the
// amount spent so far: percentage used (2 decimals), days left in the month
// of ref, and the tri-state status.
func GoalProgress(goal SpendingGoal, currentSpent float64, ref time.Time) SpendingGoal {
	goal.CurrentSpent = Round2(currentSpent)
	pct := 0.0
	if goal.MonthlyBudget > 0 {
		pct = Round2(currentSpent / goal.MonthlyBudget * 100)
	}
	goal.PercentageUsed = pct
	goal.DaysRemaining = daysLeftInMonth(ref)

	switch {
	case pct >= goalExceededPct:
		goal.Status = GoalExceeded
	case pct >= goalWarningPct:
		goal.Status = GoalWarning
	default:
		goal.Status = GoalOnTrack
	}
	return goal
}

func daysLeftInMonth(ref time.Time) int {
	firstOfNext := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, 1, 0)
	lastDay := firstOfNext.AddDate(0, 0, -1).Day()
	left := lastDay - ref.Day()
	if left < 0 {
		return 0
	}
	return left
}
