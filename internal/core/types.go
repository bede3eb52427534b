package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Period is a symbolic recent-time window resolved against a reference date.
type Period string

const (
	PeriodWeek    Period = "7d"
	PeriodMonth   Period = "30d"
	PeriodQuarter Period = "90d"
	PeriodYear    Period = "1y"
)

// Periods lists the supported periods in preset order.
var Periods = []Period{PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear}

var (
	ErrUnknownPeriod = errors.New("unknown period")
	ErrUnknownSort   = errors.New("unknown sort order")
	ErrInvalidDate   = errors.New("invalid date")
)

// IsValid reports whether p is one of the supported periods.
func (p Period) IsValid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return true
	default:
		return false
	}
}

// ParsePeriod validates a raw period string. Unknown values are rejected
// uniformly at every boundary; there is no silent default substitution.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.TrimSpace(s))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
	return p, nil
}

// SortOrder selects the ordering applied by the transaction query engine.
type SortOrder string

const (
	SortDateDesc   SortOrder = "date_desc"
	SortDateAsc    SortOrder = "date_asc"
	SortAmountDesc SortOrder = "amount_desc"
	SortAmountAsc  SortOrder = "amount_asc"
)

func (s SortOrder) IsValid() bool {
	switch s {
	case SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc:
		return true
	default:
		return false
	}
}

// ParseSortOrder validates a raw sort key. Empty input selects the default.
func ParseSortOrder(s string) (SortOrder, error) {
	if strings.TrimSpace(s) == "" {
		return SortDateDesc, nil
	}
	o := SortOrder(s)
	if !o.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
	}
	return o, nil
}

// GoalStatus is the tri-state progress of a spending goal, assigned by the
// data producer rather than the query layer.
type GoalStatus string

const (
	GoalOnTrack  GoalStatus = "on_track"
	GoalWarning  GoalStatus = "warning"
	GoalExceeded GoalStatus = "exceeded"
)

func (g GoalStatus) IsValid() bool {
	switch g {
	case GoalOnTrack, GoalWarning, GoalExceeded:
		return true
	default:
		return false
	}
}

// DateRange is an inclusive pair of calendar dates, both YYYY-MM-DD.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Validate checks both bounds parse as dates and start <= end.
func (r DateRange) Validate() error {
	if _, err := time.Parse(time.DateOnly, r.StartDate); err != nil {
		return fmt.Errorf("%w: startDate %q", ErrInvalidDate, r.StartDate)
	}
	if _, err := time.Parse(time.DateOnly, r.EndDate); err != nil {
		return fmt.Errorf("%w: endDate %q", ErrInvalidDate, r.EndDate)
	}
	if r.StartDate > r.EndDate {
		return fmt.Errorf("date range start %s after end %s", r.StartDate, r.EndDate)
	}
	return nil
}

// Contains reports whether the date-only component of an ISO-8601 timestamp
// falls within the range, boundaries included. ISO dates compare correctly
// as strings.
func (r DateRange) Contains(timestamp string) bool {
	d := DateOf(timestamp)
	return d >= r.StartDate && d <= r.EndDate
}

// DateOf extracts the YYYY-MM-DD component of an ISO-8601 timestamp.
func DateOf(timestamp string) string {
	if len(timestamp) > len(time.DateOnly) {
		return timestamp[:len(time.DateOnly)]
	}
	return timestamp
}

// Transaction is a single financial transaction. The session's transaction
// set is loaded once and treated as immutable.
type Transaction struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"` // ISO-8601 date-time
	Merchant      string  `json:"merchant"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	PaymentMethod string  `json:"paymentMethod"`
	Icon          string  `json:"icon"`
	CategoryColor string  `json:"categoryColor"`
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("transaction id is empty")
	}
	if _, err := time.Parse(time.DateOnly, DateOf(t.Date)); err != nil {
		return fmt.Errorf("transaction %s: %w: %q", t.ID, ErrInvalidDate, t.Date)
	}
	if t.Amount <= 0 {
		return fmt.Errorf("transaction %s: amount must be positive", t.ID)
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("transaction %s: category is empty", t.ID)
	}
	return nil
}

// Category is one of the fixed enumerable spending categories.
type Category struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("category name is empty")
	}
	return nil
}

// CategorySpending is the derived per-category slice of a breakdown.
type CategorySpending struct {
	Name             string  `json:"name"`
	Amount           float64 `json:"amount"`
	Percentage       float64 `json:"percentage"`
	TransactionCount int     `json:"transactionCount"`
	Color            string  `json:"color"`
	Icon             string  `json:"icon"`
}

// SpendingByCategory is the category breakdown for a resolved date range.
type SpendingByCategory struct {
	DateRange   DateRange          `json:"dateRange"`
	TotalAmount float64            `json:"totalAmount"`
	Categories  []CategorySpending `json:"categories"`
}

func (s SpendingByCategory) Validate() error {
	if err := s.DateRange.Validate(); err != nil {
		return err
	}
	for _, c := range s.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return errors.New("category breakdown entry has empty name")
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s SpendingByCategory) Clone() SpendingByCategory {
	out := s
	out.Categories = append([]CategorySpending(nil), s.Categories...)
	return out
}

// MonthlyTrend is a precomputed aggregate for one calendar month (YYYY-MM).
type MonthlyTrend struct {
	Month              string  `json:"month"`
	TotalSpent         float64 `json:"totalSpent"`
	TransactionCount   int     `json:"transactionCount"`
	AverageTransaction float64 `json:"averageTransaction"`
}

// SpendingTrends is a chronological window of monthly aggregates.
type SpendingTrends struct {
	Trends []MonthlyTrend `json:"trends"`
}

func (s SpendingTrends) Validate() error {
	for _, tr := range s.Trends {
		if len(tr.Month) != 7 || tr.Month[4] != '-' {
			return fmt.Errorf("trend month %q is not YYYY-MM", tr.Month)
		}
	}
	return nil
}

func (s SpendingTrends) Clone() SpendingTrends {
	return SpendingTrends{Trends: append([]MonthlyTrend(nil), s.Trends...)}
}

// ChangeComparison compares a period's spend and volume with the previous
// window of equal length, as signed percentages.
type ChangeComparison struct {
	SpentChange       float64 `json:"spentChange"`
	TransactionChange float64 `json:"transactionChange"`
}

// SpendingSummary is the headline figure set for a period.
type SpendingSummary struct {
	Period             Period           `json:"period"`
	TotalSpent         float64          `json:"totalSpent"`
	TransactionCount   int              `json:"transactionCount"`
	AverageTransaction float64          `json:"averageTransaction"`
	TopCategory        string           `json:"topCategory"`
	ComparedToPrevious ChangeComparison `json:"comparedToPrevious"`
}

func (s SpendingSummary) Validate() error {
	if !s.Period.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownPeriod, s.Period)
	}
	if s.TransactionCount < 0 {
		return errors.New("summary transaction count is negative")
	}
	return nil
}

func (s SpendingSummary) Clone() SpendingSummary { return s }

// SpendingGoal is a monthly budget goal with producer-assigned progress.
type SpendingGoal struct {
	ID             string     `json:"id"`
	Category       string     `json:"category"`
	MonthlyBudget  float64    `json:"monthlyBudget"`
	CurrentSpent   float64    `json:"currentSpent"`
	PercentageUsed float64    `json:"percentageUsed"`
	DaysRemaining  int        `json:"daysRemaining"`
	Status         GoalStatus `json:"status"`
}

func (g SpendingGoal) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return errors.New("goal id is empty")
	}
	if g.MonthlyBudget <= 0 {
		return fmt.Errorf("goal %s: monthly budget must be positive", g.ID)
	}
	if g.DaysRemaining < 0 {
		return fmt.Errorf("goal %s: days remaining is negative", g.ID)
	}
	if !g.Status.IsValid() {
		return fmt.Errorf("goal %s: unknown status %q", g.ID, g.Status)
	}
	return nil
}

// SpendingGoalsResponse wraps the goal list.
type SpendingGoalsResponse struct {
	Goals []SpendingGoal `json:"goals"`
}

func (s SpendingGoalsResponse) Validate() error {
	for _, g := range s.Goals {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s SpendingGoalsResponse) Clone() SpendingGoalsResponse {
	return SpendingGoalsResponse{Goals: append([]SpendingGoal(nil), s.Goals...)}
}

// Pagination is the metadata of a transaction page.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// TransactionsResponse is one page of filtered, sorted transactions.
type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
	Pagination   Pagination    `json:"pagination"`
}

func (r TransactionsResponse) Validate() error {
	if r.Pagination.Total < 0 {
		return errors.New("pagination total is negative")
	}
	for _, t := range r.Transactions {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r TransactionsResponse) Clone() TransactionsResponse {
	out := r
	out.Transactions = append([]Transaction(nil), r.Transactions...)
	return out
}

// TransactionFilters carries the optional filters, sort order and page
// window of a transaction query. Zero values mean "not set".
type TransactionFilters struct {
	Category  string
	StartDate string
	EndDate   string
	Period    Period
	SortBy    SortOrder
	Limit     int
	Offset    int
}

// AccountType is the customer tier of a profile.
type AccountType string

const (
	AccountBasic    AccountType = "basic"
	AccountPremium  AccountType = "premium"
	AccountBusiness AccountType = "business"
)

func (a AccountType) IsValid() bool {
	switch a {
	case AccountBasic, AccountPremium, AccountBusiness:
		return true
	default:
		return false
	}
}

// CustomerProfile describes the account the dashboard belongs to.
type CustomerProfile struct {
	CustomerID  string      `json:"customerId"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	JoinDate    string      `json:"joinDate"`
	AccountType AccountType `json:"accountType"`
	TotalSpent  float64     `json:"totalSpent"`
	Currency    string      `json:"currency"`
}

func (p CustomerProfile) Validate() error {
	if strings.TrimSpace(p.CustomerID) == "" {
		return errors.New("profile customer id is empty")
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("profile email %q is invalid", p.Email)
	}
	if !p.AccountType.IsValid() {
		return fmt.Errorf("profile account type %q is invalid", p.AccountType)
	}
	return nil
}

func (p CustomerProfile) Clone() CustomerProfile { return p }

// DateRangePreset is a labelled period option offered to the UI.
type DateRangePreset struct {
	Label string `json:"label"`
	Value Period `json:"value"`
}

// FiltersResponse lists the filter options the UI may offer.
type FiltersResponse struct {
	Categories       []Category        `json:"categories"`
	DateRangePresets []DateRangePreset `json:"dateRangePresets"`
}

func (f FiltersResponse) Validate() error {
	for _, c := range f.Categories {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	for _, p := range f.DateRangePresets {
		if !p.Value.IsValid() {
			return fmt.Errorf("%w: preset %q", ErrUnknownPeriod, p.Value)
		}
	}
	return nil
}

func (f FiltersResponse) Clone() FiltersResponse {
	return FiltersResponse{
		Categories:       append([]Category(nil), f.Categories...),
		DateRangePresets: append([]DateRangePreset(nil), f.DateRangePresets...),
	}
}

// Dataset is the immutable session data every derived view is computed from.
type Dataset struct {
	Profile      CustomerProfile
	Summaries    map[Period]SpendingSummary
	Transactions []Transaction
	Trends       []MonthlyTrend
	Goals        []SpendingGoal
	Categories   []Category
	Presets      []DateRangePreset
}

// Validate checks internal consistency: every transaction and goal must
// reference a known category.
func (d *Dataset) Validate() error {
	if err := d.Profile.Validate(); err != nil {
		return err
	}
	known := make(map[string]bool, len(d.Categories))
	for _, c := range d.Categories {
		if err := c.Validate(); err != nil {
			return err
		}
		known[c.Name] = true
	}
	for _, t := range d.Transactions {
		if err := t.Validate(); err != nil {
			return err
		}
		if !known[t.Category] {
			return fmt.Errorf("transaction %s references unknown category %q", t.ID, t.Category)
		}
	}
	for _, g := range d.Goals {
		if err := g.Validate(); err != nil {
			return err
		}
		if !known[g.Category] {
			return fmt.Errorf("goal %s references unknown category %q", g.ID, g.Category)
		}
	}
	for p := range d.Summaries {
		if !p.IsValid() {
			return fmt.Errorf("%w: summary key %q", ErrUnknownPeriod, p)
		}
	}
	return nil
}

// Clone returns a deep copy sharing no memory with the receiver.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Profile:      d.Profile,
		Transactions: append([]Transaction(nil), d.Transactions...),
		Trends:       append([]MonthlyTrend(nil), d.Trends...),
		Goals:        append([]SpendingGoal(nil), d.Goals...),
		Categories:   append([]Category(nil), d.Categories...),
		Presets:      append([]DateRangePreset(nil), d.Presets...),
	}
	if d.Summaries != nil {
		out.Summaries = make(map[Period]SpendingSummary, len(d.Summaries))
		for k, v := range d.Summaries {
			out.Summaries[k] = v
		}
	}
	return out
}
