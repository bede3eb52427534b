package dashboard

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"spendash/internal/cache"
	"spendash/internal/client"
	"spendash/internal/core"
)

// Service answers dashboard reads through the presentation cache. Each
// response type has its own loader so hits stay typed; all loaders
// share the staleness and eviction policy.
type Service struct {
	logger *slog.Logger
	client *client.Client

	profile      *cache.Loader[core.CustomerProfile]
	summary      *cache.Loader[core.SpendingSummary]
	categories   *cache.Loader[core.SpendingByCategory]
	trends       *cache.Loader[core.SpendingTrends]
	transactions *cache.Loader[core.TransactionsResponse]
	goals        *cache.Loader[core.SpendingGoalsResponse]
	filters      *cache.Loader[core.FiltersResponse]
}

// Options tunes the presentation cache.
type Options struct {
	StaleAfter time.Duration
	TTL        time.Duration
	MaxEntries int
}

// NewService builds the cached service and registers every loader with
// the manager for background cleanup.
func NewService(logger *slog.Logger, cli *client.Client, opts Options, manager *cache.Manager) *Service {
	s := &Service{
		logger:       logger,
		client:       cli,
		profile:      cache.NewLoader[core.CustomerProfile](logger, opts.MaxEntries, opts.StaleAfter, opts.TTL),
		summary:      cache.NewLoader[core.SpendingSummary](logger, opts.MaxEntries, opts.StaleAfter, opts.TTL),
		categories:   cache.NewLoader[core.SpendingByCategory](logger, opts.MaxEntries, opts.StaleAfter, opts.TTL),
		trends:       cache.NewLoader[core.SpendingTrends](logger, opts.MaxEntries, opts.StaleAfter, opts.TTL),
		transactions: cache.NewLoader[core.TransactionsResponse](logger, opts.MaxEntries, opts.StaleAfter, opts.TTL),
		goals:        cache.NewLoader[core.SpendingGoalsResponse](logger, opts.MaxEntries, opts.StaleAfter, opts.TTL),
		filters:      cache.NewLoader[core.FiltersResponse](logger, opts.MaxEntries, opts.StaleAfter, opts.TTL),
	}
	if manager != nil {
		for _, st := range []cache.Cleaner{
			s.profile.Store(), s.summary.Store(), s.categories.Store(),
			s.trends.Store(), s.transactions.Store(), s.goals.Store(), s.filters.Store(),
		} {
			manager.Register(st)
		}
	}
	return s
}

func (s *Service) Profile(ctx context.Context) (core.CustomerProfile, error) {
	return s.profile.Load(ctx, "profile", s.client.Profile)
}

func (s *Service) SpendingSummary(ctx context.Context, period core.Period) (core.SpendingSummary, error) {
	key := cache.Key("summary", string(period))
	return s.summary.Load(ctx, key, func(ctx context.Context) (core.SpendingSummary, error) {
		return s.client.SpendingSummary(ctx, period)
	})
}

func (s *Service) SpendingByCategory(ctx context.Context, rng core.DateRange) (core.SpendingByCategory, error) {
	key := cache.Key("categories", rng.StartDate, rng.EndDate)
	return s.categories.Load(ctx, key, func(ctx context.Context) (core.SpendingByCategory, error) {
		return s.client.SpendingByCategory(ctx, rng)
	})
}

func (s *Service) SpendingTrends(ctx context.Context, period core.Period) (core.SpendingTrends, error) {
	key := cache.Key("trends", string(period))
	return s.trends.Load(ctx, key, func(ctx context.Context) (core.SpendingTrends, error) {
		return s.client.SpendingTrends(ctx, period)
	})
}

func (s *Service) SpendingTrendsWindow(ctx context.Context, months int) (core.SpendingTrends, error) {
	key := cache.Key("trends", "months", strconv.Itoa(months))
	return s.trends.Load(ctx, key, func(ctx context.Context) (core.SpendingTrends, error) {
		return s.client.SpendingTrendsWindow(ctx, months)
	})
}

func (s *Service) Transactions(ctx context.Context, filters core.TransactionFilters) (core.TransactionsResponse, error) {
	key := cache.Key("transactions",
		filters.Category,
		filters.StartDate, filters.EndDate,
		string(filters.Period), string(filters.SortBy),
		strconv.Itoa(filters.Limit), strconv.Itoa(filters.Offset))
	return s.transactions.Load(ctx, key, func(ctx context.Context) (core.TransactionsResponse, error) {
		return s.client.Transactions(ctx, filters)
	})
}

func (s *Service) Goals(ctx context.Context) (core.SpendingGoalsResponse, error) {
	return s.goals.Load(ctx, "goals", s.client.Goals)
}

func (s *Service) Filters(ctx context.Context) (core.FiltersResponse, error) {
	return s.filters.Load(ctx, "filters", s.client.Filters)
}

// InvalidateAll drops every cached view. Wired to the invalidation bus
// and the -invalidate flag.
func (s *Service) InvalidateAll() {
	for _, p := range []interface{ Purge() }{
		s.profile, s.summary, s.categories, s.trends,
		s.transactions, s.goals, s.filters,
	} {
		p.Purge()
	}
	s.logger.Info("presentation cache invalidated")
}
