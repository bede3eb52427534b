// Package fixtures ships the embedded sample dataset used when the
// dashboard runs without a remote API or database. The JSON files under
// data/ are parsed once and validated at load time.
package fixtures

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"spendash/internal/core"
)

//go:embed data/*.json
var dataFS embed.FS

// Load parses the embedded fixture files into a validated dataset.
func Load() (*core.Dataset, error) {
	ds := &core.Dataset{}

	if err := readJSON("data/profile.json", &ds.Profile); err != nil {
		return nil, err
	}
	if err := readJSON("data/summaries.json", &ds.Summaries); err != nil {
		return nil, err
	}
	if err := readJSON("data/transactions.json", &ds.Transactions); err != nil {
		return nil, err
	}
	if err := readJSON("data/trends.json", &ds.Trends); err != nil {
		return nil, err
	}
	if err := readJSON("data/goals.json", &ds.Goals); err != nil {
		return nil, err
	}

	var filters core.FiltersResponse
	if err := readJSON("data/filters.json", &filters); err != nil {
		return nil, err
	}
	ds.Categories = filters.Categories
	ds.Presets = filters.DateRangePresets

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("fixture dataset invalid: %w", err)
	}
	return ds, nil
}

func readJSON(name string, v any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse fixture %s: %w", name, err)
	}
	return nil
}

// Store serves the embedded dataset through the store interface. Every
// Load returns a fresh deep copy so callers can never corrupt the
// embedded data.
type Store struct {
	logger *slog.Logger
	ds     *core.Dataset
}

// NewStore parses and validates the embedded fixtures once.
func NewStore(logger *slog.Logger) (*Store, error) {
	ds, err := Load()
	if err != nil {
		return nil, err
	}
	logger.Info("fixture dataset loaded",
		"transactions", len(ds.Transactions),
		"goals", len(ds.Goals),
		"categories", len(ds.Categories))
	return &Store{logger: logger, ds: ds}, nil
}

func (s *Store) Load(ctx context.Context) (*core.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.ds.Clone(), nil
}

func (s *Store) Close() error { return nil }
