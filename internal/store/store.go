// Package store defines where dashboard datasets come from. A store
// loads the full dataset for the single configured customer; the
// fixture store and the SQLite store both satisfy it.
package store

import (
	"context"

	"spendash/internal/core"
)

// Store loads the dashboard dataset.
type Store interface {
	Load(ctx context.Context) (*core.Dataset, error)
	Close() error
}
