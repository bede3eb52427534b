package cache

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cloner is satisfied by response types that can deep-copy themselves.
// The loader clones on every hit so callers never share memory through
// the cache.
type Cloner[T any] interface {
	Clone() T
}

// FetchFunc produces a fresh value for a cache key.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Loader wraps an LRU cache with single-flight fetching and a staleness
// window. A fresh entry is served directly. A stale entry is served
// immediately while one background refresh replaces it. A missing entry
// blocks all callers on a single shared fetch.
type Loader[T Cloner[T]] struct {
	logger     *slog.Logger
	store      *LRUCache[T]
	staleAfter time.Duration
	group      singleflight.Group
}

// NewLoader builds a loader over its own LRU store. Entries go stale
// after staleAfter and are evicted entirely after ttl.
func NewLoader[T Cloner[T]](logger *slog.Logger, maxSize int, staleAfter, ttl time.Duration) *Loader[T] {
	return &Loader[T]{
		logger:     logger,
		store:      NewLRUCache[T](maxSize, ttl),
		staleAfter: staleAfter,
	}
}

// Store exposes the underlying LRU so it can be registered with a Manager.
func (l *Loader[T]) Store() *LRUCache[T] { return l.store }

// Load returns the value for key, fetching it when missing. Concurrent
// loads of the same missing key share one fetch. Stale hits return the
// cached value and refresh once in the background.
func (l *Loader[T]) Load(ctx context.Context, key string, fetch FetchFunc[T]) (T, error) {
	if v, fetchedAt, ok := l.store.Get(key); ok {
		if time.Since(fetchedAt) < l.staleAfter {
			return v.Clone(), nil
		}
		l.refresh(ctx, key, fetch)
		return v.Clone(), nil
	}

	res, err, _ := l.group.Do(key, func() (any, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		l.store.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T).Clone(), nil
}

// refresh replaces a stale entry once per key. The fetch outlives the
// triggering request's deadline so a cancelled caller cannot abort it.
func (l *Loader[T]) refresh(ctx context.Context, key string, fetch FetchFunc[T]) {
	bg := context.WithoutCancel(ctx)
	l.group.DoChan("refresh:"+key, func() (any, error) {
		v, err := fetch(bg)
		if err != nil {
			l.logger.Warn("background refresh failed", "key", key, "error", err)
			return nil, err
		}
		l.store.Set(key, v)
		return nil, nil
	})
}

// Invalidate drops a single entry.
func (l *Loader[T]) Invalidate(key string) {
	l.store.Delete(key)
}

// Purge drops every entry.
func (l *Loader[T]) Purge() {
	l.store.Purge()
}
