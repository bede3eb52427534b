package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const respKeyPrefix = "spendash:resp:"

// ResponseCache shares rendered API responses across instances through
// Redis. It sits in front of the per-process loaders; a Redis outage
// degrades to pass-through, never to an error.
type ResponseCache struct {
	logger *slog.Logger
	rdb    *redis.Client
	ttl    time.Duration
}

// NewResponseCache connects to Redis and verifies the connection before
// any request depends on it.
func NewResponseCache(ctx context.Context, logger *slog.Logger, redisURL string, ttl time.Duration) (*ResponseCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return &ResponseCache{logger: logger, rdb: rdb, ttl: ttl}, nil
}

func (c *ResponseCache) Close() {
	if err := c.rdb.Close(); err != nil {
		c.logger.Error("Failed to close redis client", "error", err)
	}
}

// middleware serves cached GET responses and records cacheable misses.
// Only 200s are stored; error responses always come from the handler.
func (c *ResponseCache) middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next(w, r)
			return
		}

		key := respKeyPrefix + r.URL.RequestURI()
		cached, err := c.rdb.Get(r.Context(), key).Bytes()
		if err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
		if err != redis.Nil {
			c.logger.WarnContext(r.Context(), "Redis read failed, serving uncached", "error", err)
		}

		rec := &recordingWriter{ResponseWriter: w, statusCode: http.StatusOK}
		w.Header().Set("X-Cache", "MISS")
		next(rec, r)

		if rec.statusCode == http.StatusOK && rec.body.Len() > 0 {
			if err := c.rdb.Set(r.Context(), key, rec.body.Bytes(), c.ttl).Err(); err != nil {
				c.logger.WarnContext(r.Context(), "Redis write failed", "error", err)
			}
		}
	}
}

// Purge drops every cached response. Called on dataset invalidation so
// stale renders cannot outlive the underlying data.
func (c *ResponseCache) Purge(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, respKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// recordingWriter tees the response body so it can be stored after the
// handler runs.
type recordingWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(p []byte) (int, error) {
	rw.body.Write(p)
	return rw.ResponseWriter.Write(p)
}
