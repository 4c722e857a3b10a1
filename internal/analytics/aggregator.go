// Package analytics maintains per-token click aggregates over the
// clicks kv namespace.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"lotlinks/internal/kv"
	"lotlinks/internal/models"
)

// Aggregator records clicks with a read-merge-write protocol. Two
// concurrent clicks inside the same read-write window can lose an
// increment; with a plain get/set store contract that is the accepted
// trade-off. Exact counts would need a single-writer queue per token or
// a backend with atomic increments.
type Aggregator struct {
	store kv.Store
}

// NewAggregator creates an aggregator over the clicks namespace.
func NewAggregator(store kv.Store) *Aggregator {
	return &Aggregator{store: store}
}

func statsKey(tenantID, token string) string {
	return tenantID + "/" + token
}

// RecordClick folds one click into the token's aggregate. The stats
// record is created lazily on the first click. source is a coarse
// campaign label; referrer is reduced to its host before counting.
func (a *Aggregator) RecordClick(ctx context.Context, tenantID, token, source, referrer string) error {
	key := statsKey(tenantID, token)

	var stats models.ClickStats
	data, err := a.store.Get(ctx, key)
	switch {
	case err == nil:
		if uerr := json.Unmarshal(data, &stats); uerr != nil {
			// An unreadable aggregate should not fail the click; start
			// a fresh one and keep counting.
			slog.Warn("resetting corrupt click stats", "key", key, "error", uerr)
			stats = models.ClickStats{}
		}
	case errors.Is(err, kv.ErrNotFound):
	default:
		return fmt.Errorf("load click stats: %w", err)
	}

	now := time.Now().UTC()
	stats.TotalClicks++
	if stats.FirstClick == nil {
		first := now
		stats.FirstClick = &first
	}
	last := now
	stats.LastClick = &last

	if source != "" {
		if stats.ClicksBySource == nil {
			stats.ClicksBySource = make(map[string]int64)
		}
		stats.ClicksBySource[source]++
	}
	if host := NormalizeReferrer(referrer); host != "" {
		if stats.ClicksByReferrer == nil {
			stats.ClicksByReferrer = make(map[string]int64)
		}
		stats.ClicksByReferrer[host]++
	}

	out, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal click stats: %w", err)
	}
	if err := a.store.Set(ctx, key, out); err != nil {
		return fmt.Errorf("write click stats: %w", err)
	}
	return nil
}

// Stats returns the aggregate for a token, or a zero value when no
// click has been recorded yet.
func (a *Aggregator) Stats(ctx context.Context, tenantID, token string) (*models.ClickStats, error) {
	data, err := a.store.Get(ctx, statsKey(tenantID, token))
	if errors.Is(err, kv.ErrNotFound) {
		return &models.ClickStats{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load click stats: %w", err)
	}

	var stats models.ClickStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("decode click stats: %w", err)
	}
	return &stats, nil
}

// NormalizeReferrer reduces a referrer value to a lowercase host with
// no scheme, port, or path. A bare host like "example.com" parses as a
// path, so the parse is retried with a scheme prefixed. Returns "" when
// no host can be extracted.
func NormalizeReferrer(referrer string) string {
	referrer = strings.TrimSpace(referrer)
	if referrer == "" {
		return ""
	}

	u, err := url.Parse(referrer)
	if err != nil || u.Host == "" {
		u, err = url.Parse("http://" + referrer)
		if err != nil || u.Host == "" {
			return ""
		}
	}
	return strings.ToLower(u.Hostname())
}
