package models

import "time"

// ClickStats is the per-token click aggregate. It has its own lifecycle:
// created lazily on the first click, never joined to the link record.
//
// Totals are best-effort: concurrent writers can lose an increment, so
// TotalClicks >= sum(ClicksBySource) is expected but not guaranteed.
type ClickStats struct {
	TotalClicks      int64            `json:"total_clicks"`
	ClicksBySource   map[string]int64 `json:"clicks_by_source,omitempty"`
	ClicksByReferrer map[string]int64 `json:"clicks_by_referrer,omitempty"`
	FirstClick       *time.Time       `json:"first_click,omitempty"`
	LastClick        *time.Time       `json:"last_click,omitempty"`
}
