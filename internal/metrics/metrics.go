package metrics

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"lotlinks/internal/kv"
	"lotlinks/internal/models"
)

var (
	clickTotalsDesc = prometheus.NewDesc(
		"lotlinks_share_link_clicks_total",
		"Total recorded share link clicks by tenant",
		[]string{"tenant"},
		nil,
	)

	resolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lotlinks_resolutions_total",
		Help: "Share link resolution attempts by outcome",
	}, []string{"outcome"})
)

// ClickCollector is a custom Prometheus collector that reads click
// aggregates from the clicks store on each scrape.
type ClickCollector struct {
	store kv.Store
}

// Describe sends the metric descriptor to the channel.
func (c *ClickCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- clickTotalsDesc
}

// Collect walks the clicks namespace and emits per-tenant totals.
func (c *ClickCollector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	keys, err := c.store.List(ctx, "")
	if err != nil {
		slog.Error("failed to collect click metrics", "error", err)
		return
	}

	totals := make(map[string]int64)
	for _, key := range keys {
		tenant, _, ok := strings.Cut(key, "/")
		if !ok {
			continue
		}
		data, err := c.store.Get(ctx, key)
		if err != nil {
			continue
		}
		var stats models.ClickStats
		if err := json.Unmarshal(data, &stats); err != nil {
			continue
		}
		totals[tenant] += stats.TotalClicks
	}

	for tenant, total := range totals {
		ch <- prometheus.MustNewConstMetric(
			clickTotalsDesc,
			prometheus.CounterValue,
			float64(total),
			tenant,
		)
	}
}

var initOnce sync.Once

// Init registers the collectors. Must be called once at startup.
func Init(clicksStore kv.Store) {
	initOnce.Do(func() {
		prometheus.MustRegister(&ClickCollector{store: clicksStore})
		prometheus.MustRegister(resolutions)
	})
}

// RecordResolution counts one resolution attempt by outcome
// (redirect, invalid, expired, revoked, not_found, malformed, error).
func RecordResolution(outcome string) {
	resolutions.WithLabelValues(outcome).Inc()
}
