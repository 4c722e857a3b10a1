package analytics

import (
	"context"
	"testing"

	"lotlinks/internal/kv"
)

func TestRecordClickAccumulates(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(kv.NewMemoryStore())

	const n = 7
	for i := 0; i < n; i++ {
		source := "direct"
		if i%2 == 0 {
			source = "spring-sale"
		}
		if err := agg.RecordClick(ctx, "t-valley", "tok-1", source, "https://www.facebook.com/some/post"); err != nil {
			t.Fatalf("RecordClick() #%d error = %v", i, err)
		}
	}

	stats, err := agg.Stats(ctx, "t-valley", "tok-1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.TotalClicks != n {
		t.Errorf("TotalClicks = %d, want %d", stats.TotalClicks, n)
	}

	var bySource int64
	for _, count := range stats.ClicksBySource {
		bySource += count
	}
	if bySource != n {
		t.Errorf("sum(ClicksBySource) = %d, want %d", bySource, n)
	}
	if stats.ClicksBySource["spring-sale"] != 4 || stats.ClicksBySource["direct"] != 3 {
		t.Errorf("ClicksBySource = %v", stats.ClicksBySource)
	}
	if stats.ClicksByReferrer["www.facebook.com"] != n {
		t.Errorf("ClicksByReferrer = %v", stats.ClicksByReferrer)
	}
}

func TestRecordClickSetsFirstAndLastClick(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(kv.NewMemoryStore())

	if err := agg.RecordClick(ctx, "t-valley", "tok-1", "direct", ""); err != nil {
		t.Fatalf("RecordClick() error = %v", err)
	}

	first, err := agg.Stats(ctx, "t-valley", "tok-1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if first.FirstClick == nil || first.LastClick == nil {
		t.Fatal("FirstClick/LastClick not set on first click")
	}

	if err := agg.RecordClick(ctx, "t-valley", "tok-1", "direct", ""); err != nil {
		t.Fatalf("RecordClick() error = %v", err)
	}

	second, err := agg.Stats(ctx, "t-valley", "tok-1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if !second.FirstClick.Equal(*first.FirstClick) {
		t.Errorf("FirstClick moved: %v -> %v", first.FirstClick, second.FirstClick)
	}
	if second.LastClick.Before(*first.LastClick) {
		t.Errorf("LastClick went backwards: %v -> %v", first.LastClick, second.LastClick)
	}
}

func TestRecordClickSkipsEmptySourceAndReferrer(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(kv.NewMemoryStore())

	if err := agg.RecordClick(ctx, "t-valley", "tok-1", "", ""); err != nil {
		t.Fatalf("RecordClick() error = %v", err)
	}

	stats, err := agg.Stats(ctx, "t-valley", "tok-1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalClicks != 1 {
		t.Errorf("TotalClicks = %d, want 1", stats.TotalClicks)
	}
	if len(stats.ClicksBySource) != 0 || len(stats.ClicksByReferrer) != 0 {
		t.Errorf("breakdowns recorded for empty inputs: %v / %v", stats.ClicksBySource, stats.ClicksByReferrer)
	}
}

func TestStatsForUnknownTokenIsZero(t *testing.T) {
	agg := NewAggregator(kv.NewMemoryStore())

	stats, err := agg.Stats(context.Background(), "t-valley", "never-clicked")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalClicks != 0 || stats.FirstClick != nil {
		t.Errorf("Stats() for unknown token = %+v, want zero value", stats)
	}
}

func TestRecordClickRecoversFromCorruptStats(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	agg := NewAggregator(store)

	if err := store.Set(ctx, "t-valley/tok-1", []byte("{not json")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := agg.RecordClick(ctx, "t-valley", "tok-1", "direct", ""); err != nil {
		t.Fatalf("RecordClick() over corrupt stats error = %v", err)
	}

	stats, err := agg.Stats(ctx, "t-valley", "tok-1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalClicks != 1 {
		t.Errorf("TotalClicks = %d, want 1 after reset", stats.TotalClicks)
	}
}

func TestNormalizeReferrer(t *testing.T) {
	tests := []struct {
		name     string
		referrer string
		want     string
	}{
		{"full url", "https://www.example.com/path?q=1", "www.example.com"},
		{"bare host", "example.com", "example.com"},
		{"host with port", "http://example.com:8443/page", "example.com"},
		{"uppercase host", "HTTPS://Example.COM/x", "example.com"},
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"garbage", "::::", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeReferrer(tt.referrer); got != tt.want {
				t.Errorf("NormalizeReferrer(%q) = %q, want %q", tt.referrer, got, tt.want)
			}
		})
	}
}
