package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"deal_poster/internal/config"
	"deal_poster/internal/domain"
)

var defaultTiers = []config.RepostTier{
	{MinPool: 50, Window: 120 * time.Hour},
	{MinPool: 30, Window: 72 * time.Hour},
	{MinPool: 0, Window: 48 * time.Hour},
}

func TestRepostWindow(t *testing.T) {
	tests := []struct {
		name string
		pool int
		want time.Duration
	}{
		{"small pool", 10, 48 * time.Hour},
		{"mid pool", 35, 72 * time.Hour},
		{"large pool", 60, 120 * time.Hour},
		{"mid boundary inclusive", 30, 72 * time.Hour},
		{"large boundary inclusive", 50, 120 * time.Hour},
		{"just under mid boundary", 29, 48 * time.Hour},
		{"empty pool", 0, 48 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RepostWindow(tt.pool, defaultTiers))
		})
	}
}

func TestRepostWindow_TierOrderIrrelevant(t *testing.T) {
	shuffled := []config.RepostTier{
		{MinPool: 0, Window: 48 * time.Hour},
		{MinPool: 50, Window: 120 * time.Hour},
		{MinPool: 30, Window: 72 * time.Hour},
	}

	assert.Equal(t, 120*time.Hour, RepostWindow(80, shuffled))
	assert.Equal(t, 72*time.Hour, RepostWindow(40, shuffled))
	assert.Equal(t, 48*time.Hour, RepostWindow(5, shuffled))
}

func filterPipeline(cfg config.PipelineConfig) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
}

func TestStaticEligible(t *testing.T) {
	cfg := config.PipelineConfig{
		MinDiscount:    25,
		MinReviewScore: 70,
		ExcludeTitles:  []string{"soundtrack", "Demo"},
	}
	p := filterPipeline(cfg)

	base := domain.Deal{
		Title:           "Hades",
		MatchKey:        "hades",
		DiscountPercent: 60,
		FinalPrice:      9.99,
		ReviewScore:     93,
		ReviewCount:     120000,
		ImageURL:        "https://cdn.example.com/hades.jpg",
	}

	tests := []struct {
		name   string
		mutate func(d *domain.Deal)
		want   bool
		reason string
	}{
		{
			name:   "eligible deal",
			mutate: func(d *domain.Deal) {},
			want:   true,
		},
		{
			name:   "discount exactly at floor",
			mutate: func(d *domain.Deal) { d.DiscountPercent = 25 },
			want:   true,
		},
		{
			name:   "discount one below floor",
			mutate: func(d *domain.Deal) { d.DiscountPercent = 24 },
			want:   false,
			reason: "below discount floor",
		},
		{
			name:   "review score below floor",
			mutate: func(d *domain.Deal) { d.ReviewScore = 69 },
			want:   false,
			reason: "below review score floor",
		},
		{
			name:   "unknown review score passes",
			mutate: func(d *domain.Deal) { d.ReviewScore = 0; d.ReviewCount = 0 },
			want:   true,
		},
		{
			name:   "missing image",
			mutate: func(d *domain.Deal) { d.ImageURL = "" },
			want:   false,
			reason: "no image",
		},
		{
			name:   "excluded substring case-insensitive",
			mutate: func(d *domain.Deal) { d.Title = "Hades Original SOUNDTRACK" },
			want:   false,
			reason: "excluded title",
		},
		{
			name:   "excluded pattern matched lowercase",
			mutate: func(d *domain.Deal) { d.Title = "Hades demo" },
			want:   false,
			reason: "excluded title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base
			tt.mutate(&d)

			ok, reason := p.staticEligible(d)

			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestExcluded_EmptyPatternIgnored(t *testing.T) {
	p := filterPipeline(config.PipelineConfig{ExcludeTitles: []string{""}})

	assert.False(t, p.excluded("anything at all"))
}
