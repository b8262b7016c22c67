package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"deal_poster/internal/config"
	"deal_poster/internal/domain"
	"deal_poster/internal/publisher"
)

// Pipeline is the deal-selection pipeline: concurrent multi-source fetch,
// normalization, cross-source merge, eligibility filtering and the
// selector/publisher loop. One Run produces exactly one terminal outcome.
//
// A single Run is single-threaded after the fetch join; concurrent Runs
// are not safe against each other (two could publish the same deal) and
// must be serialized by the caller.
type Pipeline struct {
	sources   []Source
	history   HistoryStore
	publisher Publisher
	images    ImageFetcher
	converter Converter
	events    EventEmitter // optional, may be nil
	cfg       config.PipelineConfig
	logger    *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(
	sources []Source,
	history HistoryStore,
	pub Publisher,
	images ImageFetcher,
	converter Converter,
	events EventEmitter,
	logger *slog.Logger,
	cfg config.PipelineConfig,
) *Pipeline {
	return &Pipeline{
		sources:   sources,
		history:   history,
		publisher: pub,
		images:    images,
		converter: converter,
		events:    events,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

// Run executes one full pipeline invocation.
func (p *Pipeline) Run(ctx context.Context) *domain.RunResult {
	start := p.now()
	stats := domain.RunStats{}

	deals := p.fetchAll(ctx)
	stats.Fetched = len(deals)

	for i := range deals {
		deals[i].MatchKey = MatchKey(deals[i].Title)
	}

	merged := Merge(deals)
	stats.Unique = len(merged)

	pool := make([]domain.Deal, 0, len(merged))
	for _, d := range merged {
		ok, reason := p.staticEligible(d)
		if !ok {
			p.logger.Debug("candidate rejected", "title", d.Title, "reason", reason)
			continue
		}
		pool = append(pool, d)
	}
	stats.Eligible = len(pool)

	window := RepostWindow(len(pool), p.cfg.RepostTiers)
	p.logger.Info("candidate pool ready",
		"fetched", stats.Fetched,
		"unique", stats.Unique,
		"eligible", stats.Eligible,
		"repost_window", window,
	)

	result := p.scan(ctx, pool, window, &stats)
	result.Stats = stats
	result.Stats.Duration = p.now().Sub(start)

	p.logger.Info("run finished",
		"outcome", result.Outcome,
		"attempts", result.Stats.Attempts,
		"skipped", result.Stats.Skipped,
		"duration", result.Stats.Duration,
	)

	return result
}

// fetchAll runs every source adapter concurrently and joins before
// normalization. Results land in fixed slots so the merge fold always
// sees the same concatenation order no matter which adapter finished
// first. A failing adapter contributes an empty list, never an error.
func (p *Pipeline) fetchAll(ctx context.Context) []domain.Deal {
	results := make([][]domain.Deal, len(p.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range p.sources {
		i, src := i, src
		g.Go(func() error {
			deals, err := src.Fetch(gctx)
			if err != nil {
				p.logger.Warn("source unavailable", "source", src.ID(), "error", err)
				return nil
			}
			p.logger.Debug("source fetched", "source", src.ID(), "count", len(deals))
			results[i] = deals
			return nil
		})
	}
	_ = g.Wait()

	var all []domain.Deal
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

// scan iterates the ranked pool and tries to publish the first candidate
// that clears the lazy checks. History lookups happen here, per
// candidate, because the repost window depends on the pool size computed
// above. A failed image fetch skips the candidate without consuming the
// attempt budget; a rate-limit signal halts the run immediately.
func (p *Pipeline) scan(ctx context.Context, pool []domain.Deal, window time.Duration, stats *domain.RunStats) *domain.RunResult {
	for _, cand := range pool {
		if err := ctx.Err(); err != nil {
			return &domain.RunResult{Outcome: domain.OutcomeFatal, Err: err}
		}

		if p.postedRecently(ctx, cand, window) {
			p.logger.Debug("candidate inside repost window", "title", cand.Title)
			stats.Skipped++
			continue
		}

		image, err := p.images.Fetch(ctx, cand.ImageURL)
		if err != nil {
			p.logger.Warn("image unavailable, skipping candidate",
				"title", cand.Title,
				"image_url", cand.ImageURL,
				"error", err,
			)
			stats.Skipped++
			continue
		}

		stats.Attempts++
		postID, err := p.publisher.PublishImage(ctx, image, p.caption(ctx, cand))
		if err == nil {
			p.recordPost(ctx, cand, postID)
			p.logger.Info("deal published",
				"title", cand.Title,
				"discount", cand.DiscountPercent,
				"platform", cand.Platform,
				"post_id", postID,
			)
			return &domain.RunResult{Outcome: domain.OutcomePublished, Deal: &cand}
		}

		switch {
		case errors.Is(err, publisher.ErrRateLimited):
			p.logger.Warn("publisher rate limited, halting run", "error", err)
			return &domain.RunResult{Outcome: domain.OutcomeRateLimited}
		case errors.Is(err, publisher.ErrFatal):
			p.logger.Error("fatal publish error", "error", err)
			return &domain.RunResult{Outcome: domain.OutcomeFatal, Err: err}
		}

		p.logger.Warn("publish failed",
			"title", cand.Title,
			"attempt", stats.Attempts,
			"error", err,
		)

		if serr := p.sleep(ctx, p.cfg.Cooldown); serr != nil {
			return &domain.RunResult{Outcome: domain.OutcomeFatal, Err: serr}
		}
		if stats.Attempts >= p.cfg.AttemptBudget {
			return &domain.RunResult{Outcome: domain.OutcomeExhaustedAttempts}
		}
	}

	return &domain.RunResult{Outcome: domain.OutcomeNoneEligible}
}

// recordPost writes the history record and fans the event out. Neither
// failure downgrades the Published outcome; the post already happened.
func (p *Pipeline) recordPost(ctx context.Context, d domain.Deal, postID string) {
	rec := &domain.PostRecord{
		ExternalID:      d.SourceID,
		NormalizedTitle: d.MatchKey,
		PriceReference:  d.FinalPrice,
		CreatedAt:       p.now().UTC(),
	}
	if err := p.history.RecordPost(ctx, rec); err != nil {
		p.logger.Error("failed to record post", "title", d.Title, "error", err)
	}

	if p.events == nil {
		return
	}
	if err := p.events.DealPosted(ctx, &d, postID); err != nil {
		p.logger.Warn("failed to emit posted-deal event", "title", d.Title, "error", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
