package service

import (
	"context"
	"strings"
	"time"

	"deal_poster/internal/config"
	"deal_poster/internal/domain"
)

// RepostWindow picks the repost window for this run from the tier table,
// sized by the pool of unique eligible deals. A larger pool means a title
// is less likely to need to recur soon, so the window can shrink. Tiers
// are checked in descending MinPool order; the zero tier is the floor.
func RepostWindow(poolSize int, tiers []config.RepostTier) time.Duration {
	best := time.Duration(0)
	bestPool := -1
	for _, t := range tiers {
		if poolSize >= t.MinPool && t.MinPool > bestPool {
			best = t.Window
			bestPool = t.MinPool
		}
	}
	return best
}

// staticEligible applies the checks that need no history lookup: the
// discount floor (a defensive re-check of the adapters' own thresholds),
// the review-score policy when review data is present, a usable image,
// and the curated exclusion list.
func (p *Pipeline) staticEligible(d domain.Deal) (bool, string) {
	if d.DiscountPercent < p.cfg.MinDiscount {
		return false, "below discount floor"
	}
	if d.ReviewScore > 0 && d.ReviewScore < p.cfg.MinReviewScore {
		return false, "below review score floor"
	}
	if d.ImageURL == "" {
		return false, "no image"
	}
	if p.excluded(d.Title) {
		return false, "excluded title"
	}
	return true, ""
}

func (p *Pipeline) excluded(title string) bool {
	lower := strings.ToLower(title)
	for _, pattern := range p.cfg.ExcludeTitles {
		if pattern == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// postedRecently checks the candidate against the history store. The
// boundary is exclusive: only records with created_at strictly after the
// cutoff exclude. A store error fails closed, treating the candidate as
// already posted, so a flaky store can never cause a duplicate post.
func (p *Pipeline) postedRecently(ctx context.Context, d domain.Deal, window time.Duration) bool {
	cutoff := p.now().Add(-window)

	records, err := p.history.RecentPosts(ctx, d.MatchKey, d.SourceID, cutoff)
	if err != nil {
		p.logger.Warn("history lookup failed, skipping candidate",
			"match_key", d.MatchKey,
			"error", err,
		)
		return true
	}

	return len(records) > 0
}
