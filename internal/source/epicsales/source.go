package epicsales

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"deal_poster/internal/domain"
	"deal_poster/internal/review"
)

const (
	SourceID   = "epic_sales"
	SourceName = "Epic Sales (aggregator)"
)

// ReviewResolver resolves and reads Steam review statistics; the
// aggregator carries no review data of its own.
type ReviewResolver interface {
	AppReviews(ctx context.Context, appID string) (*review.Summary, error)
	ResolveAppID(ctx context.Context, title string) (string, error)
}

// Config holds aggregator source configuration. This source is noisier
// than the first-party ones, hence the higher discount bar and the
// mandatory review-sample threshold.
type Config struct {
	BaseURL     string
	StoreID     string
	MinDiscount int
	MinReviews  int
	PageSize    int
	Timeout     time.Duration
}

type Source struct {
	httpClient  *http.Client
	baseURL     string
	storeID     string
	minDiscount int
	minReviews  int
	pageSize    int
	reviews     ReviewResolver
	logger      *slog.Logger
}

func New(cfg Config, reviews ReviewResolver, logger *slog.Logger) *Source {
	return &Source{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		storeID:     cfg.StoreID,
		minDiscount: cfg.MinDiscount,
		minReviews:  cfg.MinReviews,
		pageSize:    cfg.PageSize,
		reviews:     reviews,
		logger:      logger.With("source", SourceID),
	}
}

func (s *Source) ID() string {
	return SourceID
}

func (s *Source) Name() string {
	return SourceName
}

// Fetch pulls the aggregator's Epic deals, keeps deep discounts only, and
// enriches each with Steam review statistics. Items that cannot be
// cross-referenced or fall under the sample threshold are dropped
// silently; only the enrichment call itself gets a debug line.
func (s *Source) Fetch(ctx context.Context) ([]domain.Deal, error) {
	url := fmt.Sprintf("%s/deals?storeID=%s&pageSize=%d&onSale=1", s.baseURL, s.storeID, s.pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var raw []aggregatorDeal
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return s.transform(ctx, raw), nil
}

func (s *Source) transform(ctx context.Context, raw []aggregatorDeal) []domain.Deal {
	var deals []domain.Deal

	for _, r := range raw {
		savings, err := strconv.ParseFloat(r.Savings, 64)
		if err != nil {
			continue
		}
		discount := int(savings)
		if discount < s.minDiscount {
			continue
		}

		price, err := strconv.ParseFloat(r.SalePrice, 64)
		if err != nil {
			continue
		}

		sum := s.enrich(ctx, r)
		if sum == nil || sum.TotalReviews < s.minReviews {
			continue
		}

		deals = append(deals, domain.Deal{
			SourceID:        "epic_" + r.DealID,
			Title:           r.Title,
			DiscountPercent: discount,
			FinalPrice:      price,
			Currency:        "USD",
			Platform:        domain.PlatformEpic,
			ReviewScore:     sum.ScorePercent,
			ReviewCount:     sum.TotalReviews,
			URL:             fmt.Sprintf("%s/redirect?dealID=%s", s.baseURL, r.DealID),
			ImageURL:        r.Thumb,
		})
	}

	return deals
}

func (s *Source) enrich(ctx context.Context, r aggregatorDeal) *review.Summary {
	appID := r.SteamAppID
	if appID == "" || appID == "0" {
		resolved, err := s.reviews.ResolveAppID(ctx, r.Title)
		if err != nil || resolved == "" {
			s.logger.Debug("could not resolve app id", "title", r.Title, "error", err)
			return nil
		}
		appID = resolved
	}

	sum, err := s.reviews.AppReviews(ctx, appID)
	if err != nil {
		s.logger.Debug("review lookup failed", "title", r.Title, "app_id", appID, "error", err)
		return nil
	}
	return sum
}
