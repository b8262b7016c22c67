package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"deal_poster/internal/domain"
)

const (
	SourceID   = "steam"
	SourceName = "Steam Specials"
)

// Config holds Steam source configuration.
type Config struct {
	BaseURL        string
	Country        string
	MinDiscount    int
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Source fetches the storefront's curated category listings.
type Source struct {
	httpClient     *http.Client
	baseURL        string
	country        string
	minDiscount    int
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		country:        cfg.Country,
		minDiscount:    cfg.MinDiscount,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", SourceID),
	}
}

func (s *Source) ID() string {
	return SourceID
}

func (s *Source) Name() string {
	return SourceName
}

// Fetch unions the category buckets (specials, top sellers, new releases,
// coming soon), dedupes app ids by first occurrence, and keeps only items
// on sale at or above the discount floor.
func (s *Source) Fetch(ctx context.Context) ([]domain.Deal, error) {
	resp, err := s.fetchCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch featured categories: %w", err)
	}

	return s.transform(resp), nil
}

func (s *Source) fetchCategories(ctx context.Context) (*featuredCategoriesResponse, error) {
	url := fmt.Sprintf("%s/api/featuredcategories?cc=%s&l=en", s.baseURL, s.country)

	var resp *featuredCategoriesResponse
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		resp, err = s.doRequest(ctx, url)
		if err == nil {
			return resp, nil
		}

		if attempt == s.maxAttempts {
			break
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
}

func (s *Source) doRequest(ctx context.Context, url string) (*featuredCategoriesResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "DealPoster/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var apiResp featuredCategoriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &apiResp, nil
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}

func (s *Source) transform(resp *featuredCategoriesResponse) []domain.Deal {
	buckets := [][]item{
		resp.Specials.Items,
		resp.TopSellers.Items,
		resp.NewReleases.Items,
		resp.ComingSoon.Items,
	}

	seen := make(map[int64]struct{})
	var deals []domain.Deal

	for _, bucket := range buckets {
		for _, it := range bucket {
			if _, dup := seen[it.ID]; dup {
				continue
			}
			seen[it.ID] = struct{}{}

			if !it.Discounted || it.DiscountPercent < s.minDiscount {
				continue
			}

			currency := it.Currency
			if currency == "" {
				currency = "USD"
			}

			deals = append(deals, domain.Deal{
				SourceID:        fmt.Sprint(it.ID),
				Title:           it.Name,
				DiscountPercent: it.DiscountPercent,
				FinalPrice:      float64(it.FinalPrice) / 100, // cents to major units
				Currency:        currency,
				Platform:        domain.PlatformSteam,
				URL:             fmt.Sprintf("%s/app/%d", s.baseURL, it.ID),
				ImageURL:        s.pickImage(it),
			})
		}
	}

	return deals
}

func (s *Source) pickImage(it item) string {
	if it.HeaderImage != "" {
		return it.HeaderImage
	}
	return it.LargeCapsuleImage
}
