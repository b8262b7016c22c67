package gog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"deal_poster/internal/domain"
)

const (
	SourceID   = "gog"
	SourceName = "GOG Discounts"
)

// Config holds GOG source configuration.
type Config struct {
	BaseURL     string
	MinDiscount int
	MinReviews  int
	Limit       int
	Timeout     time.Duration
}

type Source struct {
	httpClient  *http.Client
	baseURL     string
	minDiscount int
	minReviews  int
	limit       int
	logger      *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		minDiscount: cfg.MinDiscount,
		minReviews:  cfg.MinReviews,
		limit:       cfg.Limit,
		logger:      logger.With("source", SourceID),
	}
}

func (s *Source) ID() string {
	return SourceID
}

func (s *Source) Name() string {
	return SourceName
}

func (s *Source) Fetch(ctx context.Context) ([]domain.Deal, error) {
	url := fmt.Sprintf(
		"%s/v1/catalog?discounted=eq:true&countryCode=US&currencyCode=USD&order=desc:discount&limit=%d",
		s.baseURL, s.limit,
	)

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

	var apiResp catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return s.transform(apiResp.Products), nil
}

func (s *Source) transform(products []product) []domain.Deal {
	var deals []domain.Deal

	for _, p := range products {
		if p.Price == nil {
			continue
		}

		discount, ok := parseDiscount(p.Price.Discount)
		if !ok {
			s.logger.Warn("unparseable discount, skipping",
				"title", p.Title,
				"discount", p.Price.Discount,
			)
			continue
		}
		if discount < s.minDiscount || p.ReviewsCount < s.minReviews {
			continue
		}

		amount, err := strconv.ParseFloat(p.Price.FinalMoney.Amount, 64)
		if err != nil {
			continue
		}

		deals = append(deals, domain.Deal{
			SourceID:        "gog_" + p.ID,
			Title:           p.Title,
			DiscountPercent: discount,
			FinalPrice:      amount,
			Currency:        currencyOrDefault(p.Price.FinalMoney.Currency),
			Platform:        domain.PlatformGOG,
			ReviewScore:     p.ReviewsRating * 2, // 0-50 scale to percent
			ReviewCount:     p.ReviewsCount,
			URL:             p.StoreLink,
			ImageURL:        p.CoverHorizontal,
		})
	}

	return deals
}

// parseDiscount normalizes the catalog's signed, string-encoded
// percentage ("-85%", "85") to its absolute numeric value.
func parseDiscount(raw string) (int, bool) {
	cleaned := strings.TrimFunc(raw, func(r rune) bool {
		return r < '0' || r > '9'
	})
	if cleaned == "" {
		return 0, false
	}

	v, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, false
	}
	if v < 0 {
		v = -v
	}
	return v, true
}

func currencyOrDefault(c string) string {
	if c == "" {
		return "USD"
	}
	return c
}
