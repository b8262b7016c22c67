package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Converter looks up exchange rates from the rate service. Convert never
// fails: any lookup problem falls back to the fixed configured rate, so a
// flaky rate API can only ever skew the caption, not block a post.
type Converter struct {
	httpClient   *http.Client
	baseURL      string
	fallbackRate float64
	logger       *slog.Logger
}

type Config struct {
	BaseURL      string
	FallbackRate float64 // USD -> TRY
	Timeout      time.Duration
}

func New(cfg Config, logger *slog.Logger) *Converter {
	return &Converter{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		baseURL:      cfg.BaseURL,
		fallbackRate: cfg.FallbackRate,
		logger:       logger.With("client", "currency"),
	}
}

type ratesResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

func (c *Converter) Convert(ctx context.Context, amount float64, from, to string) float64 {
	if from == to {
		return amount
	}

	rate, err := c.rate(ctx, from, to)
	if err != nil {
		c.logger.Warn("rate lookup failed, using fallback",
			"from", from,
			"to", to,
			"fallback", c.fallbackRate,
			"error", err,
		)
		rate = c.fallbackRate
	}

	return amount * rate
}

func (c *Converter) rate(ctx context.Context, from, to string) (float64, error) {
	url := fmt.Sprintf("%s/latest/%s", c.baseURL, from)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var rates ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&rates); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	rate, ok := rates.Rates[to]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("no rate for %s", to)
	}
	return rate, nil
}
