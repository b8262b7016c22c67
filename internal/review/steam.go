package review

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client reads review statistics from the Steam storefront, which acts as
// the primary review source for storefronts that expose none of their own.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		logger:     logger.With("client", "steam_reviews"),
	}
}

// Summary is the aggregate review data for one app.
type Summary struct {
	ScorePercent int // percent positive across all reviews
	TotalReviews int
}

type reviewsResponse struct {
	Success      int `json:"success"`
	QuerySummary struct {
		ReviewScore   int `json:"review_score"`
		TotalPositive int `json:"total_positive"`
		TotalReviews  int `json:"total_reviews"`
	} `json:"query_summary"`
}

// AppReviews fetches the review summary for a Steam app id.
func (c *Client) AppReviews(ctx context.Context, appID string) (*Summary, error) {
	u := fmt.Sprintf("%s/appreviews/%s?json=1&language=all&purchase_type=all&num_per_page=0",
		c.baseURL, url.PathEscape(appID))

	var resp reviewsResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	if resp.Success != 1 {
		return nil, fmt.Errorf("reviews lookup failed for app %s", appID)
	}

	sum := &Summary{TotalReviews: resp.QuerySummary.TotalReviews}
	if sum.TotalReviews > 0 {
		sum.ScorePercent = resp.QuerySummary.TotalPositive * 100 / sum.TotalReviews
	}
	return sum, nil
}

type searchResponse struct {
	Items []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"items"`
}

// ResolveAppID maps a title to a Steam app id through the store search
// endpoint. Returns an empty id when nothing matches.
func (c *Client) ResolveAppID(ctx context.Context, title string) (string, error) {
	u := fmt.Sprintf("%s/api/storesearch/?term=%s&cc=us&l=en", c.baseURL, url.QueryEscape(title))

	var resp searchResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", nil
	}

	// The search endpoint ranks by relevance; the top hit is the cross
	// reference unless it is clearly a different product.
	return fmt.Sprint(resp.Items[0].ID), nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
