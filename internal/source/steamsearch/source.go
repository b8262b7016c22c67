package steamsearch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"deal_poster/internal/domain"
)

const (
	SourceID   = "steam_search"
	SourceName = "Steam Search (HTML fallback)"
)

// Config holds the fallback scraper configuration.
type Config struct {
	BaseURL     string
	MinDiscount int
	Timeout     time.Duration
}

// Source scrapes the storefront search-results markup. It is a
// best-effort fallback behind the same Source contract as the JSON
// adapters: any row that does not extract cleanly is skipped silently, a
// page that does not parse at all yields an empty result.
type Source struct {
	httpClient  *http.Client
	baseURL     string
	minDiscount int
	logger      *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		minDiscount: cfg.MinDiscount,
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
	url := fmt.Sprintf("%s/search/?specials=1&cc=us&l=en", s.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return s.extract(doc), nil
}

func (s *Source) extract(doc *goquery.Document) []domain.Deal {
	var deals []domain.Deal

	doc.Find("a.search_result_row").Each(func(_ int, row *goquery.Selection) {
		deal, ok := s.extractRow(row)
		if !ok {
			return
		}
		if deal.DiscountPercent < s.minDiscount {
			return
		}
		deals = append(deals, deal)
	})

	return deals
}

func (s *Source) extractRow(row *goquery.Selection) (domain.Deal, bool) {
	appID, ok := row.Attr("data-ds-appid")
	if !ok || appID == "" {
		return domain.Deal{}, false
	}

	title := strings.TrimSpace(row.Find("span.title").First().Text())
	if title == "" {
		return domain.Deal{}, false
	}

	discount, ok := parsePercent(row.Find("div.search_discount span").First().Text())
	if !ok {
		return domain.Deal{}, false
	}

	price, ok := parsePrice(row.Find("div.discount_final_price").First().Text())
	if !ok {
		return domain.Deal{}, false
	}

	href, _ := row.Attr("href")
	if href == "" {
		href = fmt.Sprintf("%s/app/%s", s.baseURL, appID)
	}

	img, _ := row.Find("div.search_capsule img").First().Attr("src")

	return domain.Deal{
		SourceID:        appID, // raw numeric, matches the legacy Steam id format
		Title:           title,
		DiscountPercent: discount,
		FinalPrice:      price,
		Currency:        "USD",
		Platform:        domain.PlatformSteam,
		URL:             href,
		ImageURL:        img,
	}, true
}

// parsePercent reads "-75%" style markup text.
func parsePercent(text string) (int, bool) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.Trim(cleaned, "-%")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.Atoi(cleaned)
	if err != nil || v < 0 || v > 100 {
		return 0, false
	}
	return v, true
}

// parsePrice reads "$4.99" style markup text. Free items render as
// "Free" in the markup and map to 0.
func parsePrice(text string) (float64, bool) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return 0, false
	}
	if strings.EqualFold(cleaned, "free") {
		return 0, true
	}
	cleaned = strings.TrimLeft(cleaned, "$€£ ")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
