package epicfree

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
	SourceID   = "epic_free"
	SourceName = "Epic Free Games"

	// The promotions API marks a full giveaway with a 0% "discount":
	// the discountPercentage field holds the price multiplier, not the
	// depth, so 0 means the game costs nothing.
	giveawayMarker = 0
)

// Config holds Epic free-games source configuration.
type Config struct {
	BaseURL string
	Locale  string
	Country string
	Timeout time.Duration

	// GiveawayReviewScore is assigned to every giveaway since the API
	// exposes no review data and free titles are near-universally
	// promotable.
	GiveawayReviewScore int
}

type Source struct {
	httpClient          *http.Client
	baseURL             string
	locale              string
	country             string
	giveawayReviewScore int
	logger              *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient:          &http.Client{Timeout: cfg.Timeout},
		baseURL:             cfg.BaseURL,
		locale:              cfg.Locale,
		country:             cfg.Country,
		giveawayReviewScore: cfg.GiveawayReviewScore,
		logger:              logger.With("source", SourceID),
	}
}

func (s *Source) ID() string {
	return SourceID
}

func (s *Source) Name() string {
	return SourceName
}

// Fetch returns the currently active giveaways as 100%-off deals.
func (s *Source) Fetch(ctx context.Context) ([]domain.Deal, error) {
	url := fmt.Sprintf("%s/freeGamesPromotions?locale=%s&country=%s", s.baseURL, s.locale, s.country)

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

	var apiResp freeGamesResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return s.transform(apiResp.Data.Catalog.SearchStore.Elements), nil
}

func (s *Source) transform(elements []element) []domain.Deal {
	var deals []domain.Deal

	for _, e := range elements {
		if !activeGiveaway(e) {
			continue
		}

		slug := resolveSlug(e)
		if slug == "" {
			s.logger.Warn("giveaway has no usable slug, skipping", "title", e.Title)
			continue
		}

		deals = append(deals, domain.Deal{
			SourceID:        "epic_" + slug,
			Title:           e.Title,
			DiscountPercent: 100,
			FinalPrice:      0,
			Currency:        currencyOrDefault(e),
			Platform:        domain.PlatformEpic,
			ReviewScore:     s.giveawayReviewScore,
			URL:             fmt.Sprintf("https://store.epicgames.com/%s/p/%s", s.locale, slug),
			ImageURL:        pickImage(e.KeyImages),
		})
	}

	return deals
}

func activeGiveaway(e element) bool {
	if e.Promotions == nil {
		return false
	}
	for _, group := range e.Promotions.PromotionalOffers {
		for _, o := range group.PromotionalOffers {
			if o.DiscountSetting.DiscountPercentage == giveawayMarker {
				return true
			}
		}
	}
	return false
}

// resolveSlug picks the landing-page slug from the three possible fields
// in priority order. The API is known to ship literal "[]" placeholders
// in retired fields.
func resolveSlug(e element) string {
	candidates := []string{e.ProductSlug, e.URLSlug}
	if len(e.CatalogNs.Mappings) > 0 {
		candidates = append(candidates, e.CatalogNs.Mappings[0].PageSlug)
	}

	for _, c := range candidates {
		if c != "" && c != "[]" {
			return c
		}
	}
	return ""
}

var imagePriority = []string{"OfferImageWide", "DieselStoreFrontWide", "Thumbnail"}

func pickImage(images []keyImage) string {
	for _, wanted := range imagePriority {
		for _, img := range images {
			if img.Type == wanted && img.URL != "" {
				return img.URL
			}
		}
	}
	if len(images) > 0 {
		return images[0].URL
	}
	return ""
}

func currencyOrDefault(e element) string {
	if c := e.Price.TotalPrice.CurrencyCode; c != "" {
		return c
	}
	return "USD"
}
