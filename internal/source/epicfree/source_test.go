package epicfree

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deal_poster/internal/domain"
)

func testSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(Config{
		BaseURL:             srv.URL,
		Locale:              "en-US",
		Country:             "US",
		Timeout:             5 * time.Second,
		GiveawayReviewScore: 95,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const promotionsBody = `{
	"data": {"Catalog": {"searchStore": {"elements": [
		{
			"title": "Control",
			"id": "abc",
			"productSlug": "control",
			"urlSlug": "control-general",
			"keyImages": [
				{"type": "Thumbnail", "url": "https://cdn/control_thumb.jpg"},
				{"type": "OfferImageWide", "url": "https://cdn/control_wide.jpg"}
			],
			"price": {"totalPrice": {"discountPrice": 0, "originalPrice": 2999, "currencyCode": "USD"}},
			"promotions": {"promotionalOffers": [
				{"promotionalOffers": [{"discountSetting": {"discountType": "PERCENTAGE", "discountPercentage": 0}}]}
			]}
		},
		{
			"title": "Upcoming Game",
			"id": "def",
			"productSlug": "upcoming",
			"price": {"totalPrice": {"discountPrice": 1999, "originalPrice": 1999, "currencyCode": "USD"}},
			"promotions": {"promotionalOffers": []}
		},
		{
			"title": "No Promotions",
			"id": "ghi",
			"productSlug": "nopromo",
			"price": {"totalPrice": {"currencyCode": "USD"}}
		},
		{
			"title": "Placeholder Slug",
			"id": "jkl",
			"productSlug": "[]",
			"urlSlug": "[]",
			"catalogNs": {"mappings": [{"pageSlug": "placeholder-game"}]},
			"keyImages": [{"type": "DieselStoreFrontWide", "url": "https://cdn/placeholder.jpg"}],
			"price": {"totalPrice": {"currencyCode": "USD"}},
			"promotions": {"promotionalOffers": [
				{"promotionalOffers": [{"discountSetting": {"discountType": "PERCENTAGE", "discountPercentage": 0}}]}
			]}
		}
	]}}}
}`

func TestFetch_ActiveGiveaways(t *testing.T) {
	src := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/freeGamesPromotions", r.URL.Path)
		assert.Equal(t, "en-US", r.URL.Query().Get("locale"))
		assert.Equal(t, "US", r.URL.Query().Get("country"))
		io.WriteString(w, promotionsBody)
	})

	deals, err := src.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, deals, 2)

	control := deals[0]
	assert.Equal(t, "epic_control", control.SourceID)
	assert.Equal(t, "Control", control.Title)
	assert.Equal(t, 100, control.DiscountPercent)
	assert.Equal(t, 0.0, control.FinalPrice)
	assert.True(t, control.Giveaway())
	assert.Equal(t, domain.PlatformEpic, control.Platform)
	assert.Equal(t, 95, control.ReviewScore)
	assert.Equal(t, "https://store.epicgames.com/en-US/p/control", control.URL)
	assert.Equal(t, "https://cdn/control_wide.jpg", control.ImageURL)

	// "[]" placeholders fall through to the catalog mapping slug.
	assert.Equal(t, "epic_placeholder-game", deals[1].SourceID)
}

func TestFetch_BadStatus(t *testing.T) {
	src := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := src.Fetch(context.Background())

	assert.Error(t, err)
}

func TestActiveGiveaway(t *testing.T) {
	free := element{Promotions: &promotions{PromotionalOffers: []offerGroup{
		{PromotionalOffers: []offer{{}}},
	}}}
	assert.True(t, activeGiveaway(free))

	partial := element{Promotions: &promotions{PromotionalOffers: []offerGroup{
		{PromotionalOffers: []offer{{}}},
	}}}
	partial.Promotions.PromotionalOffers[0].PromotionalOffers[0].DiscountSetting.DiscountPercentage = 75
	assert.False(t, activeGiveaway(partial))

	assert.False(t, activeGiveaway(element{}))
}

func TestResolveSlug(t *testing.T) {
	tests := []struct {
		name string
		e    element
		want string
	}{
		{
			name: "product slug preferred",
			e:    element{ProductSlug: "first", URLSlug: "second"},
			want: "first",
		},
		{
			name: "url slug second",
			e:    element{URLSlug: "second"},
			want: "second",
		},
		{
			name: "mapping slug last",
			e:    element{CatalogNs: catalogNs{Mappings: []mapping{{PageSlug: "third"}}}},
			want: "third",
		},
		{
			name: "placeholders skipped",
			e:    element{ProductSlug: "[]", URLSlug: "real-slug"},
			want: "real-slug",
		},
		{
			name: "nothing usable",
			e:    element{ProductSlug: "[]"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveSlug(tt.e))
		})
	}
}

func TestPickImage(t *testing.T) {
	images := []keyImage{
		{Type: "Thumbnail", URL: "thumb"},
		{Type: "DieselStoreFrontWide", URL: "diesel"},
		{Type: "OfferImageWide", URL: "wide"},
	}

	assert.Equal(t, "wide", pickImage(images))
	assert.Equal(t, "diesel", pickImage(images[:2]))
	assert.Equal(t, "thumb", pickImage(images[:1]))
	assert.Equal(t, "", pickImage(nil))

	unknown := []keyImage{{Type: "CodeRedemption", URL: "fallback"}}
	assert.Equal(t, "fallback", pickImage(unknown))
}
