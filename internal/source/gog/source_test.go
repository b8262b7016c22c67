package gog

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
		BaseURL:     srv.URL,
		MinDiscount: 25,
		MinReviews:  500,
		Limit:       48,
		Timeout:     5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const catalogBody = `{
	"products": [
		{
			"id": "1207664663",
			"title": "Cyberpunk Classic",
			"price": {"final": "$3.99", "discount": "-85%", "finalMoney": {"amount": "3.99", "currency": "USD"}},
			"reviewsRating": 44,
			"reviewsCount": 81234,
			"storeLink": "https://www.gog.com/en/game/cyberpunk_classic",
			"coverHorizontal": "https://images.gog.com/cyberpunk.jpg"
		},
		{
			"id": "2",
			"title": "Barely Discounted",
			"price": {"final": "$15.99", "discount": "-20%", "finalMoney": {"amount": "15.99", "currency": "USD"}},
			"reviewsRating": 45,
			"reviewsCount": 9000
		},
		{
			"id": "3",
			"title": "Obscure Gem",
			"price": {"final": "$1.99", "discount": "-80%", "finalMoney": {"amount": "1.99", "currency": "USD"}},
			"reviewsRating": 48,
			"reviewsCount": 120
		},
		{
			"id": "4",
			"title": "No Price Block",
			"reviewsRating": 40,
			"reviewsCount": 4000
		},
		{
			"id": "5",
			"title": "Mangled Discount",
			"price": {"final": "$9.99", "discount": "soon", "finalMoney": {"amount": "9.99", "currency": "USD"}},
			"reviewsRating": 40,
			"reviewsCount": 4000
		}
	]
}`

func TestFetch_TransformsCatalog(t *testing.T) {
	src := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/catalog", r.URL.Path)
		assert.Equal(t, "eq:true", r.URL.Query().Get("discounted"))
		assert.Equal(t, "48", r.URL.Query().Get("limit"))
		io.WriteString(w, catalogBody)
	})

	deals, err := src.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, deals, 1)

	d := deals[0]
	assert.Equal(t, "gog_1207664663", d.SourceID)
	assert.Equal(t, "Cyberpunk Classic", d.Title)
	assert.Equal(t, 85, d.DiscountPercent)
	assert.Equal(t, 3.99, d.FinalPrice)
	assert.Equal(t, "USD", d.Currency)
	assert.Equal(t, domain.PlatformGOG, d.Platform)
	assert.Equal(t, 88, d.ReviewScore) // 44 on the 0-50 scale
	assert.Equal(t, 81234, d.ReviewCount)
	assert.Equal(t, "https://www.gog.com/en/game/cyberpunk_classic", d.URL)
	assert.Equal(t, "https://images.gog.com/cyberpunk.jpg", d.ImageURL)
}

func TestFetch_BadStatus(t *testing.T) {
	src := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := src.Fetch(context.Background())

	assert.Error(t, err)
}

func TestParseDiscount(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"-85%", 85, true},
		{"85", 85, true},
		{"-30%", 30, true},
		{"0%", 0, true},
		{"", 0, false},
		{"soon", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseDiscount(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
