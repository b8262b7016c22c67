package steam

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

func testSource(t *testing.T, handler http.HandlerFunc) (*Source, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	src := New(Config{
		BaseURL:        srv.URL,
		Country:        "us",
		MinDiscount:    25,
		Timeout:        5 * time.Second,
		MaxAttempts:    1,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return src, srv
}

const categoriesBody = `{
	"specials": {"items": [
		{"id": 570, "name": "Dota Pass", "discounted": true, "discount_percent": 60, "final_price": 799, "original_price": 1999, "currency": "USD", "header_image": "https://cdn/570_header.jpg"},
		{"id": 42, "name": "Almost Deal", "discounted": true, "discount_percent": 24, "final_price": 1519, "currency": "USD", "header_image": "https://cdn/42.jpg"},
		{"id": 43, "name": "Floor Deal", "discounted": true, "discount_percent": 25, "final_price": 1499, "currency": "USD", "header_image": "https://cdn/43.jpg"},
		{"id": 99, "name": "Full Price", "discounted": false, "discount_percent": 0, "final_price": 5999, "currency": "USD", "header_image": "https://cdn/99.jpg"}
	]},
	"top_sellers": {"items": [
		{"id": 570, "name": "Dota Pass", "discounted": true, "discount_percent": 60, "final_price": 799, "currency": "USD", "header_image": "https://cdn/570_header.jpg"},
		{"id": 77, "name": "Capsule Only", "discounted": true, "discount_percent": 40, "final_price": 899, "currency": "USD", "large_capsule_image": "https://cdn/77_capsule.jpg"}
	]},
	"new_releases": {"items": []},
	"coming_soon": {"items": []}
}`

func TestFetch_TransformsCategories(t *testing.T) {
	src, _ := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/featuredcategories", r.URL.Path)
		assert.Equal(t, "us", r.URL.Query().Get("cc"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, categoriesBody)
	})

	deals, err := src.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, deals, 3)

	dota := deals[0]
	assert.Equal(t, "570", dota.SourceID)
	assert.Equal(t, "Dota Pass", dota.Title)
	assert.Equal(t, 60, dota.DiscountPercent)
	assert.Equal(t, 7.99, dota.FinalPrice)
	assert.Equal(t, "USD", dota.Currency)
	assert.Equal(t, domain.PlatformSteam, dota.Platform)
	assert.Equal(t, src.baseURL+"/app/570", dota.URL)
	assert.Equal(t, "https://cdn/570_header.jpg", dota.ImageURL)

	// 24% sits below the floor, 25% is exactly on it.
	assert.Equal(t, "Floor Deal", deals[1].Title)

	// Capsule image is the fallback when there is no header image.
	assert.Equal(t, "https://cdn/77_capsule.jpg", deals[2].ImageURL)
}

func TestFetch_DuplicateAcrossBucketsKeptOnce(t *testing.T) {
	src, _ := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, categoriesBody)
	})

	deals, err := src.Fetch(context.Background())

	require.NoError(t, err)
	ids := make(map[string]int)
	for _, d := range deals {
		ids[d.SourceID]++
	}
	assert.Equal(t, 1, ids["570"])
}

func TestFetch_RetriesThenSucceeds(t *testing.T) {
	var calls int
	src, _ := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, categoriesBody)
	})
	src.maxAttempts = 3

	deals, err := src.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.NotEmpty(t, deals)
}

func TestFetch_ExhaustedRetriesFail(t *testing.T) {
	var calls int
	src, _ := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})
	src.maxAttempts = 3

	_, err := src.Fetch(context.Background())

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestCalculateBackoff(t *testing.T) {
	src := &Source{
		initialBackoff: time.Second,
		maxBackoff:     5 * time.Second,
	}

	assert.Equal(t, time.Second, src.calculateBackoff(1))
	assert.Equal(t, 2*time.Second, src.calculateBackoff(2))
	assert.Equal(t, 4*time.Second, src.calculateBackoff(3))
	assert.Equal(t, 5*time.Second, src.calculateBackoff(4))
}
