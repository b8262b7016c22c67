package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"deal_poster/internal/domain"
)

// Source is one storefront adapter. Fetch returns the normalized deals the
// source currently offers; the pipeline treats an error as an empty result.
type Source interface {
	ID() string
	Name() string
	Fetch(ctx context.Context) ([]domain.Deal, error)
}

// HistoryStore is the append-only record of published deals.
type HistoryStore interface {
	// RecentPosts returns records matching the normalized title or the
	// legacy external id with created_at strictly after since.
	RecentPosts(ctx context.Context, matchKey, externalID string, since time.Time) ([]domain.PostRecord, error)
	RecordPost(ctx context.Context, rec *domain.PostRecord) error
}

// Publisher posts one image with a caption to the social account and
// returns the post identifier. Failures are classified via the sentinel
// errors in internal/publisher.
type Publisher interface {
	PublishImage(ctx context.Context, image []byte, caption string) (string, error)
}

// ImageFetcher retrieves a promotional image for publishing.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Converter converts an amount between currencies. It never fails; a
// lookup problem falls back to a fixed configured rate.
type Converter interface {
	Convert(ctx context.Context, amount float64, from, to string) float64
}

// EventEmitter fans a successfully posted deal out to downstream
// consumers. Best effort; errors are logged and never affect the run.
type EventEmitter interface {
	DealPosted(ctx context.Context, deal *domain.Deal, postID string) error
}
