package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"deal_poster/internal/domain"
)

// PostStore is the append-only history of published deals. Records are
// written once per successful publish and only ever read back through
// windowed queries; nothing updates or deletes them.
type PostStore struct {
	db *sqlx.DB
}

func NewPostStore(db *sqlx.DB) *PostStore {
	return &PostStore{db: db}
}

func (s *PostStore) RecordPost(ctx context.Context, rec *domain.PostRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO posts (external_id, normalized_title, price_reference, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := s.db.QueryRowContext(ctx, query,
		rec.ExternalID,
		rec.NormalizedTitle,
		rec.PriceReference,
		rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

// RecentPosts returns records for the normalized title or the legacy
// external id, newer than since. The comparison is strict, so a record
// created exactly at the window boundary does not match.
func (s *PostStore) RecentPosts(ctx context.Context, matchKey, externalID string, since time.Time) ([]domain.PostRecord, error) {
	query := `
		SELECT id, external_id, normalized_title, price_reference, created_at
		FROM posts
		WHERE (normalized_title = $1 OR external_id = $2)
		  AND created_at > $3
		ORDER BY created_at DESC`

	var records []domain.PostRecord
	if err := s.db.SelectContext(ctx, &records, query, matchKey, externalID, since); err != nil {
		return nil, fmt.Errorf("select recent posts: %w", err)
	}

	return records, nil
}
