package domain

import "time"

// PostRecord is one published deal, persisted append-only. Records are
// never mutated or deleted; eligibility checks only read them back by
// normalized title (or legacy numeric id) within a time window.
type PostRecord struct {
	ID              int64     `db:"id"`
	ExternalID      string    `db:"external_id"`
	NormalizedTitle string    `db:"normalized_title"`
	PriceReference  float64   `db:"price_reference"`
	CreatedAt       time.Time `db:"created_at"`
}
