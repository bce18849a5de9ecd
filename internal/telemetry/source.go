// Package telemetry pulls per-card review history out of a spaced repetition
// collection and reshapes it into per-node review states the recommender can
// score. Two source implementations are provided: an HTTP connector for the
// review platform's JSON action API and a reader over a local review-state
// database for deployments colocated with the flashcard store.
package telemetry

import (
	"context"
	"encoding/json"
)

// RawReviewRecord is one review record as reported by a telemetry source,
// before linkage resolution. The linkage block is kept opaque here because
// its schema varies across collection generations; the adapter decodes it.
type RawReviewRecord struct {
	RecordID     string          `json:"record_id"`
	IntervalDays float64         `json:"interval_days"`
	Lapses       int             `json:"lapses"`
	Reps         int             `json:"reps"`
	EaseFactor   *int            `json:"ease_factor,omitempty"`
	Linkage      json.RawMessage `json:"linkage,omitempty"`
}

// Source is the client-side contract for a review telemetry backend. Query
// returns every review record matching the collection filter in a single
// round trip; an empty filter means the whole collection.
type Source interface {
	Query(ctx context.Context, filter string) ([]RawReviewRecord, error)
}
