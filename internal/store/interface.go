// Package store provides durable per-user preference storage behind a
// backend-agnostic contract. The record format is opaque to callers; any
// backend that round-trips UserPreferences faithfully is interchangeable.
package store

import (
	"context"

	"github.com/RickSteadX/Telbooru/internal/domain"
)

// PreferenceStore is the contract for persistent user preferences.
//
// Get never fails with "not found": unknown users receive fresh defaults,
// and a record that cannot be read back is treated as absent rather than
// surfacing an error. Get never creates a durable record as a side effect.
// Save is an atomic replace with last-writer-wins semantics; a reader never
// observes a partially written record. Operations on different users do not
// contend; operations on the same user are linearizable.
type PreferenceStore interface {
	Get(ctx context.Context, userID int64) (*domain.UserPreferences, error)
	Save(ctx context.Context, userID int64, prefs *domain.UserPreferences) error
	Delete(ctx context.Context, userID int64) (bool, error)
	Exists(ctx context.Context, userID int64) (bool, error)
	ListUserIDs(ctx context.Context) ([]int64, error)

	// BulkSave applies each save atomically and independently; a failure on
	// one record does not block the others. Returns the success count.
	BulkSave(ctx context.Context, updates map[int64]*domain.UserPreferences) (int, error)
}
