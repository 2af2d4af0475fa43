package repositories

import (
	"context"
	"time"

	"tripmitra/internal/domain/models"
)

// WriteResult reports what a preferences write did to the store.
type WriteResult struct {
	Matched  int64 // documents matched by user_id
	Modified int64 // documents whose content changed
	Upserted bool  // a new document was created
}

// PreferenceRepository defines the interface for preference document access.
type PreferenceRepository interface {
	// GetByUserID retrieves the record for a user.
	// Returns nil, nil if no record exists.
	GetByUserID(ctx context.Context, userID string) (*models.PreferenceRecord, error)

	// Insert stores a new record.
	// Returns a *domain.ConflictError if a record for the user already exists.
	Insert(ctx context.Context, record *models.PreferenceRecord) error

	// SetPreferences replaces the whole preferences sub-object of the user's record.
	// If no record exists one is created with createdAt=now and __v=0.
	SetPreferences(ctx context.Context, userID string, prefs map[string]interface{}, now time.Time) (*WriteResult, error)

	// Delete removes the user's record. Returns false if nothing was removed.
	Delete(ctx context.Context, userID string) (bool, error)

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
}
