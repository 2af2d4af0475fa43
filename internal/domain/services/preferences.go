package services

import (
	"context"

	"tripmitra/internal/domain/models"
)

// PreferenceService defines business operations over preference records.
//
// The error-returning methods carry a distinguishable error kind
// (domain.ErrNotFound, domain.ErrValidation, domain.ErrConflict,
// domain.ErrWriteRejected, or an infrastructure fault) up to the HTTP layer.
type PreferenceService interface {
	// Get returns the user's record or domain.ErrNotFound.
	Get(ctx context.Context, userID string) (*models.PreferenceRecord, error)

	// Create inserts a new record. Does not merge with an existing one.
	Create(ctx context.Context, record *models.PreferenceRecord) error

	// Update replaces the stored preferences sub-object with the non-nil fields
	// of the update, creating the record if needed. An update with no fields is
	// a successful no-op. Rewriting identical values is domain.ErrWriteRejected.
	Update(ctx context.Context, userID string, update *models.PreferencesUpdate) error

	// Upsert replaces the preferences sub-object with the raw map, or creates
	// the record with createdAt=now and __v=0. Rewriting identical values is
	// domain.ErrWriteRejected.
	Upsert(ctx context.Context, userID string, prefs map[string]interface{}) error

	// Delete removes the record or returns domain.ErrNotFound.
	Delete(ctx context.Context, userID string) error

	// Summarize returns the flattened preferences or domain.ErrNotFound.
	Summarize(ctx context.Context, userID string) (*models.PreferenceSummary, error)
}

// FailSoftPreferences is the boolean/absent contract: every lower-layer fault
// is logged and collapsed to false or nil.
type FailSoftPreferences interface {
	GetPreferences(ctx context.Context, userID string) *models.PreferenceRecord
	CreatePreferences(ctx context.Context, record *models.PreferenceRecord) bool
	UpdatePreferences(ctx context.Context, userID string, update *models.PreferencesUpdate) bool
	UpsertPreferences(ctx context.Context, userID string, prefs map[string]interface{}) bool
	DeletePreferences(ctx context.Context, userID string) bool
	PreferencesSummary(ctx context.Context, userID string) *models.PreferenceSummary
}
