// Package memory holds an in-process preference store used for local
// development and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"tripmitra/internal/domain"
	"tripmitra/internal/domain/models"
	"tripmitra/internal/domain/repositories"
)

type entry struct {
	userID        string
	preferences   map[string]interface{}
	createdAt     time.Time
	schemaVersion int
}

// PreferenceRepository keeps preference records in a go-cache without expiry.
type PreferenceRepository struct {
	mu     sync.Mutex
	store  *cache.Cache
	logger *slog.Logger
}

// NewPreferenceRepository creates an empty in-memory repository
func NewPreferenceRepository(logger *slog.Logger) *PreferenceRepository {
	return &PreferenceRepository{
		store:  cache.New(cache.NoExpiration, 0),
		logger: logger,
	}
}

var _ repositories.PreferenceRepository = (*PreferenceRepository)(nil)

func (r *PreferenceRepository) GetByUserID(ctx context.Context, userID string) (*models.PreferenceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.store.Get(userID)
	if !ok {
		return nil, nil
	}
	e := v.(*entry)

	prefs, err := models.PreferencesFromDocument(e.preferences)
	if err != nil {
		return nil, err
	}
	return &models.PreferenceRecord{
		UserID:        e.userID,
		Preferences:   prefs,
		CreatedAt:     e.createdAt,
		SchemaVersion: e.schemaVersion,
	}, nil
}

func (r *PreferenceRepository) Insert(ctx context.Context, record *models.PreferenceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := normalizeDocument(record.Preferences.ToDocument())
	if err != nil {
		return err
	}
	e := &entry{
		userID:        record.UserID,
		preferences:   doc,
		createdAt:     record.CreatedAt,
		schemaVersion: record.SchemaVersion,
	}
	if err := r.store.Add(record.UserID, e, cache.NoExpiration); err != nil {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("preferences for user %q already exist", record.UserID),
			ResourceType: "preferences",
			ResourceID:   record.UserID,
		}
	}
	return nil
}

func (r *PreferenceRepository) SetPreferences(ctx context.Context, userID string, prefs map[string]interface{}, now time.Time) (*repositories.WriteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := normalizeDocument(prefs)
	if err != nil {
		return nil, err
	}

	v, ok := r.store.Get(userID)
	if !ok {
		r.store.Set(userID, &entry{
			userID:        userID,
			preferences:   doc,
			createdAt:     now,
			schemaVersion: models.CurrentSchemaVersion,
		}, cache.NoExpiration)
		return &repositories.WriteResult{Upserted: true}, nil
	}

	e := v.(*entry)
	if reflect.DeepEqual(e.preferences, doc) {
		return &repositories.WriteResult{Matched: 1}, nil
	}
	e.preferences = doc
	return &repositories.WriteResult{Matched: 1, Modified: 1}, nil
}

func (r *PreferenceRepository) Delete(ctx context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store.Get(userID); !ok {
		return false, nil
	}
	r.store.Delete(userID)
	return true, nil
}

func (r *PreferenceRepository) Ping(ctx context.Context) error {
	return nil
}

// normalizeDocument deep-copies a document through JSON so stored values never
// alias caller-owned maps and compare equal regardless of numeric type.
func normalizeDocument(doc map[string]interface{}) (map[string]interface{}, error) {
	if doc == nil {
		return map[string]interface{}{}, nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal preferences: %w", err)
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal preferences: %w", err)
	}
	return out, nil
}
