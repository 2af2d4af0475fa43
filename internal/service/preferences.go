package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tripmitra/internal/config"
	"tripmitra/internal/domain"
	"tripmitra/internal/domain/models"
	"tripmitra/internal/domain/repositories"
	"tripmitra/internal/domain/services"
)

// PreferenceService implements the PreferenceService interface
type PreferenceService struct {
	prefsRepo repositories.PreferenceRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(
	prefsRepo repositories.PreferenceRepository,
	logger *slog.Logger,
) *PreferenceService {
	return &PreferenceService{
		prefsRepo: prefsRepo,
		logger:    logger,
		now:       time.Now,
	}
}

var _ services.PreferenceService = (*PreferenceService)(nil)

// Get retrieves preferences for a user
func (s *PreferenceService) Get(ctx context.Context, userID string) (*models.PreferenceRecord, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	record, err := s.prefsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	if record == nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("no preferences for user %q", userID)}
	}

	return record, nil
}

// Create inserts a new record. An existing record for the user is a conflict.
func (s *PreferenceService) Create(ctx context.Context, record *models.PreferenceRecord) error {
	if record == nil {
		return &domain.ValidationError{Message: "record is required"}
	}
	if err := validateUserID(record.UserID); err != nil {
		return err
	}
	if err := validatePreferences(&record.Preferences); err != nil {
		return err
	}

	record.Preferences.Normalize()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}
	record.SchemaVersion = models.CurrentSchemaVersion

	if err := s.prefsRepo.Insert(ctx, record); err != nil {
		return fmt.Errorf("insert preferences: %w", err)
	}

	s.logger.Info("preferences created", "user_id", record.UserID)
	return nil
}

// Update replaces the preferences sub-object with the non-nil fields of the update
func (s *PreferenceService) Update(ctx context.Context, userID string, update *models.PreferencesUpdate) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if update == nil {
		return nil
	}

	doc := update.ToDocument()
	if len(doc) == 0 {
		s.logger.Debug("empty preferences update, nothing to write", "user_id", userID)
		return nil
	}

	prefs := models.Preferences(*update)
	if err := validatePreferences(&prefs); err != nil {
		return err
	}

	return s.write(ctx, "update", userID, doc)
}

// Upsert replaces the preferences sub-object with the given map, creating the
// record when missing
func (s *PreferenceService) Upsert(ctx context.Context, userID string, prefs map[string]interface{}) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if prefs == nil {
		prefs = map[string]interface{}{}
	}

	decoded, err := models.PreferencesFromDocument(prefs)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validatePreferences(&decoded); err != nil {
		return err
	}

	return s.write(ctx, "upsert", userID, integerRating(prefs, decoded.ComfortRating))
}

// integerRating returns a copy of a raw preferences map with comfortRating
// stored as an int. JSON bodies decode every number as float64.
func integerRating(raw map[string]interface{}, rating *int) map[string]interface{} {
	if rating == nil {
		return raw
	}
	doc := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		doc[k] = v
	}
	doc[models.FieldComfortRating] = *rating
	return doc
}

func (s *PreferenceService) write(ctx context.Context, op, userID string, doc map[string]interface{}) error {
	res, err := s.prefsRepo.SetPreferences(ctx, userID, doc, s.now().UTC())
	if err != nil {
		return fmt.Errorf("%s preferences: %w", op, err)
	}
	// Rewriting a record with identical preferences changes nothing and is
	// reported as a rejected write, the same as a write that matched nothing
	if res.Modified == 0 && !res.Upserted {
		return fmt.Errorf("%s preferences (matched=%d): %w", op, res.Matched, domain.ErrWriteRejected)
	}

	s.logger.Info("preferences written",
		"op", op,
		"user_id", userID,
		"upserted", res.Upserted,
		"modified", res.Modified,
		"fields", len(doc),
	)
	return nil
}

// Delete removes the user's record
func (s *PreferenceService) Delete(ctx context.Context, userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}

	deleted, err := s.prefsRepo.Delete(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	if !deleted {
		return &domain.NotFoundError{Message: fmt.Sprintf("no preferences for user %q", userID)}
	}

	s.logger.Info("preferences deleted", "user_id", userID)
	return nil
}

// Summarize returns the flattened preferences used for query enrichment
func (s *PreferenceService) Summarize(ctx context.Context, userID string) (*models.PreferenceSummary, error) {
	record, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return record.Summary(), nil
}

func validateUserID(userID string) error {
	err := validation.Validate(userID,
		validation.Required.Error("user_id is required"),
		validation.Length(1, config.MaxUserIDLength),
		validation.By(noSurroundingSpace),
	)
	if err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid user_id: %v", err)}
	}
	return nil
}

func noSurroundingSpace(value interface{}) error {
	s, _ := value.(string)
	if s != strings.TrimSpace(s) {
		return errors.New("must not start or end with whitespace")
	}
	return nil
}

func validatePreferences(p *models.Preferences) error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.ComfortRating,
			validation.NilOrNotEmpty,
			validation.Min(config.MinComfortRating),
			validation.Max(config.MaxComfortRating),
		),
		validation.Field(&p.Budget, validation.Length(0, config.MaxPreferenceValueLength)),
		validation.Field(&p.Duration, validation.Length(0, config.MaxPreferenceValueLength)),
		validation.Field(&p.TravelStyle, validation.Length(0, config.MaxPreferenceValueLength)),
		validation.Field(&p.Accommodation, validation.Length(0, config.MaxPreferenceValueLength)),
		validation.Field(&p.Activities,
			validation.Length(0, config.MaxActivities),
			validation.Each(validation.Required, validation.Length(1, config.MaxPreferenceValueLength)),
		),
	)
	if err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid preferences: %v", err)}
	}
	return nil
}

// FailSoftPreferenceService adapts a PreferenceService to the boolean/absent
// contract. Faults are logged with their kind and never surface to the caller.
type FailSoftPreferenceService struct {
	inner  services.PreferenceService
	logger *slog.Logger
}

// NewFailSoftPreferenceService wraps inner
func NewFailSoftPreferenceService(inner services.PreferenceService, logger *slog.Logger) *FailSoftPreferenceService {
	return &FailSoftPreferenceService{inner: inner, logger: logger}
}

var _ services.FailSoftPreferences = (*FailSoftPreferenceService)(nil)

func (s *FailSoftPreferenceService) GetPreferences(ctx context.Context, userID string) *models.PreferenceRecord {
	record, err := s.inner.Get(ctx, userID)
	if err != nil {
		s.logFailure("get", userID, err)
		return nil
	}
	return record
}

func (s *FailSoftPreferenceService) CreatePreferences(ctx context.Context, record *models.PreferenceRecord) bool {
	if err := s.inner.Create(ctx, record); err != nil {
		userID := ""
		if record != nil {
			userID = record.UserID
		}
		s.logFailure("create", userID, err)
		return false
	}
	return true
}

func (s *FailSoftPreferenceService) UpdatePreferences(ctx context.Context, userID string, update *models.PreferencesUpdate) bool {
	if err := s.inner.Update(ctx, userID, update); err != nil {
		s.logFailure("update", userID, err)
		return false
	}
	return true
}

func (s *FailSoftPreferenceService) UpsertPreferences(ctx context.Context, userID string, prefs map[string]interface{}) bool {
	if err := s.inner.Upsert(ctx, userID, prefs); err != nil {
		s.logFailure("upsert", userID, err)
		return false
	}
	return true
}

func (s *FailSoftPreferenceService) DeletePreferences(ctx context.Context, userID string) bool {
	if err := s.inner.Delete(ctx, userID); err != nil {
		s.logFailure("delete", userID, err)
		return false
	}
	return true
}

func (s *FailSoftPreferenceService) PreferencesSummary(ctx context.Context, userID string) *models.PreferenceSummary {
	summary, err := s.inner.Summarize(ctx, userID)
	if err != nil {
		s.logFailure("summary", userID, err)
		return nil
	}
	return summary
}

func (s *FailSoftPreferenceService) logFailure(op, userID string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Debug("preferences not found", "op", op, "user_id", userID)
		return
	}
	s.logger.Warn("preferences operation failed",
		"op", op,
		"user_id", userID,
		"kind", errorKind(err),
		"error", err,
	)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrWriteRejected):
		return "write_rejected"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "store"
	}
}
