package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tripmitra/internal/domain"
	"tripmitra/internal/domain/models"
	"tripmitra/internal/domain/repositories"
)

// PostgresPreferenceRepository implements the PreferenceRepository interface
// on a JSONB column.
type PostgresPreferenceRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewPreferenceRepository creates a new PostgresPreferenceRepository
func NewPreferenceRepository(config *RepositoryConfig) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

var _ repositories.PreferenceRepository = (*PostgresPreferenceRepository)(nil)

// GetByUserID retrieves the record for a user
func (r *PostgresPreferenceRepository) GetByUserID(ctx context.Context, userID string) (*models.PreferenceRecord, error) {
	query := fmt.Sprintf(`
		SELECT user_id, preferences, created_at, schema_version
		FROM %s
		WHERE user_id = $1
	`, r.tables.Preferences)

	var (
		record models.PreferenceRecord
		doc    map[string]interface{}
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&record.UserID,
		&doc,
		&record.CreatedAt,
		&record.SchemaVersion,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	record.Preferences, err = models.PreferencesFromDocument(doc)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// Insert stores a new record
func (r *PostgresPreferenceRepository) Insert(ctx context.Context, record *models.PreferenceRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, preferences, created_at, schema_version)
		VALUES ($1, $2, $3, $4)
	`, r.tables.Preferences)

	tag, err := r.pool.Exec(ctx, query,
		record.UserID,
		record.Preferences.ToDocument(),
		record.CreatedAt,
		record.SchemaVersion,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("preferences for user %q already exist", record.UserID),
				ResourceType: "preferences",
				ResourceID:   record.UserID,
			}
		}
		return fmt.Errorf("insert preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("insert preferences: %w", domain.ErrWriteRejected)
	}

	return nil
}

// SetPreferences replaces the preferences column, inserting the row if absent.
// The conflict branch only fires when the JSON actually differs, so no row
// returned means the record matched but was left unchanged. xmax is zero only
// on a freshly inserted tuple; an updated tuple carries the locking
// transaction id. This relies on PostgreSQL heap internals and is covered by
// the integration-tagged tests.
func (r *PostgresPreferenceRepository) SetPreferences(ctx context.Context, userID string, prefs map[string]interface{}, now time.Time) (*repositories.WriteResult, error) {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (user_id, preferences, created_at, schema_version)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			preferences = EXCLUDED.preferences
		WHERE %[1]s.preferences IS DISTINCT FROM EXCLUDED.preferences
		RETURNING (xmax = 0) AS inserted
	`, r.tables.Preferences)

	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		userID,
		prefs,
		now,
		models.CurrentSchemaVersion,
	).Scan(&inserted)
	if err != nil {
		if IsPgNoRowsError(err) {
			return &repositories.WriteResult{Matched: 1}, nil
		}
		return nil, fmt.Errorf("set preferences: %w", err)
	}

	if inserted {
		return &repositories.WriteResult{Upserted: true}, nil
	}
	return &repositories.WriteResult{Matched: 1, Modified: 1}, nil
}

// Delete removes the user's record
func (r *PostgresPreferenceRepository) Delete(ctx context.Context, userID string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, r.tables.Preferences)

	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return false, fmt.Errorf("delete preferences: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Ping checks the backing store is reachable
func (r *PostgresPreferenceRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
