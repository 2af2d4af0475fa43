//go:build integration

package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmitra/internal/domain"
	"tripmitra/internal/domain/models"
)

// Run with: DATABASE_URL=postgres://... go test -tags integration ./internal/repository/postgres/
func newIntegrationRepo(t *testing.T) *PostgresPreferenceRepository {
	t.Helper()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := CreateConnectionPool(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	tables := NewTableNames("it_" + uuid.NewString()[:8] + "_")
	require.NoError(t, EnsureSchema(ctx, pool, tables))
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+tables.Preferences)
	})

	return NewPreferenceRepository(&RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestSetPreferences_WriteClassification(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	res, err := repo.SetPreferences(ctx, "u1", map[string]interface{}{"budget": "low"}, now)
	require.NoError(t, err)
	assert.True(t, res.Upserted, "first write should insert")

	res, err = repo.SetPreferences(ctx, "u1", map[string]interface{}{"budget": "low"}, now)
	require.NoError(t, err)
	assert.False(t, res.Upserted)
	assert.EqualValues(t, 1, res.Matched)
	assert.EqualValues(t, 0, res.Modified, "identical JSON should leave the row alone")

	res, err = repo.SetPreferences(ctx, "u1", map[string]interface{}{"budget": "high", "comfortRating": 4}, now)
	require.NoError(t, err)
	assert.False(t, res.Upserted, "update of an existing row is not an insert")
	assert.EqualValues(t, 1, res.Modified)

	record, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, record.Preferences.Budget)
	assert.Equal(t, "high", *record.Preferences.Budget)
	require.NotNil(t, record.Preferences.ComfortRating)
	assert.Equal(t, 4, *record.Preferences.ComfortRating)
}

func TestInsertAndDelete(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	budget := "mid"
	record := &models.PreferenceRecord{
		UserID:        "u2",
		Preferences:   models.Preferences{Budget: &budget},
		CreatedAt:     time.Now().UTC(),
		SchemaVersion: models.CurrentSchemaVersion,
	}
	require.NoError(t, repo.Insert(ctx, record))

	err := repo.Insert(ctx, record)
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict), "duplicate insert should conflict, got %v", err)
	assert.Equal(t, "u2", conflict.ResourceID)

	deleted, err := repo.Delete(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err := repo.GetByUserID(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, got)
}
