package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmitra/internal/repository/memory"
	"tripmitra/internal/service"
)

func newTestSeeder() (*Seeder, *service.PreferenceService) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewPreferenceService(memory.NewPreferenceRepository(logger), logger)
	return NewSeeder(svc, logger), svc
}

func TestLoadSamples(t *testing.T) {
	samples, err := LoadSamples()
	require.NoError(t, err)
	require.NotEmpty(t, samples)

	for _, s := range samples {
		assert.NotEmpty(t, s.UserID)
		assert.NotNil(t, s.Preferences)
	}
}

func TestParseSamples_Rejects(t *testing.T) {
	_, err := parseSamples([]byte("- preferences: {budget: low}\n"))
	assert.Error(t, err, "missing user_id")

	_, err = parseSamples([]byte("- user_id: a\n- user_id: a\n"))
	assert.Error(t, err, "duplicate user_id")

	_, err = parseSamples([]byte("user_id: [\n"))
	assert.Error(t, err, "malformed yaml")
}

func TestSeeder_SeedAndClear(t *testing.T) {
	ctx := context.Background()
	seeder, svc := newTestSeeder()

	samples, err := LoadSamples()
	require.NoError(t, err)

	written, err := seeder.Seed(ctx, samples)
	require.NoError(t, err)
	assert.Equal(t, len(samples), written)

	record, err := svc.Get(ctx, "seed_budget_backpacker")
	require.NoError(t, err)
	require.NotNil(t, record.Preferences.Budget)
	assert.Equal(t, "low", *record.Preferences.Budget)
	assert.Equal(t, []string{"hiking", "street food", "local markets"}, record.Preferences.Activities)

	// Seeding twice skips unchanged samples rather than failing
	written, err = seeder.Seed(ctx, samples)
	require.NoError(t, err)
	assert.Zero(t, written)

	removed, err := seeder.Clear(ctx, samples)
	require.NoError(t, err)
	assert.Equal(t, len(samples), removed)

	removed, err = seeder.Clear(ctx, samples)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSeeder_SeedCollectsInvalidSamples(t *testing.T) {
	ctx := context.Background()
	seeder, _ := newTestSeeder()

	samples := []Sample{
		{UserID: "ok", Preferences: map[string]interface{}{"budget": "low"}},
		{UserID: "bad", Preferences: map[string]interface{}{"comfortRating": 9}},
	}

	written, err := seeder.Seed(ctx, samples)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "seed bad")
	assert.Equal(t, 1, written)
}
