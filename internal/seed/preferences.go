// Package seed loads demo preference records into the configured store.
package seed

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"tripmitra/internal/domain"
	"tripmitra/internal/domain/services"
)

//go:embed data/sample_preferences.yaml
var sampleFS embed.FS

// Sample is one seeded user
type Sample struct {
	UserID      string                 `yaml:"user_id"`
	Preferences map[string]interface{} `yaml:"preferences"`
}

// LoadSamples parses the embedded sample preferences.
func LoadSamples() ([]Sample, error) {
	data, err := sampleFS.ReadFile("data/sample_preferences.yaml")
	if err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}
	return parseSamples(data)
}

func parseSamples(data []byte) ([]Sample, error) {
	var samples []Sample
	if err := yaml.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("parse samples: %w", err)
	}

	seen := make(map[string]bool, len(samples))
	for i, s := range samples {
		if s.UserID == "" {
			return nil, fmt.Errorf("sample %d: user_id is required", i)
		}
		if seen[s.UserID] {
			return nil, fmt.Errorf("sample %d: duplicate user_id %q", i, s.UserID)
		}
		seen[s.UserID] = true
	}
	return samples, nil
}

// Seeder writes samples through the preference service so seeded records
// pass the same validation as API writes.
type Seeder struct {
	prefs  services.PreferenceService
	logger *slog.Logger
}

// NewSeeder creates a seeder
func NewSeeder(prefs services.PreferenceService, logger *slog.Logger) *Seeder {
	return &Seeder{prefs: prefs, logger: logger}
}

// Seed upserts every sample and returns how many records changed. Samples
// already stored unchanged are skipped. Failures are collected and the
// remaining samples are still written.
func (s *Seeder) Seed(ctx context.Context, samples []Sample) (int, error) {
	var errs []error
	written := 0
	for _, sample := range samples {
		err := s.prefs.Upsert(ctx, sample.UserID, sample.Preferences)
		switch {
		case errors.Is(err, domain.ErrWriteRejected):
			s.logger.Debug("sample unchanged", "user_id", sample.UserID)
			continue
		case err != nil:
			errs = append(errs, fmt.Errorf("seed %s: %w", sample.UserID, err))
			continue
		}
		written++
		s.logger.Debug("seeded preferences", "user_id", sample.UserID)
	}
	return written, errors.Join(errs...)
}

// Clear deletes the sample users. Users already absent are skipped.
func (s *Seeder) Clear(ctx context.Context, samples []Sample) (int, error) {
	var errs []error
	removed := 0
	for _, sample := range samples {
		err := s.prefs.Delete(ctx, sample.UserID)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, domain.ErrNotFound):
		default:
			errs = append(errs, fmt.Errorf("clear %s: %w", sample.UserID, err))
		}
	}
	return removed, errors.Join(errs...)
}
