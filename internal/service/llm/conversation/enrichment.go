package conversation

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"tripmitra/internal/domain/models"
)

// NotSpecified stands in for any preference the user has not set.
const NotSpecified = "Not specified"

// SummaryProvider returns a user's flattened preferences, or nil when there are none.
type SummaryProvider interface {
	PreferencesSummary(ctx context.Context, userID string) *models.PreferenceSummary
}

// QueryEnricher appends stored preferences to free-text trip queries.
type QueryEnricher struct {
	summaries SummaryProvider
	logger    *slog.Logger
}

// NewQueryEnricher creates a new QueryEnricher
func NewQueryEnricher(summaries SummaryProvider, logger *slog.Logger) *QueryEnricher {
	return &QueryEnricher{
		summaries: summaries,
		logger:    logger,
	}
}

// Enrich returns the query with the user's preference block appended. Users
// without stored preferences get their query back unchanged.
func (e *QueryEnricher) Enrich(ctx context.Context, userID, query string) string {
	summary := e.summaries.PreferencesSummary(ctx, userID)
	e.logger.Debug("enriching query",
		"user_id", userID,
		"has_preferences", summary != nil,
	)
	return BuildEnrichedQuery(query, summary)
}

// BuildEnrichedQuery renders the preference block after the query. Output
// depends only on its arguments.
func BuildEnrichedQuery(query string, summary *models.PreferenceSummary) string {
	if summary == nil {
		return query
	}

	comfort := NotSpecified
	if summary.ComfortRating != nil {
		comfort = strconv.Itoa(*summary.ComfortRating)
	}
	activities := lo.Ternary(len(summary.Activities) > 0, strings.Join(summary.Activities, ", "), NotSpecified)

	var b strings.Builder
	b.WriteString(query)
	b.WriteString("\n\nUser Preferences:\n")
	b.WriteString("- Budget: " + lo.FromPtrOr(summary.Budget, NotSpecified) + "\n")
	b.WriteString("- Travel Style: " + lo.FromPtrOr(summary.TravelStyle, NotSpecified) + "\n")
	b.WriteString("- Duration: " + lo.FromPtrOr(summary.Duration, NotSpecified) + "\n")
	b.WriteString("- Accommodation: " + lo.FromPtrOr(summary.Accommodation, NotSpecified) + "\n")
	b.WriteString("- Comfort Rating: " + comfort + "\n")
	b.WriteString("- Activities: " + activities + "\n")
	b.WriteString("\nPlease use these preferences to personalize the itinerary recommendations.\n")
	return b.String()
}
