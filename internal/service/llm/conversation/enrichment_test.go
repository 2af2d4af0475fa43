package conversation

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/samber/lo"

	"tripmitra/internal/domain/models"
	llmModels "tripmitra/internal/domain/models/llm"
	domainllm "tripmitra/internal/domain/services/llm"
)

type staticSummaries map[string]*models.PreferenceSummary

func (s staticSummaries) PreferencesSummary(_ context.Context, userID string) *models.PreferenceSummary {
	return s[userID]
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildEnrichedQuery(t *testing.T) {
	summary := &models.PreferenceSummary{
		Budget:     lo.ToPtr("medium"),
		Activities: []string{"hiking", "food"},
	}

	got := BuildEnrichedQuery("Plan a trip", summary)

	for _, want := range []string{
		"Plan a trip\n\nUser Preferences:\n",
		"- Budget: medium\n",
		"- Activities: hiking, food\n",
		"- Duration: Not specified\n",
		"- Travel Style: Not specified\n",
		"- Accommodation: Not specified\n",
		"- Comfort Rating: Not specified\n",
		"Please use these preferences to personalize the itinerary recommendations.\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("enriched query missing %q\ngot:\n%s", want, got)
		}
	}
}

func TestBuildEnrichedQuery_Full(t *testing.T) {
	summary := &models.PreferenceSummary{
		ComfortRating: lo.ToPtr(4),
		Budget:        lo.ToPtr("low"),
		Duration:      lo.ToPtr("5 days"),
		TravelStyle:   lo.ToPtr("solo"),
		Accommodation: lo.ToPtr("hostel"),
		Activities:    []string{"trekking"},
	}

	want := "Go to Manali" +
		"\n\nUser Preferences:\n" +
		"- Budget: low\n" +
		"- Travel Style: solo\n" +
		"- Duration: 5 days\n" +
		"- Accommodation: hostel\n" +
		"- Comfort Rating: 4\n" +
		"- Activities: trekking\n" +
		"\nPlease use these preferences to personalize the itinerary recommendations.\n"

	if got := BuildEnrichedQuery("Go to Manali", summary); got != want {
		t.Errorf("BuildEnrichedQuery() =\n%q\nwant\n%q", got, want)
	}
}

func TestBuildEnrichedQuery_EmptyActivities(t *testing.T) {
	got := BuildEnrichedQuery("q", &models.PreferenceSummary{Activities: []string{}})
	if !strings.Contains(got, "- Activities: Not specified\n") {
		t.Errorf("empty activities should render as not specified, got:\n%s", got)
	}
}

func TestBuildEnrichedQuery_NoPreferences(t *testing.T) {
	query := "Plan a weekend in Goa  \n"
	if got := BuildEnrichedQuery(query, nil); got != query {
		t.Errorf("BuildEnrichedQuery(nil) = %q, want %q", got, query)
	}
}

func TestEnrich_Deterministic(t *testing.T) {
	enricher := NewQueryEnricher(staticSummaries{
		"u1": {Budget: lo.ToPtr("medium"), Activities: []string{"hiking", "food"}},
	}, testLogger())

	first := enricher.Enrich(context.Background(), "u1", "Plan a trip")
	second := enricher.Enrich(context.Background(), "u1", "Plan a trip")
	if first != second {
		t.Errorf("enrichment not deterministic:\n%q\n%q", first, second)
	}

	if got := enricher.Enrich(context.Background(), "unknown", "Plan a trip"); got != "Plan a trip" {
		t.Errorf("unknown user should get the raw query, got %q", got)
	}
}

func TestBuildMessages(t *testing.T) {
	mb := NewMessageBuilder(testLogger())
	history := []llmModels.Event{
		{ID: "1", Author: llmModels.AuthorUser, Text: "first question", TurnComplete: true},
		{ID: "2", Author: "trip_mitra_agent", Text: "par", Partial: true},
		{ID: "3", Author: "trip_mitra_agent", Text: "partial answer", TurnComplete: true},
		{ID: "4", Author: "trip_mitra_agent", Text: ""},
	}

	msgs := mb.BuildMessages(history, domainllm.Message{Role: domainllm.RoleUser, Text: "second question"})

	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Role != domainllm.RoleUser || msgs[0].Text != "first question" {
		t.Errorf("unexpected first message: %+v", msgs[0])
	}
	if msgs[1].Role != domainllm.RoleModel || msgs[1].Text != "partial answer" {
		t.Errorf("unexpected second message: %+v", msgs[1])
	}
	if msgs[2].Text != "second question" {
		t.Errorf("next message should be last, got %+v", msgs[2])
	}
}
