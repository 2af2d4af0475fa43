package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestPreferencesUpdateToDocument_OnlyNonNilFields(t *testing.T) {
	update := PreferencesUpdate{Duration: strPtr("3 days")}

	doc := update.ToDocument()

	want := map[string]interface{}{FieldDuration: "3 days"}
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("ToDocument() = %v, want %v", doc, want)
	}
}

func TestPreferencesUpdateToDocument_EmptyActivitiesIsProvided(t *testing.T) {
	update := PreferencesUpdate{Activities: []string{}}

	doc := update.ToDocument()

	if _, ok := doc[FieldActivities]; !ok {
		t.Error("explicit empty activities list should be part of the update")
	}
	if len((&PreferencesUpdate{}).ToDocument()) != 0 {
		t.Error("update with no fields should produce an empty document")
	}
}

func TestPreferencesFromDocument_DriverTypes(t *testing.T) {
	// Mongo decodes numbers as int32/float64 and arrays as []interface{}.
	doc := map[string]interface{}{
		FieldComfortRating: int32(4),
		FieldBudget:        "medium",
		FieldActivities:    []interface{}{"hiking", "food"},
		"legacyField":      true,
	}

	prefs, err := PreferencesFromDocument(doc)
	if err != nil {
		t.Fatalf("PreferencesFromDocument failed: %v", err)
	}
	if prefs.ComfortRating == nil || *prefs.ComfortRating != 4 {
		t.Errorf("comfortRating = %v, want 4", prefs.ComfortRating)
	}
	if prefs.Budget == nil || *prefs.Budget != "medium" {
		t.Errorf("budget = %v, want medium", prefs.Budget)
	}
	if prefs.Duration != nil {
		t.Errorf("duration = %v, want nil", *prefs.Duration)
	}
	if !reflect.DeepEqual(prefs.Activities, []string{"hiking", "food"}) {
		t.Errorf("activities = %v", prefs.Activities)
	}
}

func TestPreferencesFromDocument_NilDocument(t *testing.T) {
	prefs, err := PreferencesFromDocument(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prefs.Activities == nil || len(prefs.Activities) != 0 {
		t.Errorf("activities should default to empty list, got %v", prefs.Activities)
	}
}

func TestPreferenceRecordJSONShape(t *testing.T) {
	record := PreferenceRecord{
		UserID:      "u1",
		Preferences: Preferences{Budget: strPtr("low"), ComfortRating: intPtr(3)},
	}
	record.Preferences.Normalize()

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"user_id", "preferences", "createdAt", "__v"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing top-level key %q in %s", key, data)
		}
	}
	prefs := raw["preferences"].(map[string]interface{})
	if prefs["comfortRating"] != float64(3) {
		t.Errorf("preferences.comfortRating = %v, want 3", prefs["comfortRating"])
	}
	if _, ok := prefs["travelStyle"]; !ok {
		t.Error("unset fields should serialize as null under their camelCase names")
	}
}

func TestQueryPayloadResolveUserID(t *testing.T) {
	tests := []struct {
		name    string
		payload QueryPayload
		want    string
	}{
		{"top-level id", QueryPayload{UserID: "u1", UserMeta: map[string]interface{}{"user_id": "meta"}}, "u1"},
		{"meta fallback", QueryPayload{UserMeta: map[string]interface{}{"user_id": "12345"}}, "12345"},
		{"meta non-string", QueryPayload{UserMeta: map[string]interface{}{"user_id": 12345}}, ""},
		{"nothing", QueryPayload{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.payload.ResolveUserID(); got != tt.want {
				t.Errorf("ResolveUserID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseItineraries(t *testing.T) {
	text := "```json\n{\"itineraries\":[{\"id\":\"budget-trip\",\"title\":\"Budget Explorer\",\"route\":{\"return\":{\"departure\":{\"location\":\"Goa\"}}}}],\"success\":true,\"message\":\"ok\"}\n```"

	resp, err := ParseItineraries(text)
	if err != nil {
		t.Fatalf("ParseItineraries failed: %v", err)
	}
	if len(resp.Itineraries) != 1 {
		t.Fatalf("expected 1 itinerary, got %d", len(resp.Itineraries))
	}
	if resp.Itineraries[0].Route.Return.Departure.Location != "Goa" {
		t.Errorf("return departure = %q, want Goa", resp.Itineraries[0].Route.Return.Departure.Location)
	}

	if _, err := ParseItineraries("I need more details about your budget."); err == nil {
		t.Error("expected error for non-JSON agent output")
	}
}
