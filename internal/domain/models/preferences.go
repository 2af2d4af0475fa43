package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Document field names inside the preferences sub-object. These are camelCase
// because other consumers read the same documents.
const (
	FieldComfortRating = "comfortRating"
	FieldBudget        = "budget"
	FieldDuration      = "duration"
	FieldTravelStyle   = "travelStyle"
	FieldAccommodation = "accommodation"
	FieldActivities    = "activities"
)

// CurrentSchemaVersion is written to __v on records created by this service.
const CurrentSchemaVersion = 0

// Preferences is the structured travel-preference sub-object.
// Every field is optional; nil means "unspecified".
type Preferences struct {
	ComfortRating *int     `json:"comfortRating"` // 1-5
	Budget        *string  `json:"budget"`
	Duration      *string  `json:"duration"`
	TravelStyle   *string  `json:"travelStyle"`
	Accommodation *string  `json:"accommodation"`
	Activities    []string `json:"activities"`
}

// PreferenceRecord is the persisted per-user preference document.
type PreferenceRecord struct {
	UserID        string      `json:"user_id"`
	Preferences   Preferences `json:"preferences"`
	CreatedAt     time.Time   `json:"createdAt"`
	SchemaVersion int         `json:"__v"`
}

// PreferencesUpdate is a partial update. Non-nil fields form the new preferences
// sub-object; nil fields are dropped from storage (replace, not patch).
type PreferencesUpdate struct {
	ComfortRating *int     `json:"comfortRating"`
	Budget        *string  `json:"budget"`
	Duration      *string  `json:"duration"`
	TravelStyle   *string  `json:"travelStyle"`
	Accommodation *string  `json:"accommodation"`
	Activities    []string `json:"activities"`
}

// PreferenceSummary is the flattened view handed to query enrichment.
type PreferenceSummary struct {
	ComfortRating *int     `json:"comfort_rating"`
	Budget        *string  `json:"budget"`
	Duration      *string  `json:"duration"`
	TravelStyle   *string  `json:"travel_style"`
	Accommodation *string  `json:"accommodation"`
	Activities    []string `json:"activities"`
}

// Normalize replaces a nil activities list with an empty one so the record
// always serializes activities as an array.
func (p *Preferences) Normalize() {
	if p.Activities == nil {
		p.Activities = []string{}
	}
}

// ToDocument converts preferences to the stored sub-document. Unset scalar
// fields are omitted; activities is always present.
func (p *Preferences) ToDocument() map[string]interface{} {
	doc := make(map[string]interface{}, 6)
	if p.ComfortRating != nil {
		doc[FieldComfortRating] = *p.ComfortRating
	}
	if p.Budget != nil {
		doc[FieldBudget] = *p.Budget
	}
	if p.Duration != nil {
		doc[FieldDuration] = *p.Duration
	}
	if p.TravelStyle != nil {
		doc[FieldTravelStyle] = *p.TravelStyle
	}
	if p.Accommodation != nil {
		doc[FieldAccommodation] = *p.Accommodation
	}
	activities := p.Activities
	if activities == nil {
		activities = []string{}
	}
	doc[FieldActivities] = activities
	return doc
}

// ToDocument returns only the non-nil fields of the update.
// An empty map means the update carries nothing.
func (u *PreferencesUpdate) ToDocument() map[string]interface{} {
	doc := make(map[string]interface{}, 6)
	if u.ComfortRating != nil {
		doc[FieldComfortRating] = *u.ComfortRating
	}
	if u.Budget != nil {
		doc[FieldBudget] = *u.Budget
	}
	if u.Duration != nil {
		doc[FieldDuration] = *u.Duration
	}
	if u.TravelStyle != nil {
		doc[FieldTravelStyle] = *u.TravelStyle
	}
	if u.Accommodation != nil {
		doc[FieldAccommodation] = *u.Accommodation
	}
	if u.Activities != nil {
		doc[FieldActivities] = u.Activities
	}
	return doc
}

// PreferencesFromDocument decodes a stored sub-document into typed preferences.
// Unknown keys are ignored. Re-marshals through JSON so driver-specific numeric
// and array types (int32, float64, primitive.A) decode uniformly.
func PreferencesFromDocument(doc map[string]interface{}) (Preferences, error) {
	var prefs Preferences
	if doc == nil {
		prefs.Normalize()
		return prefs, nil
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return prefs, fmt.Errorf("marshal preferences document: %w", err)
	}
	if err := json.Unmarshal(data, &prefs); err != nil {
		return prefs, fmt.Errorf("decode preferences document: %w", err)
	}

	prefs.Normalize()
	return prefs, nil
}

// Summary flattens the record's preferences for query enrichment.
func (r *PreferenceRecord) Summary() *PreferenceSummary {
	return &PreferenceSummary{
		ComfortRating: r.Preferences.ComfortRating,
		Budget:        r.Preferences.Budget,
		Duration:      r.Preferences.Duration,
		TravelStyle:   r.Preferences.TravelStyle,
		Accommodation: r.Preferences.Accommodation,
		Activities:    r.Preferences.Activities,
	}
}
