package config

const (
	// MaxUserIDLength is the maximum length for user identifiers.
	MaxUserIDLength = 128

	// MinComfortRating and MaxComfortRating bound preferences.comfortRating.
	MinComfortRating = 1
	MaxComfortRating = 5

	// MaxPreferenceValueLength caps free-text preference fields
	// (budget, duration, travelStyle, accommodation).
	MaxPreferenceValueLength = 200

	// MaxActivities is the maximum number of activities per record.
	MaxActivities = 50

	// MaxUserQueryLength is the maximum length of a trip-planning query.
	// Long enough for a detailed request, short enough to keep the
	// enriched prompt well inside model context limits.
	MaxUserQueryLength = 4000
)
