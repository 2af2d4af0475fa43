package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ItineraryResponse is the JSON document the trip agent is instructed to produce.
type ItineraryResponse struct {
	Itineraries []TripItinerary `json:"itineraries"`
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
}

// TripItinerary is one itinerary option (Budget Friendly, Mid-Range, Premium).
type TripItinerary struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Type       string     `json:"type"`
	Duration   string     `json:"duration"`
	Budget     string     `json:"budget"`
	Rating     int        `json:"rating"`
	Summary    string     `json:"summary"`
	Highlights []string   `json:"highlights"`
	Route      Route      `json:"route"`
	Vehicles   []Vehicle  `json:"vehicles"`
	Hotels     []Hotel    `json:"hotels"`
	Activities []Activity `json:"activities"`
	MapData    *MapData   `json:"mapData,omitempty"`
}

// Location is a departure or arrival point.
type Location struct {
	Location string `json:"location"`
	Time     string `json:"time"`
	Date     string `json:"date"`
}

// ReturnJourney holds the return leg of a route.
type ReturnJourney struct {
	Departure Location `json:"departure"`
	Arrival   Location `json:"arrival"`
}

// Route is the outbound and return travel plan.
type Route struct {
	Departure Location      `json:"departure"`
	Arrival   Location      `json:"arrival"`
	Return    ReturnJourney `json:"return"`
}

// Vehicle is a transportation option.
type Vehicle struct {
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Duration string   `json:"duration"`
	Features []string `json:"features"`
}

// Hotel is an accommodation option.
type Hotel struct {
	Name      string   `json:"name"`
	Rating    int      `json:"rating"`
	Price     string   `json:"price"`
	Location  string   `json:"location"`
	Amenities []string `json:"amenities"`
}

// Activity is a planned activity.
type Activity struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Duration    string `json:"duration"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// MapMarker is a point on the trip map.
type MapMarker struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Title string  `json:"title"`
	Type  string  `json:"type"`
}

// MapData centers the map and lists markers.
type MapData struct {
	Center  MapMarker   `json:"center"`
	Markers []MapMarker `json:"markers"`
}

// ParseItineraries decodes agent output into an ItineraryResponse.
// Markdown code fences around the JSON are tolerated.
func ParseItineraries(text string) (*ItineraryResponse, error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var resp ItineraryResponse
	if err := json.Unmarshal([]byte(trimmed), &resp); err != nil {
		return nil, fmt.Errorf("decode itinerary response: %w", err)
	}
	return &resp, nil
}
