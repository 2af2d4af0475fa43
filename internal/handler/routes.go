package handler

import "net/http"

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	Response    *ResponseHandler
	Preferences *PreferencesHandler
	Health      *HealthHandler
}

// NewRouter registers every route on a new ServeMux
func NewRouter(h *Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Response.Root)
	mux.HandleFunc("GET /health", h.Health.HealthCheck)

	// Agent
	mux.HandleFunc("POST /response", h.Response.CreateResponse)

	// Preferences
	mux.HandleFunc("POST /preferences", h.Preferences.CreatePreferences)
	mux.HandleFunc("GET /preferences/{user_id}", h.Preferences.GetPreferences)
	mux.HandleFunc("PUT /preferences/{user_id}", h.Preferences.UpdatePreferences)
	mux.HandleFunc("DELETE /preferences/{user_id}", h.Preferences.DeletePreferences)
	mux.HandleFunc("POST /preferences/{user_id}/upsert", h.Preferences.UpsertPreferences)

	return mux
}
