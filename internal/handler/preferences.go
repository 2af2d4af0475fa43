package handler

import (
	"log/slog"
	"net/http"

	"tripmitra/internal/domain/models"
	"tripmitra/internal/domain/services"
	"tripmitra/internal/httputil"
)

// PreferencesHandler handles preference record HTTP requests
type PreferencesHandler struct {
	service services.PreferenceService
	logger  *slog.Logger
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(service services.PreferenceService, logger *slog.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		service: service,
		logger:  logger,
	}
}

// MessageResponse acknowledges a preferences write
type MessageResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type createPreferencesRequest struct {
	UserID      string             `json:"user_id"`
	Preferences models.Preferences `json:"preferences"`
}

// GetPreferences returns the stored record
// GET /preferences/{user_id}
func (h *PreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := httputil.PathParam(r, "user_id")

	record, err := h.service.Get(r.Context(), userID)
	if err != nil {
		h.logFailure(r, "get", userID, err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, record)
}

// CreatePreferences inserts a new record
// POST /preferences
func (h *PreferencesHandler) CreatePreferences(w http.ResponseWriter, r *http.Request) {
	var req createPreferencesRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		respondBadBody(w, err)
		return
	}

	record := &models.PreferenceRecord{
		UserID:      req.UserID,
		Preferences: req.Preferences,
	}
	if err := h.service.Create(r.Context(), record); err != nil {
		h.logFailure(r, "create", req.UserID, err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, MessageResponse{
		Message: "Preferences created successfully",
		UserID:  record.UserID,
	})
}

// UpdatePreferences replaces the stored preferences with the submitted fields
// PUT /preferences/{user_id}
func (h *PreferencesHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := httputil.PathParam(r, "user_id")

	var update models.PreferencesUpdate
	if err := httputil.ParseJSON(w, r, &update); err != nil {
		respondBadBody(w, err)
		return
	}

	if err := h.service.Update(r.Context(), userID, &update); err != nil {
		h.logFailure(r, "update", userID, err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, MessageResponse{
		Message: "Preferences updated successfully",
		UserID:  userID,
	})
}

// UpsertPreferences replaces the preferences map or creates the record
// POST /preferences/{user_id}/upsert
func (h *PreferencesHandler) UpsertPreferences(w http.ResponseWriter, r *http.Request) {
	userID := httputil.PathParam(r, "user_id")

	var prefs map[string]interface{}
	if err := httputil.ParseJSON(w, r, &prefs); err != nil {
		respondBadBody(w, err)
		return
	}

	if err := h.service.Upsert(r.Context(), userID, prefs); err != nil {
		h.logFailure(r, "upsert", userID, err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, MessageResponse{
		Message: "Preferences upserted successfully",
		UserID:  userID,
	})
}

// DeletePreferences removes the record
// DELETE /preferences/{user_id}
func (h *PreferencesHandler) DeletePreferences(w http.ResponseWriter, r *http.Request) {
	userID := httputil.PathParam(r, "user_id")

	if err := h.service.Delete(r.Context(), userID); err != nil {
		h.logFailure(r, "delete", userID, err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, MessageResponse{
		Message: "Preferences deleted successfully",
		UserID:  userID,
	})
}

func (h *PreferencesHandler) logFailure(r *http.Request, op, userID string, err error) {
	h.logger.Warn("preferences request failed",
		"op", op,
		"user_id", userID,
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
}
