package handler

import (
	"errors"
	"net/http"

	"tripmitra/internal/domain"
	"tripmitra/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Failed writes
// (validation, duplicate create, rejected write) are client errors.
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, httputil.ErrBodyTooLarge):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, conflictErr.Error(), map[string]interface{}{
			"user_id": conflictErr.ResourceID,
		})
	case errors.Is(err, domain.ErrWriteRejected):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// respondBadBody reports an unreadable request body
func respondBadBody(w http.ResponseWriter, err error) {
	if errors.Is(err, httputil.ErrBodyTooLarge) {
		handleError(w, err)
		return
	}
	httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
}
