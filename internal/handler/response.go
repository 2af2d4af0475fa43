package handler

import (
	"context"
	"log/slog"
	"net/http"

	"tripmitra/internal/domain/models"
	"tripmitra/internal/httputil"
	"tripmitra/internal/service/llm"
)

// ResponseGenerator produces the agent answer for a query. It never fails;
// agent faults come back as an apology string.
type ResponseGenerator interface {
	GetResponse(ctx context.Context, payload *models.QueryPayload) string
}

// ResponseHandler serves trip-planning queries
type ResponseHandler struct {
	generator ResponseGenerator
	logger    *slog.Logger
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(generator ResponseGenerator, logger *slog.Logger) *ResponseHandler {
	return &ResponseHandler{
		generator: generator,
		logger:    logger,
	}
}

// AgentResponse wraps the agent's answer
type AgentResponse struct {
	Response string `json:"response"`
}

// Root is the liveness greeting
// GET /
func (h *ResponseHandler) Root(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"Hello": "World"})
}

// CreateResponse runs the agent for one query
// POST /response
func (h *ResponseHandler) CreateResponse(w http.ResponseWriter, r *http.Request) {
	var payload models.QueryPayload
	if err := httputil.ParseJSON(w, r, &payload); err != nil {
		respondBadBody(w, err)
		return
	}

	if err := llm.ValidateQuery(&payload); err != nil {
		handleError(w, err)
		return
	}

	answer := h.generator.GetResponse(r.Context(), &payload)

	httputil.RespondJSON(w, http.StatusOK, AgentResponse{Response: answer})
}
