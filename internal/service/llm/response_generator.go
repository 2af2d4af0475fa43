package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tripmitra/internal/config"
	"tripmitra/internal/domain"
	"tripmitra/internal/domain/models"
	domainllm "tripmitra/internal/domain/services/llm"
)

const (
	// AppName namespaces agent sessions.
	AppName = "trip_mitra_agent"

	// ErrorMessage is returned in place of an answer whenever the agent path fails.
	ErrorMessage = "We are currently Facing Issues Please contact later"
)

// SessionKey derives the per-user session identifier.
func SessionKey(userID string) string {
	return "session_" + userID
}

// Enricher turns a raw query into the prompt sent to the agent
type Enricher interface {
	Enrich(ctx context.Context, userID, query string) string
}

// ResponseGenerator binds one enriched query to one agent invocation in the
// user's session and extracts the final answer.
type ResponseGenerator struct {
	enricher Enricher
	sessions domainllm.SessionService
	runner   domainllm.Runner
	timeout  time.Duration
	logger   *slog.Logger
}

// NewResponseGenerator creates a new response generator. A zero timeout
// leaves dispatch bounded only by the caller's context.
func NewResponseGenerator(
	enricher Enricher,
	sessions domainllm.SessionService,
	runner domainllm.Runner,
	timeout time.Duration,
	logger *slog.Logger,
) *ResponseGenerator {
	return &ResponseGenerator{
		enricher: enricher,
		sessions: sessions,
		runner:   runner,
		timeout:  timeout,
		logger:   logger,
	}
}

// GetResponse returns the agent's final answer, or ErrorMessage on any failure.
// It never returns an error.
func (g *ResponseGenerator) GetResponse(ctx context.Context, payload *models.QueryPayload) string {
	answer, err := g.Respond(ctx, payload)
	if err != nil {
		userID := ""
		if payload != nil {
			userID = payload.ResolveUserID()
		}
		g.logger.Error("agent response failed", "user_id", userID, "error", err)
		return ErrorMessage
	}
	return answer
}

// Respond runs enrich, ensure-session, dispatch and extract in order.
// domain.ErrAgentUnavailable means the agent produced no usable final response.
func (g *ResponseGenerator) Respond(ctx context.Context, payload *models.QueryPayload) (string, error) {
	if payload == nil {
		return "", fmt.Errorf("%w: payload is required", domain.ErrValidation)
	}
	userID := payload.ResolveUserID()
	if userID == "" {
		return "", fmt.Errorf("%w: user_id is required", domain.ErrValidation)
	}

	enriched := g.enricher.Enrich(ctx, userID, payload.UserQuery)

	sessionID := SessionKey(userID)
	if _, err := g.sessions.CreateSession(ctx, AppName, userID, sessionID); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	dispatchCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		dispatchCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	started := time.Now()
	message := domainllm.Message{Role: domainllm.RoleUser, Text: enriched}

	var final string
	found := false
	for event, err := range g.runner.Run(dispatchCtx, userID, sessionID, message) {
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return "", fmt.Errorf("agent timed out after %s: %w", g.timeout, err)
			}
			return "", fmt.Errorf("run agent: %w", err)
		}
		if event.IsFinalResponse() {
			final = event.Text
			found = true
			break
		}
	}

	if !found || final == "" {
		return "", domain.ErrAgentUnavailable
	}

	g.logResult(userID, final, time.Since(started))
	return final, nil
}

// logResult records how many itineraries came back. Unparseable output is
// still returned to the caller as-is.
func (g *ResponseGenerator) logResult(userID, final string, elapsed time.Duration) {
	parsed, err := models.ParseItineraries(final)
	if err != nil {
		g.logger.Info("agent responded",
			"user_id", userID,
			"elapsed_ms", elapsed.Milliseconds(),
			"structured", false,
		)
		return
	}
	g.logger.Info("agent responded",
		"user_id", userID,
		"elapsed_ms", elapsed.Milliseconds(),
		"structured", true,
		"itineraries", len(parsed.Itineraries),
	)
}

// ValidateQuery checks an inbound query payload before dispatch
func ValidateQuery(payload *models.QueryPayload) error {
	userID := payload.ResolveUserID()
	err := validation.Errors{
		"user_query": validation.Validate(payload.UserQuery,
			validation.Required,
			validation.RuneLength(1, config.MaxUserQueryLength),
		),
		"user_id": validation.Validate(userID,
			validation.Required,
			validation.Length(1, config.MaxUserIDLength),
		),
	}.Filter()
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}
