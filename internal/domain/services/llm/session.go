package llm

import (
	"context"
	"iter"

	"tripmitra/internal/domain/models/llm"
)

// SessionService owns conversational sessions for an application namespace.
type SessionService interface {
	// CreateSession creates the session if absent and returns it.
	// Creating an existing session returns the existing one.
	CreateSession(ctx context.Context, appName, userID, sessionID string) (*llm.Session, error)

	// GetSession returns the session or domain.ErrNotFound.
	GetSession(ctx context.Context, appName, userID, sessionID string) (*llm.Session, error)

	// AppendEvent records a non-partial event in the session history.
	AppendEvent(ctx context.Context, session *llm.Session, event *llm.Event) error
}

// Runner dispatches one user message into a session and yields the agent's
// events in order. The sequence is lazy; nothing runs until it is ranged over.
type Runner interface {
	Run(ctx context.Context, userID, sessionID string, message Message) iter.Seq2[*llm.Event, error]
}
