package llm

import "time"

// AuthorUser marks events written by the end user.
const AuthorUser = "user"

// Event is one entry in an agent invocation's event sequence.
type Event struct {
	ID           string    `json:"id"`
	InvocationID string    `json:"invocation_id"`
	Author       string    `json:"author"` // "user" or the agent name
	Text         string    `json:"text"`
	Partial      bool      `json:"partial"`       // streaming fragment, not persisted
	TurnComplete bool      `json:"turn_complete"` // the agent finished its turn
	FinishReason string    `json:"finish_reason,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// IsFinalResponse reports whether the event carries the terminal answer.
func (e *Event) IsFinalResponse() bool {
	return e.Author != AuthorUser && !e.Partial && e.TurnComplete
}

// Session is an agent-runtime conversational context keyed by
// (app name, user id, session id).
type Session struct {
	ID             string    `json:"id"`
	AppName        string    `json:"app_name"`
	UserID         string    `json:"user_id"`
	Events         []Event   `json:"events"`
	CreatedAt      time.Time `json:"created_at"`
	LastUpdateTime time.Time `json:"last_update_time"`
}
