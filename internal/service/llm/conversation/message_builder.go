package conversation

import (
	"log/slog"

	llmModels "tripmitra/internal/domain/models/llm"
	domainllm "tripmitra/internal/domain/services/llm"
)

// MessageBuilder converts session history to model messages.
// Pure conversion; the caller loads the session.
type MessageBuilder struct {
	logger *slog.Logger
}

// NewMessageBuilder creates a new MessageBuilder
func NewMessageBuilder(logger *slog.Logger) *MessageBuilder {
	return &MessageBuilder{logger: logger}
}

// BuildMessages returns one message per completed turn in history, oldest
// first, followed by next. Partial events are streaming fragments of a later
// final event and are skipped.
func (mb *MessageBuilder) BuildMessages(history []llmModels.Event, next domainllm.Message) []domainllm.Message {
	messages := make([]domainllm.Message, 0, len(history)+1)

	for _, event := range history {
		if event.Partial {
			continue
		}
		if event.Text == "" {
			mb.logger.Warn("skipping empty session event", "event_id", event.ID)
			continue
		}

		role := domainllm.RoleModel
		if event.Author == llmModels.AuthorUser {
			role = domainllm.RoleUser
		}
		messages = append(messages, domainllm.Message{Role: role, Text: event.Text})
	}

	return append(messages, next)
}
