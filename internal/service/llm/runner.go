package llm

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripmitra/internal/agents"
	llmModels "tripmitra/internal/domain/models/llm"
	domainllm "tripmitra/internal/domain/services/llm"
	"tripmitra/internal/service/llm/conversation"
)

// AgentRunner runs one agent definition against a model provider, keeping
// the turn history in a SessionService.
type AgentRunner struct {
	appName  string
	agent    *agents.Definition
	model    string
	provider domainllm.ModelProvider
	sessions domainllm.SessionService
	builder  *conversation.MessageBuilder
	logger   *slog.Logger
	now      func() time.Time
}

// NewAgentRunner creates a runner for agent on the given provider and model
func NewAgentRunner(
	appName string,
	agent *agents.Definition,
	model string,
	provider domainllm.ModelProvider,
	sessions domainllm.SessionService,
	logger *slog.Logger,
) *AgentRunner {
	return &AgentRunner{
		appName:  appName,
		agent:    agent,
		model:    model,
		provider: provider,
		sessions: sessions,
		builder:  conversation.NewMessageBuilder(logger),
		logger:   logger,
		now:      time.Now,
	}
}

var _ domainllm.Runner = (*AgentRunner)(nil)

// Run streams the model reply to message as partial events and ends with
// one final event carrying the whole reply. The turn is recorded in the
// session only once the reply finishes; a provider that fails or stops early
// yields no final event and records nothing.
func (r *AgentRunner) Run(ctx context.Context, userID, sessionID string, message domainllm.Message) iter.Seq2[*llmModels.Event, error] {
	return func(yield func(*llmModels.Event, error) bool) {
		sess, err := r.sessions.GetSession(ctx, r.appName, userID, sessionID)
		if err != nil {
			yield(nil, fmt.Errorf("load session: %w", err))
			return
		}

		invocationID := uuid.NewString()
		req := &domainllm.GenerateRequest{
			Messages:          r.builder.BuildMessages(sess.Events, message),
			Model:             r.model,
			SystemInstruction: r.agent.Instruction,
			JSONOutput:        r.agent.WantsJSON(),
			Temperature:       r.agent.Temperature,
		}

		r.logger.Debug("dispatching to model",
			"invocation_id", invocationID,
			"provider", r.provider.Name(),
			"model", r.model,
			"history", len(req.Messages)-1,
		)

		var reply strings.Builder
		for chunk, err := range r.provider.StreamResponse(ctx, req) {
			if err != nil {
				yield(nil, err)
				return
			}

			if chunk.Text != "" {
				reply.WriteString(chunk.Text)
				partial := r.agentEvent(invocationID, chunk.Text)
				partial.Partial = true
				if !yield(partial, nil) {
					return
				}
			}

			if chunk.Done {
				final := r.agentEvent(invocationID, reply.String())
				final.TurnComplete = true
				final.FinishReason = chunk.FinishReason
				r.recordTurn(ctx, sess, invocationID, message, final)
				yield(final, nil)
				return
			}
		}

		r.logger.Warn("model stream ended without finishing",
			"invocation_id", invocationID,
			"received_chars", reply.Len(),
		)
	}
}

// recordTurn stores the user message and the reply together. A turn that
// never finishes leaves the session untouched so history keeps alternating.
func (r *AgentRunner) recordTurn(ctx context.Context, sess *llmModels.Session, invocationID string, message domainllm.Message, final *llmModels.Event) {
	if final.Text == "" {
		r.logger.Warn("empty agent reply not recorded", "invocation_id", invocationID)
		return
	}
	userEvent := &llmModels.Event{
		ID:           uuid.NewString(),
		InvocationID: invocationID,
		Author:       llmModels.AuthorUser,
		Text:         message.Text,
		TurnComplete: true,
		Timestamp:    final.Timestamp,
	}
	for _, event := range []*llmModels.Event{userEvent, final} {
		if err := r.sessions.AppendEvent(ctx, sess, event); err != nil {
			r.logger.Warn("failed to record turn",
				"invocation_id", invocationID,
				"author", event.Author,
				"error", err,
			)
			return
		}
	}
}

func (r *AgentRunner) agentEvent(invocationID, text string) *llmModels.Event {
	return &llmModels.Event{
		ID:           uuid.NewString(),
		InvocationID: invocationID,
		Author:       r.agent.Name,
		Text:         text,
		Timestamp:    r.now().UTC(),
	}
}
