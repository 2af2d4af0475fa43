package adapters

import (
	"context"
	"fmt"
	"iter"
	"strings"

	llmprovider "github.com/haowjy/meridian-llm-go"

	domainllm "tripmitra/internal/domain/services/llm"
)

const (
	blockTypeText = "text"
	deltaTypeText = "text_delta"

	jsonOutputHint = "Respond with a single JSON object and nothing else."
)

// LibraryAdapter wraps a meridian-llm-go provider (anthropic, lorem).
type LibraryAdapter struct {
	provider llmprovider.Provider
}

// NewLibraryAdapter creates an adapter from an existing library provider.
func NewLibraryAdapter(provider llmprovider.Provider) *LibraryAdapter {
	return &LibraryAdapter{provider: provider}
}

// Name returns the provider name.
func (a *LibraryAdapter) Name() string {
	return a.provider.Name().String()
}

// StreamResponse relays text deltas from the library stream. The library
// signals the end of a reply with a metadata event.
func (a *LibraryAdapter) StreamResponse(ctx context.Context, req *domainllm.GenerateRequest) iter.Seq2[*domainllm.Chunk, error] {
	return func(yield func(*domainllm.Chunk, error) bool) {
		events, err := a.provider.StreamResponse(ctx, convertToLibraryRequest(req))
		if err != nil {
			yield(nil, fmt.Errorf("%s stream: %w", a.Name(), err))
			return
		}

		for event := range events {
			if event.Error != nil {
				yield(nil, fmt.Errorf("%s stream: %w", a.Name(), event.Error))
				return
			}
			if event.Delta != nil && event.Delta.DeltaType == deltaTypeText && event.Delta.TextDelta != nil {
				if !yield(&domainllm.Chunk{Text: *event.Delta.TextDelta}, nil) {
					return
				}
			}
			if event.Metadata != nil {
				yield(&domainllm.Chunk{Done: true, FinishReason: event.Metadata.StopReason}, nil)
				return
			}
		}
	}
}

// convertToLibraryRequest maps messages to single-text-block library messages.
// The library request carries no system field or JSON mode here, so the
// instruction is prepended to the first user message.
func convertToLibraryRequest(req *domainllm.GenerateRequest) *llmprovider.GenerateRequest {
	messages := make([]llmprovider.Message, 0, len(req.Messages))
	instruction := req.SystemInstruction
	if req.JSONOutput {
		instruction = strings.TrimSpace(instruction + "\n\n" + jsonOutputHint)
	}
	for _, msg := range req.Messages {
		role := "user"
		if msg.Role == domainllm.RoleModel {
			role = "assistant"
		}

		text := msg.Text
		if role == "user" && instruction != "" {
			text = instruction + "\n\n" + text
			instruction = ""
		}

		messages = append(messages, llmprovider.Message{
			Role: role,
			Blocks: []*llmprovider.Block{{
				BlockType:   blockTypeText,
				TextContent: &text,
			}},
		})
	}

	return &llmprovider.GenerateRequest{
		Messages: messages,
		Model:    req.Model,
	}
}
