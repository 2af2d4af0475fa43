package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/sashabaranov/go-openai"

	domainllm "tripmitra/internal/domain/services/llm"
)

// OpenAIAdapter streams replies from any OpenAI-compatible chat completions API.
type OpenAIAdapter struct {
	client *openai.Client
}

// NewOpenAIAdapter creates a client. An empty baseURL uses the OpenAI default.
func NewOpenAIAdapter(apiKey, baseURL string) *OpenAIAdapter {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &OpenAIAdapter{client: openai.NewClientWithConfig(clientConfig)}
}

// Name returns the provider name.
func (a *OpenAIAdapter) Name() string {
	return "openai"
}

// StreamResponse streams a chat completion until the server closes the stream.
func (a *OpenAIAdapter) StreamResponse(ctx context.Context, req *domainllm.GenerateRequest) iter.Seq2[*domainllm.Chunk, error] {
	return func(yield func(*domainllm.Chunk, error) bool) {
		stream, err := a.client.CreateChatCompletionStream(ctx, convertToOpenAIRequest(req))
		if err != nil {
			yield(nil, fmt.Errorf("openai stream: %w", err))
			return
		}
		defer stream.Close()

		var finishReason string
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				yield(&domainllm.Chunk{Done: true, FinishReason: finishReason}, nil)
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("openai stream: %w", err))
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}

			choice := resp.Choices[0]
			if choice.FinishReason != "" {
				finishReason = string(choice.FinishReason)
			}
			if choice.Delta.Content == "" {
				continue
			}
			if !yield(&domainllm.Chunk{Text: choice.Delta.Content}, nil) {
				return
			}
		}
	}
}

func convertToOpenAIRequest(req *domainllm.GenerateRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}
	for _, msg := range req.Messages {
		role := openai.ChatMessageRoleUser
		if msg.Role == domainllm.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Text})
	}

	out := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   true,
	}
	if req.Temperature != nil {
		out.Temperature = *req.Temperature
	}
	if req.JSONOutput {
		out.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return out
}
