package adapters

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"

	domainllm "tripmitra/internal/domain/services/llm"
)

// GeminiAdapter streams replies from the Gemini API.
type GeminiAdapter struct {
	client *genai.Client
}

// NewGeminiAdapter creates a Gemini client for the given API key.
func NewGeminiAdapter(ctx context.Context, apiKey string) (*GeminiAdapter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiAdapter{client: client}, nil
}

// Name returns the provider name.
func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// StreamResponse streams a Gemini reply. Each response carrying a finish
// reason ends the sequence with a Done chunk.
func (a *GeminiAdapter) StreamResponse(ctx context.Context, req *domainllm.GenerateRequest) iter.Seq2[*domainllm.Chunk, error] {
	contents, config := convertToGeminiRequest(req)

	return func(yield func(*domainllm.Chunk, error) bool) {
		for resp, err := range a.client.Models.GenerateContentStream(ctx, req.Model, contents, config) {
			if err != nil {
				yield(nil, fmt.Errorf("gemini stream: %w", err))
				return
			}

			chunk := &domainllm.Chunk{}
			for _, candidate := range resp.Candidates {
				if candidate.Content != nil {
					for _, part := range candidate.Content.Parts {
						chunk.Text += part.Text
					}
				}
				if candidate.FinishReason != "" {
					chunk.Done = true
					chunk.FinishReason = string(candidate.FinishReason)
				}
			}

			if !yield(chunk, nil) || chunk.Done {
				return
			}
		}
	}
}

func convertToGeminiRequest(req *domainllm.GenerateRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if msg.Role == domainllm.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Text, role))
	}

	config := &genai.GenerateContentConfig{
		Temperature: req.Temperature,
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.JSONOutput {
		config.ResponseMIMEType = "application/json"
	}

	return contents, config
}
