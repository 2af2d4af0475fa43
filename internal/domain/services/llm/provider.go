package llm

import (
	"context"
	"iter"
)

// Message roles understood by every provider adapter.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ModelProvider defines the interface that all LLM providers must implement.
// Adapters translate GenerateRequest into the vendor SDK call and expose the
// reply as a lazily produced chunk sequence.
type ModelProvider interface {
	// StreamResponse generates a response and yields it chunk by chunk.
	// The final chunk has Done set. A sequence that ends without a Done chunk
	// means the provider stopped early.
	StreamResponse(ctx context.Context, req *GenerateRequest) iter.Seq2[*Chunk, error]

	// Name returns the provider name (e.g., "gemini", "openai")
	Name() string
}

// GenerateRequest contains the parameters for an LLM generation request.
type GenerateRequest struct {
	// Messages is the conversation history ending with the new user message.
	Messages []Message

	// Model is the model identifier (e.g., "gemini-2.0-flash")
	Model string

	// SystemInstruction is the agent instruction.
	SystemInstruction string

	// JSONOutput asks the provider for a JSON object response.
	JSONOutput bool

	// Temperature is optional; nil uses the provider default.
	Temperature *float32
}

// Message represents a single message in the conversation.
type Message struct {
	Role string // RoleUser or RoleModel
	Text string
}

// Chunk is one piece of a streamed reply.
type Chunk struct {
	Text         string
	Done         bool
	FinishReason string
}
