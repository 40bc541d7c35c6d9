package llm

import (
	"context"

	"assistant/internal/domain/models"
)

// LLMProvider defines the interface that all model providers must implement.
type LLMProvider interface {
	// StreamChat opens a streaming completion. Cancelling ctx must stop the
	// upstream call and release its connection.
	StreamChat(ctx context.Context, req *ChatRequest) (FragmentStream, error)

	// Name returns the provider name (e.g., "openai", "lorem")
	Name() string

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}

// ChatRequest contains the parameters for a streaming completion.
type ChatRequest struct {
	// Model is the identifier understood by the provider (without any
	// "provider/" prefix)
	Model string

	// Messages is the conversation in order, system message first if any
	Messages []models.Message

	MaxTokens   int
	Temperature float32
}

// FragmentStream yields text fragments in arrival order.
type FragmentStream interface {
	// Recv returns the next fragment. It returns io.EOF once the upstream
	// reports the completion finished.
	Recv() (string, error)

	Close() error
}
