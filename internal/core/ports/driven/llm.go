package driven

import "context"

// LLMService provides chat completion for answer generation and
// summarisation. This is an optional service - when nil, answer requests
// return structured failures instead of grounded text.
type LLMService interface {
	// Chat conducts a multi-turn conversation and returns the assistant's
	// reply together with reported token usage.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (ChatResult, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// ChatResult is a completed chat response.
type ChatResult struct {
	// Content is the assistant's reply, used verbatim as the answer.
	Content string

	// TokensUsed is the provider's reported total token count for the
	// request. Zero when the provider does not report usage.
	TokensUsed int
}
