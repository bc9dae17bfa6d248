package llmprovider

import (
	"context"
	"time"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Complete sends a completion request and returns the generated text
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Name returns the provider name (e.g., "groq-kimi", "cerebras")
	Name() string

	// Model returns the model being used
	Model() string

	// Timeout returns the per-attempt timeout for this provider
	Timeout() time.Duration
}

// Message represents a conversation message
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Params holds the generation parameters sent with every request.
// TopK is carried for backends that accept it; OpenAI-compatible
// chat endpoints silently ignore it.
type Params struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
	TopK        int
}

// Request represents a normalized completion request
type Request struct {
	Messages []Message
	Params   Params
}

// Response represents a normalized completion response
type Response struct {
	Text         string
	ProviderName string
	ModelName    string
	Usage        *Usage
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
