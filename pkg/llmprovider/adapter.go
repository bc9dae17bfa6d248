package llmprovider

import (
	"context"
	"errors"
	"net/http"
	"time"

	"conversational-relay/pkg/cerebras"
	"conversational-relay/pkg/groq"
)

// GroqAdapter adapts pkg/groq to the llmprovider.Provider interface.
// Several chain entries may share the Groq backend with different models,
// so the adapter carries its own name.
type GroqAdapter struct {
	client  groq.IGroq
	name    string
	timeout time.Duration
}

// NewGroqAdapter creates a new Groq adapter
func NewGroqAdapter(client groq.IGroq, name string, timeout time.Duration) *GroqAdapter {
	return &GroqAdapter{client: client, name: name, timeout: timeout}
}

// Complete implements Provider interface
func (a *GroqAdapter) Complete(ctx context.Context, req *Request) (*Response, error) {
	groqReq := &groq.Request{
		Messages:    convertToGroqMessages(req.Messages),
		Temperature: req.Params.Temperature,
		MaxTokens:   req.Params.MaxTokens,
		TopP:        req.Params.TopP,
	}

	resp, err := a.client.CreateChatCompletion(ctx, groqReq)
	if err != nil {
		var apiErr *groq.APIError
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{Provider: a.name, Kind: kindFromStatus(apiErr.StatusCode), Err: err}
		}
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Provider: a.name, Kind: FailureMalformed, Err: ErrEmptyCompletion}
	}

	return &Response{
		Text:         resp.Choices[0].Message.Content,
		ProviderName: a.name,
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// Name returns provider name
func (a *GroqAdapter) Name() string {
	return a.name
}

// Model returns model name
func (a *GroqAdapter) Model() string {
	return a.client.Model()
}

// Timeout returns the per-attempt timeout
func (a *GroqAdapter) Timeout() time.Duration {
	return a.timeout
}

// CerebrasAdapter adapts pkg/cerebras to the llmprovider.Provider interface
type CerebrasAdapter struct {
	client  cerebras.ICerebras
	name    string
	timeout time.Duration
}

// NewCerebrasAdapter creates a new Cerebras adapter
func NewCerebrasAdapter(client cerebras.ICerebras, name string, timeout time.Duration) *CerebrasAdapter {
	return &CerebrasAdapter{client: client, name: name, timeout: timeout}
}

// Complete implements Provider interface
func (a *CerebrasAdapter) Complete(ctx context.Context, req *Request) (*Response, error) {
	cerebrasReq := &cerebras.Request{
		Messages:    convertToCerebrasMessages(req.Messages),
		Temperature: req.Params.Temperature,
		MaxTokens:   req.Params.MaxTokens,
		TopP:        req.Params.TopP,
	}

	resp, err := a.client.CreateChatCompletion(ctx, cerebrasReq)
	if err != nil {
		var apiErr *cerebras.APIError
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{Provider: a.name, Kind: kindFromStatus(apiErr.StatusCode), Err: err}
		}
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Provider: a.name, Kind: FailureMalformed, Err: ErrEmptyCompletion}
	}

	return &Response{
		Text:         resp.Choices[0].Message.Content,
		ProviderName: a.name,
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// Name returns provider name
func (a *CerebrasAdapter) Name() string {
	return a.name
}

// Model returns model name
func (a *CerebrasAdapter) Model() string {
	return a.client.Model()
}

// Timeout returns the per-attempt timeout
func (a *CerebrasAdapter) Timeout() time.Duration {
	return a.timeout
}

// kindFromStatus maps an HTTP status to a failure kind.
func kindFromStatus(status int) FailureKind {
	switch {
	case status == http.StatusTooManyRequests:
		return FailureQuota
	case status == http.StatusBadRequest:
		return FailureMalformed
	default:
		return FailureUnavailable
	}
}

func convertToGroqMessages(msgs []Message) []groq.Message {
	out := make([]groq.Message, len(msgs))
	for i, m := range msgs {
		out[i] = groq.Message{Role: m.Role, Content: m.Content}
	}
	return out
}

func convertToCerebrasMessages(msgs []Message) []cerebras.Message {
	out := make([]cerebras.Message, len(msgs))
	for i, m := range msgs {
		out[i] = cerebras.Message{Role: m.Role, Content: m.Content}
	}
	return out
}
