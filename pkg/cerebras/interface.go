package cerebras

import "context"

// ICerebras defines the interface for the Cerebras chat client
type ICerebras interface {
	CreateChatCompletion(ctx context.Context, req *Request) (*Response, error)
	Model() string
}
