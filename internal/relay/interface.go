package relay

import "context"

// UseCase defines the business logic interface for the relay domain.
type UseCase interface {
	// Respond runs the full pipeline for one user message: rate check,
	// history read, optional web search, model completion, history append
	// and reply segmentation.
	Respond(ctx context.Context, in Inbound) (Reply, error)
}
