package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conversational-relay/pkg/log"
)

// Router tries each provider in priority order and returns the first success.
type Router struct {
	providers []Provider
	config    *Config
	logger    log.Logger
}

// Config defines configuration for the Router
type Config struct {
	// DefaultTimeout applies to providers that do not declare their own.
	DefaultTimeout time.Duration

	// MaxTotalTimeout bounds the entire fallback chain. Zero disables it.
	MaxTotalTimeout time.Duration
}

// NewRouter creates a new Router with the given providers, config, and logger.
// Providers must already be sorted by priority (see InitializeProviders).
func NewRouter(providers []Provider, config *Config, logger log.Logger) *Router {
	return &Router{
		providers: providers,
		config:    config,
		logger:    logger,
	}
}

// Complete iterates the provider chain in priority order. The first provider
// that returns text wins; a failed attempt is classified, logged, and the
// chain advances. A provider is never retried — worst-case latency is
// len(providers) x per-provider timeout. When the chain is exhausted or the
// chain deadline fires, the last failure is wrapped in ErrChainExhausted.
func (r *Router) Complete(ctx context.Context, req *Request) (*Response, error) {
	if len(r.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	if r.config.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error
	attempted := 0

	for _, provider := range r.providers {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return nil, fmt.Errorf("%w: chain timeout exceeded after %d provider(s): %w",
					ErrChainExhausted, attempted, lastErr)
			}
			return nil, fmt.Errorf("%w: chain timeout exceeded after %d provider(s): %w",
				ErrChainExhausted, attempted, ctx.Err())
		default:
		}

		attempted++
		resp, err := r.attempt(ctx, provider, req)
		if err == nil {
			r.logSuccess(ctx, provider, resp)
			return resp, nil
		}

		r.logFailure(ctx, provider, err)
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %w", ErrChainExhausted, lastErr)
}

// attempt runs a single provider call under its own timeout. The timeout
// cancels only this attempt; the chain context stays alive for fallback.
func (r *Router) attempt(ctx context.Context, provider Provider, req *Request) (*Response, error) {
	timeout := provider.Timeout()
	if timeout <= 0 {
		timeout = r.config.DefaultTimeout
	}

	attemptCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := provider.Complete(attemptCtx, req)
	if err != nil {
		return nil, r.classify(provider, attemptCtx, err)
	}
	if resp.Text == "" {
		return nil, &ProviderError{Provider: provider.Name(), Kind: FailureMalformed, Err: ErrEmptyCompletion}
	}
	return resp, nil
}

// classify normalizes an attempt error into a ProviderError. Adapters already
// tag backend-specific failures; everything else is mapped here.
func (r *Router) classify(provider Provider, attemptCtx context.Context, err error) error {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return &ProviderError{Provider: provider.Name(), Kind: FailureTimeout, Err: err}
	}
	return &ProviderError{Provider: provider.Name(), Kind: FailureUnavailable, Err: err}
}

func (r *Router) logSuccess(ctx context.Context, provider Provider, resp *Response) {
	r.logger.Infof(ctx, "completion succeeded: provider=%s model=%s output_tokens=%d",
		provider.Name(), provider.Model(), outputTokens(resp))
}

func (r *Router) logFailure(ctx context.Context, provider Provider, err error) {
	r.logger.Warnf(ctx, "completion attempt failed: provider=%s model=%s error=%v",
		provider.Name(), provider.Model(), err)
}

func outputTokens(resp *Response) int {
	if resp.Usage == nil {
		return 0
	}
	return resp.Usage.OutputTokens
}
