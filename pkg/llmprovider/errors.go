package llmprovider

import (
	"errors"
	"fmt"
)

var (
	// ErrChainExhausted indicates every provider in the chain failed
	ErrChainExhausted = errors.New("all providers failed")

	// ErrNoProvidersConfigured indicates no providers are enabled
	ErrNoProvidersConfigured = errors.New("no providers configured")

	// ErrEmptyCompletion indicates the backend answered 200 with no usable text
	ErrEmptyCompletion = errors.New("empty completion")
)

// FailureKind classifies a single provider attempt failure. The router logs
// the kind and advances the chain; callers switch on it instead of matching
// error strings.
type FailureKind int

const (
	FailureUnavailable FailureKind = iota // network error, 5xx, unknown
	FailureTimeout                        // attempt deadline exceeded
	FailureQuota                          // 429 / quota exceeded
	FailureMalformed                      // undecodable or empty response
)

// String returns the log-friendly name of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureTimeout:
		return "timeout"
	case FailureQuota:
		return "quota"
	case FailureMalformed:
		return "malformed"
	default:
		return "unavailable"
	}
}

// ProviderError wraps a single provider attempt failure with its kind.
type ProviderError struct {
	Provider string
	Kind     FailureKind
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
