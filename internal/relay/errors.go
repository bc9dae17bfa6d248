package relay

import "errors"

// Domain-specific errors for the relay package.
var (
	// ErrThrottled means the user sent messages faster than the rate window
	// allows. No external call was made; not a server fault.
	ErrThrottled = errors.New("message rate limit exceeded")

	// ErrEmptyMessage means the inbound text was empty after trimming.
	ErrEmptyMessage = errors.New("message text is empty")
)
