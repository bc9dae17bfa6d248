package telegram

import (
	"errors"

	"conversational-relay/internal/relay"
	"conversational-relay/pkg/llmprovider"
)

// userMessage maps typed pipeline failures to a user-facing string. Returns
// "" for errors that should escalate instead of being shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, relay.ErrThrottled):
		return "⏳ You're sending messages a bit fast. Give me a few seconds and try again."
	case errors.Is(err, relay.ErrEmptyMessage):
		return "I can only reply to text messages right now."
	case errors.Is(err, llmprovider.ErrChainExhausted),
		errors.Is(err, llmprovider.ErrNoProvidersConfigured):
		return "😔 Sorry, I couldn't reach any of my language models just now. Please try again in a moment."
	default:
		return ""
	}
}
