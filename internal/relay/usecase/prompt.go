package usecase

import (
	"fmt"
	"strings"
	"time"

	"conversational-relay/internal/search"
	"conversational-relay/internal/session"
	"conversational-relay/pkg/llmprovider"
)

// searchKeywords marks messages that likely need fresh web context. Matched
// case-insensitively as substrings against the trimmed message.
var searchKeywords = []string{
	"latest", "current", "today", "now", "recent", "news", "update", "happening",
	"weather", "price", "stock", "crypto", "bitcoin", "ethereum", "rate",
	"what is", "who is", "when did", "where is", "how to", "search", "find",
	"new", "just", "breaking", "trending", "viral", "live", "real-time",
}

// wantsFreshContext reports whether the message looks like it needs live
// data rather than conversation alone.
func wantsFreshContext(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if len(lower) < 3 {
		return false
	}
	for _, kw := range searchKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

const baseInstruction = `You are a friendly, intelligent personal assistant. Be warm, helpful and conversational.

Rules:
- Only state facts you are confident about. Never invent statistics, dates or figures.
- When search results are provided, prioritize them over your training data. For prices, news, weather and other real-time questions, use only the provided search data.
- Use the current date and time shown above for any question about "today", "now" or "current".
- Start directly with the answer. Do not open with "So", "Well", "Certainly" or "I'd be happy to".
- Keep casual chat to a sentence or two; give regular questions complete but compact answers.
- Do not include URLs or links.`

// systemPrompt returns the per-request system message. The timestamp is
// rebuilt on every request so the model always sees the current time.
func systemPrompt(now time.Time) string {
	return fmt.Sprintf("Current date and time: %s\n\n%s",
		now.Format("Monday, January 2, 2006 at 3:04 PM MST"), baseInstruction)
}

// searchContext renders aggregated search entries into a context block the
// model is told to treat as its live source.
func searchContext(result search.Result) string {
	if result.Empty() {
		return ""
	}

	var b strings.Builder
	b.WriteString("Live search results (retrieved just now, treat as current truth):\n")
	for _, e := range result.Entries {
		b.WriteString("- ")
		if e.Title != "" {
			b.WriteString(e.Title)
			b.WriteString(": ")
		}
		b.WriteString(e.Snippet)
		fmt.Fprintf(&b, " [%s]\n", e.Source)
	}
	return b.String()
}

// buildMessages assembles the full conversation sent to the provider chain:
// system prompt, prior turns oldest first, then the user message with an
// optional search context block prepended.
func buildMessages(now time.Time, history []session.Turn, result search.Result, userText string) []llmprovider.Message {
	messages := make([]llmprovider.Message, 0, len(history)+2)
	messages = append(messages, llmprovider.Message{Role: "system", Content: systemPrompt(now)})

	for _, turn := range history {
		messages = append(messages, llmprovider.Message{Role: string(turn.Role), Content: turn.Text})
	}

	content := userText
	if ctx := searchContext(result); ctx != "" {
		content = fmt.Sprintf("%s\nUser question: %s\n\nAnswer from the search results above. State facts directly without citing that you searched.", ctx, userText)
	}
	messages = append(messages, llmprovider.Message{Role: "user", Content: content})

	return messages
}
