package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"conversational-relay/internal/session"
	pkgTelegram "conversational-relay/pkg/telegram"
)

const (
	// defaultHistoryPairs is how many user/assistant exchanges /history shows.
	defaultHistoryPairs = 5
	maxHistoryPairs     = 20

	// historySnippetLimit caps each turn rendered by /history.
	historySnippetLimit = 300
)

const startText = `👋 Hi! I'm your AI assistant.

Just send me a message and I'll answer, with live web search when your question needs fresh information.

Commands:
/help — usage guide
/history — recent conversation
/clear — forget our conversation
/search on|off — toggle web search
/stats — your session stats
/about — about this bot`

const helpText = `*How to use me:*

Send any message and I'll reply. When your question mentions current events, prices, weather and similar topics, I search the web first.

/history — show recent exchanges (/history N for more)
/clear — wipe the conversation history
/search on — enable web search (default)
/search off — answer from the model alone
/stats — message count and history size
/about — version and capabilities`

const aboutText = `🤖 *Conversational Relay*

*Version:* 1.0.0

I answer through a chain of language model providers, falling back automatically when one is slow or unavailable, and I pull in live web results when your question needs fresh information.

*Key features:*
• Persistent conversation memory per chat
• Parallel multi-source web search (/search)
• Automatic model fallback
• Long answers split across messages`

// handleCommand dispatches bot commands. The command word is the first
// whitespace-separated token; anything after it is the argument.
func (h *handler) handleCommand(ctx context.Context, userID string, msg *pkgTelegram.Message) error {
	fields := strings.Fields(msg.Text)
	command := fields[0]
	args := fields[1:]

	switch command {
	case "/start":
		return h.bot.SendMessage(msg.Chat.ID, startText)

	case "/help":
		return h.bot.SendMessageWithMode(msg.Chat.ID, helpText, "Markdown")

	case "/history":
		return h.handleHistory(userID, msg.Chat.ID, args)

	case "/about":
		return h.bot.SendMessageWithMode(msg.Chat.ID, aboutText, "Markdown")

	case "/clear":
		h.sessions.Clear(userID)
		return h.bot.SendMessage(msg.Chat.ID, "🧹 Conversation history cleared.")

	case "/search":
		return h.handleSearchToggle(userID, msg.Chat.ID, args)

	case "/stats":
		return h.handleStats(userID, msg.Chat.ID)

	default:
		return h.bot.SendMessage(msg.Chat.ID, "Unknown command. Try /help.")
	}
}

// handleHistory renders the most recent exchanges. An optional numeric
// argument changes how many pairs are shown, clamped to maxHistoryPairs.
func (h *handler) handleHistory(userID string, chatID int64, args []string) error {
	turns := h.sessions.History(userID)
	if len(turns) == 0 {
		return h.bot.SendMessage(chatID, "📭 No conversation history yet. Send me a message first!")
	}

	limit := defaultHistoryPairs
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n >= 1 {
			limit = n
			if limit > maxHistoryPairs {
				limit = maxHistoryPairs
			}
		}
	}
	if keep := limit * 2; len(turns) > keep {
		turns = turns[len(turns)-keep:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📜 *Recent conversation* (%d messages)\n\n", len(turns))
	for _, turn := range turns {
		text := turn.Text
		if len(text) > historySnippetLimit {
			cut := historySnippetLimit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			text = text[:cut] + "..."
		}
		marker := "👤 You"
		if turn.Role == session.RoleAssistant {
			marker = "🤖 Me"
		}
		fmt.Fprintf(&b, "%s:\n%s\n\n", marker, text)
	}
	b.WriteString("_Use /history N to show more exchanges (max 20)._")

	return h.bot.SendMessageWithMode(chatID, b.String(), "Markdown")
}

func (h *handler) handleSearchToggle(userID string, chatID int64, args []string) error {
	if len(args) == 0 {
		state := "off"
		if h.sessions.SearchEnabled(userID) {
			state = "on"
		}
		return h.bot.SendMessage(chatID, fmt.Sprintf("Web search is %s. Use /search on or /search off.", state))
	}

	switch strings.ToLower(args[0]) {
	case "on":
		h.sessions.SetSearchEnabled(userID, true)
		return h.bot.SendMessage(chatID, "🔍 Web search enabled.")
	case "off":
		h.sessions.SetSearchEnabled(userID, false)
		return h.bot.SendMessage(chatID, "Web search disabled. I'll answer from the model alone.")
	default:
		return h.bot.SendMessage(chatID, "Usage: /search on|off")
	}
}

func (h *handler) handleStats(userID string, chatID int64) error {
	stats, ok := h.sessions.Stats(userID)
	if !ok {
		return h.bot.SendMessage(chatID, "No session yet. Send me a message first!")
	}

	searchState := "off"
	if stats.SearchEnabled {
		searchState = "on"
	}
	text := fmt.Sprintf(
		"📊 Your session:\nMessages: %d\nHistory turns: %d\nWeb search: %s\nFirst seen: %s\nLast seen: %s",
		stats.MessageCount,
		stats.HistoryTurns,
		searchState,
		stats.CreatedAt.Format("2006-01-02 15:04"),
		stats.LastSeen.Format("2006-01-02 15:04"),
	)
	return h.bot.SendMessage(chatID, text)
}
