package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"conversational-relay/internal/relay"
	pkgLog "conversational-relay/pkg/log"
	pkgResponse "conversational-relay/pkg/response"
	pkgTelegram "conversational-relay/pkg/telegram"
)

type handler struct {
	l        pkgLog.Logger
	uc       relay.UseCase
	sessions SessionManager
	bot      *pkgTelegram.Bot
}

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It responds with HTTP 200 immediately and processes the message in a
// background goroutine: Telegram expects an ack within a few seconds, but the
// pipeline (search + model fallback chain) can take far longer.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Ignore non-message updates (polls, channel_post, etc.)
	if update.Message == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	// Snapshot the message before spawning goroutine to avoid data races on gin context
	msg := update.Message

	go func() {
		// Detach from HTTP request context (which gets cancelled after response)
		bgCtx := context.Background()
		if err := h.processMessage(bgCtx, msg); err != nil {
			h.l.Errorf(bgCtx, "telegram handler: background processMessage failed: %v", err)
			_ = h.bot.SendMessage(msg.Chat.ID, "Something went wrong while handling your message. Please try again.")
		}
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

// processMessage handles a single Telegram message: commands locally, plain
// text through the relay pipeline.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	if msg.Text == "" || msg.From == nil || msg.Chat == nil {
		return nil
	}

	userID := fmt.Sprintf("telegram_%d", msg.From.ID)

	if strings.HasPrefix(msg.Text, "/") {
		return h.handleCommand(ctx, userID, msg)
	}

	// Typing indicator while the pipeline runs.
	if err := h.bot.SendChatAction(msg.Chat.ID, "typing"); err != nil {
		h.l.Warnf(ctx, "telegram handler: chat action failed: %v", err)
	}

	reply, err := h.uc.Respond(ctx, relay.Inbound{
		UserID:   userID,
		ChatID:   msg.Chat.ID,
		Username: msg.From.Username,
		Text:     msg.Text,
		At:       time.Now(),
	})
	if err != nil {
		// Typed failures become user messages, not error escalation.
		if text := userMessage(err); text != "" {
			return h.bot.SendMessage(msg.Chat.ID, text)
		}
		return err
	}

	return h.sendSegments(ctx, msg.Chat.ID, reply.Segments)
}

// sendSegments delivers reply segments strictly in order. The next segment is
// only sent after the previous send returned, with a typing action between
// segments so long replies keep the indicator alive.
func (h *handler) sendSegments(ctx context.Context, chatID int64, segments []string) error {
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if err := h.bot.SendMessage(chatID, segment); err != nil {
			return fmt.Errorf("failed to send segment %d/%d: %w", i+1, len(segments), err)
		}
		if i < len(segments)-1 {
			if err := h.bot.SendChatAction(chatID, "typing"); err != nil {
				h.l.Warnf(ctx, "telegram handler: chat action failed: %v", err)
			}
		}
	}
	return nil
}
