package telegram

import (
	"github.com/gin-gonic/gin"

	"conversational-relay/internal/relay"
	"conversational-relay/internal/session"
	pkgLog "conversational-relay/pkg/log"
	pkgTelegram "conversational-relay/pkg/telegram"
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

// SessionManager covers the session operations bot commands need outside
// the main pipeline. *session.Store satisfies it.
type SessionManager interface {
	History(userID string) []session.Turn
	Clear(userID string)
	SearchEnabled(userID string) bool
	SetSearchEnabled(userID string, enabled bool)
	Stats(userID string) (session.Stats, bool)
}

// New creates a new Telegram delivery handler.
func New(
	l pkgLog.Logger,
	uc relay.UseCase,
	sessions SessionManager,
	bot *pkgTelegram.Bot,
) Handler {
	return &handler{
		l:        l,
		uc:       uc,
		sessions: sessions,
		bot:      bot,
	}
}
