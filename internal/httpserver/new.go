package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	appConfig "conversational-relay/config"
	tgDelivery "conversational-relay/internal/relay/delivery/telegram"
	"conversational-relay/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Relay domain
	telegramHandler tgDelivery.Handler

	// Webhook protection
	guard *webhookGuard
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	// Relay domain
	TelegramHandler tgDelivery.Handler

	// Webhook protection
	Webhook appConfig.WebhookConfig
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.Default(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		telegramHandler: cfg.TelegramHandler,
	}

	if cfg.Webhook.Enabled {
		srv.guard = newWebhookGuard(logger, cfg.Webhook)
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}
