package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conversational-relay/config"
	_ "conversational-relay/docs" // Swagger docs
	"conversational-relay/internal/httpserver"
	"conversational-relay/internal/ratelimit"
	tgDelivery "conversational-relay/internal/relay/delivery/telegram"
	"conversational-relay/internal/relay/usecase"
	"conversational-relay/internal/search"
	"conversational-relay/internal/session"
	"conversational-relay/pkg/llmprovider"
	"conversational-relay/pkg/log"
	"conversational-relay/pkg/telegram"
)

// @title       Conversational Relay API
// @description Telegram chat relay with multi-provider LLM fallback and parallel web search.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Conversational Relay...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	if cfg.Telegram.BotToken == "" {
		logger.Error(ctx, "TELEGRAM_BOT_TOKEN is required")
		return
	}

	// 3. Provider chain
	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return
	}
	logger.Infof(ctx, "Initialized %d LLM provider(s)", len(providers))

	maxTotalTimeout, _ := time.ParseDuration(cfg.LLM.MaxTotalTimeout)
	router := llmprovider.NewRouter(providers, &llmprovider.Config{
		MaxTotalTimeout: maxTotalTimeout,
	}, logger)

	// 4. Web search
	var searcher usecase.Searcher
	if cfg.Search.Enabled {
		sources, srcErr := search.InitializeSources(&cfg.Search)
		if srcErr != nil {
			logger.Warnf(ctx, "Search disabled: %v", srcErr)
		} else if len(sources) > 0 {
			searcher = search.NewAggregator(sources, cfg.Search.MaxResults, logger)
			logger.Infof(ctx, "Initialized %d search source(s)", len(sources))
		} else {
			logger.Warn(ctx, "Search enabled but no sources configured")
		}
	}

	// 5. Per-user state
	sessionTTL, err := time.ParseDuration(cfg.Relay.SessionTTL)
	if err != nil {
		sessionTTL = 24 * time.Hour
	}
	sessions := session.New(session.Config{
		MaxHistory:    cfg.Relay.MaxHistory,
		Capacity:      cfg.Relay.SessionCacheSize,
		TTL:           sessionTTL,
		SearchDefault: cfg.Search.Enabled,
	})
	limiter := ratelimit.New(time.Duration(cfg.Relay.RateLimitSeconds)*time.Second, cfg.Relay.SessionCacheSize)

	// 6. Relay pipeline
	relayUC := usecase.New(logger, limiter, sessions, searcher, router, usecase.Config{
		MaxMessageLength: cfg.Relay.MaxMessageLength,
		Params: llmprovider.Params{
			Temperature: cfg.Generation.Temperature,
			MaxTokens:   cfg.Generation.MaxOutputTokens,
			TopP:        cfg.Generation.TopP,
			TopK:        cfg.Generation.TopK,
		},
	})

	// 7. Telegram transport
	telegramBot := telegram.NewBot(cfg.Telegram.BotToken)
	telegramHandler := tgDelivery.New(logger, relayUC, sessions, telegramBot)

	// Register webhook: auto-detect ngrok or fallback to manual config
	webhookURL := cfg.Telegram.WebhookURL
	if webhookURL == "" {
		ngrokURL, ngrokErr := detectNgrokURL(ctx, "http://ngrok:4040")
		if ngrokErr != nil {
			logger.Warnf(ctx, "Could not detect ngrok URL: %v", ngrokErr)
		} else {
			webhookURL = ngrokURL + "/webhook/telegram"
			logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
		}
	}
	if webhookURL != "" {
		if whErr := telegramBot.SetWebhook(webhookURL); whErr != nil {
			logger.Warnf(ctx, "Failed to set Telegram webhook: %v", whErr)
		} else {
			logger.Infof(ctx, "Telegram webhook registered at %s", webhookURL)
		}
	}

	// 8. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		TelegramHandler: telegramHandler,
		Webhook:         cfg.Webhook,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 9. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
