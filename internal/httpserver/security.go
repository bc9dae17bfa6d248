package httpserver

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	appConfig "conversational-relay/config"
	"conversational-relay/pkg/log"
	"conversational-relay/pkg/response"
)

// secretTokenHeader is set by Telegram when the webhook was registered with
// a secret token.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// webhookGuard protects the webhook route: optional secret token check,
// optional source IP whitelist and a per-IP rate limit. The rate limit here
// is transport-level abuse protection; the per-user conversational window
// lives in internal/ratelimit.
type webhookGuard struct {
	l       log.Logger
	config  appConfig.WebhookConfig
	limiter *ipRateLimiter
}

func newWebhookGuard(l log.Logger, cfg appConfig.WebhookConfig) *webhookGuard {
	return &webhookGuard{
		l:       l,
		config:  cfg,
		limiter: newIPRateLimiter(cfg.RateLimitPerMin),
	}
}

// Middleware returns the gin middleware enforcing the guard.
func (g *webhookGuard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ip := extractIP(c.Request)

		if err := g.limiter.Allow(ip); err != nil {
			g.l.Warnf(ctx, "webhook guard: %v", err)
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}

		if err := g.validateIP(ip); err != nil {
			g.l.Warnf(ctx, "webhook guard: %v", err)
			response.Forbidden(c)
			c.Abort()
			return
		}

		if g.config.Secret != "" {
			if c.GetHeader(secretTokenHeader) != g.config.Secret {
				g.l.Warnf(ctx, "webhook guard: secret token mismatch from %s", ip)
				response.Unauthorized(c)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// validateIP checks the source against the whitelist. An empty whitelist
// admits everything.
func (g *webhookGuard) validateIP(ip string) error {
	if len(g.config.AllowedIPs) == 0 {
		return nil
	}

	for _, allowed := range g.config.AllowedIPs {
		if ip == allowed {
			return nil
		}

		// CIDR range
		if strings.Contains(allowed, "/") {
			_, ipNet, err := net.ParseCIDR(allowed)
			if err != nil {
				continue
			}
			if ipNet.Contains(net.ParseIP(ip)) {
				return nil
			}
		}
	}

	return fmt.Errorf("IP %s not whitelisted", ip)
}

// extractIP extracts client IP from request
func extractIP(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fallback to RemoteAddr
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	return ip
}

// ipRateLimiter is a token-bucket limiter per source IP with auto-cleanup.
type ipRateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newIPRateLimiter(requestsPerMin int) *ipRateLimiter {
	if requestsPerMin <= 0 {
		requestsPerMin = 60
	}
	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}
	return &ipRateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](
			1000,          // Max 1000 unique sources
			nil,           // No eviction callback
			time.Minute*5, // TTL: 5 minutes
		),
		rate:  rate.Limit(float64(requestsPerMin) / 60.0), // Per second
		burst: burst,
	}
}

func (rl *ipRateLimiter) Allow(key string) error {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}

	if !limiter.Allow() {
		return fmt.Errorf("rate limit exceeded for %s", key)
	}
	return nil
}
