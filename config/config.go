package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Transport
	Telegram TelegramConfig

	// Relay behaviour
	Relay      RelayConfig
	Generation GenerationConfig

	// LLM Provider Abstraction
	LLM LLMConfig

	// Web search
	Search SearchConfig

	// Webhooks
	Webhook WebhookConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type TelegramConfig struct {
	BotToken   string
	WebhookURL string
}

// RelayConfig controls conversation behaviour: reply segmentation, the
// per-user rate window and how much history each session keeps.
type RelayConfig struct {
	MaxMessageLength int    // hard per-segment cap imposed by the transport
	RateLimitSeconds int    // minimum seconds between accepted messages per user
	MaxHistory       int    // retained exchanges (user+assistant pairs) per session
	SessionCacheSize int    // max concurrently tracked sessions
	SessionTTL       string // idle sessions older than this are dropped
}

// GenerationConfig carries the sampling parameters forwarded to every
// provider in the chain.
type GenerationConfig struct {
	Temperature     float64
	MaxOutputTokens int
	TopP            float64
	TopK            int
}

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"` // global deadline for the entire fallback chain
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Backend  string `yaml:"backend,omitempty"` // API family; defaults to Name
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// SearchConfig holds configuration for the web search aggregation layer
type SearchConfig struct {
	Enabled    bool           `yaml:"enabled"`
	MaxResults int            `yaml:"max_results"`
	Sources    []SourceConfig `yaml:"sources"`
}

// SourceConfig holds configuration for a single search source
type SourceConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key,omitempty"`
	CXID     string `yaml:"cx_id,omitempty"` // Google Custom Search engine id
	BaseURL  string `yaml:"base_url,omitempty"`
	Timeout  string `yaml:"timeout"`
}

type WebhookConfig struct {
	Enabled         bool
	Secret          string
	AllowedIPs      []string
	RateLimitPerMin int
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	cfg.Telegram.BotToken = viper.GetString("telegram.bot_token")
	cfg.Telegram.WebhookURL = viper.GetString("telegram.webhook_url")
	if tgToken := viper.GetString("telegram_bot_token"); tgToken != "" {
		cfg.Telegram.BotToken = tgToken
	}

	// Relay behaviour
	cfg.Relay.MaxMessageLength = viper.GetInt("relay.max_message_length")
	cfg.Relay.RateLimitSeconds = viper.GetInt("relay.rate_limit_seconds")
	cfg.Relay.MaxHistory = viper.GetInt("relay.max_history")
	cfg.Relay.SessionCacheSize = viper.GetInt("relay.session_cache_size")
	cfg.Relay.SessionTTL = viper.GetString("relay.session_ttl")

	// Generation parameters
	cfg.Generation.Temperature = viper.GetFloat64("generation.temperature")
	cfg.Generation.MaxOutputTokens = viper.GetInt("generation.max_output_tokens")
	cfg.Generation.TopP = viper.GetFloat64("generation.top_p")
	cfg.Generation.TopK = viper.GetInt("generation.top_k")

	// LLM Provider Abstraction
	cfg.LLM.MaxTotalTimeout = viper.GetString("llm.max_total_timeout")

	// Load provider configurations
	if viper.IsSet("llm.providers") {
		providersRaw := viper.Get("llm.providers")
		if providersList, ok := providersRaw.([]interface{}); ok {
			for _, p := range providersList {
				if providerMap, ok := p.(map[string]interface{}); ok {
					provider := ProviderConfig{
						Name:     getStringFromMap(providerMap, "name"),
						Backend:  getStringFromMap(providerMap, "backend"),
						Enabled:  getBoolFromMap(providerMap, "enabled"),
						Priority: getIntFromMap(providerMap, "priority"),
						APIKey:   expandEnvVar(getStringFromMap(providerMap, "api_key")),
						BaseURL:  getStringFromMap(providerMap, "base_url"),
						Model:    getStringFromMap(providerMap, "model"),
						Timeout:  getStringFromMap(providerMap, "timeout"),
					}
					cfg.LLM.Providers = append(cfg.LLM.Providers, provider)
				}
			}
		}
	}

	if err := validateLLMConfig(&cfg.LLM); err != nil {
		return nil, fmt.Errorf("invalid llm config: %w", err)
	}

	// Web search
	cfg.Search.Enabled = viper.GetBool("search.enabled")
	cfg.Search.MaxResults = viper.GetInt("search.max_results")

	if viper.IsSet("search.sources") {
		sourcesRaw := viper.Get("search.sources")
		if sourcesList, ok := sourcesRaw.([]interface{}); ok {
			for _, s := range sourcesList {
				if sourceMap, ok := s.(map[string]interface{}); ok {
					source := SourceConfig{
						Name:     getStringFromMap(sourceMap, "name"),
						Enabled:  getBoolFromMap(sourceMap, "enabled"),
						Priority: getIntFromMap(sourceMap, "priority"),
						APIKey:   expandEnvVar(getStringFromMap(sourceMap, "api_key")),
						CXID:     expandEnvVar(getStringFromMap(sourceMap, "cx_id")),
						BaseURL:  getStringFromMap(sourceMap, "base_url"),
						Timeout:  getStringFromMap(sourceMap, "timeout"),
					}
					cfg.Search.Sources = append(cfg.Search.Sources, source)
				}
			}
		}
	}

	// Webhooks
	cfg.Webhook.Enabled = viper.GetBool("webhook.enabled")
	cfg.Webhook.Secret = viper.GetString("webhook.secret")
	if webhookSecret := viper.GetString("webhook_secret"); webhookSecret != "" {
		cfg.Webhook.Secret = webhookSecret
	}
	cfg.Webhook.RateLimitPerMin = viper.GetInt("webhook.rate_limit_per_min")

	// Split allowed IPs since viper might not parse array seamlessly from env
	var ips []string
	if rawIps := viper.GetString("webhook.allowed_ips"); rawIps != "" {
		for _, ip := range strings.Split(rawIps, ",") {
			ip = strings.TrimSpace(ip)
			if ip != "" {
				ips = append(ips, ip)
			}
		}
	}
	cfg.Webhook.AllowedIPs = ips

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	// Relay defaults
	viper.SetDefault("relay.max_message_length", 4096)
	viper.SetDefault("relay.rate_limit_seconds", 3)
	viper.SetDefault("relay.max_history", 10)
	viper.SetDefault("relay.session_cache_size", 10000)
	viper.SetDefault("relay.session_ttl", "24h")

	// Generation defaults
	viper.SetDefault("generation.temperature", 0.6)
	viper.SetDefault("generation.max_output_tokens", 6000)
	viper.SetDefault("generation.top_p", 0.93)
	viper.SetDefault("generation.top_k", 40)

	// LLM defaults
	viper.SetDefault("llm.max_total_timeout", "60s")

	// Search defaults
	viper.SetDefault("search.enabled", true)
	viper.SetDefault("search.max_results", 10)

	viper.SetDefault("webhook.rate_limit_per_min", 60)
	viper.SetDefault("webhook.enabled", true)
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	// Check if value is in format ${VAR_NAME}
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		// Try viper first (handles both env and config)
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		// Try lowercase version
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		// Try direct os.Getenv as last resort
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}

// validateLLMConfig validates the LLM configuration
func validateLLMConfig(cfg *LLMConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("no LLM providers configured - please add llm.providers section to config.yaml")
	}

	enabledCount := 0
	priorityMap := make(map[int]bool)

	for i, provider := range cfg.Providers {
		// Check required fields
		if provider.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if provider.Model == "" {
			return fmt.Errorf("provider %s: model is required", provider.Name)
		}

		if provider.Enabled {
			enabledCount++

			// Check priority is valid
			if provider.Priority <= 0 {
				return fmt.Errorf("provider %s: priority must be positive", provider.Name)
			}

			// Check for duplicate priorities
			if priorityMap[provider.Priority] {
				return fmt.Errorf("provider %s: duplicate priority %d", provider.Name, provider.Priority)
			}
			priorityMap[provider.Priority] = true

			// Check API key is set (warning only)
			if provider.APIKey == "" {
				fmt.Printf("Warning: provider %s has no API key configured\n", provider.Name)
			}
		}
	}

	if enabledCount == 0 {
		return fmt.Errorf("no enabled LLM providers")
	}

	return nil
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		if i, ok := val.(int); ok {
			return i
		}
		// Handle float64 from JSON unmarshaling
		if f, ok := val.(float64); ok {
			return int(f)
		}
	}
	return 0
}
