// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// BotConfig provides the store bot's identity settings.
type BotConfig interface {
	GetBotName() string
	GetAdminNumber() string
	GetAdminKeywords() []string
}

// StoreConfig provides durable file locations for the catalog and auth status.
type StoreConfig interface {
	GetProductsFile() string
	GetAuthStatusFile() string
}

// GatewayConfig provides settings for the WhatsApp HTTP gateway.
type GatewayConfig interface {
	GetGatewayURL() string
	GetGatewayKey() string
	GetGatewayDeviceID() string
	GetWebhookSecret() string
	GetSendRatePerSecond() float64
}

// JWTConfig provides JWT validation settings for admin API middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthConfig provides settings needed by the admin API auth service.
type AuthConfig interface {
	JWTConfig
	GetAdminPasswordHash() string
	GetAccessTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// AlertConfig provides settings for the asynq alert side channel.
type AlertConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAlertQueueName() string
	GetAlertConcurrency() int
}

// EmailConfig provides settings for alert email delivery.
type EmailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetAlertEmailTo() string
	IsEmailEnabled() bool
}

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	BotName       string
	AdminNumber   string
	AdminKeywords []string

	ProductsFile   string
	AuthStatusFile string

	GatewayURL        string
	GatewayKey        string
	GatewayDeviceID   string
	WebhookSecret     string
	SendRatePerSecond float64

	JWTAccessSecret   string
	AdminPasswordHash string
	AccessTokenTTL    time.Duration

	CORSAllowAll bool
	CORSOrigins  []string

	RedisURL         string
	RedisTLSInsecure bool
	AlertQueueName   string
	AlertConcurrency int

	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
	AlertEmailTo     string
	EmailEnabled     bool
}

// defaultAdminKeywords is the built-in admin-attention alias list. A keywords
// file (KEYWORDS_FILE) overrides it.
var defaultAdminKeywords = []string{
	"admin", "adminn", "farhan", "farhann", "farhaan",
	"farhaann", "aman", "amaan", "amann", "amaann",
}

// Load reads configuration from the environment (and .env if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		BotName:     getEnv("BOT_NAME", "Amaan Store"),
		AdminNumber: getEnv("ADMIN_NUMBER", ""),

		ProductsFile:   getEnv("PRODUCTS_FILE", "products.json"),
		AuthStatusFile: getEnv("AUTH_STATUS_FILE", "auth_status.json"),

		GatewayURL:        getEnv("GATEWAY_URL", ""),
		GatewayKey:        getEnv("GATEWAY_KEY", ""),
		GatewayDeviceID:   getEnv("GATEWAY_DEVICE_ID", ""),
		WebhookSecret:     getEnv("WEBHOOK_SECRET", ""),
		SendRatePerSecond: getEnvFloat("SEND_RATE_PER_SECOND", 1.0),

		JWTAccessSecret:   getEnv("JWT_ACCESS_SECRET", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AccessTokenTTL:    getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),

		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200")),
		CORSAllowAll: strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true"),

		RedisURL:         getEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AlertQueueName:   getEnv("ALERT_QUEUE", "alerts"),
		AlertConcurrency: getEnvInt("ALERT_CONCURRENCY", 5),

		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Amaan Store Bot"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		AlertEmailTo:     getEnv("ALERT_EMAIL_TO", ""),
		EmailEnabled:     strings.EqualFold(getEnv("EMAIL_ENABLED", "false"), "true"),
	}

	if containsWildcard(cfg.CORSOrigins) {
		cfg.CORSAllowAll = true
	}

	keywords, err := loadKeywords(getEnv("KEYWORDS_FILE", ""))
	if err != nil {
		return nil, err
	}
	cfg.AdminKeywords = keywords

	if cfg.AdminNumber == "" {
		return nil, fmt.Errorf("ADMIN_NUMBER is required")
	}

	return cfg, nil
}

// keywordsFile is the YAML shape of an admin keyword override file.
type keywordsFile struct {
	AdminKeywords []string `yaml:"adminKeywords"`
}

func loadKeywords(path string) ([]string, error) {
	if path == "" {
		return defaultAdminKeywords, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords file: %w", err)
	}

	var parsed keywordsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse keywords file: %w", err)
	}

	if len(parsed.AdminKeywords) == 0 {
		return defaultAdminKeywords, nil
	}

	keywords := make([]string, 0, len(parsed.AdminKeywords))
	for _, kw := range parsed.AdminKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords, nil
}

func (c *Config) GetBotName() string            { return c.BotName }
func (c *Config) GetAdminNumber() string        { return c.AdminNumber }
func (c *Config) GetAdminKeywords() []string    { return c.AdminKeywords }
func (c *Config) GetProductsFile() string       { return c.ProductsFile }
func (c *Config) GetAuthStatusFile() string     { return c.AuthStatusFile }
func (c *Config) GetGatewayURL() string         { return c.GatewayURL }
func (c *Config) GetGatewayKey() string         { return c.GatewayKey }
func (c *Config) GetGatewayDeviceID() string    { return c.GatewayDeviceID }
func (c *Config) GetWebhookSecret() string      { return c.WebhookSecret }
func (c *Config) GetSendRatePerSecond() float64 { return c.SendRatePerSecond }
func (c *Config) GetJWTAccessSecret() string    { return c.JWTAccessSecret }
func (c *Config) GetAdminPasswordHash() string  { return c.AdminPasswordHash }
func (c *Config) GetAccessTokenTTL() time.Duration {
	return c.AccessTokenTTL
}
func (c *Config) GetHTTPAddr() string         { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool       { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string    { return c.CORSOrigins }
func (c *Config) GetRedisURL() string         { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool   { return c.RedisTLSInsecure }
func (c *Config) GetAlertQueueName() string   { return c.AlertQueueName }
func (c *Config) GetAlertConcurrency() int    { return c.AlertConcurrency }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetAlertEmailTo() string     { return c.AlertEmailTo }
func (c *Config) IsEmailEnabled() bool        { return c.EmailEnabled }

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvFloat(key string, fallback float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
