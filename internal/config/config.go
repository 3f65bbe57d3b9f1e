// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (./ragger.yaml)
//  3. Default values
//
// Sensitive fields (API keys, the JWT secret) are masked in MarshalJSON so a
// logged Config never leaks credentials.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrMissingQdrantURL indicates the vector index URL is not set.
	ErrMissingQdrantURL = errors.New("missing qdrant url")

	// ErrMissingJWTSecret indicates the token signing secret is not set.
	ErrMissingJWTSecret = errors.New("missing jwt secret")

	// ErrInvalidJWTSecret indicates the token signing secret is too short.
	ErrInvalidJWTSecret = errors.New("invalid jwt secret")

	// ErrInvalidModelName indicates a model name is empty or malformed.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTimeout indicates a timeout value is out of range.
	ErrInvalidTimeout = errors.New("invalid timeout")
)

const (
	// DefaultEmbedderModel produces 768-dimensional vectors, matching the
	// collection dimension (see collection.VectorDimension).
	DefaultEmbedderModel = "text-embedding-004"

	// DefaultChatModel answers and summarizes.
	DefaultChatModel = "gemini-2.5-flash"

	// minJWTSecretLen guards against trivially brute-forceable secrets.
	minJWTSecretLen = 16
)

// Config stores application configuration.
type Config struct {
	// HTTP server
	ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`

	// Vector index connection
	QdrantURL    string `mapstructure:"qdrant_url" json:"qdrant_url"`
	QdrantAPIKey string `mapstructure:"qdrant_api_key" json:"qdrant_api_key"` // SENSITIVE: masked in MarshalJSON

	// Models. GEMINI_API_KEY is read directly by Genkit, not via Viper.
	EmbedderModel string `mapstructure:"embedder_model" json:"embedder_model"`
	ChatModel     string `mapstructure:"chat_model" json:"chat_model"`

	// Auth
	JWTSecret string `mapstructure:"jwt_secret" json:"jwt_secret"` // SENSITIVE: masked in MarshalJSON

	// Crawling
	CrawlTimeout time.Duration `mapstructure:"crawl_timeout" json:"crawl_timeout"`

	// Logging
	LogLevel string `mapstructure:"log_level" json:"log_level"`
	LogJSON  bool   `mapstructure:"log_json" json:"log_json"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("ragger")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults", "config_name", "ragger.yaml")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("qdrant_url", "http://localhost:6333")
	v.SetDefault("embedder_model", DefaultEmbedderModel)
	v.SetDefault("chat_model", DefaultChatModel)
	v.SetDefault("crawl_timeout", "15s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", true)
}

func bindEnvVariables(v *viper.Viper) {
	// Hardcoded keys cannot fail to bind; a panic here is a bug.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("listen_addr", "RAGGER_LISTEN_ADDR")
	mustBind("qdrant_url", "QDRANT_URL")
	mustBind("qdrant_api_key", "QDRANT_API_KEY")
	mustBind("embedder_model", "RAGGER_EMBEDDER_MODEL")
	mustBind("chat_model", "RAGGER_CHAT_MODEL")
	mustBind("jwt_secret", "JWT_SECRET")
	mustBind("crawl_timeout", "RAGGER_CRAWL_TIMEOUT")
	mustBind("log_level", "RAGGER_LOG_LEVEL")
	mustBind("log_json", "RAGGER_LOG_JSON")
}

// Validate checks the configuration and fails fast on anything the server
// cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.QdrantURL) == "" {
		return ErrMissingQdrantURL
	}
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if len(c.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("%w: need at least %d characters", ErrInvalidJWTSecret, minJWTSecretLen)
	}
	if strings.TrimSpace(c.EmbedderModel) == "" {
		return fmt.Errorf("%w: embedder model is empty", ErrInvalidModelName)
	}
	if strings.TrimSpace(c.ChatModel) == "" {
		return fmt.Errorf("%w: chat model is empty", ErrInvalidModelName)
	}
	if c.CrawlTimeout <= 0 || c.CrawlTimeout > 5*time.Minute {
		return fmt.Errorf("%w: crawl timeout %s out of range (0, 5m]", ErrInvalidTimeout, c.CrawlTimeout)
	}
	return nil
}

// FullChatModelName returns the provider-qualified chat model name for
// Genkit, e.g. "googleai/gemini-2.5-flash".
func (c *Config) FullChatModelName() string {
	if strings.Contains(c.ChatModel, "/") {
		return c.ChatModel
	}
	return "googleai/" + c.ChatModel
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// maskSecret masks a secret for safe logging. Short secrets are fully
// masked; longer ones keep two characters at each end for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with sensitive field masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.QdrantAPIKey = maskSecret(a.QdrantAPIKey)
	a.JWTSecret = maskSecret(a.JWTSecret)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
