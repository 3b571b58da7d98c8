package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration for the server and CLI.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Embeddings API. The key itself is resolved by the credentials package
	// (explicit > SECRETS_FILE > OPENAI_API_KEY).
	OpenAIBaseURL  string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	EmbeddingModel string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-ada-002"`
	Transport      string `env:"EMBEDDINGS_TRANSPORT" envDefault:"http"` // "http" (resty session) or "sdk" (openai-go)
	RequestTimeout int    `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"30"`

	// Secrets store consulted between the explicit key and the environment
	SecretsFile string `env:"SECRETS_FILE" envDefault:"secrets.env"`

	// Cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"memory"` // "memory", "redis" or "none"
	CacheTTL      int    `env:"CACHE_TTL_SECONDS" envDefault:"3600"`
	CacheSize     int    `env:"CACHE_SIZE" envDefault:"1024"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	TokenizerEncoding string `env:"TOKENIZER_ENCODING" envDefault:"cl100k_base"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// CacheTTLDuration returns the default cache window for queries.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// RequestTimeoutDuration returns the per-request timeout for the embeddings API.
func (c Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}
