package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "OPENAI_BASE_URL", "EMBEDDING_MODEL",
		"EMBEDDINGS_TRANSPORT", "REQUEST_TIMEOUT_SECONDS", "SECRETS_FILE",
		"CACHE_PROVIDER", "CACHE_TTL_SECONDS", "CACHE_SIZE", "REDIS_ADDR", "TOKENIZER_ENCODING",
	} {
		// Setenv restores the original value on cleanup.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8080},
		{"LogLevel", cfg.LogLevel, "info"},
		{"OpenAIBaseURL", cfg.OpenAIBaseURL, "https://api.openai.com/v1"},
		{"EmbeddingModel", cfg.EmbeddingModel, "text-embedding-ada-002"},
		{"Transport", cfg.Transport, "http"},
		{"RequestTimeout", cfg.RequestTimeout, 30},
		{"SecretsFile", cfg.SecretsFile, "secrets.env"},
		{"CacheProvider", cfg.CacheProvider, "memory"},
		{"CacheTTL", cfg.CacheTTL, 3600},
		{"CacheSize", cfg.CacheSize, 1024},
		{"RedisAddr", cfg.RedisAddr, "localhost:6379"},
		{"TokenizerEncoding", cfg.TokenizerEncoding, "cl100k_base"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CACHE_PROVIDER", "redis")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("EMBEDDINGS_TRANSPORT", "sdk")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.LogLevel)
	}
	if cfg.CacheProvider != "redis" {
		t.Errorf("expected cache provider 'redis', got %s", cfg.CacheProvider)
	}
	if cfg.Transport != "sdk" {
		t.Errorf("expected transport 'sdk', got %s", cfg.Transport)
	}
	if got := cfg.CacheTTLDuration(); got != time.Minute {
		t.Errorf("expected cache ttl 1m, got %v", got)
	}
}
