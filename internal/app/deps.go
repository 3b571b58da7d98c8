package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"embedding-conn/internal/cache"
	"embedding-conn/internal/config"
	"embedding-conn/internal/connection"
	"embedding-conn/internal/credentials"
	"embedding-conn/internal/embeddings"
	"embedding-conn/internal/logger"
	"embedding-conn/internal/tokenizer"
)

// Deps bundles common runtime dependencies for the server and CLI.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	Cache    cache.Cache
	Embedder embeddings.Querier
	Encoder  tokenizer.Encoder
}

// Options tweaks Build for a particular entry point.
type Options struct {
	// APIKey is the explicit credential, e.g. from a --api-key flag.
	APIKey string
	// LogWriter receives log output; defaults to stdout.
	LogWriter io.Writer
	// Env is consulted for OPENAI_API_KEY; defaults to the process environment.
	Env credentials.EnvLookup
}

// LoadConfig applies an optional .env file to the environment and parses
// the configuration.
func LoadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	return config.Load(), nil
}

// Build loads env, config, and shared components.
func Build(opts Options) (Deps, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return Deps{}, err
	}

	w := opts.LogWriter
	if w == nil {
		w = os.Stdout
	}
	log := logger.NewWithWriter(w, cfg.LogLevel)

	transport, err := buildTransport(cfg, opts, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize embeddings transport: %w", err)
	}
	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}

	executor := embeddings.NewExecutor(transport, c, log,
		embeddings.WithDefaultModel(cfg.EmbeddingModel),
		embeddings.WithDefaultTTL(cfg.CacheTTLDuration()),
	)
	return Deps{
		Config:   cfg,
		Log:      log,
		Cache:    c,
		Embedder: executor,
		Encoder:  tokenizer.NewLazy(cfg.TokenizerEncoding),
	}, nil
}

// Close releases the cache connection.
func (d Deps) Close() error {
	if d.Cache == nil {
		return nil
	}
	return d.Cache.Close()
}

func buildTransport(cfg config.Config, opts Options, log *slog.Logger) (embeddings.Transport, error) {
	secrets, err := credentials.LoadSecrets(cfg.SecretsFile)
	if err != nil {
		return nil, err
	}
	env := opts.Env
	if env == nil {
		env = credentials.OSEnv()
	}
	sessionOpts := connection.Options{
		Credential: opts.APIKey,
		Secrets:    secrets,
		Env:        env,
		BaseURL:    cfg.OpenAIBaseURL,
		Timeout:    cfg.RequestTimeoutDuration(),
		Log:        log,
	}

	switch cfg.Transport {
	case "http":
		s, err := connection.New(sessionOpts)
		if err != nil {
			return nil, err
		}
		log.Info("using HTTP embeddings session", "endpoint", s.Endpoint(), "credential", s.CredentialSource())
		return s, nil
	case "sdk":
		s, err := connection.NewSDK(sessionOpts)
		if err != nil {
			return nil, err
		}
		log.Info("using OpenAI SDK embeddings session", "credential", s.CredentialSource())
		return s, nil
	default:
		return nil, fmt.Errorf("invalid EMBEDDINGS_TRANSPORT: %s (valid options: http, sdk)", cfg.Transport)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "memory":
		c, err := cache.NewMemoryCache(cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		log.Info("using in-memory cache", "size", cfg.CacheSize)
		return c, nil
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable, caching disabled", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNoOpCache(), nil
		}
		log.Info("using Redis cache", "addr", cfg.RedisAddr)
		return c, nil
	case "none":
		log.Info("caching disabled")
		return cache.NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: memory, redis, none)", cfg.CacheProvider)
	}
}
