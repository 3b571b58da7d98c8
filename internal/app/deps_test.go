package app

import (
	"io"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"embedding-conn/internal/cache"
	"embedding-conn/internal/credentials"
)

func setupEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	t.Setenv("SECRETS_FILE", "")
	t.Setenv("CACHE_PROVIDER", "none")
	t.Setenv("EMBEDDINGS_TRANSPORT", "http")
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		vars      map[string]string
		opts      Options
		wantErr   string
		wantCache any
	}{
		{
			name:      "explicit key with no cache",
			opts:      Options{APIKey: "sk-explicit"},
			wantCache: &cache.NoOpCache{},
		},
		{
			name:      "key from environment with memory cache",
			vars:      map[string]string{"CACHE_PROVIDER": "memory"},
			opts:      Options{Env: credentials.MapEnv(map[string]string{"OPENAI_API_KEY": "sk-env"})},
			wantCache: &cache.MemoryCache{},
		},
		{
			name:      "sdk transport",
			vars:      map[string]string{"EMBEDDINGS_TRANSPORT": "sdk"},
			opts:      Options{APIKey: "sk-explicit"},
			wantCache: &cache.NoOpCache{},
		},
		{
			name:    "missing credential",
			opts:    Options{Env: credentials.MapEnv(nil)},
			wantErr: "openai_api_key not in",
		},
		{
			name:    "invalid transport",
			vars:    map[string]string{"EMBEDDINGS_TRANSPORT": "grpc"},
			opts:    Options{APIKey: "sk-explicit"},
			wantErr: "invalid EMBEDDINGS_TRANSPORT",
		},
		{
			name:    "invalid cache provider",
			vars:    map[string]string{"CACHE_PROVIDER": "memcached"},
			opts:    Options{APIKey: "sk-explicit"},
			wantErr: "invalid CACHE_PROVIDER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupEnv(t, tt.vars)
			tt.opts.LogWriter = io.Discard

			deps, err := Build(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer deps.Close()

			assert.NotNil(t, deps.Log)
			assert.NotNil(t, deps.Embedder)
			assert.NotNil(t, deps.Encoder)
			assert.IsType(t, tt.wantCache, deps.Cache)
		})
	}
}

func TestBuildRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	setupEnv(t, map[string]string{"CACHE_PROVIDER": "redis", "REDIS_ADDR": mr.Addr()})

	deps, err := Build(Options{APIKey: "sk-explicit", LogWriter: io.Discard})
	require.NoError(t, err)
	defer deps.Close()

	assert.IsType(t, &cache.RedisCache{}, deps.Cache)
}

func TestBuildRedisUnavailableFallsBackToNoOp(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()
	setupEnv(t, map[string]string{"CACHE_PROVIDER": "redis", "REDIS_ADDR": addr})

	deps, err := Build(Options{APIKey: "sk-explicit", LogWriter: io.Discard})
	require.NoError(t, err)
	defer deps.Close()

	assert.IsType(t, &cache.NoOpCache{}, deps.Cache)
}

func TestDepsCloseWithoutCache(t *testing.T) {
	assert.NoError(t, Deps{}.Close())
}
