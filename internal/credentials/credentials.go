// Package credentials resolves the embeddings API key from an explicit
// value, a secrets store and the process environment, in that order.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	// SecretKey is the secrets-store key holding the API key.
	SecretKey = "openai_api_key"
	// EnvVar is the environment variable holding the API key.
	EnvVar = "OPENAI_API_KEY"
)

// ErrMissingCredential is returned when no source yields a key.
var ErrMissingCredential = errors.New(
	"openai_api_key not in explicit argument, secrets (" + SecretKey + ") or environment (" + EnvVar + ")",
)

// SecretStore looks up configured secrets by key.
type SecretStore interface {
	Lookup(key string) (string, bool)
}

// EnvLookup has the shape of os.LookupEnv.
type EnvLookup func(key string) (string, bool)

// Source names where a credential was found.
type Source string

const (
	SourceExplicit    Source = "explicit"
	SourceSecrets     Source = "secrets"
	SourceEnvironment Source = "environment"
)

// Resolve returns the first non-blank credential from explicit, secrets and
// env. Nil secrets or env are treated as empty sources.
func Resolve(explicit string, secrets SecretStore, env EnvLookup) (string, error) {
	key, _, err := ResolveWithSource(explicit, secrets, env)
	return key, err
}

// ResolveWithSource is Resolve that also reports which source won.
func ResolveWithSource(explicit string, secrets SecretStore, env EnvLookup) (string, Source, error) {
	if v := strings.TrimSpace(explicit); v != "" {
		return v, SourceExplicit, nil
	}
	if secrets != nil {
		if v, ok := secrets.Lookup(SecretKey); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), SourceSecrets, nil
		}
	}
	if env != nil {
		if v, ok := env(EnvVar); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), SourceEnvironment, nil
		}
	}
	return "", "", ErrMissingCredential
}

// OSEnv reads the real process environment.
func OSEnv() EnvLookup {
	return os.LookupEnv
}

// MapEnv adapts a map to EnvLookup, mostly for tests and embedding callers.
func MapEnv(m map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// Describe is used in startup logs; it never prints the key itself.
func Describe(key string, src Source) string {
	if len(key) <= 4 {
		return fmt.Sprintf("%s (****)", src)
	}
	return fmt.Sprintf("%s (****%s)", src, key[len(key)-4:])
}
