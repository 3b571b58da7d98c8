package credentials

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// Secrets is an in-memory secrets store.
type Secrets map[string]string

// Lookup implements SecretStore.
func (s Secrets) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// LoadSecrets reads a dotenv-style secrets file (KEY=value or key = "value").
// A missing file yields an empty store so the environment can still be used.
func LoadSecrets(path string) (Secrets, error) {
	if path == "" {
		return Secrets{}, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("failed to read secrets file %s: %w", path, err)
	}
	return Secrets(values), nil
}
