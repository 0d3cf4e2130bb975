// ABOUTME: API key loading strategies
// ABOUTME: Reads the Gemini key from the environment or from a literal value
package config

import (
	"errors"
	"fmt"
	"os"
)

const (
	KeySourceEnv     = "env"
	KeySourceLiteral = "literal"

	// APIKeyEnvVar holds the key when KeySource is env
	APIKeyEnvVar = "GEMINI_API_KEY"
)

// BuildAPIKey is the literal key compiled into the binary:
//
//	go build -ldflags "-X github.com/harperreed/sts-bridge/internal/config.BuildAPIKey=..."
var BuildAPIKey = ""

// ErrMissingAPIKey is returned when the selected source yields no key
var ErrMissingAPIKey = errors.New("missing API key")

// KeyLoader loads the API key
type KeyLoader interface {
	LoadKey() (string, error)
	Source() string
}

// EnvKey reads the key from an environment variable
type EnvKey struct {
	Var string
}

func (k EnvKey) LoadKey() (string, error) {
	key := os.Getenv(k.Var)
	if key == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrMissingAPIKey, k.Var)
	}
	return key, nil
}

func (k EnvKey) Source() string {
	return "env:" + k.Var
}

// LiteralKey returns a fixed key
type LiteralKey struct {
	Value string
}

func (k LiteralKey) LoadKey() (string, error) {
	if k.Value == "" {
		return "", fmt.Errorf("%w: no literal key configured (use -api-key or build with BuildAPIKey)", ErrMissingAPIKey)
	}
	return k.Value, nil
}

func (k LiteralKey) Source() string {
	return KeySourceLiteral
}

// KeyLoader returns the loader selected by KeySource
func (c Config) KeyLoader() (KeyLoader, error) {
	switch c.KeySource {
	case KeySourceEnv:
		return EnvKey{Var: APIKeyEnvVar}, nil
	case KeySourceLiteral:
		return LiteralKey{Value: c.LiteralKey}, nil
	default:
		return nil, fmt.Errorf("invalid key source %q", c.KeySource)
	}
}

// ResolveAPIKey loads the API key with the configured strategy
func (c Config) ResolveAPIKey() (string, error) {
	loader, err := c.KeyLoader()
	if err != nil {
		return "", err
	}
	return loader.LoadKey()
}
