package api

import (
	"context"
	"os"
	"strings"
)

// TokenSource supplies bearer tokens. Acquiring and refreshing tokens is the
// implementation's concern.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed bearer token.
type StaticToken string

// Token returns the token, or ErrNoToken when it is empty.
func (t StaticToken) Token(context.Context) (string, error) {
	if strings.TrimSpace(string(t)) == "" {
		return "", ErrNoToken
	}
	return string(t), nil
}

// EnvToken reads the bearer token from an environment variable on each call.
type EnvToken string

// Token returns the variable's value, or ErrNoToken when unset.
func (name EnvToken) Token(ctx context.Context) (string, error) {
	return StaticToken(os.Getenv(string(name))).Token(ctx)
}
