// Package auth is the boundary to the hosted identity provider. The
// rest of the application only ever consumes "who is this, if anyone" —
// the provider's own flows (OAuth redirects, token issuance) live
// outside this repository.
package auth

import (
	"net/http"
	"os"
	"strings"
)

// Provider resolves the authenticated user for a request, or reports
// that there is none. Implementations must be side-effect free.
type Provider interface {
	UserID(r *http.Request) (string, bool)
}

// TokenProvider authenticates requests against a static token→user map
// loaded from the environment. It stands in for the hosted identity
// provider during local development and tests; the contract consumed by
// the chat controller is just the boolean.
type TokenProvider struct {
	tokens map[string]string
}

// NewTokenProviderFromEnv reads COAI_AUTH_TOKENS, a comma-separated
// list of token:userID pairs. An empty value yields a provider that
// authenticates nobody.
func NewTokenProviderFromEnv() *TokenProvider {
	tokens := map[string]string{}
	for _, pair := range strings.Split(os.Getenv("COAI_AUTH_TOKENS"), ",") {
		token, userID, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if ok && token != "" && userID != "" {
			tokens[token] = userID
		}
	}
	return &TokenProvider{tokens: tokens}
}

// NewTokenProvider creates a provider over an explicit token map.
func NewTokenProvider(tokens map[string]string) *TokenProvider {
	return &TokenProvider{tokens: tokens}
}

func (p *TokenProvider) UserID(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	userID, ok := p.tokens[token]
	return userID, ok
}
