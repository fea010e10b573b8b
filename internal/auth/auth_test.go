package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenProvider_UserID(t *testing.T) {
	p := NewTokenProvider(map[string]string{"tok-1": "user-a"})

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer tok-1")
	id, ok := p.UserID(r)
	assert.True(t, ok)
	assert.Equal(t, "user-a", id)

	r = httptest.NewRequest("GET", "/", nil)
	_, ok = p.UserID(r)
	assert.False(t, ok)

	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer unknown")
	_, ok = p.UserID(r)
	assert.False(t, ok)
}

func TestNewTokenProviderFromEnv(t *testing.T) {
	t.Setenv("COAI_AUTH_TOKENS", "tok-1:alice, tok-2:bob, malformed,:empty")
	p := NewTokenProviderFromEnv()

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer tok-2")
	id, ok := p.UserID(r)
	assert.True(t, ok)
	assert.Equal(t, "bob", id)
}
