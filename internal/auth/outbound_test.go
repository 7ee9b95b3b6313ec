package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutboundCredentials_ApplyBearer(t *testing.T) {
	store := NewOutboundCredentials()
	store.Set("https://agent.example.com", Credential{Type: CredentialBearer, Value: "tok123"})

	req := httptest.NewRequest(http.MethodPost, "https://agent.example.com/a2a", nil)
	store.Apply(req, "https://agent.example.com")
	assert.Equal(t, "Bearer tok123", req.Header.Get("Authorization"))
}

func TestOutboundCredentials_ApplyAPIKey(t *testing.T) {
	store := NewOutboundCredentials()
	store.Set("https://agent.example.com", Credential{Type: CredentialAPIKey, Value: "xa_abc"})

	req := httptest.NewRequest(http.MethodPost, "https://agent.example.com/a2a", nil)
	store.Apply(req, "https://agent.example.com")
	assert.Equal(t, "ApiKey xa_abc", req.Header.Get("Authorization"))
}

func TestOutboundCredentials_MissingPassesThrough(t *testing.T) {
	store := NewOutboundCredentials()
	req := httptest.NewRequest(http.MethodPost, "https://unknown.example.com/a2a", nil)
	store.Apply(req, "https://unknown.example.com")
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestOutboundCredentials_Remove(t *testing.T) {
	store := NewOutboundCredentials()
	store.Set("https://a", Credential{Type: CredentialBearer, Value: "t"})
	store.Remove("https://a")

	req := httptest.NewRequest(http.MethodPost, "https://a", nil)
	store.Apply(req, "https://a")
	assert.Empty(t, req.Header.Get("Authorization"))
}
