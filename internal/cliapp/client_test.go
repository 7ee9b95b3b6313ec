package cliapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/a2a/health", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := newAPIClient(srv.URL, "tok")
	var out map[string]string
	require.NoError(t, client.get(context.Background(), "/a2a/health", &out))
	assert.Equal(t, "ok", out["status"])
}

func TestAPIClient_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := newAPIClient(srv.URL, "")
	var out map[string]bool
	require.NoError(t, client.post(context.Background(), "/a2a/skills/refresh", nil, &out))
	assert.True(t, out["ok"])
}

func TestAPIClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	}))
	defer srv.Close()

	client := newAPIClient(srv.URL, "")
	err := client.get(context.Background(), "/a2a/tasks/missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
