package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetRepository_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/repos/draggonnb/client-acme-1-app", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"name":     "client-acme-1-app",
			"html_url": "https://github.com/draggonnb/client-acme-1-app",
		})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "test-token", "draggonnb")
	require.NoError(t, err)

	repo, err := client.GetRepository(context.Background(), "client-acme-1-app")
	require.NoError(t, err)
	require.NotNil(t, repo)
	assert.Equal(t, "client-acme-1-app", repo.Name)
	assert.Equal(t, "https://github.com/draggonnb/client-acme-1-app", repo.URL)
}

func TestClient_GetRepository_NotFoundIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "test-token", "draggonnb")
	require.NoError(t, err)

	repo, err := client.GetRepository(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, repo)
}

func TestClient_CreateFromTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/draggonnb/client-template/generate", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "client-acme-1-app", body["name"])
		assert.Equal(t, "draggonnb", body["owner"])
		assert.Equal(t, true, body["private"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"name":     "client-acme-1-app",
			"html_url": "https://github.com/draggonnb/client-acme-1-app",
		})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "test-token", "draggonnb")
	require.NoError(t, err)

	repo, err := client.CreateFromTemplate(context.Background(), "client-template", "client-acme-1-app", "Client acme-1 (Acme Corp)")
	require.NoError(t, err)
	assert.Equal(t, "client-acme-1-app", repo.Name)
}

func TestClient_DeleteRepository(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/repos/draggonnb/client-acme-1-app", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "test-token", "draggonnb")
	require.NoError(t, err)
	require.NoError(t, client.DeleteRepository(context.Background(), "client-acme-1-app"))
}

func TestClient_RepoSlug(t *testing.T) {
	client, err := NewClient("", "test-token", "draggonnb")
	require.NoError(t, err)
	assert.Equal(t, "draggonnb/client-acme-1-app", client.RepoSlug("client-acme-1-app"))
}
