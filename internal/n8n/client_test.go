package n8n

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FindWorkflowByName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/workflows", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-N8N-API-KEY"))
		json.NewEncoder(w).Encode(map[string]any{
			"data": []Workflow{
				{ID: "wf-1", Name: "Client other-1 - Other Corp"},
				{ID: "wf-2", Name: "Client acme-1 - Acme Corp", Active: true},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	wf, err := client.FindWorkflowByName(context.Background(), "Client acme-1 - Acme Corp")
	require.NoError(t, err)
	require.NotNil(t, wf)
	assert.Equal(t, "wf-2", wf.ID)

	missing, err := client.FindWorkflowByName(context.Background(), "Client nobody - X")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestClient_CreateWebhookWorkflow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/workflows", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Client acme-1 - Acme Corp", body["name"])

		nodes := body["nodes"].([]any)
		require.Len(t, nodes, 2)
		webhook := nodes[0].(map[string]any)
		assert.Equal(t, "n8n-nodes-base.webhook", webhook["type"])
		params := webhook["parameters"].(map[string]any)
		assert.Equal(t, "client-acme-1/content", params["path"])
		assert.Equal(t, "POST", params["httpMethod"])
		respond := nodes[1].(map[string]any)
		assert.Equal(t, "n8n-nodes-base.respondToWebhook", respond["type"])

		connections := body["connections"].(map[string]any)
		assert.Contains(t, connections, "Client acme-1 - Acme Corp Webhook")

		json.NewEncoder(w).Encode(Workflow{ID: "wf-9", Name: body["name"].(string)})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	wf, err := client.CreateWebhookWorkflow(context.Background(), "Client acme-1 - Acme Corp", "client-acme-1/content")
	require.NoError(t, err)
	assert.Equal(t, "wf-9", wf.ID)
}

func TestClient_ActivateWorkflow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/workflows/wf-9/activate", r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	require.NoError(t, client.ActivateWorkflow(context.Background(), "wf-9"))
}

func TestClient_DeleteWorkflow_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("unauthorized"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	err := client.DeleteWorkflow(context.Background(), "wf-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestURLBuilders(t *testing.T) {
	assert.Equal(t, "https://n8n.example.com/api/v1", APIBaseURL("n8n.example.com"))
	assert.Equal(t, "https://n8n.example.com/webhook/client-acme-1/content", WebhookURL("n8n.example.com", "client-acme-1/content"))
}
