package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to an n8n instance's public API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient takes the full API base URL, e.g. "https://n8n.example.com/api/v1".
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIBaseURL builds the API base URL for an n8n host.
func APIBaseURL(host string) string {
	return fmt.Sprintf("https://%s/api/v1", host)
}

// WebhookURL is the public URL of an active webhook workflow on a host.
func WebhookURL(host, path string) string {
	return fmt.Sprintf("https://%s/webhook/%s", host, path)
}

type Workflow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("n8n API: status %d: %s", e.Status, e.Body)
}

func (e *APIError) StatusCode() int { return e.Status }

// FindWorkflowByName returns the workflow with the given name, or nil.
func (c *Client) FindWorkflowByName(ctx context.Context, name string) (*Workflow, error) {
	var result struct {
		Data []Workflow `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/workflows", nil, &result); err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	for i := range result.Data {
		if result.Data[i].Name == name {
			return &result.Data[i], nil
		}
	}
	return nil, nil
}

// CreateWebhookWorkflow creates a minimal two-node workflow: an inbound POST
// webhook on the given path wired to an immediate respond node.
func (c *Client) CreateWebhookWorkflow(ctx context.Context, name, webhookPath string) (*Workflow, error) {
	webhookNode := fmt.Sprintf("%s Webhook", name)
	body := map[string]any{
		"name": name,
		"nodes": []map[string]any{
			{
				"id":       "webhook",
				"name":     webhookNode,
				"type":     "n8n-nodes-base.webhook",
				"position": []int{250, 300},
				"parameters": map[string]any{
					"path":         webhookPath,
					"httpMethod":   "POST",
					"responseMode": "responseNode",
				},
				"typeVersion": 1,
			},
			{
				"id":          "response",
				"name":        "Response",
				"type":        "n8n-nodes-base.respondToWebhook",
				"position":    []int{500, 300},
				"parameters":  map[string]any{},
				"typeVersion": 1,
			},
		},
		"connections": map[string]any{
			webhookNode: map[string]any{
				"main": [][]map[string]any{{
					{"node": "Response", "type": "main", "index": 0},
				}},
			},
		},
		"settings": map[string]any{"executionOrder": "v1"},
	}

	var workflow Workflow
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/workflows", body, &workflow); err != nil {
		return nil, fmt.Errorf("create workflow %s: %w", name, err)
	}
	return &workflow, nil
}

func (c *Client) ActivateWorkflow(ctx context.Context, workflowID string) error {
	url := fmt.Sprintf("%s/workflows/%s/activate", c.baseURL, workflowID)
	if err := c.do(ctx, http.MethodPost, url, nil, nil); err != nil {
		return fmt.Errorf("activate workflow %s: %w", workflowID, err)
	}
	return nil
}

func (c *Client) DeleteWorkflow(ctx context.Context, workflowID string) error {
	url := fmt.Sprintf("%s/workflows/%s", c.baseURL, workflowID)
	if err := c.do(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("delete workflow %s: %w", workflowID, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-N8N-API-KEY", c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return nil
}
