package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.supabase.com"

// StatusReady is the project status that marks a database project as usable.
const StatusReady = "ACTIVE_HEALTHY"

// Client talks to the Supabase management API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Project is a Supabase database project.
type Project struct {
	ID     string `json:"id"`
	Ref    string `json:"ref"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Credentials are the API keys and connection details of a project.
type Credentials struct {
	AnonKey        string `json:"anon_key"`
	ServiceRoleKey string `json:"service_role_key"`
	DBHost         string `json:"db_host"`
	DBPort         int    `json:"db_port"`
	DBUser         string `json:"db_user"`
	DBPass         string `json:"db_pass"`
}

// APIError is returned for non-2xx responses so callers can distinguish
// client errors from transient server errors.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase API: status %d: %s", e.Status, e.Body)
}

func (e *APIError) StatusCode() int { return e.Status }

// FindProjectByName lists the organization's projects and returns the one
// with the given name, or nil if none matches.
func (c *Client) FindProjectByName(ctx context.Context, orgID, name string) (*Project, error) {
	url := fmt.Sprintf("%s/v1/projects?organization_id=%s", c.baseURL, orgID)
	var projects []Project
	if err := c.do(ctx, http.MethodGet, url, nil, &projects); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	for i := range projects {
		if projects[i].Name == name {
			return &projects[i], nil
		}
	}
	return nil, nil
}

// CreateProjectParams holds the create-project request body.
type CreateProjectParams struct {
	Name           string `json:"name"`
	OrganizationID string `json:"organization_id"`
	Region         string `json:"region"`
	Plan           string `json:"plan"`
	DBPass         string `json:"db_pass"`
}

func (c *Client) CreateProject(ctx context.Context, params CreateProjectParams) (*Project, error) {
	url := fmt.Sprintf("%s/v1/projects", c.baseURL)
	var project Project
	if err := c.do(ctx, http.MethodPost, url, params, &project); err != nil {
		return nil, fmt.Errorf("create project %s: %w", params.Name, err)
	}
	return &project, nil
}

func (c *Client) GetProject(ctx context.Context, projectID string) (*Project, error) {
	url := fmt.Sprintf("%s/v1/projects/%s", c.baseURL, projectID)
	var project Project
	if err := c.do(ctx, http.MethodGet, url, nil, &project); err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, err)
	}
	return &project, nil
}

func (c *Client) GetCredentials(ctx context.Context, projectID string) (*Credentials, error) {
	url := fmt.Sprintf("%s/v1/projects/%s/api-keys", c.baseURL, projectID)
	var creds Credentials
	if err := c.do(ctx, http.MethodGet, url, nil, &creds); err != nil {
		return nil, fmt.Errorf("get credentials for project %s: %w", projectID, err)
	}
	return &creds, nil
}

func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	url := fmt.Sprintf("%s/v1/projects/%s", c.baseURL, projectID)
	if err := c.do(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("delete project %s: %w", projectID, err)
	}
	return nil
}

// ConnectionString builds the postgres URL for a project's database.
func ConnectionString(creds *Credentials, dbPass string) string {
	if dbPass == "" {
		dbPass = creds.DBPass
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/postgres", creds.DBUser, dbPass, creds.DBHost, creds.DBPort)
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
	req.Header.Set("Authorization", "Bearer "+c.token)
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
