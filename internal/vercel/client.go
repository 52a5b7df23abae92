package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.vercel.com"

// Client talks to the Vercel REST API. When teamID is set, all requests are
// scoped to the team.
type Client struct {
	baseURL    string
	token      string
	teamID     string
	httpClient *http.Client
}

func NewClient(baseURL, token, teamID string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		teamID:     teamID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Deployment struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// EnvVar is one project environment variable. Type is "plain" or
// "encrypted"; Target lists the environments it applies to.
type EnvVar struct {
	Key    string   `json:"key"`
	Value  string   `json:"value"`
	Type   string   `json:"type"`
	Target []string `json:"target"`
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vercel API: status %d: %s", e.Status, e.Body)
}

func (e *APIError) StatusCode() int { return e.Status }

// GetProject fetches a project by name or id. A 404 returns (nil, nil) so
// callers can branch on existence without error inspection.
func (c *Client) GetProject(ctx context.Context, name string) (*Project, error) {
	url := c.url("/v9/projects/" + name)
	var project Project
	err := c.do(ctx, http.MethodGet, url, nil, &project)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get project %s: %w", name, err)
	}
	return &project, nil
}

// CreateProjectParams creates a project linked to a GitHub repository so
// pushes to the repo trigger builds.
type CreateProjectParams struct {
	Name     string
	RepoSlug string // "org/repo"
}

func (c *Client) CreateProject(ctx context.Context, params CreateProjectParams) (*Project, error) {
	body := map[string]any{
		"name": params.Name,
		"gitRepository": map[string]string{
			"repo": params.RepoSlug,
			"type": "github",
		},
		"framework":       "nextjs",
		"buildCommand":    "npm run build",
		"outputDirectory": ".next",
	}

	url := c.url("/v9/projects")
	var project Project
	if err := c.do(ctx, http.MethodPost, url, body, &project); err != nil {
		return nil, fmt.Errorf("create project %s: %w", params.Name, err)
	}
	return &project, nil
}

func (c *Client) SetEnvVar(ctx context.Context, projectID string, envVar EnvVar) error {
	url := c.url(fmt.Sprintf("/v10/projects/%s/env", projectID))
	if err := c.do(ctx, http.MethodPost, url, envVar, nil); err != nil {
		return fmt.Errorf("set env var %s: %w", envVar.Key, err)
	}
	return nil
}

// CreateDeployment triggers a build of the given git ref.
func (c *Client) CreateDeployment(ctx context.Context, name, repoSlug, ref string) (*Deployment, error) {
	body := map[string]any{
		"name": name,
		"gitSource": map[string]string{
			"type": "github",
			"repo": repoSlug,
			"ref":  ref,
		},
	}

	url := c.url("/v13/deployments")
	var deployment Deployment
	if err := c.do(ctx, http.MethodPost, url, body, &deployment); err != nil {
		return nil, fmt.Errorf("create deployment for %s: %w", name, err)
	}
	return &deployment, nil
}

func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	url := c.url("/v9/projects/" + projectID)
	if err := c.do(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("delete project %s: %w", projectID, err)
	}
	return nil
}

// DeploymentURL is the canonical production URL for a project name.
func DeploymentURL(projectName string) string {
	return fmt.Sprintf("https://%s.vercel.app", projectName)
}

func (c *Client) url(path string) string {
	u := c.baseURL + path
	if c.teamID != "" {
		u += "?teamId=" + c.teamID
	}
	return u
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
