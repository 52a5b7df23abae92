package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub API for tenant repository provisioning. All
// repositories live under the platform organization.
type Client struct {
	gh  *gh.Client
	org string
}

// NewClient builds an authenticated client. baseURL is empty in production;
// tests point it at a local server.
func NewClient(baseURL, token, org string) (*Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), ts)

	client := gh.NewClient(httpClient)
	if baseURL != "" {
		u, err := url.Parse(baseURL + "/")
		if err != nil {
			return nil, fmt.Errorf("parse github base URL: %w", err)
		}
		client.BaseURL = u
		client.UploadURL = u
	}

	return &Client{gh: client, org: org}, nil
}

// Repo is the subset of repository metadata the provisioning pipeline needs.
type Repo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// GetRepository returns the org repository with the given name, or nil if it
// does not exist.
func (c *Client) GetRepository(ctx context.Context, name string) (*Repo, error) {
	repo, resp, err := c.gh.Repositories.Get(ctx, c.org, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get repository %s/%s: %w", c.org, name, err)
	}
	return &Repo{Name: repo.GetName(), URL: repo.GetHTMLURL()}, nil
}

// CreateFromTemplate creates a private repository from the org's template
// repository, default branch only.
func (c *Client) CreateFromTemplate(ctx context.Context, templateRepo, name, description string) (*Repo, error) {
	repo, _, err := c.gh.Repositories.CreateFromTemplate(ctx, c.org, templateRepo, &gh.TemplateRepoRequest{
		Name:               gh.String(name),
		Owner:              gh.String(c.org),
		Private:            gh.Bool(true),
		Description:        gh.String(description),
		IncludeAllBranches: gh.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("create repository %s/%s from template %s: %w", c.org, name, templateRepo, err)
	}
	return &Repo{Name: repo.GetName(), URL: repo.GetHTMLURL()}, nil
}

func (c *Client) DeleteRepository(ctx context.Context, name string) error {
	if _, err := c.gh.Repositories.Delete(ctx, c.org, name); err != nil {
		return fmt.Errorf("delete repository %s/%s: %w", c.org, name, err)
	}
	return nil
}

// RepoSlug is the "org/name" form used by git-linked integrations.
func (c *Client) RepoSlug(name string) string {
	return c.org + "/" + name
}
