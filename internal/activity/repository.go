package activity

import (
	"context"

	"github.com/draggonnb/provisioner/internal/github"
	"github.com/draggonnb/provisioner/internal/metrics"
)

// GitHub provisions the tenant's application repository from the template.
type GitHub struct {
	client       *github.Client
	templateRepo string
}

func NewGitHub(client *github.Client, templateRepo string) *GitHub {
	return &GitHub{client: client, templateRepo: templateRepo}
}

// FindRepository returns the existing repo or nil.
func (a *GitHub) FindRepository(ctx context.Context, name string) (*github.Repo, error) {
	repo, err := a.client.GetRepository(ctx, name)
	if err != nil {
		return nil, classify(err, "GITHUB_ERROR")
	}
	return repo, nil
}

type CreateRepositoryParams struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (a *GitHub) CreateRepository(ctx context.Context, params CreateRepositoryParams) (*github.Repo, error) {
	repo, err := a.client.CreateFromTemplate(ctx, a.templateRepo, params.Name, params.Description)
	if err != nil {
		return nil, classify(err, "GITHUB_ERROR")
	}
	return repo, nil
}

func (a *GitHub) DeleteRepository(ctx context.Context, name string) error {
	err := a.client.DeleteRepository(ctx, name)
	metrics.RecordRollback("github_repo", err)
	if err != nil {
		return classify(err, "GITHUB_ERROR")
	}
	return nil
}
