package activity

import (
	"context"

	"github.com/draggonnb/provisioner/internal/metrics"
	"github.com/draggonnb/provisioner/internal/vercel"
)

// Vercel provisions the tenant's frontend project and deployment.
type Vercel struct {
	client    *vercel.Client
	githubOrg string
}

func NewVercel(client *vercel.Client, githubOrg string) *Vercel {
	return &Vercel{client: client, githubOrg: githubOrg}
}

// FindDeploymentProject returns the existing project or nil.
func (a *Vercel) FindDeploymentProject(ctx context.Context, name string) (*vercel.Project, error) {
	project, err := a.client.GetProject(ctx, name)
	if err != nil {
		return nil, classify(err, "VERCEL_ERROR")
	}
	return project, nil
}

type CreateDeploymentProjectParams struct {
	Name     string `json:"name"`
	RepoName string `json:"repo_name"`
}

func (a *Vercel) CreateDeploymentProject(ctx context.Context, params CreateDeploymentProjectParams) (*vercel.Project, error) {
	project, err := a.client.CreateProject(ctx, vercel.CreateProjectParams{
		Name:     params.Name,
		RepoSlug: a.githubOrg + "/" + params.RepoName,
	})
	if err != nil {
		return nil, classify(err, "VERCEL_ERROR")
	}
	return project, nil
}

type SetDeploymentEnvVarParams struct {
	ProjectID string        `json:"project_id"`
	EnvVar    vercel.EnvVar `json:"env_var"`
}

func (a *Vercel) SetDeploymentEnvVar(ctx context.Context, params SetDeploymentEnvVarParams) error {
	if err := a.client.SetEnvVar(ctx, params.ProjectID, params.EnvVar); err != nil {
		return classify(err, "VERCEL_ERROR")
	}
	return nil
}

type TriggerDeploymentParams struct {
	Name     string `json:"name"`
	RepoName string `json:"repo_name"`
}

func (a *Vercel) TriggerDeployment(ctx context.Context, params TriggerDeploymentParams) (*vercel.Deployment, error) {
	deployment, err := a.client.CreateDeployment(ctx, params.Name, a.githubOrg+"/"+params.RepoName, "main")
	if err != nil {
		return nil, classify(err, "VERCEL_ERROR")
	}
	return deployment, nil
}

func (a *Vercel) DeleteDeploymentProject(ctx context.Context, projectID string) error {
	err := a.client.DeleteProject(ctx, projectID)
	metrics.RecordRollback("vercel_project", err)
	if err != nil {
		return classify(err, "VERCEL_ERROR")
	}
	return nil
}
