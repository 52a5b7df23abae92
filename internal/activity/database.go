package activity

import (
	"context"
	"fmt"

	"github.com/draggonnb/provisioner/internal/metrics"
	"github.com/draggonnb/provisioner/internal/platform"
	"github.com/draggonnb/provisioner/internal/supabase"
)

// Supabase provisions the tenant's dedicated database project.
type Supabase struct {
	client *supabase.Client
	orgID  string
	region string
	plan   string
}

func NewSupabase(client *supabase.Client, orgID, region, plan string) *Supabase {
	return &Supabase{client: client, orgID: orgID, region: region, plan: plan}
}

// FindDatabaseProject looks up an existing project by its deterministic name.
// A nil result means no project exists and a create is needed.
func (a *Supabase) FindDatabaseProject(ctx context.Context, name string) (*supabase.Project, error) {
	project, err := a.client.FindProjectByName(ctx, a.orgID, name)
	if err != nil {
		return nil, classify(err, "SUPABASE_ERROR")
	}
	return project, nil
}

type CreateDatabaseProjectParams struct {
	Name string `json:"name"`
}

// CreatedDatabaseProject carries the database password alongside the project
// because the password exists only at creation time.
type CreatedDatabaseProject struct {
	Project supabase.Project `json:"project"`
	DBPass  string           `json:"db_pass"`
}

func (a *Supabase) CreateDatabaseProject(ctx context.Context, params CreateDatabaseProjectParams) (*CreatedDatabaseProject, error) {
	dbPass := platform.NewSecret()
	project, err := a.client.CreateProject(ctx, supabase.CreateProjectParams{
		Name:           params.Name,
		OrganizationID: a.orgID,
		Region:         a.region,
		Plan:           a.plan,
		DBPass:         dbPass,
	})
	if err != nil {
		return nil, classify(err, "SUPABASE_ERROR")
	}
	return &CreatedDatabaseProject{Project: *project, DBPass: dbPass}, nil
}

// CheckDatabaseReady returns an error until the project reports healthy. The
// error is retryable so the workflow's retry policy does the polling.
func (a *Supabase) CheckDatabaseReady(ctx context.Context, projectID string) (*supabase.Project, error) {
	project, err := a.client.GetProject(ctx, projectID)
	if err != nil {
		return nil, classify(err, "SUPABASE_ERROR")
	}
	if project.Status != supabase.StatusReady {
		return nil, fmt.Errorf("project %s not ready yet (status: %s)", projectID, project.Status)
	}
	return project, nil
}

type GetDatabaseCredentialsParams struct {
	ProjectID string `json:"project_id"`
	DBPass    string `json:"db_pass"`
}

// DatabaseCredentials is what the rest of the pipeline needs to talk to the
// tenant database.
type DatabaseCredentials struct {
	AnonKey        string `json:"anon_key"`
	ServiceRoleKey string `json:"service_role_key"`
	DatabaseURL    string `json:"database_url"`
}

func (a *Supabase) GetDatabaseCredentials(ctx context.Context, params GetDatabaseCredentialsParams) (*DatabaseCredentials, error) {
	creds, err := a.client.GetCredentials(ctx, params.ProjectID)
	if err != nil {
		return nil, classify(err, "SUPABASE_ERROR")
	}
	return &DatabaseCredentials{
		AnonKey:        creds.AnonKey,
		ServiceRoleKey: creds.ServiceRoleKey,
		DatabaseURL:    supabase.ConnectionString(creds, params.DBPass),
	}, nil
}

// DeleteDatabaseProject is the compensation for a created project.
func (a *Supabase) DeleteDatabaseProject(ctx context.Context, projectID string) error {
	err := a.client.DeleteProject(ctx, projectID)
	metrics.RecordRollback("supabase_project", err)
	if err != nil {
		return classify(err, "SUPABASE_ERROR")
	}
	return nil
}
