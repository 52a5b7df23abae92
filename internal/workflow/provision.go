// Package workflow contains the Temporal workflows that drive tenant
// provisioning. Workflows hold the orchestration logic only; all side effects
// live in the activity package.
package workflow

import (
	"fmt"
	"strings"

	"go.temporal.io/sdk/workflow"

	"github.com/draggonnb/provisioner/internal/activity"
	"github.com/draggonnb/provisioner/internal/automation"
	"github.com/draggonnb/provisioner/internal/model"
	"github.com/draggonnb/provisioner/internal/platform"
	"github.com/draggonnb/provisioner/internal/vercel"
)

// provisionStep is one stage of the pipeline. Critical steps trigger rollback
// when they fail; non-critical steps are recorded as soft failures and the
// pipeline continues.
type provisionStep struct {
	name     string
	critical bool
	run      func(ctx workflow.Context, state *provisionState) error
}

type provisionState struct {
	req    model.ProvisionRequest
	cfg    model.ClientConfig
	ledger *model.ResourceLedger
	dbPass string
}

func provisionSteps() []provisionStep {
	return []provisionStep{
		{name: "supabase-project", critical: true, run: stepSupabaseProject},
		{name: "database-schema", critical: true, run: stepDatabaseSchema},
		{name: "github-repo", critical: true, run: stepGitHubRepo},
		{name: "vercel-deployment", critical: true, run: stepVercelDeployment},
		{name: "n8n-webhooks", critical: true, run: stepN8NWebhooks},
		{name: "deploy-automations", critical: false, run: stepDeployAutomations},
		{name: "onboarding-sequence", critical: false, run: stepOnboardingSequence},
		{name: "qa-check", critical: false, run: stepQACheck},
	}
}

// ProvisionTenantWorkflow provisions all resources for one tenant. It returns
// failure as a value: the workflow itself only errors on infrastructure
// problems, never on a failed pipeline, so the caller always gets the ledger
// of whatever was created.
//
// Every step looks up its resource by deterministic name before creating it,
// so re-running the workflow for a tenant reuses existing resources instead
// of duplicating them.
func ProvisionTenantWorkflow(ctx workflow.Context, req model.ProvisionRequest) (model.ProvisionResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("provisioning started", "tenant_id", req.TenantID, "tier", req.Tier)

	state := &provisionState{req: req, ledger: &model.ResourceLedger{}}

	tier, err := model.NormalizeTier(req.Tier)
	if err == nil {
		state.cfg = model.GenerateClientConfig(req.TenantID, req.TenantName, tier, req.Overrides)
		err = state.cfg.Validate()
	}
	if err != nil {
		// Nothing has been created yet, so there is nothing to roll back.
		logger.Error("client config rejected", "tenant_id", req.TenantID, "error", err)
		return model.ProvisionResult{
			FailedStep: "client-config",
			Error:      err.Error(),
		}, nil
	}

	result := model.ProvisionResult{}
	for _, step := range provisionSteps() {
		stepErr := step.run(ctx, state)
		if stepErr == nil {
			continue
		}
		if !step.critical {
			logger.Warn("optional step failed, continuing",
				"step", step.name, "tenant_id", req.TenantID, "error", stepErr)
			result.SoftFailures = append(result.SoftFailures, step.name)
			continue
		}

		logger.Error("step failed, rolling back",
			"step", step.name, "tenant_id", req.TenantID, "error", stepErr)
		rolledBack := compensate(ctx, state.ledger)
		result.Ledger = *state.ledger
		result.RolledBack = rolledBack
		result.FailedStep = step.name
		result.Error = stepErr.Error()
		return result, nil
	}

	result.Success = true
	result.Ledger = *state.ledger
	logger.Info("provisioning finished", "tenant_id", req.TenantID, "soft_failures", result.SoftFailures)
	return result, nil
}

// stepSupabaseProject finds or creates the tenant database project, waits for
// it to become healthy and collects its credentials.
func stepSupabaseProject(ctx workflow.Context, state *provisionState) error {
	name := platform.DatabaseProjectName(state.req.TenantID)
	fastCtx := fastActivityCtx(ctx)

	var existing *supabaseProject
	if err := workflow.ExecuteActivity(fastCtx, "FindDatabaseProject", name).Get(ctx, &existing); err != nil {
		return err
	}

	if existing != nil {
		state.ledger.Merge(model.ResourceLedger{
			SupabaseProjectID:  existing.ID,
			SupabaseProjectRef: existing.Ref,
		})
	} else {
		var created activity.CreatedDatabaseProject
		err := workflow.ExecuteActivity(fastCtx, "CreateDatabaseProject", activity.CreateDatabaseProjectParams{
			Name: name,
		}).Get(ctx, &created)
		if err != nil {
			return err
		}
		state.dbPass = created.DBPass
		state.ledger.Merge(model.ResourceLedger{
			SupabaseProjectID:  created.Project.ID,
			SupabaseProjectRef: created.Project.Ref,
		})
	}

	var ready supabaseProject
	err := workflow.ExecuteActivity(readinessCtx(ctx), "CheckDatabaseReady", state.ledger.SupabaseProjectID).Get(ctx, &ready)
	if err != nil {
		return err
	}
	state.ledger.Merge(model.ResourceLedger{SupabaseProjectRef: ready.Ref})

	var creds activity.DatabaseCredentials
	err = workflow.ExecuteActivity(fastCtx, "GetDatabaseCredentials", activity.GetDatabaseCredentialsParams{
		ProjectID: state.ledger.SupabaseProjectID,
		DBPass:    state.dbPass,
	}).Get(ctx, &creds)
	if err != nil {
		return err
	}
	state.ledger.Merge(model.ResourceLedger{
		SupabaseAnonKey:        creds.AnonKey,
		SupabaseServiceRoleKey: creds.ServiceRoleKey,
		SupabaseDatabaseURL:    creds.DatabaseURL,
	})
	return nil
}

// supabaseProject mirrors the activity return type without importing the
// provider client into workflow code.
type supabaseProject struct {
	ID     string `json:"id"`
	Ref    string `json:"ref"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func stepDatabaseSchema(ctx workflow.Context, state *provisionState) error {
	return workflow.ExecuteActivity(slowActivityCtx(ctx), "ApplyTenantSchema", activity.ApplyTenantSchemaParams{
		DatabaseURL: state.ledger.SupabaseDatabaseURL,
	}).Get(ctx, nil)
}

func stepGitHubRepo(ctx workflow.Context, state *provisionState) error {
	name := platform.RepoName(state.req.TenantID)
	fastCtx := fastActivityCtx(ctx)

	var repo *githubRepo
	if err := workflow.ExecuteActivity(fastCtx, "FindRepository", name).Get(ctx, &repo); err != nil {
		return err
	}
	if repo == nil {
		repo = &githubRepo{}
		err := workflow.ExecuteActivity(fastCtx, "CreateRepository", activity.CreateRepositoryParams{
			Name:        name,
			Description: fmt.Sprintf("Client %s (%s)", state.req.TenantID, state.req.TenantName),
		}).Get(ctx, repo)
		if err != nil {
			return err
		}
	}
	state.ledger.Merge(model.ResourceLedger{
		GitHubRepoName: repo.Name,
		GitHubRepoURL:  repo.URL,
	})
	return nil
}

type githubRepo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func stepVercelDeployment(ctx workflow.Context, state *provisionState) error {
	name := platform.RepoName(state.req.TenantID)
	fastCtx := fastActivityCtx(ctx)

	var project *vercelProject
	if err := workflow.ExecuteActivity(fastCtx, "FindDeploymentProject", name).Get(ctx, &project); err != nil {
		return err
	}
	if project == nil {
		project = &vercelProject{}
		err := workflow.ExecuteActivity(fastCtx, "CreateDeploymentProject", activity.CreateDeploymentProjectParams{
			Name:     name,
			RepoName: state.ledger.GitHubRepoName,
		}).Get(ctx, project)
		if err != nil {
			return err
		}
	}
	state.ledger.Merge(model.ResourceLedger{
		VercelProjectID:     project.ID,
		VercelDeploymentURL: vercel.DeploymentURL(name),
	})

	// Env vars are set independently. A single failed variable is logged and
	// skipped; the deployment still goes out and a re-run can fix it.
	logger := workflow.GetLogger(ctx)
	for _, envVar := range deploymentEnvVars(state) {
		err := workflow.ExecuteActivity(fastCtx, "SetDeploymentEnvVar", activity.SetDeploymentEnvVarParams{
			ProjectID: project.ID,
			EnvVar:    envVar,
		}).Get(ctx, nil)
		if err != nil {
			logger.Warn("setting deployment env var failed, skipping",
				"key", envVar.Key, "project_id", project.ID, "error", err)
		}
	}

	// Fire-and-forget: the deployment URL is deterministic, so a failed
	// trigger does not fail the step.
	err := workflow.ExecuteActivity(fastCtx, "TriggerDeployment", activity.TriggerDeploymentParams{
		Name:     name,
		RepoName: state.ledger.GitHubRepoName,
	}).Get(ctx, nil)
	if err != nil {
		logger.Warn("triggering initial deployment failed", "project_id", project.ID, "error", err)
	}
	return nil
}

type vercelProject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// deploymentEnvVars builds the frontend's environment from the ledger and the
// client config. Secrets go in encrypted, the rest plain.
func deploymentEnvVars(state *provisionState) []vercel.EnvVar {
	allTargets := []string{"production", "preview", "development"}
	supabaseURL := fmt.Sprintf("https://%s.supabase.co", state.ledger.SupabaseProjectRef)

	return []vercel.EnvVar{
		{Key: "NEXT_PUBLIC_APP_URL", Value: state.ledger.VercelDeploymentURL, Type: "plain", Target: allTargets},
		{Key: "NEXT_PUBLIC_SUPABASE_URL", Value: supabaseURL, Type: "plain", Target: allTargets},
		{Key: "NEXT_PUBLIC_SUPABASE_ANON_KEY", Value: state.ledger.SupabaseAnonKey, Type: "plain", Target: allTargets},
		{Key: "SUPABASE_SERVICE_ROLE_KEY", Value: state.ledger.SupabaseServiceRoleKey, Type: "encrypted", Target: allTargets},
		{Key: "DATABASE_URL", Value: state.ledger.SupabaseDatabaseURL, Type: "encrypted", Target: allTargets},
		{Key: "NEXT_PUBLIC_CLIENT_ID", Value: state.req.TenantID, Type: "plain", Target: allTargets},
		{Key: "NEXT_PUBLIC_CLIENT_NAME", Value: state.req.TenantName, Type: "plain", Target: allTargets},
		{Key: "NEXT_PUBLIC_ENABLED_MODULES", Value: strings.Join(state.cfg.EnabledModules(), ","), Type: "plain", Target: allTargets},
	}
}

func stepN8NWebhooks(ctx workflow.Context, state *provisionState) error {
	name := platform.BaseWorkflowName(state.req.TenantID, state.req.TenantName)
	path := platform.WebhookPath(state.req.TenantID)

	wf, err := findOrCreateAutomationWorkflow(ctx, name, path)
	if err != nil {
		return err
	}
	state.ledger.Merge(model.ResourceLedger{
		N8NWorkflowID: wf.ID,
		N8NWebhookURL: wf.WebhookURL,
	})
	return nil
}

// stepDeployAutomations deploys the per-module automation templates. A failed
// template is logged and skipped; whatever was created stays in the ledger so
// a re-run can pick up where it left off.
func stepDeployAutomations(ctx workflow.Context, state *provisionState) error {
	logger := workflow.GetLogger(ctx)

	var firstErr error
	for _, mt := range automation.TemplatesForModules(state.cfg.EnabledModules()) {
		name := platform.AutomationWorkflowName(state.req.TenantID, mt.Template.Name)
		path := platform.AutomationWebhookPath(state.req.TenantID, mt.Template.WebhookPath)

		wf, err := findOrCreateAutomationWorkflow(ctx, name, path)
		if err != nil {
			logger.Warn("automation template deploy failed, skipping",
				"workflow_name", name, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		state.ledger.Merge(model.ResourceLedger{AutomationWorkflowIDs: []string{wf.ID}})
	}
	return firstErr
}

func findOrCreateAutomationWorkflow(ctx workflow.Context, name, path string) (*activity.AutomationWorkflow, error) {
	fastCtx := fastActivityCtx(ctx)

	var wf *activity.AutomationWorkflow
	err := workflow.ExecuteActivity(fastCtx, "FindAutomationWorkflow", activity.FindAutomationWorkflowParams{
		Name:        name,
		WebhookPath: path,
	}).Get(ctx, &wf)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		wf = &activity.AutomationWorkflow{}
		err := workflow.ExecuteActivity(fastCtx, "CreateAutomationWorkflow", activity.CreateAutomationWorkflowParams{
			Name:        name,
			WebhookPath: path,
		}).Get(ctx, wf)
		if err != nil {
			return nil, err
		}
	}
	if !wf.Active {
		if err := workflow.ExecuteActivity(fastCtx, "ActivateAutomationWorkflow", wf.ID).Get(ctx, nil); err != nil {
			return nil, err
		}
	}
	return wf, nil
}

// stepOnboardingSequence sends the three-email onboarding sequence. Each send
// is attempted even if an earlier one failed.
func stepOnboardingSequence(ctx workflow.Context, state *provisionState) error {
	fastCtx := fastActivityCtx(ctx)

	var firstErr error
	for _, kind := range activity.OnboardingEmailKinds {
		var emailID string
		err := workflow.ExecuteActivity(fastCtx, "SendOnboardingEmail", activity.SendOnboardingEmailParams{
			Kind:          kind,
			To:            state.req.ContactEmail,
			TenantName:    state.req.TenantName,
			Tier:          string(state.cfg.Tier),
			DeploymentURL: state.ledger.VercelDeploymentURL,
		}).Get(ctx, &emailID)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if emailID != "" {
			state.ledger.Merge(model.ResourceLedger{OnboardingEmailIDs: []string{emailID}})
		}
	}
	return firstErr
}

func stepQACheck(ctx workflow.Context, state *provisionState) error {
	var restURL string
	if state.ledger.SupabaseProjectRef != "" {
		restURL = fmt.Sprintf("https://%s.supabase.co/rest/v1/", state.ledger.SupabaseProjectRef)
	}

	var report model.QAReport
	err := workflow.ExecuteActivity(slowActivityCtx(ctx), "RunQAChecks", activity.RunQAChecksParams{
		DeploymentURL:   state.ledger.VercelDeploymentURL,
		SupabaseRESTURL: restURL,
		SupabaseAnonKey: state.ledger.SupabaseAnonKey,
		N8NWebhookURL:   state.ledger.N8NWebhookURL,
	}).Get(ctx, &report)
	if err != nil {
		return err
	}
	state.ledger.QAReport = &report
	if !report.AllPassed {
		return fmt.Errorf("qa checks did not all pass: %+v", report)
	}
	return nil
}

// compensate deletes created resources in reverse creation order. It is
// driven only by non-empty ledger fields and is best-effort: a failed delete
// is logged and the remaining deletes still run. Returns true when every
// attempted delete succeeded.
func compensate(ctx workflow.Context, ledger *model.ResourceLedger) bool {
	logger := workflow.GetLogger(ctx)
	compCtx := compensationCtx(ctx)
	ok := true

	deleteResource := func(activityName, id string) {
		if err := workflow.ExecuteActivity(compCtx, activityName, id).Get(ctx, nil); err != nil {
			logger.Error("rollback delete failed", "activity", activityName, "id", id, "error", err)
			ok = false
		}
	}

	for i := len(ledger.AutomationWorkflowIDs) - 1; i >= 0; i-- {
		deleteResource("DeleteAutomationWorkflow", ledger.AutomationWorkflowIDs[i])
	}
	if ledger.N8NWorkflowID != "" {
		deleteResource("DeleteAutomationWorkflow", ledger.N8NWorkflowID)
	}
	if ledger.VercelProjectID != "" {
		deleteResource("DeleteDeploymentProject", ledger.VercelProjectID)
	}
	if ledger.GitHubRepoName != "" {
		deleteResource("DeleteRepository", ledger.GitHubRepoName)
	}
	if ledger.SupabaseProjectID != "" {
		deleteResource("DeleteDatabaseProject", ledger.SupabaseProjectID)
	}
	return ok
}
