package model

// TaskQueue is the Temporal task queue shared by the worker and every
// workflow starter.
const TaskQueue = "provisioning-tasks"

// ProvisionRequest is the immutable input to a provisioning run. It is
// created once per trigger and never mutated.
type ProvisionRequest struct {
	TenantID     string                 `json:"tenant_id"`
	TenantName   string                 `json:"tenant_name"`
	ContactEmail string                 `json:"contact_email"`
	Tier         string                 `json:"tier"`
	Overrides    *ClientConfigOverrides `json:"overrides,omitempty"`
}

// ResourceLedger accumulates identifiers and credentials produced by each
// provisioning step. A field is non-empty if and only if the corresponding
// provider resource is believed to exist (created by this run or discovered
// pre-existing). The rollback saga relies exclusively on non-empty fields to
// decide what to compensate.
type ResourceLedger struct {
	SupabaseProjectID      string `json:"supabase_project_id,omitempty"`
	SupabaseProjectRef     string `json:"supabase_project_ref,omitempty"`
	SupabaseAnonKey        string `json:"supabase_anon_key,omitempty"`
	SupabaseServiceRoleKey string `json:"supabase_service_role_key,omitempty"`
	SupabaseDatabaseURL    string `json:"supabase_database_url,omitempty"`

	GitHubRepoName string `json:"github_repo_name,omitempty"`
	GitHubRepoURL  string `json:"github_repo_url,omitempty"`

	VercelProjectID     string `json:"vercel_project_id,omitempty"`
	VercelDeploymentURL string `json:"vercel_deployment_url,omitempty"`

	N8NWorkflowID string `json:"n8n_workflow_id,omitempty"`
	N8NWebhookURL string `json:"n8n_webhook_url,omitempty"`

	AutomationWorkflowIDs []string `json:"automation_workflow_ids,omitempty"`
	OnboardingEmailIDs    []string `json:"onboarding_email_ids,omitempty"`

	QAReport *QAReport `json:"qa_report,omitempty"`
}

// Merge folds non-empty fields of delta into the ledger. The ledger grows
// monotonically: Merge never clears a field that is already set.
func (l *ResourceLedger) Merge(delta ResourceLedger) {
	if delta.SupabaseProjectID != "" {
		l.SupabaseProjectID = delta.SupabaseProjectID
	}
	if delta.SupabaseProjectRef != "" {
		l.SupabaseProjectRef = delta.SupabaseProjectRef
	}
	if delta.SupabaseAnonKey != "" {
		l.SupabaseAnonKey = delta.SupabaseAnonKey
	}
	if delta.SupabaseServiceRoleKey != "" {
		l.SupabaseServiceRoleKey = delta.SupabaseServiceRoleKey
	}
	if delta.SupabaseDatabaseURL != "" {
		l.SupabaseDatabaseURL = delta.SupabaseDatabaseURL
	}
	if delta.GitHubRepoName != "" {
		l.GitHubRepoName = delta.GitHubRepoName
	}
	if delta.GitHubRepoURL != "" {
		l.GitHubRepoURL = delta.GitHubRepoURL
	}
	if delta.VercelProjectID != "" {
		l.VercelProjectID = delta.VercelProjectID
	}
	if delta.VercelDeploymentURL != "" {
		l.VercelDeploymentURL = delta.VercelDeploymentURL
	}
	if delta.N8NWorkflowID != "" {
		l.N8NWorkflowID = delta.N8NWorkflowID
	}
	if delta.N8NWebhookURL != "" {
		l.N8NWebhookURL = delta.N8NWebhookURL
	}
	if len(delta.AutomationWorkflowIDs) > 0 {
		l.AutomationWorkflowIDs = append(l.AutomationWorkflowIDs, delta.AutomationWorkflowIDs...)
	}
	if len(delta.OnboardingEmailIDs) > 0 {
		l.OnboardingEmailIDs = append(l.OnboardingEmailIDs, delta.OnboardingEmailIDs...)
	}
	if delta.QAReport != nil {
		l.QAReport = delta.QAReport
	}
}

// QAReport holds the post-provision verification results. It is advisory
// output: QA runs after the pipeline has succeeded and never triggers
// rollback.
type QAReport struct {
	VercelResponds     bool `json:"vercel_responds"`
	SupabaseConnects   bool `json:"supabase_connects"`
	N8NWebhookResponds bool `json:"n8n_webhook_responds"`
	LoginPageLoads     bool `json:"login_page_loads"`
	AllPassed          bool `json:"all_passed"`
}

// ProvisionResult is the value returned by the provisioning workflow.
// Failure is a value, not a workflow error: the ledger is returned in both
// outcomes so the caller can persist whatever was created.
type ProvisionResult struct {
	Success    bool           `json:"success"`
	Ledger     ResourceLedger `json:"ledger"`
	RolledBack bool           `json:"rolled_back"`
	FailedStep string         `json:"failed_step,omitempty"`
	Error      string         `json:"error,omitempty"`

	// SoftFailures lists optional steps that failed without aborting the
	// run (automations, onboarding emails, QA).
	SoftFailures []string `json:"soft_failures,omitempty"`
}
