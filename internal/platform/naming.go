package platform

import "fmt"

// Deterministic, tenant-derived resource names. Every provider step looks up
// its resource by one of these names before creating anything, which is what
// makes a provisioning run safely re-runnable: a second run for the same
// tenant finds and reuses the first run's resources.

// DatabaseProjectName names the tenant's Supabase project.
func DatabaseProjectName(tenantID string) string {
	return fmt.Sprintf("client-%s-prod", tenantID)
}

// RepoName names the tenant's GitHub repository. The Vercel project shares
// this name because it is git-linked to the repository.
func RepoName(tenantID string) string {
	return fmt.Sprintf("client-%s-app", tenantID)
}

// BaseWorkflowName names the tenant's base n8n workflow.
func BaseWorkflowName(tenantID, tenantName string) string {
	return fmt.Sprintf("Client %s - %s", tenantID, tenantName)
}

// AutomationWorkflowName names a per-template automation workflow.
func AutomationWorkflowName(tenantID, templateName string) string {
	return fmt.Sprintf("Client %s - %s", tenantID, templateName)
}

// WebhookPath is the tenant-scoped path prefix for inbound webhooks.
func WebhookPath(tenantID string) string {
	return fmt.Sprintf("client-%s", tenantID)
}

// AutomationWebhookPath is the webhook path for one automation template.
func AutomationWebhookPath(tenantID, suffix string) string {
	return fmt.Sprintf("client-%s/%s", tenantID, suffix)
}
