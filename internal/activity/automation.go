package activity

import (
	"context"

	"github.com/draggonnb/provisioner/internal/metrics"
	"github.com/draggonnb/provisioner/internal/n8n"
)

// N8N provisions the tenant's automation workflows.
type N8N struct {
	client *n8n.Client
	host   string
}

func NewN8N(client *n8n.Client, host string) *N8N {
	return &N8N{client: client, host: host}
}

// AutomationWorkflow is the activity-level view of an n8n workflow, with the
// public webhook URL already resolved.
type AutomationWorkflow struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Active     bool   `json:"active"`
	WebhookURL string `json:"webhook_url"`
}

// FindAutomationWorkflow returns the workflow with the given name, or nil.
// WebhookURL is filled from webhookPath since n8n's list API does not expose
// node parameters.
type FindAutomationWorkflowParams struct {
	Name        string `json:"name"`
	WebhookPath string `json:"webhook_path"`
}

func (a *N8N) FindAutomationWorkflow(ctx context.Context, params FindAutomationWorkflowParams) (*AutomationWorkflow, error) {
	workflow, err := a.client.FindWorkflowByName(ctx, params.Name)
	if err != nil {
		return nil, classify(err, "N8N_ERROR")
	}
	if workflow == nil {
		return nil, nil
	}
	return &AutomationWorkflow{
		ID:         workflow.ID,
		Name:       workflow.Name,
		Active:     workflow.Active,
		WebhookURL: n8n.WebhookURL(a.host, params.WebhookPath),
	}, nil
}

type CreateAutomationWorkflowParams struct {
	Name        string `json:"name"`
	WebhookPath string `json:"webhook_path"`
}

func (a *N8N) CreateAutomationWorkflow(ctx context.Context, params CreateAutomationWorkflowParams) (*AutomationWorkflow, error) {
	workflow, err := a.client.CreateWebhookWorkflow(ctx, params.Name, params.WebhookPath)
	if err != nil {
		return nil, classify(err, "N8N_ERROR")
	}
	return &AutomationWorkflow{
		ID:         workflow.ID,
		Name:       workflow.Name,
		Active:     workflow.Active,
		WebhookURL: n8n.WebhookURL(a.host, params.WebhookPath),
	}, nil
}

func (a *N8N) ActivateAutomationWorkflow(ctx context.Context, workflowID string) error {
	if err := a.client.ActivateWorkflow(ctx, workflowID); err != nil {
		return classify(err, "N8N_ERROR")
	}
	return nil
}

func (a *N8N) DeleteAutomationWorkflow(ctx context.Context, workflowID string) error {
	err := a.client.DeleteWorkflow(ctx, workflowID)
	metrics.RecordRollback("n8n_workflow", err)
	if err != nil {
		return classify(err, "N8N_ERROR")
	}
	return nil
}
