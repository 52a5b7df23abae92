package workflow

import (
	"context"

	"go.temporal.io/sdk/testsuite"

	"github.com/draggonnb/provisioner/internal/activity"
	"github.com/draggonnb/provisioner/internal/n8n"
)

// registerActivities registers the activity structs with the test workflow
// environment. All activities are mocked via OnActivity in the tests, but the
// framework needs the real method signatures to serialize parameters and
// results.
func registerActivities(env *testsuite.TestWorkflowEnvironment) {
	env.RegisterActivity(&activity.Supabase{})
	env.RegisterActivity(&activity.Schema{})
	env.RegisterActivity(&activity.GitHub{})
	env.RegisterActivity(&activity.Vercel{})
	env.RegisterActivity(&activity.N8N{})
	env.RegisterActivity(&activity.Onboarding{})
	env.RegisterActivity(&activity.QA{})
}

// existingAutomationWorkflow answers automation lookups with an active
// workflow derived from the lookup parameters, simulating a previous
// successful run.
func existingAutomationWorkflow(_ context.Context, params activity.FindAutomationWorkflowParams) (*activity.AutomationWorkflow, error) {
	return &activity.AutomationWorkflow{
		ID:         "wf-" + params.WebhookPath,
		Name:       params.Name,
		Active:     true,
		WebhookURL: n8n.WebhookURL("n8n.draggonnb.online", params.WebhookPath),
	}, nil
}
