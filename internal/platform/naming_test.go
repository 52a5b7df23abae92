package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceNames(t *testing.T) {
	assert.Equal(t, "client-acme-1-prod", DatabaseProjectName("acme-1"))
	assert.Equal(t, "client-acme-1-app", RepoName("acme-1"))
	assert.Equal(t, "Client acme-1 - Acme Corp", BaseWorkflowName("acme-1", "Acme Corp"))
	assert.Equal(t, "Client acme-1 - Lead Capture Webhook", AutomationWorkflowName("acme-1", "Lead Capture Webhook"))
	assert.Equal(t, "client-acme-1", WebhookPath("acme-1"))
	assert.Equal(t, "client-acme-1/lead-capture", AutomationWebhookPath("acme-1", "lead-capture"))
}

func TestNewSecret(t *testing.T) {
	a := NewSecret()
	b := NewSecret()
	assert.NotEqual(t, a, b)
	assert.GreaterOrEqual(t, len(a), 32)
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
	assert.NotContains(t, a, "=")
}
