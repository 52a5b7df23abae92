package automation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesForModule(t *testing.T) {
	crm := TemplatesForModule("crm")
	require.Len(t, crm, 2)
	assert.Equal(t, "Lead Capture Webhook", crm[0].Name)
	assert.Equal(t, "lead-capture", crm[0].WebhookPath)

	assert.Len(t, TemplatesForModule("content_studio"), 1)
	assert.Nil(t, TemplatesForModule("ai_agents"))
	assert.Nil(t, TemplatesForModule("unknown"))
}

func TestTemplatesForModules_PreservesOrder(t *testing.T) {
	pairs := TemplatesForModules([]string{"crm", "email"})
	require.Len(t, pairs, 4)
	assert.Equal(t, "crm", pairs[0].Module)
	assert.Equal(t, "Lead Capture Webhook", pairs[0].Template.Name)
	assert.Equal(t, "email", pairs[2].Module)
	assert.Equal(t, "Drip Campaign Trigger", pairs[2].Template.Name)
}
