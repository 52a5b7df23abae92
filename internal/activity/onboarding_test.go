package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendOnboardingEmail_NoClientIsNoop(t *testing.T) {
	a := NewOnboarding(nil, "noreply@draggonnb.online")

	id, err := a.SendOnboardingEmail(context.Background(), SendOnboardingEmailParams{
		Kind: EmailWelcome,
		To:   "owner@acme.test",
	})
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestRenderOnboardingEmail(t *testing.T) {
	params := SendOnboardingEmailParams{
		TenantName:    "Acme Corp",
		Tier:          "growth",
		DeploymentURL: "https://client-acme-1-app.vercel.app",
	}

	for _, kind := range OnboardingEmailKinds {
		params.Kind = kind
		subject, html, err := renderOnboardingEmail(params)
		require.NoError(t, err, kind)
		assert.NotEmpty(t, subject, kind)
		assert.Contains(t, html, params.DeploymentURL, kind)
	}

	params.Kind = "goodbye"
	_, _, err := renderOnboardingEmail(params)
	assert.Error(t, err)
}
