package activity

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Onboarding sends the post-provisioning email sequence via Resend.
type Onboarding struct {
	client *resend.Client
	from   string
}

// NewOnboarding accepts a nil client when no Resend API key is configured;
// sends then become no-ops so provisioning does not depend on email.
func NewOnboarding(client *resend.Client, from string) *Onboarding {
	return &Onboarding{client: client, from: from}
}

// Email kinds in send order.
const (
	EmailWelcome         = "welcome"
	EmailGettingStarted  = "getting-started"
	EmailFirstAutomation = "first-automation"
)

// OnboardingEmailKinds is the full sequence, in order.
var OnboardingEmailKinds = []string{EmailWelcome, EmailGettingStarted, EmailFirstAutomation}

type SendOnboardingEmailParams struct {
	Kind          string `json:"kind"`
	To            string `json:"to"`
	TenantName    string `json:"tenant_name"`
	Tier          string `json:"tier"`
	DeploymentURL string `json:"deployment_url"`
}

// SendOnboardingEmail sends one email of the sequence and returns the provider
// message ID, or "" when email is not configured.
func (a *Onboarding) SendOnboardingEmail(ctx context.Context, params SendOnboardingEmailParams) (string, error) {
	if a.client == nil {
		return "", nil
	}

	subject, html, err := renderOnboardingEmail(params)
	if err != nil {
		return "", err
	}

	sent, err := a.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    a.from,
		To:      []string{params.To},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return "", classify(err, "RESEND_ERROR")
	}
	return sent.Id, nil
}

func renderOnboardingEmail(params SendOnboardingEmailParams) (subject, html string, err error) {
	switch params.Kind {
	case EmailWelcome:
		subject = fmt.Sprintf("Welcome to your new platform, %s", params.TenantName)
		html = fmt.Sprintf(
			`<h1>Welcome, %s!</h1>
<p>Your %s workspace is live at <a href="%s">%s</a>.</p>
<p>Log in with the credentials sent separately and take a look around.</p>`,
			params.TenantName, params.Tier, params.DeploymentURL, params.DeploymentURL)
	case EmailGettingStarted:
		subject = "Getting started with your workspace"
		html = fmt.Sprintf(
			`<h1>Getting started</h1>
<p>Three things worth doing first in <a href="%s">your workspace</a>:</p>
<ol>
<li>Add your team members under Settings &rarr; Users.</li>
<li>Import your existing contacts into the CRM.</li>
<li>Connect your email domain so campaigns send from your address.</li>
</ol>`,
			params.DeploymentURL)
	case EmailFirstAutomation:
		subject = "Set up your first automation"
		html = fmt.Sprintf(
			`<h1>Your first automation</h1>
<p>Your %s plan includes ready-made automations. Start with the lead capture
webhook: point any form at it and new leads land in your CRM automatically.</p>
<p>Find it under Automations in <a href="%s">your workspace</a>.</p>`,
			params.Tier, params.DeploymentURL)
	default:
		return "", "", fmt.Errorf("unknown onboarding email kind %q", params.Kind)
	}
	return subject, html, nil
}
