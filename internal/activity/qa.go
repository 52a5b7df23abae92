package activity

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/draggonnb/provisioner/internal/model"
)

// QA runs the post-provisioning smoke checks. Checks run concurrently and
// never abort each other; a failing check is a report entry, not an error.
type QA struct {
	httpClient *http.Client
}

func NewQA() *QA {
	return &QA{httpClient: &http.Client{Timeout: 30 * time.Second}}
}

type RunQAChecksParams struct {
	DeploymentURL   string `json:"deployment_url"`
	SupabaseRESTURL string `json:"supabase_rest_url"`
	SupabaseAnonKey string `json:"supabase_anon_key"`
	N8NWebhookURL   string `json:"n8n_webhook_url"`
}

// RunQAChecks probes the provisioned resources. Checks whose inputs are
// missing (because an optional step was skipped or soft-failed) are skipped
// and do not count against AllPassed.
func (a *QA) RunQAChecks(ctx context.Context, params RunQAChecksParams) (*model.QAReport, error) {
	report := &model.QAReport{}
	attempted := 0

	g, ctx := errgroup.WithContext(ctx)

	if params.DeploymentURL != "" {
		attempted += 2
		g.Go(func() error {
			report.VercelResponds = a.checkGet(ctx, params.DeploymentURL, nil)
			return nil
		})
		g.Go(func() error {
			url := strings.TrimRight(params.DeploymentURL, "/") + "/login"
			report.LoginPageLoads = a.checkGet(ctx, url, nil)
			return nil
		})
	}
	if params.SupabaseRESTURL != "" && params.SupabaseAnonKey != "" {
		attempted++
		g.Go(func() error {
			headers := map[string]string{"apikey": params.SupabaseAnonKey}
			report.SupabaseConnects = a.checkGet(ctx, params.SupabaseRESTURL, headers)
			return nil
		})
	}
	if params.N8NWebhookURL != "" {
		attempted++
		g.Go(func() error {
			report.N8NWebhookResponds = a.checkPost(ctx, params.N8NWebhookURL)
			return nil
		})
	}

	g.Wait()

	report.AllPassed = attempted > 0 &&
		(params.DeploymentURL == "" || (report.VercelResponds && report.LoginPageLoads)) &&
		(params.SupabaseRESTURL == "" || params.SupabaseAnonKey == "" || report.SupabaseConnects) &&
		(params.N8NWebhookURL == "" || report.N8NWebhookResponds)
	return report, nil
}

// checkGet passes when the endpoint answers with a non-5xx status: a 401 from
// Supabase REST or a 404 on a route still proves the service is up.
func (a *QA) checkGet(ctx context.Context, url string, headers map[string]string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 500
}

func (a *QA) checkPost(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(`{"source":"provisioning-qa"}`))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 500
}
