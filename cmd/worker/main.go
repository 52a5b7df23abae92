package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/resend/resend-go/v2"
	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"

	"github.com/draggonnb/provisioner/internal/activity"
	"github.com/draggonnb/provisioner/internal/config"
	"github.com/draggonnb/provisioner/internal/github"
	"github.com/draggonnb/provisioner/internal/logging"
	"github.com/draggonnb/provisioner/internal/metrics"
	"github.com/draggonnb/provisioner/internal/model"
	"github.com/draggonnb/provisioner/internal/n8n"
	"github.com/draggonnb/provisioner/internal/supabase"
	"github.com/draggonnb/provisioner/internal/vercel"
	"github.com/draggonnb/provisioner/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("worker"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	tc, err := temporalclient.Dial(temporalclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to temporal")
	}
	defer tc.Close()

	w := worker.New(tc, model.TaskQueue, worker.Options{
		Interceptors: []interceptor.WorkerInterceptor{&workflow.ErrorTypingInterceptor{}},
	})

	supabaseClient := supabase.NewClient("", cfg.SupabaseToken)
	w.RegisterActivity(activity.NewSupabase(supabaseClient, cfg.SupabaseOrgID, cfg.SupabaseRegion, cfg.SupabasePlan))

	w.RegisterActivity(activity.NewSchema(cfg.TenantSchemaPath))

	githubClient, err := github.NewClient("", cfg.GitHubToken, cfg.GitHubOrg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build github client")
	}
	w.RegisterActivity(activity.NewGitHub(githubClient, cfg.GitHubTemplateRepo))

	vercelClient := vercel.NewClient("", cfg.VercelToken, cfg.VercelTeamID)
	w.RegisterActivity(activity.NewVercel(vercelClient, cfg.GitHubOrg))

	n8nClient := n8n.NewClient(n8n.APIBaseURL(cfg.N8NHost), cfg.N8NAPIKey)
	w.RegisterActivity(activity.NewN8N(n8nClient, cfg.N8NHost))

	// Onboarding emails are skipped when Resend is not configured.
	var resendClient *resend.Client
	if cfg.ResendAPIKey != "" {
		resendClient = resend.NewClient(cfg.ResendAPIKey)
	}
	w.RegisterActivity(activity.NewOnboarding(resendClient, cfg.ResendFromEmail))

	w.RegisterActivity(activity.NewQA())

	w.RegisterWorkflow(workflow.ProvisionTenantWorkflow)

	if cfg.MetricsAddr != "" {
		metricsSrv := metrics.NewServer(cfg.MetricsAddr)
		go func() {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("starting metrics server")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	go func() {
		logger.Info().Str("taskQueue", model.TaskQueue).Msg("starting temporal worker")
		if err := w.Run(worker.InterruptCh()); err != nil {
			logger.Fatal().Err(err).Msg("worker failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down worker")
}
