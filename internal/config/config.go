package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every credential and endpoint the provisioning services
// need. It is loaded once at startup and validated before any provider call
// is made, so a missing credential fails the process instead of failing deep
// inside a provisioning step.
type Config struct {
	ServiceName     string
	DatabaseURL     string
	TemporalAddress string
	HTTPListenAddr  string
	MetricsAddr     string
	LogLevel        string

	// Supabase management API.
	SupabaseToken  string
	SupabaseOrgID  string
	SupabaseRegion string
	SupabasePlan   string

	// GitHub.
	GitHubToken        string
	GitHubOrg          string
	GitHubTemplateRepo string

	// Vercel.
	VercelToken  string
	VercelTeamID string

	// n8n.
	N8NAPIKey string
	N8NHost   string

	// Resend. Optional: onboarding emails are skipped when unset.
	ResendAPIKey    string
	ResendFromEmail string

	// Path to the SQL schema replicated into each new tenant database.
	TenantSchemaPath string

	// Base URLs used by callback integrations elsewhere in the platform.
	PublicBaseURL    string
	PaymentReturnURL string
	PaymentCancelURL string
	PaymentNotifyURL string
}

func Load() (*Config, error) {
	// Local development convenience; missing .env is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName:     getEnv("SERVICE_NAME", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		TemporalAddress: getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		HTTPListenAddr:  getEnv("HTTP_LISTEN_ADDR", ":8090"),
		MetricsAddr:     getEnv("METRICS_ADDR", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),

		SupabaseToken:  getEnv("SUPABASE_MANAGEMENT_TOKEN", ""),
		SupabaseOrgID:  getEnv("SUPABASE_ORG_ID", ""),
		SupabaseRegion: getEnv("SUPABASE_REGION", "af-south-1"),
		SupabasePlan:   getEnv("SUPABASE_PLAN", "pro"),

		GitHubToken:        getEnv("GITHUB_TOKEN", ""),
		GitHubOrg:          getEnv("GITHUB_ORG", ""),
		GitHubTemplateRepo: getEnv("GITHUB_TEMPLATE_REPO", ""),

		VercelToken:  getEnv("VERCEL_TOKEN", ""),
		VercelTeamID: getEnv("VERCEL_TEAM_ID", ""),

		N8NAPIKey: getEnv("N8N_API_KEY", ""),
		N8NHost:   getEnv("N8N_HOST", ""),

		ResendAPIKey:    getEnv("RESEND_API_KEY", ""),
		ResendFromEmail: getEnv("RESEND_FROM_EMAIL", "noreply@draggonnb.online"),

		TenantSchemaPath: getEnv("TENANT_SCHEMA_PATH", "schema/tenant_schema.sql"),

		PublicBaseURL:    getEnv("PUBLIC_BASE_URL", ""),
		PaymentReturnURL: getEnv("PAYMENT_RETURN_URL", ""),
		PaymentCancelURL: getEnv("PAYMENT_CANCEL_URL", ""),
		PaymentNotifyURL: getEnv("PAYMENT_NOTIFY_URL", ""),
	}

	return cfg, nil
}

// Validate checks the fields required by the given service and reports every
// missing one at once, named by its environment variable.
func (c *Config) Validate(service string) error {
	required := map[string]string{
		"DATABASE_URL":     c.DatabaseURL,
		"TEMPORAL_ADDRESS": c.TemporalAddress,
	}

	if service == "worker" {
		required["SUPABASE_MANAGEMENT_TOKEN"] = c.SupabaseToken
		required["SUPABASE_ORG_ID"] = c.SupabaseOrgID
		required["GITHUB_TOKEN"] = c.GitHubToken
		required["GITHUB_ORG"] = c.GitHubOrg
		required["GITHUB_TEMPLATE_REPO"] = c.GitHubTemplateRepo
		required["VERCEL_TOKEN"] = c.VercelToken
		required["N8N_API_KEY"] = c.N8NAPIKey
		required["N8N_HOST"] = c.N8NHost
	}
	if service == "provision-api" {
		required["HTTP_LISTEN_ADDR"] = c.HTTPListenAddr
	}

	var missing []string
	for key, value := range required {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
