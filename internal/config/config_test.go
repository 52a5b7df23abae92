package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workerConfig() *Config {
	return &Config{
		DatabaseURL:        "postgres://localhost/provisioner",
		TemporalAddress:    "localhost:7233",
		SupabaseToken:      "sbp_token",
		SupabaseOrgID:      "org-1",
		GitHubToken:        "ghp_token",
		GitHubOrg:          "draggonnb",
		GitHubTemplateRepo: "client-template",
		VercelToken:        "vercel-token",
		N8NAPIKey:          "n8n-key",
		N8NHost:            "n8n.example.com",
	}
}

func TestValidate_Worker_OK(t *testing.T) {
	require.NoError(t, workerConfig().Validate("worker"))
}

func TestValidate_Worker_EnumeratesAllMissing(t *testing.T) {
	cfg := workerConfig()
	cfg.SupabaseToken = ""
	cfg.GitHubToken = ""
	cfg.N8NAPIKey = ""

	err := cfg.Validate("worker")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_MANAGEMENT_TOKEN")
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
	assert.Contains(t, err.Error(), "N8N_API_KEY")
}

func TestValidate_API_DoesNotRequireProviderCreds(t *testing.T) {
	cfg := &Config{
		DatabaseURL:     "postgres://localhost/provisioner",
		TemporalAddress: "localhost:7233",
		HTTPListenAddr:  ":8090",
	}
	require.NoError(t, cfg.Validate("provision-api"))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/provisioner")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost:7233", cfg.TemporalAddress)
	assert.Equal(t, ":8090", cfg.HTTPListenAddr)
	assert.Equal(t, "af-south-1", cfg.SupabaseRegion)
	assert.Equal(t, "schema/tenant_schema.sql", cfg.TenantSchemaPath)
}
