package model

import (
	"fmt"
	"regexp"
	"sort"
)

// Tier is a normalized subscription level. Legacy tier names from the
// billing system (starter/professional/enterprise) map onto these.
type Tier string

const (
	TierCore   Tier = "core"
	TierGrowth Tier = "growth"
	TierScale  Tier = "scale"
)

// NormalizeTier maps billing tier names onto the three canonical tiers.
func NormalizeTier(tier string) (Tier, error) {
	switch tier {
	case "core", "starter":
		return TierCore, nil
	case "growth", "professional":
		return TierGrowth, nil
	case "scale", "enterprise":
		return TierScale, nil
	default:
		return "", fmt.Errorf("unknown tier %q", tier)
	}
}

// ClientModules is the set of feature modules enabled for a tenant.
type ClientModules struct {
	CRM           bool `json:"crm"`
	Email         bool `json:"email"`
	Social        bool `json:"social"`
	ContentStudio bool `json:"content_studio"`
	Accommodation bool `json:"accommodation"`
	AIAgents      bool `json:"ai_agents"`
}

type ClientBranding struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	LogoURL        string `json:"logo_url,omitempty"`
	CompanyName    string `json:"company_name"`
	Tagline        string `json:"tagline,omitempty"`
}

type ClientIntegrations struct {
	PayFast  bool `json:"payfast"`
	Resend   bool `json:"resend"`
	N8N      bool `json:"n8n"`
	Facebook bool `json:"facebook"`
	LinkedIn bool `json:"linkedin"`
}

type ClientDeployment struct {
	Region       string `json:"region"`
	CustomDomain string `json:"custom_domain,omitempty"`
	SupabasePlan string `json:"supabase_plan"`
}

// ClientConfig is the tenant entitlement document: which modules, branding,
// integrations and deployment target a tenant gets. It is constructed once
// before provisioning starts, validated against tier constraints, and
// read-only for the rest of the run.
type ClientConfig struct {
	TenantID     string             `json:"tenant_id"`
	TenantName   string             `json:"tenant_name"`
	Tier         Tier               `json:"tier"`
	Modules      ClientModules      `json:"modules"`
	Branding     ClientBranding     `json:"branding"`
	Integrations ClientIntegrations `json:"integrations"`
	Deployment   ClientDeployment   `json:"deployment"`
}

// ClientConfigOverrides carries optional per-tenant deviations from the tier
// defaults. Nil pointers mean "use the default".
type ClientConfigOverrides struct {
	Modules      map[string]bool `json:"modules,omitempty"`
	Branding     *ClientBranding `json:"branding,omitempty"`
	CustomDomain string          `json:"custom_domain,omitempty"`
}

func tierDefaultModules(tier Tier) ClientModules {
	switch tier {
	case TierGrowth:
		return ClientModules{CRM: true, Email: true, Social: true, ContentStudio: true}
	case TierScale:
		return ClientModules{CRM: true, Email: true, Social: true, ContentStudio: true, Accommodation: true, AIAgents: true}
	default:
		return ClientModules{CRM: true, Email: true}
	}
}

// GenerateClientConfig builds a tenant config from tier defaults plus
// optional overrides. The result still has to pass Validate.
func GenerateClientConfig(tenantID, tenantName string, tier Tier, overrides *ClientConfigOverrides) ClientConfig {
	cfg := ClientConfig{
		TenantID:   tenantID,
		TenantName: tenantName,
		Tier:       tier,
		Modules:    tierDefaultModules(tier),
		Branding: ClientBranding{
			PrimaryColor:   "#3B82F6",
			SecondaryColor: "#1E293B",
			CompanyName:    tenantName,
		},
		Integrations: ClientIntegrations{PayFast: true, Resend: true, N8N: true},
		Deployment:   ClientDeployment{Region: "us-east-1", SupabasePlan: "free"},
	}

	if overrides == nil {
		return cfg
	}
	for name, enabled := range overrides.Modules {
		switch name {
		case "crm":
			cfg.Modules.CRM = enabled
		case "email":
			cfg.Modules.Email = enabled
		case "social":
			cfg.Modules.Social = enabled
		case "content_studio":
			cfg.Modules.ContentStudio = enabled
		case "accommodation":
			cfg.Modules.Accommodation = enabled
		case "ai_agents":
			cfg.Modules.AIAgents = enabled
		}
	}
	if overrides.Branding != nil {
		b := *overrides.Branding
		if b.PrimaryColor != "" {
			cfg.Branding.PrimaryColor = b.PrimaryColor
		}
		if b.SecondaryColor != "" {
			cfg.Branding.SecondaryColor = b.SecondaryColor
		}
		if b.LogoURL != "" {
			cfg.Branding.LogoURL = b.LogoURL
		}
		if b.CompanyName != "" {
			cfg.Branding.CompanyName = b.CompanyName
		}
		if b.Tagline != "" {
			cfg.Branding.Tagline = b.Tagline
		}
	}
	if overrides.CustomDomain != "" {
		cfg.Deployment.CustomDomain = overrides.CustomDomain
	}
	return cfg
}

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate checks required fields and tier-module constraints. A lower tier
// may not enable modules reserved for higher tiers; CRM and email are
// required on every tier.
func (c ClientConfig) Validate() error {
	var errs []string

	if c.TenantID == "" {
		errs = append(errs, "tenant_id is required")
	}
	if c.TenantName == "" {
		errs = append(errs, "tenant_name is required")
	}
	switch c.Tier {
	case TierCore, TierGrowth, TierScale:
	default:
		errs = append(errs, fmt.Sprintf("invalid tier %q", c.Tier))
	}

	if !c.Modules.CRM {
		errs = append(errs, "crm module is required for all tiers")
	}
	if !c.Modules.Email {
		errs = append(errs, "email module is required for all tiers")
	}

	if c.Tier == TierCore {
		if c.Modules.Social {
			errs = append(errs, "social module not available on core tier")
		}
		if c.Modules.ContentStudio {
			errs = append(errs, "content_studio module not available on core tier")
		}
		if c.Modules.Accommodation {
			errs = append(errs, "accommodation module not available on core tier")
		}
		if c.Modules.AIAgents {
			errs = append(errs, "ai_agents module not available on core tier")
		}
	}
	if c.Tier == TierGrowth {
		if c.Modules.Accommodation {
			errs = append(errs, "accommodation module not available on growth tier")
		}
		if c.Modules.AIAgents {
			errs = append(errs, "ai_agents module not available on growth tier")
		}
	}

	if c.Branding.PrimaryColor != "" && !hexColorRegex.MatchString(c.Branding.PrimaryColor) {
		errs = append(errs, "primary_color must be a hex color like #3B82F6")
	}
	if c.Branding.SecondaryColor != "" && !hexColorRegex.MatchString(c.Branding.SecondaryColor) {
		errs = append(errs, "secondary_color must be a hex color like #1E293B")
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("invalid client config: %v", errs)
	}
	return nil
}

// EnabledModules returns the names of enabled modules in stable order.
func (c ClientConfig) EnabledModules() []string {
	var names []string
	if c.Modules.CRM {
		names = append(names, "crm")
	}
	if c.Modules.Email {
		names = append(names, "email")
	}
	if c.Modules.Social {
		names = append(names, "social")
	}
	if c.Modules.ContentStudio {
		names = append(names, "content_studio")
	}
	if c.Modules.Accommodation {
		names = append(names, "accommodation")
	}
	if c.Modules.AIAgents {
		names = append(names, "ai_agents")
	}
	return names
}
