package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// tenantIDRegex keeps tenant IDs safe for use in resource names (Supabase
// project names, repo names, webhook paths).
var tenantIDRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{0,62}$`)

func init() {
	validate.RegisterValidation("tenant_id", func(fl validator.FieldLevel) bool {
		return tenantIDRegex.MatchString(fl.Field().String())
	})
}

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// ValidTenantID checks a URL tenant ID against the same rule as body fields.
func ValidTenantID(s string) error {
	if !tenantIDRegex.MatchString(s) {
		return fmt.Errorf("invalid tenant ID %q", s)
	}
	return nil
}

func RequireID(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing required ID")
	}
	return s, nil
}
