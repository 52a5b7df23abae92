package request

import "github.com/draggonnb/provisioner/internal/model"

// ProvisionTenant is the body of the provisioning trigger. The tenant ID
// comes from the URL.
type ProvisionTenant struct {
	TenantName   string                       `json:"tenant_name" validate:"required,min=1,max=120"`
	ContactEmail string                       `json:"contact_email" validate:"required,email"`
	Tier         string                       `json:"tier" validate:"required"`
	Overrides    *model.ClientConfigOverrides `json:"overrides,omitempty"`
}
