package model

import "time"

// JobStatus tracks a provision job record through its lifecycle.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// ProvisionJob is the persisted record of one provisioning run. The trigger
// handler creates it in pending state before starting the workflow and
// stores the final ledger when the run returns.
type ProvisionJob struct {
	ID           string         `json:"id"`
	TenantID     string         `json:"tenant_id"`
	TenantName   string         `json:"tenant_name"`
	ContactEmail string         `json:"contact_email"`
	Tier         string         `json:"tier"`
	Status       JobStatus      `json:"status"`
	Error        *string        `json:"error,omitempty"`
	Ledger       ResourceLedger `json:"ledger"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
