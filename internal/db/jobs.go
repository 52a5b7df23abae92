package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/draggonnb/provisioner/internal/model"
)

// DB is the subset of pgxpool.Pool the job store needs. Tests substitute a
// mock.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProvisionJobStore persists provision job records. The ledger is stored as
// JSONB so partially provisioned resources survive a crashed run.
type ProvisionJobStore struct {
	db DB
}

func NewProvisionJobStore(db DB) *ProvisionJobStore {
	return &ProvisionJobStore{db: db}
}

func (s *ProvisionJobStore) Create(ctx context.Context, job *model.ProvisionJob) error {
	ledger, err := json.Marshal(job.Ledger)
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO provision_jobs (id, tenant_id, tenant_name, contact_email, tier, status, ledger, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		job.ID, job.TenantID, job.TenantName, job.ContactEmail, job.Tier,
		job.Status, ledger, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert provision job: %w", err)
	}
	return nil
}

func (s *ProvisionJobStore) GetByID(ctx context.Context, id string) (*model.ProvisionJob, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, tenant_name, contact_email, tier, status, error, ledger, created_at, updated_at
		 FROM provision_jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("get provision job %s: %w", id, err)
	}
	return job, nil
}

func (s *ProvisionJobStore) ListByTenant(ctx context.Context, tenantID string) ([]model.ProvisionJob, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, tenant_name, contact_email, tier, status, error, ledger, created_at, updated_at
		 FROM provision_jobs WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list provision jobs for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	var jobs []model.ProvisionJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan provision job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate provision jobs: %w", err)
	}
	return jobs, nil
}

// MarkRunning moves a pending job to running.
func (s *ProvisionJobStore) MarkRunning(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE provision_jobs SET status = $1, updated_at = now() WHERE id = $2`,
		model.JobStatusRunning, id)
	if err != nil {
		return fmt.Errorf("mark provision job %s running: %w", id, err)
	}
	return nil
}

// Complete stores the workflow result: final status, error message and the
// ledger of everything that was created.
func (s *ProvisionJobStore) Complete(ctx context.Context, id string, result model.ProvisionResult) error {
	status := model.JobStatusCompleted
	var errMsg *string
	if !result.Success {
		status = model.JobStatusFailed
		if result.Error != "" {
			msg := fmt.Sprintf("step %s: %s", result.FailedStep, result.Error)
			errMsg = &msg
		}
	}

	ledger, err := json.Marshal(result.Ledger)
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`UPDATE provision_jobs SET status = $1, error = $2, ledger = $3, updated_at = now() WHERE id = $4`,
		status, errMsg, ledger, id)
	if err != nil {
		return fmt.Errorf("complete provision job %s: %w", id, err)
	}
	return nil
}

func scanJob(row pgx.Row) (*model.ProvisionJob, error) {
	var job model.ProvisionJob
	var ledger []byte
	err := row.Scan(&job.ID, &job.TenantID, &job.TenantName, &job.ContactEmail,
		&job.Tier, &job.Status, &job.Error, &ledger, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(ledger) > 0 {
		if err := json.Unmarshal(ledger, &job.Ledger); err != nil {
			return nil, fmt.Errorf("unmarshal ledger: %w", err)
		}
	}
	return &job, nil
}
