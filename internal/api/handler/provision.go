package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/draggonnb/provisioner/internal/api/request"
	"github.com/draggonnb/provisioner/internal/api/response"
	"github.com/draggonnb/provisioner/internal/metrics"
	"github.com/draggonnb/provisioner/internal/model"
	"github.com/draggonnb/provisioner/internal/platform"
)

// JobStore is the persistence the provision handler needs. *db.ProvisionJobStore
// implements it.
type JobStore interface {
	Create(ctx context.Context, job *model.ProvisionJob) error
	MarkRunning(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, result model.ProvisionResult) error
	GetByID(ctx context.Context, id string) (*model.ProvisionJob, error)
	ListByTenant(ctx context.Context, tenantID string) ([]model.ProvisionJob, error)
}

type Provision struct {
	store  JobStore
	tc     temporalclient.Client
	logger zerolog.Logger
}

func NewProvision(store JobStore, tc temporalclient.Client, logger zerolog.Logger) *Provision {
	return &Provision{store: store, tc: tc, logger: logger}
}

// ProvisionJobResult is the trigger response: the persisted job ID plus the
// workflow's result value.
type ProvisionJobResult struct {
	JobID  string                `json:"job_id"`
	Result model.ProvisionResult `json:"result"`
}

// Trigger starts a provisioning run for a tenant and waits for it to finish.
// The workflow ID is derived from the tenant ID so two concurrent triggers
// for the same tenant cannot run two pipelines at once.
func (h *Provision) Trigger(w http.ResponseWriter, r *http.Request) {
	tenantID, err := request.RequireID(chi.URLParam(r, "tenantID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := request.ValidTenantID(tenantID); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.ProvisionTenant
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	job := &model.ProvisionJob{
		ID:           platform.NewID(),
		TenantID:     tenantID,
		TenantName:   req.TenantName,
		ContactEmail: req.ContactEmail,
		Tier:         req.Tier,
		Status:       model.JobStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.store.Create(r.Context(), job); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	started := time.Now()
	run, err := h.tc.ExecuteWorkflow(r.Context(), temporalclient.StartWorkflowOptions{
		ID:        fmt.Sprintf("provision-%s", tenantID),
		TaskQueue: model.TaskQueue,
	}, "ProvisionTenantWorkflow", model.ProvisionRequest{
		TenantID:     tenantID,
		TenantName:   req.TenantName,
		ContactEmail: req.ContactEmail,
		Tier:         req.Tier,
		Overrides:    req.Overrides,
	})
	if err != nil {
		h.failJob(r.Context(), job.ID, err)
		response.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("start provisioning workflow: %s", err))
		return
	}

	if err := h.store.MarkRunning(r.Context(), job.ID); err != nil {
		h.logger.Error().Err(err).Str("job_id", job.ID).Msg("mark job running")
	}

	var result model.ProvisionResult
	if err := run.Get(r.Context(), &result); err != nil {
		h.failJob(r.Context(), job.ID, err)
		metrics.ProvisionRunsTotal.WithLabelValues("failed").Inc()
		metrics.ProvisionDuration.WithLabelValues("failed").Observe(time.Since(started).Seconds())
		response.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("provisioning workflow: %s", err))
		return
	}

	if err := h.store.Complete(r.Context(), job.ID, result); err != nil {
		h.logger.Error().Err(err).Str("job_id", job.ID).Msg("store provisioning result")
	}
	recordOutcome(result, time.Since(started))

	response.WriteJSON(w, http.StatusOK, ProvisionJobResult{JobID: job.ID, Result: result})
}

// GetJob returns one provision job record.
func (h *Provision) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		response.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	response.WriteJSON(w, http.StatusOK, job)
}

// ListJobs returns all provision jobs for a tenant, newest first.
func (h *Provision) ListJobs(w http.ResponseWriter, r *http.Request) {
	tenantID, err := request.RequireID(chi.URLParam(r, "tenantID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobs, err := h.store.ListByTenant(r.Context(), tenantID)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if jobs == nil {
		jobs = []model.ProvisionJob{}
	}
	response.WriteJSON(w, http.StatusOK, jobs)
}

func (h *Provision) failJob(ctx context.Context, jobID string, cause error) {
	err := h.store.Complete(ctx, jobID, model.ProvisionResult{
		FailedStep: "workflow",
		Error:      cause.Error(),
	})
	if err != nil {
		h.logger.Error().Err(err).Str("job_id", jobID).Msg("mark job failed")
	}
}

func recordOutcome(result model.ProvisionResult, elapsed time.Duration) {
	outcome := "succeeded"
	switch {
	case result.Success:
	case result.RolledBack:
		outcome = "rolled_back"
	default:
		outcome = "failed"
	}
	metrics.ProvisionRunsTotal.WithLabelValues(outcome).Inc()
	metrics.ProvisionDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if result.FailedStep != "" {
		metrics.StepFailuresTotal.WithLabelValues(result.FailedStep).Inc()
	}
	for _, step := range result.SoftFailures {
		metrics.StepFailuresTotal.WithLabelValues(step).Inc()
	}
}
