package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	temporalclient "go.temporal.io/sdk/client"
	temporalmocks "go.temporal.io/sdk/mocks"

	"github.com/draggonnb/provisioner/internal/model"
)

func successResult() model.ProvisionResult {
	return model.ProvisionResult{
		Success: true,
		Ledger: model.ResourceLedger{
			SupabaseProjectID:   "sb-1",
			GitHubRepoName:      "client-acme-1-app",
			VercelDeploymentURL: "https://client-acme-1-app.vercel.app",
		},
	}
}

func triggerBody() map[string]any {
	return map[string]any{
		"tenant_name":   "Acme Corp",
		"contact_email": "owner@acme.test",
		"tier":          "growth",
	}
}

func TestProvisionTrigger_Success(t *testing.T) {
	store := newFakeJobStore()
	tc := &temporalmocks.Client{}
	run := &temporalmocks.WorkflowRun{}

	tc.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(opts temporalclient.StartWorkflowOptions) bool {
		return opts.ID == "provision-acme-1" && opts.TaskQueue == model.TaskQueue
	}), "ProvisionTenantWorkflow", mock.MatchedBy(func(req model.ProvisionRequest) bool {
		return req.TenantID == "acme-1" && req.Tier == "growth"
	})).Return(run, nil)
	run.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*(args.Get(1).(*model.ProvisionResult)) = successResult()
	}).Return(nil)

	h := NewProvision(store, tc, zerolog.Nop())
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/tenants/acme-1/provision", triggerBody())
	r = withChiURLParam(r, "tenantID", "acme-1")

	h.Trigger(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.JobStatusCompleted, store.lastStatus)
	require.Len(t, store.running, 1)
	result := store.completed[store.running[0]]
	assert.True(t, result.Success)
	assert.Equal(t, "sb-1", result.Ledger.SupabaseProjectID)
	tc.AssertExpectations(t)
}

func TestProvisionTrigger_FailedRunIsStored(t *testing.T) {
	store := newFakeJobStore()
	tc := &temporalmocks.Client{}
	run := &temporalmocks.WorkflowRun{}

	tc.On("ExecuteWorkflow", mock.Anything, mock.Anything, "ProvisionTenantWorkflow", mock.Anything).Return(run, nil)
	run.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*(args.Get(1).(*model.ProvisionResult)) = model.ProvisionResult{
			RolledBack: true,
			FailedStep: "vercel-deployment",
			Error:      "status 403: forbidden",
			Ledger:     model.ResourceLedger{SupabaseProjectID: "sb-1"},
		}
	}).Return(nil)

	h := NewProvision(store, tc, zerolog.Nop())
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/tenants/acme-1/provision", triggerBody())
	r = withChiURLParam(r, "tenantID", "acme-1")

	h.Trigger(rec, r)

	// A rolled-back run is still a 200: failure is in the result value.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.JobStatusFailed, store.lastStatus)
	result := store.completed[store.running[0]]
	assert.Equal(t, "vercel-deployment", result.FailedStep)
	assert.True(t, result.RolledBack)
}

func TestProvisionTrigger_InvalidTenantID(t *testing.T) {
	h := NewProvision(newFakeJobStore(), &temporalmocks.Client{}, zerolog.Nop())
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/tenants/Acme!/provision", triggerBody())
	r = withChiURLParam(r, "tenantID", "Acme!")

	h.Trigger(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "invalid tenant ID")
}

func TestProvisionTrigger_InvalidBody(t *testing.T) {
	h := NewProvision(newFakeJobStore(), &temporalmocks.Client{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	r := newRequestRaw(http.MethodPost, "/tenants/acme-1/provision", "{bad json")
	r = withChiURLParam(r, "tenantID", "acme-1")
	h.Trigger(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "invalid JSON")

	rec = httptest.NewRecorder()
	r = newRequest(http.MethodPost, "/tenants/acme-1/provision", map[string]any{
		"tenant_name":   "Acme Corp",
		"contact_email": "not-an-email",
		"tier":          "growth",
	})
	r = withChiURLParam(r, "tenantID", "acme-1")
	h.Trigger(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "validation error")
}

func TestProvisionTrigger_StartFailureMarksJobFailed(t *testing.T) {
	store := newFakeJobStore()
	tc := &temporalmocks.Client{}
	tc.On("ExecuteWorkflow", mock.Anything, mock.Anything, "ProvisionTenantWorkflow", mock.Anything).
		Return(nil, errors.New("temporal unavailable"))

	h := NewProvision(store, tc, zerolog.Nop())
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/tenants/acme-1/provision", triggerBody())
	r = withChiURLParam(r, "tenantID", "acme-1")

	h.Trigger(rec, r)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, model.JobStatusFailed, store.lastStatus)
}

func TestProvisionGetJob_NotFound(t *testing.T) {
	h := NewProvision(newFakeJobStore(), &temporalmocks.Client{}, zerolog.Nop())
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodGet, "/provision-jobs/missing", nil)
	r = withChiURLParam(r, "id", "missing")

	h.GetJob(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProvisionListJobs_EmptyIsJSONArray(t *testing.T) {
	h := NewProvision(newFakeJobStore(), &temporalmocks.Client{}, zerolog.Nop())
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodGet, "/tenants/acme-1/provision-jobs", nil)
	r = withChiURLParam(r, "tenantID", "acme-1")

	h.ListJobs(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
