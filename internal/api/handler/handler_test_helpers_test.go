package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"

	"github.com/draggonnb/provisioner/internal/model"
)

// newRequest creates a new HTTP request with an optional JSON body.
func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// newRequestRaw creates a new HTTP request with a raw string body.
func newRequestRaw(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withChiURLParam adds a chi URL parameter to the request context.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeErrorResponse parses the JSON error response body into a map.
func decodeErrorResponse(rec *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}

// fakeJobStore is an in-memory JobStore recording lifecycle transitions.
type fakeJobStore struct {
	jobs       map[string]*model.ProvisionJob
	createErr  error
	getErr     error
	listErr    error
	running    []string
	completed  map[string]model.ProvisionResult
	lastStatus model.JobStatus
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{
		jobs:      map[string]*model.ProvisionJob{},
		completed: map[string]model.ProvisionResult{},
	}
}

func (f *fakeJobStore) Create(_ context.Context, job *model.ProvisionJob) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.jobs[job.ID] = job
	f.lastStatus = job.Status
	return nil
}

func (f *fakeJobStore) MarkRunning(_ context.Context, id string) error {
	f.running = append(f.running, id)
	f.lastStatus = model.JobStatusRunning
	return nil
}

func (f *fakeJobStore) Complete(_ context.Context, id string, result model.ProvisionResult) error {
	f.completed[id] = result
	if result.Success {
		f.lastStatus = model.JobStatusCompleted
	} else {
		f.lastStatus = model.JobStatusFailed
	}
	return nil
}

func (f *fakeJobStore) GetByID(_ context.Context, id string) (*model.ProvisionJob, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	job, ok := f.jobs[id]
	if !ok {
		return nil, fmt.Errorf("get provision job %s: no rows", id)
	}
	return job, nil
}

func (f *fakeJobStore) ListByTenant(_ context.Context, tenantID string) ([]model.ProvisionJob, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var jobs []model.ProvisionJob
	for _, job := range f.jobs {
		if job.TenantID == tenantID {
			jobs = append(jobs, *job)
		}
	}
	return jobs, nil
}
