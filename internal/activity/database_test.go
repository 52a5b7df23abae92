package activity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draggonnb/provisioner/internal/supabase"
)

func supabaseActivities(t *testing.T, handler http.HandlerFunc) *Supabase {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := supabase.NewClient(srv.URL, "test-token")
	return NewSupabase(client, "org-1", "af-south-1", "pro")
}

func TestCheckDatabaseReady_NotReadyIsRetryable(t *testing.T) {
	a := supabaseActivities(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"id": "proj-1", "status": "COMING_UP",
		})
	})

	_, err := a.CheckDatabaseReady(context.Background(), "proj-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not ready yet")
	assert.Contains(t, err.Error(), "COMING_UP")
}

func TestCheckDatabaseReady_Healthy(t *testing.T) {
	a := supabaseActivities(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"id": "proj-1", "ref": "abcd1234", "status": supabase.StatusReady,
		})
	})

	project, err := a.CheckDatabaseReady(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Equal(t, "abcd1234", project.Ref)
}

func TestCreateDatabaseProject_GeneratesPassword(t *testing.T) {
	a := supabaseActivities(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "client-acme-1-prod", body["name"])
		assert.NotEmpty(t, body["db_pass"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "proj-1", "ref": "abcd1234"})
	})

	created, err := a.CreateDatabaseProject(context.Background(), CreateDatabaseProjectParams{Name: "client-acme-1-prod"})
	require.NoError(t, err)
	assert.Equal(t, "proj-1", created.Project.ID)
	assert.NotEmpty(t, created.DBPass)
}

func TestFindDatabaseProject_AbsentIsNil(t *testing.T) {
	a := supabaseActivities(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{})
	})

	project, err := a.FindDatabaseProject(context.Background(), "client-acme-1-prod")
	require.NoError(t, err)
	assert.Nil(t, project)
}
