package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerAnalysis(t *testing.T) {
	var got AnalysisRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer shh", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"run_id":"run-7"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "shh", srv.Client())
	runID, err := c.TriggerAnalysis(context.Background(), AnalysisRequest{
		BillID:     "b1",
		BillNumber: "HB123",
		Title:      "Water Act",
	})
	require.NoError(t, err)
	assert.Equal(t, "run-7", runID)
	assert.Equal(t, "b1", got.BillID)
	assert.Equal(t, "HB123", got.BillNumber)
}

func TestTriggerAnalysisRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", srv.Client())
	_, err := c.TriggerAnalysis(context.Background(), AnalysisRequest{BillID: "b1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=503")
}

func TestTriggerAnalysisNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", srv.Client())
	runID, err := c.TriggerAnalysis(context.Background(), AnalysisRequest{BillID: "b1"})
	require.NoError(t, err)
	assert.Empty(t, runID)
}
