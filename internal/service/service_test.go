package service

import (
	"context"
	"math/rand"

	"github.com/poliux/poliux/internal/webhook"
)

// stubStore embeds the Store interface so per-test stores override only the
// methods their path touches; anything unexpected panics loudly.
type stubStore struct {
	Store
}

// stubWorkflow records trigger calls and returns a canned result.
type stubWorkflow struct {
	runID string
	err   error
	calls []webhook.AnalysisRequest
}

func (w *stubWorkflow) TriggerAnalysis(_ context.Context, req webhook.AnalysisRequest) (string, error) {
	w.calls = append(w.calls, req)
	if w.err != nil {
		return "", w.err
	}
	return w.runID, nil
}

// seededService builds a Service over the given store with a fixed random
// source and no cache.
func seededService(repo Store, wf Workflow) *Service {
	return NewService(repo, nil, wf, func() *rand.Rand {
		return rand.New(rand.NewSource(1))
	})
}
