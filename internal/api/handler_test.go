package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poliux/poliux/internal/auth"
	"github.com/poliux/poliux/internal/service"
	"github.com/poliux/poliux/internal/store"
	"github.com/poliux/poliux/internal/webhook"
	"github.com/poliux/poliux/pkg/models"
)

const testSecret = "test-secret"

// apiStore embeds service.Store; tests override just the methods a route
// reaches.
type apiStore struct {
	service.Store

	articles map[string]*models.Article
	bills    map[string]*models.Bill
	analyses map[string]*models.BillAnalysis
	votes    map[string]map[string]string
	events   []*models.AnalyticsEvent
}

func newAPIStore() *apiStore {
	return &apiStore{
		articles: map[string]*models.Article{},
		bills:    map[string]*models.Bill{},
		analyses: map[string]*models.BillAnalysis{},
		votes:    map[string]map[string]string{},
	}
}

func (s *apiStore) RecentArticles(since time.Time, limit int) ([]*models.Article, error) {
	out := []*models.Article{}
	for _, a := range s.articles {
		if !a.PublishedAt.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *apiStore) GetArticle(id string) (*models.Article, error) {
	a, ok := s.articles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return a, nil
}

func (s *apiStore) VoteCountsFor(ids []string) (map[string]models.VoteCounts, error) {
	return map[string]models.VoteCounts{}, nil
}

func (s *apiStore) UserVotes(userID string, ids []string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (s *apiStore) UpsertVote(articleID, userID, voteType string) error {
	if s.votes[articleID] == nil {
		s.votes[articleID] = map[string]string{}
	}
	s.votes[articleID][userID] = voteType
	return nil
}

func (s *apiStore) VoteCounts(articleID string) (models.VoteCounts, error) {
	c := models.VoteCounts{}
	for _, direction := range s.votes[articleID] {
		if direction == models.VoteUp {
			c.Up++
		} else {
			c.Down++
		}
	}
	return c, nil
}

func (s *apiStore) GetBill(id string) (*models.Bill, error) {
	b, ok := s.bills[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return b, nil
}

func (s *apiStore) LatestAnalysis(billID string) (*models.BillAnalysis, error) {
	a, ok := s.analyses[billID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return a, nil
}

func (s *apiStore) InsertEvent(e *models.AnalyticsEvent) error {
	s.events = append(s.events, e)
	return nil
}

type apiWorkflow struct {
	err error
}

func (w *apiWorkflow) TriggerAnalysis(_ context.Context, _ webhook.AnalysisRequest) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	return "run-1", nil
}

func newTestRouter(repo *apiStore, wf service.Workflow) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewService(repo, nil, wf, nil)
	r := gin.New()
	RegisterRoutes(r, NewHandler(svc, testSecret))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNewsfeedEndpoint(t *testing.T) {
	repo := newAPIStore()
	repo.articles["a1"] = &models.Article{ID: "a1", Title: "t", SourceDomain: "alpha.com", PublishedAt: time.Now().UTC().Add(-time.Hour)}
	r := newTestRouter(repo, nil)

	w := doJSON(t, r, http.MethodGet, "/v1/newsfeed?limit=20&offset=0", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Articles   []models.Article `json:"articles"`
		TotalCount int              `json:"total_count"`
		HasMore    bool             `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalCount)
	require.Len(t, resp.Articles, 1)
	assert.NotNil(t, resp.Articles[0].VoteCounts)
	assert.False(t, resp.HasMore)
}

func TestCastVoteEndpoint(t *testing.T) {
	repo := newAPIStore()
	repo.articles["a1"] = &models.Article{ID: "a1", PublishedAt: time.Now().UTC()}
	r := newTestRouter(repo, nil)
	token := auth.MintToken("user-1", testSecret)

	t.Run("requires auth", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/v1/votes", "", map[string]string{"article_id": "a1", "vote_type": "up"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects bad token", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/v1/votes", "garbage.token", map[string]string{"article_id": "a1", "vote_type": "up"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/v1/votes", token, map[string]string{"article_id": "a1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid direction", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/v1/votes", token, map[string]string{"article_id": "a1", "vote_type": "sideways"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown article", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/v1/votes", token, map[string]string{"article_id": "nope", "vote_type": "up"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/v1/votes", token, map[string]string{"article_id": "a1", "vote_type": "up"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success    bool              `json:"success"`
			VoteCounts models.VoteCounts `json:"vote_counts"`
			UserVote   string            `json:"user_vote"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 1, resp.VoteCounts.Up)
		assert.Equal(t, "up", resp.UserVote)
	})
}

func TestAnalyticsEndpoint(t *testing.T) {
	repo := newAPIStore()
	r := newTestRouter(repo, nil)

	t.Run("rejects unknown event type", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/v1/analytics/events", "", map[string]any{"event_type": "nonsense"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("anonymous event accepted", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/v1/analytics/events", "", map[string]any{
			"event_type": models.EventBillSearch,
			"metadata":   map[string]any{"query": "HB123"},
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success    bool      `json:"success"`
			EventType  string    `json:"event_type"`
			RecordedAt time.Time `json:"recorded_at"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, models.EventBillSearch, resp.EventType)
		assert.False(t, resp.RecordedAt.IsZero())

		require.Len(t, repo.events, 1)
		assert.Nil(t, repo.events[0].UserID)
	})
}

func TestTriggerAnalysisEndpoint(t *testing.T) {
	repo := newAPIStore()
	lastAction := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	repo.bills["b1"] = &models.Bill{ID: "b1", BillNumber: "HB123", LastActionDate: &lastAction}

	t.Run("missing bill_id", func(t *testing.T) {
		r := newTestRouter(repo, &apiWorkflow{})
		w := doJSON(t, r, http.MethodPost, "/v1/bills/analysis", "", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown bill", func(t *testing.T) {
		r := newTestRouter(repo, &apiWorkflow{})
		w := doJSON(t, r, http.MethodPost, "/v1/bills/analysis", "", map[string]any{"bill_id": "nope"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("current analysis short-circuits", func(t *testing.T) {
		repo.analyses["b1"] = &models.BillAnalysis{ID: "an-1", BillID: "b1", GeneratedAt: lastAction.Add(2 * time.Hour)}
		r := newTestRouter(repo, &apiWorkflow{})
		w := doJSON(t, r, http.MethodPost, "/v1/bills/analysis", "", map[string]any{"bill_id": "b1"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"current"`)
		delete(repo.analyses, "b1")
	})

	t.Run("queued", func(t *testing.T) {
		r := newTestRouter(repo, &apiWorkflow{})
		w := doJSON(t, r, http.MethodPost, "/v1/bills/analysis", "", map[string]any{"bill_id": "b1", "force": true})
		require.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), `"queued"`)
	})

	t.Run("workflow failure is a bad gateway", func(t *testing.T) {
		r := newTestRouter(repo, &apiWorkflow{err: errors.New("connection refused")})
		w := doJSON(t, r, http.MethodPost, "/v1/bills/analysis", "", map[string]any{"bill_id": "b1", "force": true})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
