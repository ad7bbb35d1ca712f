package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poliux/poliux/internal/store"
	"github.com/poliux/poliux/pkg/models"
)

type voteStore struct {
	stubStore

	articles map[string]*models.Article
	// votes[articleID][userID] = direction
	votes  map[string]map[string]string
	events []*models.AnalyticsEvent
}

func newVoteStore(articleIDs ...string) *voteStore {
	s := &voteStore{
		articles: map[string]*models.Article{},
		votes:    map[string]map[string]string{},
	}
	for _, id := range articleIDs {
		s.articles[id] = &models.Article{ID: id}
	}
	return s
}

func (s *voteStore) GetArticle(id string) (*models.Article, error) {
	a, ok := s.articles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return a, nil
}

func (s *voteStore) UpsertVote(articleID, userID, voteType string) error {
	if s.votes[articleID] == nil {
		s.votes[articleID] = map[string]string{}
	}
	s.votes[articleID][userID] = voteType
	return nil
}

func (s *voteStore) VoteCounts(articleID string) (models.VoteCounts, error) {
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

func (s *voteStore) InsertEvent(e *models.AnalyticsEvent) error {
	s.events = append(s.events, e)
	return nil
}

func (s *voteStore) InsertReport(r *models.Report) error {
	r.ID = "report-1"
	return nil
}

func TestCastVoteReplacesPrior(t *testing.T) {
	repo := newVoteStore("art-1")
	svc := seededService(repo, nil)

	first, err := svc.CastVote(context.Background(), "user-1", "art-1", "up")
	require.NoError(t, err)
	assert.Equal(t, models.VoteCounts{Up: 1, Down: 0}, first.VoteCounts)
	assert.Equal(t, models.VoteUp, first.UserVote)

	// same user flips the vote: exactly one stored row, latest direction wins
	second, err := svc.CastVote(context.Background(), "user-1", "art-1", "down")
	require.NoError(t, err)
	assert.Equal(t, models.VoteCounts{Up: 0, Down: 1}, second.VoteCounts)
	assert.Equal(t, models.VoteDown, second.UserVote)
	assert.Len(t, repo.votes["art-1"], 1)
}

func TestCastVoteValidation(t *testing.T) {
	repo := newVoteStore("art-1")
	svc := seededService(repo, nil)

	_, err := svc.CastVote(context.Background(), "user-1", "art-1", "sideways")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.CastVote(context.Background(), "user-1", "missing", "up")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, repo.votes["missing"], "nothing may be written before the not-found check")
}

func TestCastVoteRecordsAnalytics(t *testing.T) {
	repo := newVoteStore("art-1")
	svc := seededService(repo, nil)

	_, err := svc.CastVote(context.Background(), "user-1", "art-1", "UP")
	require.NoError(t, err)

	require.Len(t, repo.events, 1)
	assert.Equal(t, models.EventArticleVote, repo.events[0].EventType)
}

func TestRecordEventValidation(t *testing.T) {
	repo := newVoteStore("art-1")
	svc := seededService(repo, nil)

	_, err := svc.RecordEvent(context.Background(), nil, "made_up_event", nil, nil)
	assert.ErrorIs(t, err, ErrInvalid)

	missing := "missing"
	_, err = svc.RecordEvent(context.Background(), nil, models.EventArticleClick, &missing, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)

	artID := "art-1"
	e, err := svc.RecordEvent(context.Background(), nil, models.EventArticleClick, &artID, map[string]any{"position": 3})
	require.NoError(t, err)
	assert.Nil(t, e.UserID, "anonymous events are permitted")
	assert.Equal(t, models.EventArticleClick, e.EventType)
}

func TestSubmitReportValidation(t *testing.T) {
	repo := newVoteStore()
	svc := seededService(repo, nil)

	_, err := svc.SubmitReport(context.Background(), "user-1", "  ", "body")
	assert.ErrorIs(t, err, ErrInvalid)

	r, err := svc.SubmitReport(context.Background(), "user-1", "broken link", "the article link 404s")
	require.NoError(t, err)
	assert.Equal(t, "report-1", r.ID)
	assert.Equal(t, "user-1", r.UserID)
}
