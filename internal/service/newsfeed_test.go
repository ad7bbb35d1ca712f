package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poliux/poliux/internal/ranking"
	"github.com/poliux/poliux/pkg/models"
)

type feedStore struct {
	stubStore

	articles       []*models.Article
	counts         map[string]models.VoteCounts
	userVotes      map[string]string
	events         []*models.AnalyticsEvent
	insertEventErr error
}

func (s *feedStore) RecentArticles(since time.Time, limit int) ([]*models.Article, error) {
	out := []*models.Article{}
	for _, a := range s.articles {
		if !a.PublishedAt.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *feedStore) VoteCountsFor(ids []string) (map[string]models.VoteCounts, error) {
	out := map[string]models.VoteCounts{}
	for _, id := range ids {
		if c, ok := s.counts[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (s *feedStore) UserVotes(userID string, ids []string) (map[string]string, error) {
	return s.userVotes, nil
}

func (s *feedStore) InsertEvent(e *models.AnalyticsEvent) error {
	if s.insertEventErr != nil {
		return s.insertEventErr
	}
	s.events = append(s.events, e)
	return nil
}

func feedArticle(id, domain string, age time.Duration) *models.Article {
	return &models.Article{
		ID:           id,
		Title:        "article " + id,
		SourceDomain: domain,
		PublishedAt:  time.Now().UTC().Add(-age),
	}
}

func TestNewsfeedRanksAndEnriches(t *testing.T) {
	repo := &feedStore{
		articles: []*models.Article{
			feedArticle("fresh1", "alpha.com", time.Hour),
			feedArticle("fresh2", "alpha.com", 2*time.Hour),
			feedArticle("stale", "alpha.com", 200*time.Hour),
		},
		counts:    map[string]models.VoteCounts{"fresh1": {Up: 3, Down: 1}},
		userVotes: map[string]string{"fresh1": models.VoteUp},
	}
	svc := seededService(repo, nil)

	res, err := svc.Newsfeed(context.Background(), "user-1", ranking.Params{MaxPerDomain: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, res.TotalCount)
	assert.False(t, res.HasMore)
	require.Len(t, res.Articles, 2)

	for _, a := range res.Articles {
		assert.NotEqual(t, "stale", a.ID, "retention window must exclude week-old articles")
		require.NotNil(t, a.VoteCounts)
		if a.ID == "fresh1" {
			assert.Equal(t, 3, a.VoteCounts.Up)
			assert.Equal(t, 1, a.VoteCounts.Down)
			require.NotNil(t, a.UserVote)
			assert.Equal(t, models.VoteUp, *a.UserVote)
		} else {
			assert.Equal(t, 0, a.VoteCounts.Up)
			assert.Nil(t, a.UserVote)
		}
	}

	// one newsfeed_load event for the authenticated caller
	require.Len(t, repo.events, 1)
	assert.Equal(t, models.EventNewsfeedLoad, repo.events[0].EventType)
	require.NotNil(t, repo.events[0].UserID)
	assert.Equal(t, "user-1", *repo.events[0].UserID)
}

func TestNewsfeedAnonymous(t *testing.T) {
	repo := &feedStore{
		articles: []*models.Article{feedArticle("a", "alpha.com", time.Hour)},
	}
	svc := seededService(repo, nil)

	res, err := svc.Newsfeed(context.Background(), "", ranking.Params{})
	require.NoError(t, err)

	require.Len(t, res.Articles, 1)
	assert.Nil(t, res.Articles[0].UserVote)
	assert.Empty(t, repo.events, "anonymous loads record no analytics")
}

func TestNewsfeedAnalyticsFailureDoesNotFailLoad(t *testing.T) {
	repo := &feedStore{
		articles:       []*models.Article{feedArticle("a", "alpha.com", time.Hour)},
		insertEventErr: errors.New("analytics table on fire"),
	}
	svc := seededService(repo, nil)

	res, err := svc.Newsfeed(context.Background(), "user-1", ranking.Params{})
	require.NoError(t, err)
	assert.Len(t, res.Articles, 1)
}

func TestNewsfeedPaginationHasMore(t *testing.T) {
	repo := &feedStore{}
	for i := 0; i < 30; i++ {
		repo.articles = append(repo.articles,
			feedArticle(fmt.Sprintf("a%d", i), fmt.Sprintf("d%d.com", i), time.Hour))
	}
	svc := seededService(repo, nil)

	res, err := svc.Newsfeed(context.Background(), "", ranking.Params{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 30, res.TotalCount)
	assert.Len(t, res.Articles, 20)
	assert.True(t, res.HasMore)

	last, err := svc.Newsfeed(context.Background(), "", ranking.Params{Limit: 20, Offset: 20})
	require.NoError(t, err)
	assert.Len(t, last.Articles, 10)
	assert.False(t, last.HasMore)
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "example.com", DomainOf("https://www.example.com/a/b?c=d"))
	assert.Equal(t, "news.example.org", DomainOf("http://news.example.org/item"))
	assert.Equal(t, "", DomainOf("not a url"))
}
