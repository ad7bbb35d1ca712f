package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	dbtypes "github.com/poliux/poliux/internal/db"
	"github.com/poliux/poliux/internal/ranking"
	"github.com/poliux/poliux/pkg/models"
)

const voteCacheTTL = 60 * time.Second

// NewsfeedResult is one ranked page plus the size of the full ranked order.
type NewsfeedResult struct {
	Articles   []*models.Article `json:"articles"`
	TotalCount int               `json:"total_count"`
	HasMore    bool              `json:"has_more"`
}

// Newsfeed runs the ranking pipeline over the last week of articles and
// returns the requested page, enriched with vote tallies and, for
// authenticated callers, the caller's own vote. userID is "" for anonymous
// loads.
func (s *Service) Newsfeed(ctx context.Context, userID string, p ranking.Params) (*NewsfeedResult, error) {
	now := time.Now().UTC()
	p = p.Clamped()

	candidates, err := s.repo.RecentArticles(now.Add(-ranking.RetentionWindow), ranking.CandidateCap)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	page, total := ranking.Rank(candidates, now, p, s.newRand())

	if err := s.enrichVotes(ctx, userID, page); err != nil {
		return nil, fmt.Errorf("enrich votes: %w", err)
	}

	res := &NewsfeedResult{
		Articles:   page,
		TotalCount: total,
		HasMore:    p.Offset+len(page) < total,
	}

	// Best effort only: a lost analytics row never fails a feed load.
	if userID != "" {
		s.recordEvent(&models.AnalyticsEvent{
			UserID:    &userID,
			EventType: models.EventNewsfeedLoad,
			Metadata: dbtypes.JSONMap{
				"article_count":  len(page),
				"limit":          p.Limit,
				"offset":         p.Offset,
				"max_per_domain": p.MaxPerDomain,
			},
		})
	}

	return res, nil
}

// enrichVotes attaches vote tallies (cache-first) and the caller's own vote
// to every article in the page.
func (s *Service) enrichVotes(ctx context.Context, userID string, page []*models.Article) error {
	if len(page) == 0 {
		return nil
	}

	ids := make([]string, len(page))
	for i, a := range page {
		ids[i] = a.ID
	}

	counts, misses := s.cachedCounts(ctx, ids)
	if len(misses) > 0 {
		fresh, err := s.repo.VoteCountsFor(misses)
		if err != nil {
			return err
		}
		for _, id := range misses {
			c := fresh[id] // zero counts for unvoted articles
			counts[id] = c
			s.cacheCounts(ctx, id, c)
		}
	}

	var userVotes map[string]string
	if userID != "" {
		var err error
		userVotes, err = s.repo.UserVotes(userID, ids)
		if err != nil {
			return err
		}
	}

	for _, a := range page {
		c := counts[a.ID]
		a.VoteCounts = &models.VoteCounts{Up: c.Up, Down: c.Down}
		if v, ok := userVotes[a.ID]; ok {
			vote := v
			a.UserVote = &vote
		}
	}
	return nil
}

func voteKey(articleID string) string {
	return "votes:" + articleID
}

// cachedCounts reads vote tallies from Redis, returning hits and the IDs
// that need a database read. Redis being down degrades to all-misses.
func (s *Service) cachedCounts(ctx context.Context, ids []string) (map[string]models.VoteCounts, []string) {
	counts := map[string]models.VoteCounts{}
	if s.rdb == nil {
		return counts, ids
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = voteKey(id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		slog.Warn("vote cache read failed", "error", err)
		return counts, ids
	}

	misses := []string{}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			misses = append(misses, ids[i])
			continue
		}
		var c models.VoteCounts
		if err := json.Unmarshal([]byte(str), &c); err != nil {
			misses = append(misses, ids[i])
			continue
		}
		counts[ids[i]] = c
	}
	return counts, misses
}

func (s *Service) cacheCounts(ctx context.Context, articleID string, c models.VoteCounts) {
	if s.rdb == nil {
		return
	}
	b, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, voteKey(articleID), b, voteCacheTTL).Err(); err != nil {
		slog.Warn("vote cache write failed", "article_id", articleID, "error", err)
	}
}

func (s *Service) invalidateCounts(ctx context.Context, articleID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, voteKey(articleID)).Err(); err != nil {
		slog.Warn("vote cache invalidate failed", "article_id", articleID, "error", err)
	}
}

// recordEvent is fire-and-forget analytics: errors are logged, never
// returned, never retried.
func (s *Service) recordEvent(e *models.AnalyticsEvent) {
	if err := s.repo.InsertEvent(e); err != nil {
		slog.Warn("analytics insert failed", "event_type", e.EventType, "error", err)
	}
}

// IngestArticles stores collected articles, filling defaults the way feeds
// tend to leave them missing.
func (s *Service) IngestArticles(ctx context.Context, articles []*models.Article) error {
	for _, a := range articles {
		if a.PublishedAt.IsZero() {
			a.PublishedAt = time.Now().UTC()
		}
		if a.SourceDomain == "" {
			a.SourceDomain = DomainOf(a.Link)
		}
	}
	return s.repo.SaveArticles(articles)
}

// PruneArticles drops articles older than the cutoff. Run on a schedule;
// ranked output already ignores them via the zero weight bucket.
func (s *Service) PruneArticles(ctx context.Context, before time.Time) (int64, error) {
	return s.repo.PruneArticles(before)
}

// DomainOf extracts the bare host of a link for the diversification filter,
// dropping any leading "www.".
func DomainOf(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
