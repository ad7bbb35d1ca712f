package service

import (
	"context"
	"fmt"
	"strings"

	dbtypes "github.com/poliux/poliux/internal/db"
	"github.com/poliux/poliux/pkg/models"
)

// VoteResult is the state of one article's votes after a cast.
type VoteResult struct {
	VoteCounts models.VoteCounts `json:"vote_counts"`
	UserVote   string            `json:"user_vote"`
}

// CastVote upserts the caller's vote on an article. The article must exist
// before anything is written; a repeat vote with a different direction
// replaces the earlier one.
func (s *Service) CastVote(ctx context.Context, userID, articleID, voteType string) (*VoteResult, error) {
	voteType = strings.ToLower(strings.TrimSpace(voteType))
	if voteType != models.VoteUp && voteType != models.VoteDown {
		return nil, fmt.Errorf("%w: vote_type must be up or down", ErrInvalid)
	}

	if _, err := s.repo.GetArticle(articleID); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertVote(articleID, userID, voteType); err != nil {
		return nil, fmt.Errorf("upsert vote: %w", err)
	}
	s.invalidateCounts(ctx, articleID)

	counts, err := s.repo.VoteCounts(articleID)
	if err != nil {
		return nil, fmt.Errorf("vote counts: %w", err)
	}
	s.cacheCounts(ctx, articleID, counts)

	s.recordEvent(&models.AnalyticsEvent{
		UserID:    &userID,
		EventType: models.EventArticleVote,
		ArticleID: &articleID,
		Metadata:  dbtypes.JSONMap{"vote_type": voteType},
	})

	return &VoteResult{VoteCounts: counts, UserVote: voteType}, nil
}

// RecordEvent validates and stores one analytics event. userID is nil for
// anonymous callers; a referenced article must exist.
func (s *Service) RecordEvent(ctx context.Context, userID *string, eventType string, articleID *string, metadata map[string]any) (*models.AnalyticsEvent, error) {
	if !models.ValidEventType(eventType) {
		return nil, fmt.Errorf("%w: unknown event_type %q", ErrInvalid, eventType)
	}
	if articleID != nil {
		if _, err := s.repo.GetArticle(*articleID); err != nil {
			return nil, err
		}
	}

	e := &models.AnalyticsEvent{
		UserID:    userID,
		EventType: eventType,
		ArticleID: articleID,
		Metadata:  dbtypes.JSONMap(metadata),
	}
	if err := s.repo.InsertEvent(e); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

// SubmitReport files a problem report from a signed-in user.
func (s *Service) SubmitReport(ctx context.Context, userID, subject, body string) (*models.Report, error) {
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	if subject == "" || body == "" {
		return nil, fmt.Errorf("%w: subject and body are required", ErrInvalid)
	}

	r := &models.Report{UserID: userID, Subject: subject, Body: body}
	if err := s.repo.InsertReport(r); err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}

	s.recordEvent(&models.AnalyticsEvent{
		UserID:    &userID,
		EventType: models.EventReportSubmit,
	})
	return r, nil
}
