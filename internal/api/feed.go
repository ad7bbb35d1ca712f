package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/poliux/poliux/internal/ranking"
	"github.com/poliux/poliux/pkg/models"
)

// Newsfeed: GET /v1/newsfeed?limit=20&offset=0&maxPerDomain=2
// Optional bearer token adds the caller's own votes to each article.
func (h *Handler) Newsfeed(c *gin.Context) {
	p := ranking.Params{
		Limit:        parseInt(c.DefaultQuery("limit", "20"), ranking.DefaultLimit),
		Offset:       parseInt(c.DefaultQuery("offset", "0"), 0),
		MaxPerDomain: parseInt(c.DefaultQuery("maxPerDomain", "2"), ranking.DefaultMaxPerDomain),
	}

	res, err := h.svc.Newsfeed(c.Request.Context(), currentUser(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"articles":    res.Articles,
		"total_count": res.TotalCount,
		"has_more":    res.HasMore,
	})
}

type castVoteRequest struct {
	ArticleID string `json:"article_id"`
	VoteType  string `json:"vote_type"`
}

// CastVote: POST /v1/votes
// Body: {"article_id": "...", "vote_type": "up"|"down"}
func (h *Handler) CastVote(c *gin.Context) {
	var req castVoteRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid json: " + err.Error()})
		return
	}
	if req.ArticleID == "" || req.VoteType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "article_id and vote_type are required"})
		return
	}

	res, err := h.svc.CastVote(c.Request.Context(), currentUser(c), req.ArticleID, req.VoteType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"vote_counts": res.VoteCounts,
		"user_vote":   res.UserVote,
	})
}

type recordEventRequest struct {
	EventType string         `json:"event_type"`
	ArticleID *string        `json:"article_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// RecordEvent: POST /v1/analytics/events
// Anonymous events are permitted; the bearer token is optional.
func (h *Handler) RecordEvent(c *gin.Context) {
	var req recordEventRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid json: " + err.Error()})
		return
	}
	if req.EventType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "event_type is required"})
		return
	}

	var userID *string
	if uid := currentUser(c); uid != "" {
		userID = &uid
	}

	event, err := h.svc.RecordEvent(c.Request.Context(), userID, req.EventType, req.ArticleID, req.Metadata)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"event_type":  event.EventType,
		"recorded_at": event.CreatedAt,
	})
}

type submitReportRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SubmitReport: POST /v1/reports
func (h *Handler) SubmitReport(c *gin.Context) {
	var req submitReportRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid json: " + err.Error()})
		return
	}

	report, err := h.svc.SubmitReport(c.Request.Context(), currentUser(c), req.Subject, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "report_id": report.ID})
}

// IngestArticles: POST /v1/articles/ingest
// Body: JSON array of articles (used by the feed collector and backfills).
func (h *Handler) IngestArticles(c *gin.Context) {
	var payload []*models.Article
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid json: " + err.Error()})
		return
	}
	if err := h.svc.IngestArticles(c.Request.Context(), payload); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"meta": gin.H{"imported": len(payload)},
	})
}
