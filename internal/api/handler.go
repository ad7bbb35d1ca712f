package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/poliux/poliux/internal/auth"
	"github.com/poliux/poliux/internal/service"
	"github.com/poliux/poliux/internal/store"
)

const userIDKey = "userID"

type Handler struct {
	svc         *service.Service
	tokenSecret string
}

func NewHandler(svc *service.Service, tokenSecret string) *Handler {
	return &Handler{svc: svc, tokenSecret: tokenSecret}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	v1 := r.Group("/v1")
	{
		v1.GET("/newsfeed", h.optionalAuth(), h.Newsfeed)
		v1.POST("/votes", h.requireAuth(), h.CastVote)
		v1.POST("/analytics/events", h.optionalAuth(), h.RecordEvent)
		v1.POST("/reports", h.requireAuth(), h.SubmitReport)

		v1.POST("/articles/ingest", h.IngestArticles)
		v1.POST("/bills/ingest", h.IngestBills)
		v1.POST("/people/ingest", h.IngestPeople)

		v1.GET("/bills/search", h.SearchBills)
		v1.POST("/bills/analysis", h.TriggerAnalysis)
		v1.GET("/bills/:id", h.GetBill)
		v1.POST("/bills/:id/track", h.requireAuth(), h.TrackBill)
		v1.DELETE("/bills/:id/track", h.requireAuth(), h.UntrackBill)
		v1.GET("/tracked-bills", h.requireAuth(), h.TrackedBills)

		v1.GET("/people/search", h.SearchPeople)
		v1.GET("/people/:id", h.GetPerson)

		campaigns := v1.Group("/campaigns", h.requireAuth())
		{
			campaigns.POST("", h.CreateCampaign)
			campaigns.GET("", h.ListCampaigns)
			campaigns.GET("/:id", h.GetCampaign)
			campaigns.PATCH("/:id", h.UpdateCampaign)
			campaigns.DELETE("/:id", h.DeleteCampaign)

			campaigns.GET("/:id/bills", h.ListCampaignBills)
			campaigns.POST("/:id/bills", h.AddCampaignBill)
			campaigns.DELETE("/:id/bills/:billID", h.RemoveCampaignBill)

			campaigns.GET("/:id/legislators", h.ListCampaignLegislators)
			campaigns.POST("/:id/legislators", h.AddCampaignLegislator)
			campaigns.DELETE("/:id/legislators/:personID", h.RemoveCampaignLegislator)

			campaigns.GET("/:id/documents", h.ListCampaignDocuments)
			campaigns.POST("/:id/documents", h.AddCampaignDocument)
			campaigns.DELETE("/:id/documents/:docID", h.DeleteCampaignDocument)

			campaigns.GET("/:id/notes", h.ListCampaignNotes)
			campaigns.POST("/:id/notes", h.AddCampaignNote)
			campaigns.PATCH("/:id/notes/:noteID", h.UpdateCampaignNote)
			campaigns.DELETE("/:id/notes/:noteID", h.DeleteCampaignNote)
		}
	}
}

// requireAuth rejects requests without a valid bearer token and stashes the
// acting user ID in the request context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "missing bearer token"})
			return
		}
		userID, err := auth.VerifyToken(token, h.tokenSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "invalid bearer token"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// optionalAuth resolves a bearer token when one is present; anonymous and
// unverifiable callers just proceed without an identity.
func (h *Handler) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := auth.BearerToken(c.GetHeader("Authorization")); token != "" {
			if userID, err := auth.VerifyToken(token, h.tokenSecret); err == nil {
				c.Set(userIDKey, userID)
			}
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	case errors.Is(err, store.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already_exists", "message": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": err.Error()})
	case errors.Is(err, service.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": err.Error()})
	}
}

// parseInt reads an integer query parameter; malformed input falls back to
// the default and range clamping happens downstream.
func parseInt(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
