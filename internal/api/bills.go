package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/poliux/poliux/internal/service"
	"github.com/poliux/poliux/pkg/models"
)

// SearchBills: GET /v1/bills/search?q=HB123&limit=25
func (h *Handler) SearchBills(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "missing q parameter"})
		return
	}
	limit := parseInt(c.DefaultQuery("limit", "25"), 25)

	res, err := h.svc.SearchBills(c.Request.Context(), q, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{
			"query":       q,
			"search_type": res.Analysis.SearchType,
			"count":       len(res.Bills),
		},
		"data": res.Bills,
	})
}

// GetBill: GET /v1/bills/:id
func (h *Handler) GetBill(c *gin.Context) {
	bill, err := h.svc.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

type triggerAnalysisRequest struct {
	BillID string `json:"bill_id"`
	Force  bool   `json:"force,omitempty"`
}

// TriggerAnalysis: POST /v1/bills/analysis
// Returns 200 when a current analysis already exists, 202 after queueing a
// workflow run, 502 when the workflow rejects the request.
func (h *Handler) TriggerAnalysis(c *gin.Context) {
	var req triggerAnalysisRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid json: " + err.Error()})
		return
	}
	if req.BillID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "bill_id is required"})
		return
	}

	res, err := h.svc.TriggerAnalysis(c.Request.Context(), req.BillID, req.Force)
	if err != nil {
		if errors.Is(err, service.ErrWorkflow) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "workflow_error", "message": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if res.Status == service.AnalysisStatusQueued {
		status = http.StatusAccepted
	}
	c.JSON(status, res)
}

// TrackBill: POST /v1/bills/:id/track
func (h *Handler) TrackBill(c *gin.Context) {
	if err := h.svc.TrackBill(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// UntrackBill: DELETE /v1/bills/:id/track
func (h *Handler) UntrackBill(c *gin.Context) {
	if err := h.svc.UntrackBill(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TrackedBills: GET /v1/tracked-bills
func (h *Handler) TrackedBills(c *gin.Context) {
	bills, err := h.svc.TrackedBills(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"count": len(bills)},
		"data": bills,
	})
}

// GetPerson: GET /v1/people/:id
func (h *Handler) GetPerson(c *gin.Context) {
	person, err := h.svc.GetPerson(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, person)
}

// SearchPeople: GET /v1/people/search?q=smith&limit=25
func (h *Handler) SearchPeople(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "missing q parameter"})
		return
	}
	limit := parseInt(c.DefaultQuery("limit", "25"), 25)

	people, err := h.svc.SearchPeople(c.Request.Context(), q, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"query": q, "count": len(people)},
		"data": people,
	})
}

// IngestBills: POST /v1/bills/ingest
func (h *Handler) IngestBills(c *gin.Context) {
	var payload []*models.Bill
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid json: " + err.Error()})
		return
	}
	if err := h.svc.IngestBills(c.Request.Context(), payload); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"meta": gin.H{"imported": len(payload)}})
}

// IngestPeople: POST /v1/people/ingest
func (h *Handler) IngestPeople(c *gin.Context) {
	var payload []*models.Person
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid json: " + err.Error()})
		return
	}
	if err := h.svc.IngestPeople(c.Request.Context(), payload); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"meta": gin.H{"imported": len(payload)}})
}
