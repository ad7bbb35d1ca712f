package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type campaignRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCampaign: POST /v1/campaigns
func (h *Handler) CreateCampaign(c *gin.Context) {
	var req campaignRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid json: " + err.Error()})
		return
	}

	campaign, err := h.svc.CreateCampaign(c.Request.Context(), currentUser(c), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

// ListCampaigns: GET /v1/campaigns
func (h *Handler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.svc.ListCampaigns(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"count": len(campaigns)},
		"data": campaigns,
	})
}

// GetCampaign: GET /v1/campaigns/:id
func (h *Handler) GetCampaign(c *gin.Context) {
	campaign, err := h.svc.GetCampaign(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// UpdateCampaign: PATCH /v1/campaigns/:id
func (h *Handler) UpdateCampaign(c *gin.Context) {
	var req campaignRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid json: " + err.Error()})
		return
	}
	if err := h.svc.UpdateCampaign(c.Request.Context(), currentUser(c), c.Param("id"), req.Name, req.Description); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteCampaign: DELETE /v1/campaigns/:id
func (h *Handler) DeleteCampaign(c *gin.Context) {
	if err := h.svc.DeleteCampaign(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type memberRequest struct {
	BillID   string `json:"bill_id,omitempty"`
	PersonID string `json:"person_id,omitempty"`
}

// AddCampaignBill: POST /v1/campaigns/:id/bills
func (h *Handler) AddCampaignBill(c *gin.Context) {
	var req memberRequest
	if err := c.BindJSON(&req); err != nil || req.BillID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "bill_id is required"})
		return
	}
	if err := h.svc.AddCampaignBill(c.Request.Context(), currentUser(c), c.Param("id"), req.BillID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// RemoveCampaignBill: DELETE /v1/campaigns/:id/bills/:billID
func (h *Handler) RemoveCampaignBill(c *gin.Context) {
	if err := h.svc.RemoveCampaignBill(c.Request.Context(), currentUser(c), c.Param("id"), c.Param("billID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListCampaignBills: GET /v1/campaigns/:id/bills
func (h *Handler) ListCampaignBills(c *gin.Context) {
	bills, err := h.svc.ListCampaignBills(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"count": len(bills)},
		"data": bills,
	})
}

// AddCampaignLegislator: POST /v1/campaigns/:id/legislators
func (h *Handler) AddCampaignLegislator(c *gin.Context) {
	var req memberRequest
	if err := c.BindJSON(&req); err != nil || req.PersonID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "person_id is required"})
		return
	}
	if err := h.svc.AddCampaignLegislator(c.Request.Context(), currentUser(c), c.Param("id"), req.PersonID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// RemoveCampaignLegislator: DELETE /v1/campaigns/:id/legislators/:personID
func (h *Handler) RemoveCampaignLegislator(c *gin.Context) {
	if err := h.svc.RemoveCampaignLegislator(c.Request.Context(), currentUser(c), c.Param("id"), c.Param("personID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListCampaignLegislators: GET /v1/campaigns/:id/legislators
func (h *Handler) ListCampaignLegislators(c *gin.Context) {
	people, err := h.svc.ListCampaignLegislators(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"count": len(people)},
		"data": people,
	})
}

type documentRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// AddCampaignDocument: POST /v1/campaigns/:id/documents
func (h *Handler) AddCampaignDocument(c *gin.Context) {
	var req documentRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid json: " + err.Error()})
		return
	}
	doc, err := h.svc.AddCampaignDocument(c.Request.Context(), currentUser(c), c.Param("id"), req.Title, req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// ListCampaignDocuments: GET /v1/campaigns/:id/documents
func (h *Handler) ListCampaignDocuments(c *gin.Context) {
	docs, err := h.svc.ListCampaignDocuments(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"count": len(docs)},
		"data": docs,
	})
}

// DeleteCampaignDocument: DELETE /v1/campaigns/:id/documents/:docID
func (h *Handler) DeleteCampaignDocument(c *gin.Context) {
	if err := h.svc.DeleteCampaignDocument(c.Request.Context(), currentUser(c), c.Param("id"), c.Param("docID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type noteRequest struct {
	Body string `json:"body"`
}

// AddCampaignNote: POST /v1/campaigns/:id/notes
func (h *Handler) AddCampaignNote(c *gin.Context) {
	var req noteRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid json: " + err.Error()})
		return
	}
	note, err := h.svc.AddCampaignNote(c.Request.Context(), currentUser(c), c.Param("id"), req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// ListCampaignNotes: GET /v1/campaigns/:id/notes
func (h *Handler) ListCampaignNotes(c *gin.Context) {
	notes, err := h.svc.ListCampaignNotes(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"count": len(notes)},
		"data": notes,
	})
}

// UpdateCampaignNote: PATCH /v1/campaigns/:id/notes/:noteID
func (h *Handler) UpdateCampaignNote(c *gin.Context) {
	var req noteRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid json: " + err.Error()})
		return
	}
	if err := h.svc.UpdateCampaignNote(c.Request.Context(), currentUser(c), c.Param("id"), c.Param("noteID"), req.Body); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteCampaignNote: DELETE /v1/campaigns/:id/notes/:noteID
func (h *Handler) DeleteCampaignNote(c *gin.Context) {
	if err := h.svc.DeleteCampaignNote(c.Request.Context(), currentUser(c), c.Param("id"), c.Param("noteID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
