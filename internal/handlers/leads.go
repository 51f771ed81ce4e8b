package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/leads"
)

// LeadHandler handles lead pipeline requests
type LeadHandler struct {
	leads *leads.Service
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadSvc *leads.Service) *LeadHandler {
	return &LeadHandler{leads: leadSvc}
}

// CreateLead handles lead intake, including public inquiry forms
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var in leads.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prov := leads.Provenance{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	}

	lead, err := h.leads.Create(ActorFrom(c), in, prov)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

// ListLeads handles the back-office lead table
func (h *LeadHandler) ListLeads(c *gin.Context) {
	f := database.LeadFilters{
		Status:     c.Query("status"),
		Source:     c.Query("source"),
		Priority:   c.Query("priority"),
		AssignedTo: c.Query("assigned_to"),
		PropertyID: c.Query("property_id"),
		Search:     c.Query("search"),
		SortBy:     c.Query("sort"),
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, total, err := h.leads.List(ActorFrom(c), f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leads": result,
		"total": total,
		"page":  f.Page,
		"count": len(result),
	})
}

// GetLead returns one lead with its interaction history
func (h *LeadHandler) GetLead(c *gin.Context) {
	lead, err := h.leads.Get(ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// UpdateLead handles partial lead updates
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	var in leads.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.leads.Update(ActorFrom(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// DeleteLead removes a lead
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	if err := h.leads.Delete(ActorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "lead deleted"})
}

// AssignLead hands a lead to an agent
func (h *LeadHandler) AssignLead(c *gin.Context) {
	var req struct {
		AgentID string `json:"agent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.leads.Assign(ActorFrom(c), c.Param("id"), req.AgentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// AddInteraction appends a contact-history entry
func (h *LeadHandler) AddInteraction(c *gin.Context) {
	var in leads.InteractionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.leads.AddInteraction(ActorFrom(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// ConvertLead closes a lead as converted and creates the customer
func (h *LeadHandler) ConvertLead(c *gin.Context) {
	var in leads.ConvertInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, customer, err := h.leads.Convert(ActorFrom(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lead":     lead,
		"customer": customer,
	})
}

// UpcomingFollowUps lists open leads due within the next seven days
func (h *LeadHandler) UpcomingFollowUps(c *gin.Context) {
	result, err := h.leads.UpcomingFollowUps(ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"leads": result,
		"count": len(result),
	})
}

// OverdueFollowUps lists open leads whose follow-up date has passed
func (h *LeadHandler) OverdueFollowUps(c *gin.Context) {
	result, err := h.leads.OverdueFollowUps(ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"leads": result,
		"count": len(result),
	})
}

// LeadStats returns the pipeline overview
func (h *LeadHandler) LeadStats(c *gin.Context) {
	stats, err := h.leads.Stats(ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// LeadFunnel returns the stage-by-stage pipeline report
func (h *LeadHandler) LeadFunnel(c *gin.Context) {
	funnel, err := h.leads.Funnel(ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"funnel": funnel})
}
