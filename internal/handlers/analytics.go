package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"real-estate-marketplace/internal/activity"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/models"
)

// AnalyticsHandler serves the activity ledger and its reports
type AnalyticsHandler struct {
	activity *activity.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(activitySvc *activity.Service) *AnalyticsHandler {
	return &AnalyticsHandler{activity: activitySvc}
}

// TrackEvent accepts an explicit client-side event (page views, shares,
// contact forms). Always 202: the ledger never fails the caller.
func (h *AnalyticsHandler) TrackEvent(c *gin.Context) {
	var req struct {
		Type           string                 `json:"type"`
		PropertyID     string                 `json:"property_id"`
		SearchQuery    string                 `json:"search_query"`
		FilterCriteria map[string]interface{} `json:"filter_criteria"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev := requestMeta(c)
	ev.Type = models.ActivityType(req.Type)
	ev.Actor = ActorFrom(c)
	ev.PropertyID = req.PropertyID
	ev.SearchQuery = req.SearchQuery
	ev.FilterCriteria = req.FilterCriteria
	h.activity.Record(ev)

	c.JSON(http.StatusAccepted, gin.H{"message": "recorded"})
}

// ListActivities pages through the raw ledger
func (h *AnalyticsHandler) ListActivities(c *gin.Context) {
	f := database.ActivityFilters{
		Type:       c.Query("type"),
		UserID:     c.Query("user_id"),
		PropertyID: c.Query("property_id"),
		LeadID:     c.Query("lead_id"),
		SessionID:  c.Query("session_id"),
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.To = &t
		}
	}

	activities, total, err := h.activity.List(ActorFrom(c), f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activities": activities,
		"total":      total,
		"page":       f.Page,
		"count":      len(activities),
	})
}

// PopularProperties reports the most viewed properties
func (h *AnalyticsHandler) PopularProperties(c *gin.Context) {
	rows, err := h.activity.PopularProperties(ActorFrom(c), windowFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"properties": rows,
		"count":      len(rows),
	})
}

// SearchAnalytics reports the most frequent search terms
func (h *AnalyticsHandler) SearchAnalytics(c *gin.Context) {
	rows, err := h.activity.SearchAnalytics(ActorFrom(c), windowFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"searches": rows,
		"count":    len(rows),
	})
}

// DailyStats reports ledger volume per day
func (h *AnalyticsHandler) DailyStats(c *gin.Context) {
	rows, err := h.activity.DailyStats(ActorFrom(c), windowFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily": rows})
}

// UserEngagement reports per-user activity
func (h *AnalyticsHandler) UserEngagement(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	rows, err := h.activity.UserEngagement(ActorFrom(c), windowFrom(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": rows,
		"count": len(rows),
	})
}

// TypeBreakdown reports event counts per type
func (h *AnalyticsHandler) TypeBreakdown(c *gin.Context) {
	rows, err := h.activity.TypeBreakdown(ActorFrom(c), windowFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"types": rows})
}

// windowFrom parses the "days" query param into a lookback window
func windowFrom(c *gin.Context) time.Duration {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}
