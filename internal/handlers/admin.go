package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"real-estate-marketplace/internal/activity"
	"real-estate-marketplace/internal/catalog"
	"real-estate-marketplace/internal/cleanup"
	"real-estate-marketplace/internal/config"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/leads"
)

// AdminHandler handles back-office administration requests
type AdminHandler struct {
	db             *database.GormDB
	catalog        *catalog.Service
	leads          *leads.Service
	activity       *activity.Service
	cleanupService *cleanup.Service
	cleanupConfig  config.CleanupConfig
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *database.GormDB, catalogSvc *catalog.Service, leadSvc *leads.Service,
	activitySvc *activity.Service, cleanupSvc *cleanup.Service, cleanupCfg config.CleanupConfig) *AdminHandler {
	return &AdminHandler{
		db:             db,
		catalog:        catalogSvc,
		leads:          leadSvc,
		activity:       activitySvc,
		cleanupService: cleanupSvc,
		cleanupConfig:  cleanupCfg,
	}
}

// GetStats returns the dashboard overview
func (h *AdminHandler) GetStats(c *gin.Context) {
	actor := ActorFrom(c)
	stats := make(map[string]interface{})

	propertyCount, err := h.db.CountProperties()
	if err != nil {
		respondError(c, err)
		return
	}
	byStatus, err := h.catalog.StatusBreakdown(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	byType, err := h.catalog.TypeBreakdown(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	monthly, err := h.catalog.MonthlyStats(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	stats["properties"] = map[string]interface{}{
		"total":     propertyCount,
		"by_status": byStatus,
		"by_type":   byType,
		"monthly":   monthly,
	}

	leadStats, err := h.leads.Stats(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	stats["leads"] = leadStats

	customerCount, err := h.db.CountCustomers()
	if err != nil {
		respondError(c, err)
		return
	}
	stats["customers"] = map[string]interface{}{
		"total": customerCount,
	}

	activityCount, err := h.db.CountActivities()
	if err != nil {
		respondError(c, err)
		return
	}
	stats["activities"] = map[string]interface{}{
		"total":    activityCount,
		"recorder": h.activity.RecorderStats(),
	}

	deleteStats, err := h.cleanupService.GetDeleteStats(h.cleanupConfig.RetentionDays)
	if err != nil {
		log.Printf("Admin: Failed to get delete stats: %v", err)
	} else {
		stats["deletions"] = deleteStats
	}

	c.JSON(http.StatusOK, stats)
}

// RunCleanup executes physical deletion of expired ledger rows
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	var req struct {
		RetentionDays    int  `json:"retention_days"`
		MaxDeletionCount int  `json:"max_deletion_count"`
		DryRun           bool `json:"dry_run"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := h.cleanupConfig
	if req.RetentionDays > 0 {
		cfg.RetentionDays = req.RetentionDays
	}
	if req.MaxDeletionCount > 0 {
		cfg.MaxDeletionCount = req.MaxDeletionCount
	}
	cfg.DryRun = req.DryRun

	log.Printf("Admin: Running cleanup (retention: %d days, max: %d, dry-run: %v)",
		cfg.RetentionDays, cfg.MaxDeletionCount, cfg.DryRun)

	result, err := h.cleanupService.Run(cfg)
	if err != nil {
		log.Printf("Admin: Cleanup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDeleteLogs returns recent delete log entries
func (h *AdminHandler) GetDeleteLogs(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "100")
	limit, _ := strconv.Atoi(limitStr)

	logs, err := h.cleanupService.GetRecentDeleteLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}

// Reindex rebuilds the search side index from published listings
func (h *AdminHandler) Reindex(c *gin.Context) {
	count, err := h.catalog.Reindex(ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "reindex completed",
		"indexed": count,
	})
}
