package cleanup

import (
	"fmt"
	"log"
	"time"

	"real-estate-marketplace/internal/config"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/models"
)

// Service handles physical deletion of expired activity ledger rows
type Service struct {
	db *database.GormDB
}

// NewService creates a new cleanup service
func NewService(db *database.GormDB) *Service {
	return &Service{db: db}
}

// DefaultConfig returns default retention settings
func DefaultConfig() config.CleanupConfig {
	return config.CleanupConfig{
		RetentionDays:    90,
		MaxDeletionCount: 10000,
		DryRun:           false,
	}
}

// Result holds the outcome of one cleanup run
type Result struct {
	TargetCount  int       `json:"target_count"`
	DeletedCount int       `json:"deleted_count"`
	ErrorCount   int       `json:"error_count"`
	DryRun       bool      `json:"dry_run"`
	ExecutedAt   time.Time `json:"executed_at"`
	Cutoff       time.Time `json:"cutoff"`
	Errors       []string  `json:"errors,omitempty"`
}

// Run purges ledger rows older than the retention window. Every deleted row
// leaves a delete-log entry. A run that would exceed MaxDeletionCount aborts
// before deleting anything.
func (s *Service) Run(cfg config.CleanupConfig) (*Result, error) {
	retentionDays := cfg.RetentionDays
	if retentionDays <= 0 {
		retentionDays = 90
	}
	maxDeletion := cfg.MaxDeletionCount
	if maxDeletion <= 0 {
		maxDeletion = 10000
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := &Result{
		DryRun:     cfg.DryRun,
		ExecutedAt: time.Now(),
		Cutoff:     cutoff,
	}

	target, err := s.db.CountActivitiesOlderThan(cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to count expired activities: %w", err)
	}
	result.TargetCount = int(target)

	if target == 0 {
		log.Println("Cleanup: No expired activities found")
		return result, nil
	}

	// Safety check: abort if too many rows would be deleted
	if int(target) > maxDeletion {
		return nil, fmt.Errorf("safety check failed: %d activities exceed max deletion limit of %d",
			target, maxDeletion)
	}

	log.Printf("Cleanup: Starting, %d activities older than %s (retention: %d days, dry-run: %v)",
		target, cutoff.Format("2006-01-02"), retentionDays, cfg.DryRun)

	if cfg.DryRun {
		log.Printf("Cleanup: [DRY-RUN] Would delete %d activities", target)
		result.DeletedCount = int(target)
		return result, nil
	}

	// Delete in batches so a failure loses at most one batch of progress
	const batchSize = 500
	for {
		batch, err := s.db.FetchActivitiesOlderThan(cutoff, batchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch expired activities: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		if err := s.db.PurgeActivities(batch, models.DeleteReasonRetention); err != nil {
			errMsg := fmt.Sprintf("Failed to purge batch of %d: %v", len(batch), err)
			log.Printf("Cleanup: ERROR: %s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.ErrorCount++
			break
		}
		result.DeletedCount += len(batch)
	}

	log.Printf("Cleanup: Completed, %d/%d deleted, %d errors",
		result.DeletedCount, result.TargetCount, result.ErrorCount)

	return result, nil
}

// GetDeleteStats returns statistics about purged ledger rows
func (s *Service) GetDeleteStats(retentionDays int) (map[string]interface{}, error) {
	stats := make(map[string]interface{})
	db := s.db.DB()

	var totalDeleted int64
	if err := db.Model(&models.DeleteLog{}).Count(&totalDeleted).Error; err != nil {
		return nil, err
	}
	stats["total_deleted"] = totalDeleted

	var reasonCounts []struct {
		Reason string
		Count  int64
	}
	if err := db.Model(&models.DeleteLog{}).
		Select("reason, count(*) as count").
		Group("reason").
		Scan(&reasonCounts).Error; err != nil {
		return nil, err
	}

	reasonMap := make(map[string]int64)
	for _, rc := range reasonCounts {
		reasonMap[rc.Reason] = rc.Count
	}
	stats["by_reason"] = reasonMap

	var recentDeleted int64
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := db.Model(&models.DeleteLog{}).
		Where("deleted_at >= ?", thirtyDaysAgo).
		Count(&recentDeleted).Error; err != nil {
		return nil, err
	}
	stats["deleted_last_30_days"] = recentDeleted

	if retentionDays <= 0 {
		retentionDays = 90
	}
	expired, err := s.db.CountActivitiesOlderThan(time.Now().AddDate(0, 0, -retentionDays))
	if err != nil {
		return nil, err
	}
	stats["expired_ready_for_deletion"] = expired

	return stats, nil
}

// GetRecentDeleteLogs returns recent delete log entries
func (s *Service) GetRecentDeleteLogs(limit int) ([]models.DeleteLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []models.DeleteLog
	err := s.db.DB().Order("deleted_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
