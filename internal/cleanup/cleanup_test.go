package cleanup

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"real-estate-marketplace/internal/config"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/models"
)

func newTestDB(t *testing.T) *database.GormDB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	gdb := database.NewFromDB(db, "sqlite")
	require.NoError(t, gdb.InitSchema())
	return gdb
}

func seedActivities(t *testing.T, db *database.GormDB, n int, age time.Duration) {
	t.Helper()
	rows := make([]models.Activity, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, models.Activity{
			ID:          uuid.NewString(),
			Type:        models.ActivityPageView,
			Description: "seeded",
			CreatedAt:   time.Now().Add(-age),
		})
	}
	require.NoError(t, db.InsertActivities(rows))
}

func TestRunNoExpiredRows(t *testing.T) {
	svc := NewService(newTestDB(t))

	result, err := svc.Run(config.CleanupConfig{RetentionDays: 90})
	require.NoError(t, err)
	require.Equal(t, 0, result.TargetCount)
	require.Equal(t, 0, result.DeletedCount)
}

func TestRunDeletesExpiredAndLogs(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedActivities(t, db, 3, 100*24*time.Hour)
	seedActivities(t, db, 2, 24*time.Hour)

	result, err := svc.Run(config.CleanupConfig{RetentionDays: 90, MaxDeletionCount: 100})
	require.NoError(t, err)
	require.Equal(t, 3, result.TargetCount)
	require.Equal(t, 3, result.DeletedCount)
	require.Equal(t, 0, result.ErrorCount)

	// Recent rows survive
	remaining, err := db.CountActivities()
	require.NoError(t, err)
	require.Equal(t, int64(2), remaining)

	// Every deleted row left an audit entry
	logs, err := svc.GetRecentDeleteLogs(10)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	require.Equal(t, models.DeleteReasonRetention, logs[0].Reason)
}

func TestRunDryRunLeavesRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedActivities(t, db, 2, 100*24*time.Hour)

	result, err := svc.Run(config.CleanupConfig{RetentionDays: 90, MaxDeletionCount: 100, DryRun: true})
	require.NoError(t, err)
	require.True(t, result.DryRun)
	require.Equal(t, 2, result.TargetCount)
	require.Equal(t, 2, result.DeletedCount)

	remaining, err := db.CountActivities()
	require.NoError(t, err)
	require.Equal(t, int64(2), remaining)
}

func TestRunSafetyAbort(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedActivities(t, db, 5, 100*24*time.Hour)

	_, err := svc.Run(config.CleanupConfig{RetentionDays: 90, MaxDeletionCount: 3})
	require.Error(t, err)
	require.Contains(t, err.Error(), "safety check failed")

	// Nothing was deleted
	remaining, err := db.CountActivities()
	require.NoError(t, err)
	require.Equal(t, int64(5), remaining)
}

func TestGetDeleteStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedActivities(t, db, 2, 100*24*time.Hour)
	_, err := svc.Run(config.CleanupConfig{RetentionDays: 90, MaxDeletionCount: 100})
	require.NoError(t, err)

	seedActivities(t, db, 1, 95*24*time.Hour)

	stats, err := svc.GetDeleteStats(90)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats["total_deleted"])
	require.Equal(t, int64(1), stats["expired_ready_for_deletion"])

	byReason := stats["by_reason"].(map[string]int64)
	require.Equal(t, int64(2), byReason[models.DeleteReasonRetention])
}
