package database

import (
	"time"

	"real-estate-marketplace/internal/models"

	"gorm.io/gorm"
)

// ActivityFilters narrows ledger queries
type ActivityFilters struct {
	Type       string
	UserID     string
	PropertyID string
	LeadID     string
	SessionID  string
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

// InsertActivities writes a batch of ledger rows in one statement
func (gdb *GormDB) InsertActivities(batch []models.Activity) error {
	if len(batch) == 0 {
		return nil
	}
	return gdb.db.Create(&batch).Error
}

// ListActivities retrieves ledger rows matching the filters, newest first
func (gdb *GormDB) ListActivities(f ActivityFilters) ([]models.Activity, int64, error) {
	q := gdb.db.Model(&models.Activity{})

	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.PropertyID != "" {
		q = q.Where("property_id = ?", f.PropertyID)
	}
	if f.LeadID != "" {
		q = q.Where("lead_id = ?", f.LeadID)
	}
	if f.SessionID != "" {
		q = q.Where("session_id = ?", f.SessionID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	var activities []models.Activity
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&activities).Error
	return activities, total, err
}

// PopularProperty is one row of the most-viewed report
type PopularProperty struct {
	PropertyID  string `json:"property_id"`
	ViewCount   int64  `json:"view_count"`
	UniqueUsers int64  `json:"unique_users"`
}

// PopularProperties aggregates property_view and property_click events
// since the cutoff, most viewed first, capped at 20.
func (gdb *GormDB) PopularProperties(since time.Time) ([]PopularProperty, error) {
	var rows []PopularProperty
	err := gdb.db.Model(&models.Activity{}).
		Select("property_id, count(*) as view_count, count(distinct user_id) as unique_users").
		Where("type IN ?", []models.ActivityType{models.ActivityPropertyView, models.ActivityPropertyClick}).
		Where("property_id <> ''").
		Where("created_at >= ?", since).
		Group("property_id").
		Order("view_count DESC").
		Limit(20).
		Scan(&rows).Error
	return rows, err
}

// SearchTerm is one row of the search-analytics report
type SearchTerm struct {
	Query       string `json:"query"`
	SearchCount int64  `json:"search_count"`
	UniqueUsers int64  `json:"unique_users"`
}

// SearchAnalytics aggregates search events since the cutoff, most
// searched first, capped at 50.
func (gdb *GormDB) SearchAnalytics(since time.Time) ([]SearchTerm, error) {
	var rows []SearchTerm
	err := gdb.db.Model(&models.Activity{}).
		Select("search_query as query, count(*) as search_count, count(distinct user_id) as unique_users").
		Where("type = ?", models.ActivitySearch).
		Where("search_query <> ''").
		Where("created_at >= ?", since).
		Group("search_query").
		Order("search_count DESC").
		Limit(50).
		Scan(&rows).Error
	return rows, err
}

// DailyStat is one day bucket of ledger volume
type DailyStat struct {
	Day         string `json:"day"`
	Count       int64  `json:"count"`
	UniqueUsers int64  `json:"unique_users"`
	TypeCount   int64  `json:"type_count"`
}

// DailyActivityStats buckets ledger rows per day since the cutoff,
// counting volume, distinct identified actors, and distinct event types.
func (gdb *GormDB) DailyActivityStats(since time.Time) ([]DailyStat, error) {
	expr := gdb.dayExpr()
	var rows []DailyStat
	err := gdb.db.Model(&models.Activity{}).
		Select(expr+" as day, count(*) as count, "+
			"count(distinct nullif(user_id, '')) as unique_users, "+
			"count(distinct type) as type_count").
		Where("created_at >= ?", since).
		Group(expr).
		Order("day DESC").
		Scan(&rows).Error
	return rows, err
}

// UserEngagement is one row of the per-user activity report
type UserEngagement struct {
	UserID        string     `json:"user_id"`
	UserName      string     `json:"user_name,omitempty"`
	UserEmail     string     `json:"user_email,omitempty"`
	ActivityCount int64      `json:"activity_count"`
	TypeDiversity int64      `json:"type_diversity"`
	SessionCount  int64      `json:"session_count"`
	FirstActive   *time.Time `json:"first_active"`
	LastActive    *time.Time `json:"last_active"`
}

// UserEngagementStats aggregates identified activity per user since the
// cutoff, busiest users first, joined with the account record.
func (gdb *GormDB) UserEngagementStats(since time.Time, limit int) ([]UserEngagement, error) {
	if limit <= 0 {
		limit = 20
	}

	// min/max over a datetime column comes back untyped, so scan as
	// text and parse
	var raw []struct {
		UserID        string
		UserName      string
		UserEmail     string
		ActivityCount int64
		TypeDiversity int64
		SessionCount  int64
		FirstActive   string
		LastActive    string
	}
	err := gdb.db.Model(&models.Activity{}).
		Select("activities.user_id, users.name as user_name, users.email as user_email, "+
			"count(*) as activity_count, "+
			"count(distinct activities.type) as type_diversity, "+
			"count(distinct nullif(activities.session_id, '')) as session_count, "+
			"min(activities.created_at) as first_active, "+
			"max(activities.created_at) as last_active").
		Joins("LEFT JOIN users ON users.id = activities.user_id").
		Where("activities.user_id <> ''").
		Where("activities.created_at >= ?", since).
		Group("activities.user_id, users.name, users.email").
		Order("activity_count DESC").
		Limit(limit).
		Scan(&raw).Error
	if err != nil {
		return nil, err
	}

	rows := make([]UserEngagement, len(raw))
	for i, r := range raw {
		rows[i] = UserEngagement{
			UserID:        r.UserID,
			UserName:      r.UserName,
			UserEmail:     r.UserEmail,
			ActivityCount: r.ActivityCount,
			TypeDiversity: r.TypeDiversity,
			SessionCount:  r.SessionCount,
			FirstActive:   parseAggregateTime(r.FirstActive),
			LastActive:    parseAggregateTime(r.LastActive),
		}
	}
	return rows, nil
}

var aggregateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

func parseAggregateTime(s string) *time.Time {
	for _, layout := range aggregateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ActivityTypeBreakdown counts ledger rows per event type
func (gdb *GormDB) ActivityTypeBreakdown(since time.Time) ([]StatusCount, error) {
	var stats []StatusCount
	err := gdb.db.Model(&models.Activity{}).
		Select("type as status, count(*) as count").
		Where("created_at >= ?", since).
		Group("type").
		Order("count DESC").
		Scan(&stats).Error
	return stats, err
}

// CountActivitiesOlderThan returns how many ledger rows predate the cutoff
func (gdb *GormDB) CountActivitiesOlderThan(cutoff time.Time) (int64, error) {
	var n int64
	err := gdb.db.Model(&models.Activity{}).
		Where("created_at < ?", cutoff).
		Count(&n).Error
	return n, err
}

// FetchActivitiesOlderThan retrieves up to limit rows predating the cutoff,
// oldest first, for retention deletion.
func (gdb *GormDB) FetchActivitiesOlderThan(cutoff time.Time, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	err := gdb.db.
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

// PurgeActivities deletes the given rows and writes matching delete-log
// entries in one transaction.
func (gdb *GormDB) PurgeActivities(activities []models.Activity, reason string) error {
	if len(activities) == 0 {
		return nil
	}

	ids := make([]string, 0, len(activities))
	logs := make([]models.DeleteLog, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.ID)
		logs = append(logs, models.DeleteLog{
			ActivityID:   a.ID,
			ActivityType: a.Type,
			OccurredAt:   a.CreatedAt,
			Reason:       reason,
		})
	}

	return gdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&logs).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Activity{}).Error
	})
}

// CountActivities returns the total row count
func (gdb *GormDB) CountActivities() (int64, error) {
	var n int64
	err := gdb.db.Model(&models.Activity{}).Count(&n).Error
	return n, err
}
