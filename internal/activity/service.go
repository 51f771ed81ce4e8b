package activity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/errs"
	"real-estate-marketplace/internal/models"
)

// Event is the fire-and-forget input to the ledger
type Event struct {
	Type       models.ActivityType
	Actor      models.Actor
	PropertyID string
	LeadID     string
	CustomerID string

	SearchQuery    string
	FilterCriteria map[string]interface{}
	ResultCount    *int

	IPAddress string
	UserAgent string
	Referrer  string
	SessionID string
}

// Service owns ledger writes and reads
type Service struct {
	db       *database.GormDB
	recorder *Recorder
}

func NewService(db *database.GormDB, recorder *Recorder) *Service {
	return &Service{db: db, recorder: recorder}
}

// Record submits an event to the ledger. Invalid event types are dropped
// silently: the ledger never fails a caller's request.
func (s *Service) Record(ev Event) {
	if !ev.Type.Valid() {
		return
	}

	a := models.Activity{
		ID:          uuid.NewString(),
		Type:        ev.Type,
		UserID:      ev.Actor.ID,
		UserName:    ev.Actor.Name,
		PropertyID:  ev.PropertyID,
		LeadID:      ev.LeadID,
		CustomerID:  ev.CustomerID,
		Description: Describe(ev.Type, ev.Actor.Name, ev.SearchQuery),
		SearchQuery: ev.SearchQuery,
		ResultCount: ev.ResultCount,
		IPAddress:   ev.IPAddress,
		UserAgent:   ev.UserAgent,
		Referrer:    ev.Referrer,
		SessionID:   ev.SessionID,
		CreatedAt:   time.Now(),
	}

	if len(ev.FilterCriteria) > 0 {
		if raw, err := json.Marshal(ev.FilterCriteria); err == nil {
			a.FilterCriteria = datatypes.JSON(raw)
		}
	}

	s.recorder.Enqueue(a)
}

// List retrieves ledger rows; admin only
func (s *Service) List(actor models.Actor, f database.ActivityFilters) ([]models.Activity, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, errs.Forbidden("activity ledger requires admin role")
	}
	if f.Type != "" && !models.ActivityType(f.Type).Valid() {
		return nil, 0, errs.FieldError("type", "unknown activity type")
	}
	return s.db.ListActivities(f)
}

// PopularProperties reports the most viewed properties over the window
func (s *Service) PopularProperties(actor models.Actor, window time.Duration) ([]database.PopularProperty, error) {
	if !actor.IsAdmin() {
		return nil, errs.Forbidden("analytics require admin role")
	}
	return s.db.PopularProperties(time.Now().Add(-window))
}

// SearchAnalytics reports the most frequent search terms over the window
func (s *Service) SearchAnalytics(actor models.Actor, window time.Duration) ([]database.SearchTerm, error) {
	if !actor.IsAdmin() {
		return nil, errs.Forbidden("analytics require admin role")
	}
	return s.db.SearchAnalytics(time.Now().Add(-window))
}

// DailyStats reports ledger volume per day over the window
func (s *Service) DailyStats(actor models.Actor, window time.Duration) ([]database.DailyStat, error) {
	if !actor.IsAdmin() {
		return nil, errs.Forbidden("analytics require admin role")
	}
	return s.db.DailyActivityStats(time.Now().Add(-window))
}

// UserEngagement reports per-user activity over the window
func (s *Service) UserEngagement(actor models.Actor, window time.Duration, limit int) ([]database.UserEngagement, error) {
	if !actor.IsAdmin() {
		return nil, errs.Forbidden("analytics require admin role")
	}
	return s.db.UserEngagementStats(time.Now().Add(-window), limit)
}

// TypeBreakdown reports event counts per type over the window
func (s *Service) TypeBreakdown(actor models.Actor, window time.Duration) ([]database.StatusCount, error) {
	if !actor.IsAdmin() {
		return nil, errs.Forbidden("analytics require admin role")
	}
	return s.db.ActivityTypeBreakdown(time.Now().Add(-window))
}

// RecorderStats exposes the recorder counters
func (s *Service) RecorderStats() map[string]interface{} {
	return s.recorder.Stats()
}
