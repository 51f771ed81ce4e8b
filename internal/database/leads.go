package database

import (
	"strings"
	"time"

	"real-estate-marketplace/internal/models"

	"gorm.io/gorm"
)

// LeadFilters narrows lead list queries
type LeadFilters struct {
	Status     string
	Source     string
	Priority   string
	AssignedTo string
	PropertyID string
	Search     string
	SortBy     string
	Page       int
	Limit      int
}

// ListLeads retrieves leads matching the filters with a total count
func (gdb *GormDB) ListLeads(f LeadFilters) ([]models.Lead, int64, error) {
	q := gdb.db.Model(&models.Lead{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.AssignedTo != "" {
		q = q.Where("assigned_to = ?", f.AssignedTo)
	}
	if f.PropertyID != "" {
		q = q.Where("property_id = ?", f.PropertyID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR phone LIKE ?",
			like, like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	order := "created_at DESC"
	switch f.SortBy {
	case "oldest":
		order = "created_at ASC"
	case "next_follow_up":
		order = "next_follow_up ASC"
	}

	var leads []models.Lead
	err := q.Order(order).Limit(limit).Offset((page - 1) * limit).Find(&leads).Error
	return leads, total, err
}

// GetLead retrieves a lead by ID with its interaction history, oldest first
func (gdb *GormDB) GetLead(id string) (*models.Lead, error) {
	var lead models.Lead
	err := gdb.db.
		Preload("Interactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("lead_interactions.date ASC, lead_interactions.created_at ASC")
		}).
		Where("id = ?", id).
		First(&lead).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// CreateLead inserts a new lead
func (gdb *GormDB) CreateLead(l *models.Lead) error {
	return gdb.db.Create(l).Error
}

// SaveLead persists all fields of an existing lead
func (gdb *GormDB) SaveLead(l *models.Lead) error {
	return gdb.db.Omit("Interactions").Save(l).Error
}

// DeleteLead removes a lead and its interaction history
func (gdb *GormDB) DeleteLead(id string) error {
	return gdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lead_id = ?", id).Delete(&models.LeadInteraction{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Lead{}).Error
	})
}

// AddInteraction appends a contact-history entry and advances the lead's
// last-contact timestamp in one transaction.
func (gdb *GormDB) AddInteraction(leadID string, in *models.LeadInteraction) error {
	return gdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(in).Error; err != nil {
			return err
		}
		return tx.Model(&models.Lead{}).
			Where("id = ?", leadID).
			UpdateColumn("last_contact_date", in.Date).Error
	})
}

// UpcomingFollowUps retrieves open leads due for follow-up within the window
func (gdb *GormDB) UpcomingFollowUps(within time.Duration) ([]models.Lead, error) {
	now := time.Now()
	var leads []models.Lead
	err := gdb.db.
		Where("next_follow_up IS NOT NULL").
		Where("next_follow_up BETWEEN ? AND ?", now, now.Add(within)).
		Where("status NOT IN ?", []models.LeadStatus{models.LeadStatusConverted, models.LeadStatusLost}).
		Order("next_follow_up ASC").
		Find(&leads).Error
	return leads, err
}

// OverdueFollowUps retrieves open leads whose follow-up date has passed
func (gdb *GormDB) OverdueFollowUps() ([]models.Lead, error) {
	var leads []models.Lead
	err := gdb.db.
		Where("next_follow_up IS NOT NULL").
		Where("next_follow_up < ?", time.Now()).
		Where("status NOT IN ?", []models.LeadStatus{models.LeadStatusConverted, models.LeadStatusLost}).
		Order("next_follow_up ASC").
		Find(&leads).Error
	return leads, err
}

// SourceCount is one acquisition-channel bucket
type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

// LeadStatusBreakdown counts leads per pipeline stage
func (gdb *GormDB) LeadStatusBreakdown() ([]StatusCount, error) {
	var stats []StatusCount
	err := gdb.db.Model(&models.Lead{}).
		Select("status, count(*) as count").
		Group("status").
		Order("count DESC").
		Scan(&stats).Error
	return stats, err
}

// LeadSourceBreakdown counts leads per acquisition channel
func (gdb *GormDB) LeadSourceBreakdown() ([]SourceCount, error) {
	var stats []SourceCount
	err := gdb.db.Model(&models.Lead{}).
		Select("source, count(*) as count").
		Group("source").
		Order("count DESC").
		Scan(&stats).Error
	return stats, err
}

// CountLeads returns the total row count
func (gdb *GormDB) CountLeads() (int64, error) {
	var n int64
	err := gdb.db.Model(&models.Lead{}).Count(&n).Error
	return n, err
}

// CountConvertedLeads returns how many leads converted to customers
func (gdb *GormDB) CountConvertedLeads() (int64, error) {
	var n int64
	err := gdb.db.Model(&models.Lead{}).
		Where("converted_to_customer = ?", true).
		Count(&n).Error
	return n, err
}

// CountLeadsSince returns leads created at or after the cutoff
func (gdb *GormDB) CountLeadsSince(cutoff time.Time) (int64, error) {
	var n int64
	err := gdb.db.Model(&models.Lead{}).
		Where("created_at >= ?", cutoff).
		Count(&n).Error
	return n, err
}
