package models

import "time"

// DeleteLog records activity rows that were physically purged, so a
// retention run stays auditable after the rows are gone.
type DeleteLog struct {
	ID           uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	ActivityID   string       `gorm:"type:varchar(36);not null;index" json:"activity_id"`
	ActivityType ActivityType `gorm:"type:varchar(30)" json:"activity_type"`
	OccurredAt   time.Time    `json:"occurred_at"`
	DeletedAt    time.Time    `gorm:"not null;autoCreateTime;index" json:"deleted_at"`
	Reason       string       `gorm:"type:varchar(50);not null" json:"reason"`
}

func (DeleteLog) TableName() string {
	return "delete_logs"
}

// DeleteReason constants
const (
	DeleteReasonRetention = "retention_expired"
	DeleteReasonManual    = "manual_deletion"
	DeleteReasonDataClean = "data_cleanup"
)
