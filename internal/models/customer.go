package models

import "time"

// Customer is a converted lead or a directly registered client
type Customer struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	FirstName string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null" json:"last_name"`
	Email     string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone     string `gorm:"type:varchar(40);index" json:"phone,omitempty"`
	Address   string `gorm:"type:varchar(500)" json:"address,omitempty"`

	Status CustomerStatus `gorm:"type:varchar(15);not null;default:'active';index" json:"status"`

	// Standing search preferences, carried over from the lead on conversion
	Preferences *SearchPreferences `gorm:"serializer:json;type:text" json:"preferences,omitempty"`

	// Provenance when created through lead conversion
	LeadID     string `gorm:"type:varchar(36)" json:"lead_id,omitempty"`
	AssignedTo string `gorm:"type:varchar(36);index" json:"assigned_to,omitempty"`

	Notes string   `gorm:"type:text" json:"notes,omitempty"`
	Tags  []string `gorm:"serializer:json;type:text" json:"tags"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_customers_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// CustomerStatus is the account lifecycle state
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
	CustomerStatusBlocked  CustomerStatus = "blocked"
)

func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusBlocked:
		return true
	}
	return false
}
