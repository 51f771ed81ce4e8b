package models

import "time"

// User is an internal account (agents and admins). Authentication lives
// in a separate service; this table backs ownership and attribution.
type User struct {
	ID    string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name  string   `gorm:"type:varchar(100);not null" json:"name"`
	Email string   `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Role  UserRole `gorm:"type:varchar(10);not null;default:'agent'" json:"role"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleAgent UserRole = "agent"
	RoleUser  UserRole = "user"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleAgent || r == RoleUser
}

// Actor is the authenticated identity propagated from the gateway.
// It is request-scoped and never persisted.
type Actor struct {
	ID   string
	Role UserRole
	Name string
}

// Anonymous reports whether the request carried no identity
func (a Actor) Anonymous() bool {
	return a.ID == ""
}

// IsAdmin reports whether the actor has the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage reports whether the actor may mutate a resource owned by ownerID
func (a Actor) CanManage(ownerID string) bool {
	return a.IsAdmin() || (a.ID != "" && a.ID == ownerID)
}
