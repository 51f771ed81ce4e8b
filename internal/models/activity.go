package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity is one behavioral event in the ledger
type Activity struct {
	ID   string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Type ActivityType `gorm:"type:varchar(30);not null;index" json:"type"`

	UserID   string `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	UserName string `gorm:"type:varchar(100)" json:"user_name,omitempty"`

	PropertyID string `gorm:"type:varchar(36);index" json:"property_id,omitempty"`
	LeadID     string `gorm:"type:varchar(36);index" json:"lead_id,omitempty"`
	CustomerID string `gorm:"type:varchar(36)" json:"customer_id,omitempty"`

	Description string `gorm:"type:text;not null" json:"description"`

	// Context metadata
	SearchQuery    string         `gorm:"type:varchar(500)" json:"search_query,omitempty"`
	FilterCriteria datatypes.JSON `gorm:"type:text" json:"filter_criteria,omitempty"`
	ResultCount    *int           `gorm:"type:int" json:"result_count,omitempty"`
	IPAddress      string         `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent      string         `gorm:"type:text" json:"user_agent,omitempty"`
	Referrer       string         `gorm:"type:text" json:"referrer,omitempty"`
	SessionID      string         `gorm:"type:varchar(64);index" json:"session_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_activities_created_at,sort:desc" json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}

// ActivityType names a recordable event
type ActivityType string

const (
	ActivityLogin             ActivityType = "login"
	ActivityLogout            ActivityType = "logout"
	ActivityPropertyView      ActivityType = "property_view"
	ActivityPropertyClick     ActivityType = "property_click"
	ActivitySearch            ActivityType = "search"
	ActivityFilterApplied     ActivityType = "filter_applied"
	ActivityContactForm       ActivityType = "contact_form"
	ActivityPhoneCall         ActivityType = "phone_call"
	ActivityEmailSent         ActivityType = "email_sent"
	ActivityPropertyInquiry   ActivityType = "property_inquiry"
	ActivityPropertyFavorite  ActivityType = "property_favorite"
	ActivityProfileUpdate     ActivityType = "profile_update"
	ActivityPasswordChange    ActivityType = "password_change"
	ActivityPropertyUpload    ActivityType = "property_upload"
	ActivityPropertyEdit      ActivityType = "property_edit"
	ActivityPropertyDelete    ActivityType = "property_delete"
	ActivityImageUpload       ActivityType = "image_upload"
	ActivityAdminAction       ActivityType = "admin_action"
	ActivityPageView          ActivityType = "page_view"
	ActivityButtonClick       ActivityType = "button_click"
	ActivityFormSubmission    ActivityType = "form_submission"
	ActivityError             ActivityType = "error"
	ActivityLeadCreated       ActivityType = "lead_created"
	ActivityLeadUpdated       ActivityType = "lead_updated"
	ActivityLeadStatusUpdated ActivityType = "lead_status_updated"
	ActivityFollowUpScheduled ActivityType = "follow_up_scheduled"
	ActivityLeadDeleted       ActivityType = "lead_deleted"

	// Back-office variants beyond the tracked browsing catalog
	ActivityPropertyPublish ActivityType = "property_publish"
	ActivityPropertyArchive ActivityType = "property_archive"
	ActivityLeadAssigned    ActivityType = "lead_assigned"
	ActivityLeadInteraction ActivityType = "lead_interaction"
	ActivityLeadConverted   ActivityType = "lead_converted"
	ActivityCustomerCreate  ActivityType = "customer_created"
	ActivityCustomerUpdate  ActivityType = "customer_updated"
	ActivityCustomerDelete  ActivityType = "customer_deleted"
)

var activityTypes = map[ActivityType]struct{}{
	ActivityLogin: {}, ActivityLogout: {}, ActivityPropertyView: {},
	ActivityPropertyClick: {}, ActivitySearch: {}, ActivityFilterApplied: {},
	ActivityContactForm: {}, ActivityPhoneCall: {}, ActivityEmailSent: {},
	ActivityPropertyInquiry: {}, ActivityPropertyFavorite: {}, ActivityProfileUpdate: {},
	ActivityPasswordChange: {}, ActivityPropertyUpload: {}, ActivityPropertyEdit: {},
	ActivityPropertyDelete: {}, ActivityImageUpload: {}, ActivityAdminAction: {},
	ActivityPageView: {}, ActivityButtonClick: {}, ActivityFormSubmission: {},
	ActivityError: {}, ActivityLeadCreated: {}, ActivityLeadUpdated: {},
	ActivityLeadStatusUpdated: {}, ActivityFollowUpScheduled: {}, ActivityLeadDeleted: {},
	ActivityPropertyPublish: {}, ActivityPropertyArchive: {}, ActivityLeadAssigned: {},
	ActivityLeadInteraction: {}, ActivityLeadConverted: {}, ActivityCustomerCreate: {},
	ActivityCustomerUpdate: {}, ActivityCustomerDelete: {},
}

func (t ActivityType) Valid() bool {
	_, ok := activityTypes[t]
	return ok
}
