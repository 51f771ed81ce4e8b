package models

import (
	"regexp"
	"time"
)

type Lead struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	FirstName string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null" json:"last_name"`
	Email     string `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone     string `gorm:"type:varchar(40);not null" json:"phone"`

	Source   LeadSource   `gorm:"type:varchar(20);not null;default:'website';index" json:"source"`
	Status   LeadStatus   `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	Priority LeadPriority `gorm:"type:varchar(10);not null;default:'medium';index" json:"priority"`

	PropertyID string `gorm:"type:varchar(36);index" json:"property_id,omitempty"`
	AssignedTo string `gorm:"type:varchar(36);index" json:"assigned_to,omitempty"`

	Message     string             `gorm:"type:text" json:"message,omitempty"`
	Preferences *SearchPreferences `gorm:"serializer:json;type:text" json:"preferences,omitempty"`
	Notes       string             `gorm:"type:text" json:"notes,omitempty"`
	Tags        []string           `gorm:"serializer:json;type:text" json:"tags"`

	// Acquisition provenance
	UTMSource   string `gorm:"type:varchar(100)" json:"utm_source,omitempty"`
	UTMMedium   string `gorm:"type:varchar(100)" json:"utm_medium,omitempty"`
	UTMCampaign string `gorm:"type:varchar(100)" json:"utm_campaign,omitempty"`
	IPAddress   string `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent   string `gorm:"type:text" json:"user_agent,omitempty"`
	Referrer    string `gorm:"type:text" json:"referrer,omitempty"`

	LastContactDate *time.Time `json:"last_contact_date,omitempty"`
	NextFollowUp    *time.Time `gorm:"index" json:"next_follow_up,omitempty"`

	ConvertedToCustomer bool       `gorm:"not null;default:false" json:"converted_to_customer"`
	CustomerID          string     `gorm:"type:varchar(36)" json:"customer_id,omitempty"`
	ConversionDate      *time.Time `json:"conversion_date,omitempty"`

	Interactions []LeadInteraction `gorm:"foreignKey:LeadID" json:"interactions,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_leads_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Lead) TableName() string {
	return "leads"
}

// FullName joins first and last name for display
func (l *Lead) FullName() string {
	return l.FirstName + " " + l.LastName
}

// IsClosed reports whether the lead left the active pipeline
func (l *Lead) IsClosed() bool {
	return l.Status == LeadStatusConverted || l.Status == LeadStatusLost
}

// MarkConverted records a successful conversion to a customer record
func (l *Lead) MarkConverted(customerID string) {
	l.Status = LeadStatusConverted
	l.ConvertedToCustomer = true
	l.CustomerID = customerID
	now := time.Now()
	l.ConversionDate = &now
}

// LeadInteraction is one append-only contact-history entry
type LeadInteraction struct {
	ID        string             `gorm:"type:varchar(36);primaryKey" json:"id"`
	LeadID    string             `gorm:"type:varchar(36);not null;index" json:"lead_id"`
	Type      InteractionType    `gorm:"type:varchar(20);not null" json:"type"`
	Notes     string             `gorm:"type:text" json:"notes,omitempty"`
	Outcome   InteractionOutcome `gorm:"type:varchar(15)" json:"outcome,omitempty"`
	Agent     string             `gorm:"type:varchar(36)" json:"agent,omitempty"`
	Date      time.Time          `gorm:"not null" json:"date"`
	CreatedAt time.Time          `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (LeadInteraction) TableName() string {
	return "lead_interactions"
}

// SearchPreferences captures what a prospect or customer is looking for
type SearchPreferences struct {
	PropertyType string   `json:"property_type,omitempty"`
	MinPrice     *float64 `json:"min_price,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	MinBeds      *int     `json:"min_beds,omitempty"`
	MaxBeds      *int     `json:"max_beds,omitempty"`
	Locations    []string `json:"locations,omitempty"`
}

// Merge overlays the provided fields onto the existing preferences;
// absent fields stay unchanged
func (p *SearchPreferences) Merge(in SearchPreferences) {
	if in.PropertyType != "" {
		p.PropertyType = in.PropertyType
	}
	if in.MinPrice != nil {
		p.MinPrice = in.MinPrice
	}
	if in.MaxPrice != nil {
		p.MaxPrice = in.MaxPrice
	}
	if in.MinBeds != nil {
		p.MinBeds = in.MinBeds
	}
	if in.MaxBeds != nil {
		p.MaxBeds = in.MaxBeds
	}
	if in.Locations != nil {
		p.Locations = in.Locations
	}
}

// LeadSource is the acquisition channel
type LeadSource string

const (
	LeadSourceWebsite       LeadSource = "website"
	LeadSourcePhoneCall     LeadSource = "phone_call"
	LeadSourceEmail         LeadSource = "email"
	LeadSourceReferral      LeadSource = "referral"
	LeadSourceSocialMedia   LeadSource = "social_media"
	LeadSourceAdvertisement LeadSource = "advertisement"
	LeadSourceWalkIn        LeadSource = "walk_in"
	LeadSourceOther         LeadSource = "other"
)

func (s LeadSource) Valid() bool {
	switch s {
	case LeadSourceWebsite, LeadSourcePhoneCall, LeadSourceEmail, LeadSourceReferral,
		LeadSourceSocialMedia, LeadSourceAdvertisement, LeadSourceWalkIn, LeadSourceOther:
		return true
	}
	return false
}

// LeadStatus is the pipeline stage
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified,
		LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

// FunnelOrder is the pipeline stage sequence used by funnel reporting
var FunnelOrder = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusConverted,
}

// LeadPriority is the follow-up urgency
type LeadPriority string

const (
	LeadPriorityLow    LeadPriority = "low"
	LeadPriorityMedium LeadPriority = "medium"
	LeadPriorityHigh   LeadPriority = "high"
	LeadPriorityUrgent LeadPriority = "urgent"
)

func (p LeadPriority) Valid() bool {
	switch p {
	case LeadPriorityLow, LeadPriorityMedium, LeadPriorityHigh, LeadPriorityUrgent:
		return true
	}
	return false
}

// InteractionType classifies a contact-history entry
type InteractionType string

const (
	InteractionCall            InteractionType = "call"
	InteractionEmail           InteractionType = "email"
	InteractionMeeting         InteractionType = "meeting"
	InteractionPropertyViewing InteractionType = "property_viewing"
	InteractionFollowUp        InteractionType = "follow_up"
	InteractionNote            InteractionType = "note"
)

func (t InteractionType) Valid() bool {
	switch t {
	case InteractionCall, InteractionEmail, InteractionMeeting,
		InteractionPropertyViewing, InteractionFollowUp, InteractionNote:
		return true
	}
	return false
}

// InteractionOutcome records how a contact went
type InteractionOutcome string

const (
	OutcomePositive   InteractionOutcome = "positive"
	OutcomeNeutral    InteractionOutcome = "neutral"
	OutcomeNegative   InteractionOutcome = "negative"
	OutcomeNoResponse InteractionOutcome = "no_response"
)

func (o InteractionOutcome) Valid() bool {
	switch o {
	case OutcomePositive, OutcomeNeutral, OutcomeNegative, OutcomeNoResponse:
		return true
	}
	return false
}

var (
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)
)

// ValidEmail reports whether s looks like a deliverable address
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone reports whether s contains only phone characters
func ValidPhone(s string) bool {
	return s == "" || phonePattern.MatchString(s)
}
