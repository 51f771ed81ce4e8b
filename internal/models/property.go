package models

import "time"

type Property struct {
	ID          string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string   `gorm:"type:varchar(200);not null" json:"title"`
	Description string   `gorm:"type:text" json:"description,omitempty"`
	Price       float64  `gorm:"type:decimal(14,2);not null;index" json:"price"`
	Currency    Currency `gorm:"type:varchar(3);not null;default:'ETB'" json:"currency"`

	// Filter attributes
	Beds         int          `gorm:"type:int;not null;index" json:"beds"`
	Baths        int          `gorm:"type:int;not null;index" json:"baths"`
	Sqft         int          `gorm:"type:int;not null" json:"sqft"`
	Address      string       `gorm:"type:varchar(500);not null" json:"address"`
	Lat          float64      `gorm:"type:decimal(10,6)" json:"lat"`
	Lng          float64      `gorm:"type:decimal(10,6)" json:"lng"`
	PropertyType PropertyType `gorm:"type:varchar(20);not null;index" json:"propertyType"`
	YearBuilt    *int         `gorm:"type:int" json:"yearBuilt,omitempty"`
	LotSize      *float64     `gorm:"type:decimal(12,2)" json:"lotSize,omitempty"`

	// Status axes. status and listing_type are independent and may disagree;
	// public search reconciles them (see database.PublicListings).
	Status        ListingStatus `gorm:"type:varchar(20);not null;default:'for_sale';index" json:"status"`
	PublishStatus PublishStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"publish_status"`
	ListingType   ListingType   `gorm:"type:varchar(10);not null;default:'sale'" json:"listing_type"`

	Features    []string     `gorm:"serializer:json;type:text" json:"features"`
	Images      []string     `gorm:"serializer:json;type:text" json:"images"`
	ContactInfo *ContactInfo `gorm:"serializer:json;type:text" json:"contact_info,omitempty"`

	IsFeatured bool  `gorm:"not null;default:false;index" json:"is_featured"`
	Views      int64 `gorm:"not null;default:0" json:"views"`

	OwnerID string `gorm:"type:varchar(36);not null;index" json:"owner_id"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime;index:idx_properties_created_at,sort:desc" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Property) TableName() string {
	return "properties"
}

// Currency is the listing price currency
type Currency string

const (
	CurrencyETB Currency = "ETB"
	CurrencyUSD Currency = "USD"
)

func (c Currency) Valid() bool {
	return c == CurrencyETB || c == CurrencyUSD
}

// PropertyType classifies the building
type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeCondo     PropertyType = "condo"
	PropertyTypeVilla     PropertyType = "villa"
	PropertyTypeTownhouse PropertyType = "townhouse"
	PropertyTypeStudio    PropertyType = "studio"
	PropertyTypeOther     PropertyType = "other"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeHouse, PropertyTypeApartment, PropertyTypeCondo,
		PropertyTypeVilla, PropertyTypeTownhouse, PropertyTypeStudio, PropertyTypeOther:
		return true
	}
	return false
}

// ListingStatus is the transactional status of a listing
type ListingStatus string

const (
	StatusForSale   ListingStatus = "for_sale"
	StatusForRent   ListingStatus = "for_rent"
	StatusSold      ListingStatus = "sold"
	StatusRented    ListingStatus = "rented"
	StatusOffMarket ListingStatus = "off_market"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case StatusForSale, StatusForRent, StatusSold, StatusRented, StatusOffMarket:
		return true
	}
	return false
}

// PublishStatus controls external visibility, independent of ListingStatus
type PublishStatus string

const (
	PublishStatusDraft         PublishStatus = "draft"
	PublishStatusPublished     PublishStatus = "published"
	PublishStatusArchived      PublishStatus = "archived"
	PublishStatusPendingReview PublishStatus = "pending_review"
)

func (s PublishStatus) Valid() bool {
	switch s {
	case PublishStatusDraft, PublishStatusPublished, PublishStatusArchived, PublishStatusPendingReview:
		return true
	}
	return false
}

// ListingType is how the property is marketed (sale, rent, or both)
type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
	ListingTypeBoth ListingType = "both"
)

func (t ListingType) Valid() bool {
	return t == ListingTypeSale || t == ListingTypeRent || t == ListingTypeBoth
}

// ContactInfo is an optional agent contact sub-record. An all-empty
// record is stripped at intake rather than persisted blank.
type ContactInfo struct {
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	AgentName string `json:"agent_name,omitempty"`
}

func (c *ContactInfo) Empty() bool {
	return c == nil || (c.Phone == "" && c.Email == "" && c.AgentName == "")
}

// Publish marks the listing as externally visible
func (p *Property) Publish() {
	p.PublishStatus = PublishStatusPublished
	now := time.Now()
	p.PublishedAt = &now
}

// Archive hides the listing and records when
func (p *Property) Archive() {
	p.PublishStatus = PublishStatusArchived
	now := time.Now()
	p.ArchivedAt = &now
}

// SetAsDraft returns the listing to draft and clears the publish timestamp
func (p *Property) SetAsDraft() {
	p.PublishStatus = PublishStatusDraft
	p.PublishedAt = nil
}

// ToggleSaleStatus cycles for_sale<->sold and for_rent<->rented. Any other
// status resets to for_sale.
func (p *Property) ToggleSaleStatus() {
	switch p.Status {
	case StatusForSale:
		p.Status = StatusSold
	case StatusSold:
		p.Status = StatusForSale
	case StatusForRent:
		p.Status = StatusRented
	case StatusRented:
		p.Status = StatusForRent
	default:
		p.Status = StatusForSale
	}
}

// IsOwnedBy reports whether the given user owns this listing
func (p *Property) IsOwnedBy(userID string) bool {
	return userID != "" && p.OwnerID == userID
}

// IsPublished reports whether the listing is externally visible
func (p *Property) IsPublished() bool {
	return p.PublishStatus == PublishStatusPublished
}

// Default coordinates applied when a listing is created without lat/lng
// (central Addis Ababa).
const (
	DefaultLat = 9.0320
	DefaultLng = 38.7469
)
