package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"real-estate-marketplace/internal/models"
)

// Public search results never exceed this many rows per page.
const MaxPublicPageSize = 50

// PropertyFilters narrows listing queries. Zero values mean "no constraint".
type PropertyFilters struct {
	Status        string
	PublishStatus string
	PropertyType  string
	ListingType   string
	MinPrice      *float64
	MaxPrice      *float64
	MinBeds       *int
	MaxBeds       *int
	MinBaths      *int
	MinSqft       *int
	Search        string
	Featured      *bool
	OwnerID       string
	SortBy        string
	Page          int
	Limit         int
}

func (f *PropertyFilters) pagination() (limit, offset int) {
	limit = f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// applyCommon adds the filter clauses shared by public and management scopes
func (f *PropertyFilters) applyCommon(q *gorm.DB) *gorm.DB {
	if f.PropertyType != "" {
		q = q.Where("property_type = ?", f.PropertyType)
	}
	if f.ListingType != "" {
		q = q.Where("listing_type = ?", f.ListingType)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinBeds != nil {
		q = q.Where("beds >= ?", *f.MinBeds)
	}
	if f.MaxBeds != nil {
		q = q.Where("beds <= ?", *f.MaxBeds)
	}
	if f.MinBaths != nil {
		q = q.Where("baths >= ?", *f.MinBaths)
	}
	if f.MinSqft != nil {
		q = q.Where("sqft >= ?", *f.MinSqft)
	}
	if f.Featured != nil {
		q = q.Where("is_featured = ?", *f.Featured)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("title LIKE ? OR description LIKE ? OR address LIKE ?", like, like, like)
	}
	return q
}

// orderClause maps the sort parameter to an ORDER BY clause
func orderClause(sortBy string) string {
	switch sortBy {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	case "beds_desc":
		return "beds DESC"
	case "views_desc":
		return "views DESC"
	case "oldest":
		return "created_at ASC"
	default:
		// Newest first
		return "created_at DESC"
	}
}

// PublicListings retrieves published properties matching the filters.
// A for_sale/for_rent status filter is widened to also match listings
// marketed with a compatible listing_type, since the two axes are set
// independently and frequently disagree on older records.
func (gdb *GormDB) PublicListings(f PropertyFilters) ([]models.Property, int64, error) {
	q := gdb.db.Model(&models.Property{}).
		Where("publish_status = ?", models.PublishStatusPublished)

	switch models.ListingStatus(f.Status) {
	case models.StatusForSale:
		q = q.Where("status = ? OR listing_type IN ?",
			models.StatusForSale, []models.ListingType{models.ListingTypeSale, models.ListingTypeBoth})
	case models.StatusForRent:
		q = q.Where("status = ? OR listing_type IN ?",
			models.StatusForRent, []models.ListingType{models.ListingTypeRent, models.ListingTypeBoth})
	case "":
	default:
		q = q.Where("status = ?", f.Status)
	}

	q = f.applyCommon(q)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := f.pagination()
	if limit > MaxPublicPageSize {
		limit = MaxPublicPageSize
	}

	var properties []models.Property
	err := q.Order("is_featured DESC").Order(orderClause(f.SortBy)).
		Limit(limit).Offset(offset).
		Find(&properties).Error
	return properties, total, err
}

// ManagementListings retrieves properties without the published-only scope,
// optionally restricted to one owner.
func (gdb *GormDB) ManagementListings(f PropertyFilters) ([]models.Property, int64, error) {
	q := gdb.db.Model(&models.Property{})

	if f.OwnerID != "" {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PublishStatus != "" {
		q = q.Where("publish_status = ?", f.PublishStatus)
	}
	q = f.applyCommon(q)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := f.pagination()

	var properties []models.Property
	err := q.Order(orderClause(f.SortBy)).
		Limit(limit).Offset(offset).
		Find(&properties).Error
	return properties, total, err
}

// FeaturedListings retrieves published featured properties, newest first
func (gdb *GormDB) FeaturedListings(limit int) ([]models.Property, error) {
	if limit <= 0 || limit > MaxPublicPageSize {
		limit = 10
	}
	var properties []models.Property
	err := gdb.db.
		Where("publish_status = ? AND is_featured = ?", models.PublishStatusPublished, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&properties).Error
	return properties, err
}

// NearbyListings retrieves published properties within radiusKm of a point
// using a degree bounding box (1 degree is roughly 111km). Good enough at
// city scale; no great-circle math.
func (gdb *GormDB) NearbyListings(lat, lng, radiusKm float64, limit int) ([]models.Property, error) {
	if radiusKm <= 0 {
		radiusKm = 10
	}
	if limit <= 0 || limit > MaxPublicPageSize {
		limit = 20
	}
	delta := radiusKm / 111.0

	var properties []models.Property
	err := gdb.db.
		Where("publish_status = ?", models.PublishStatusPublished).
		Where("lat BETWEEN ? AND ?", lat-delta, lat+delta).
		Where("lng BETWEEN ? AND ?", lng-delta, lng+delta).
		Order("created_at DESC").
		Limit(limit).
		Find(&properties).Error
	return properties, err
}

// GetProperty retrieves a property by ID
func (gdb *GormDB) GetProperty(id string) (*models.Property, error) {
	var property models.Property
	err := gdb.db.Where("id = ?", id).First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// CreateProperty inserts a new property
func (gdb *GormDB) CreateProperty(p *models.Property) error {
	return gdb.db.Create(p).Error
}

// SaveProperty persists all fields of an existing property
func (gdb *GormDB) SaveProperty(p *models.Property) error {
	return gdb.db.Save(p).Error
}

// DeleteProperty removes a property row
func (gdb *GormDB) DeleteProperty(id string) error {
	return gdb.db.Where("id = ?", id).Delete(&models.Property{}).Error
}

// IncrementViews bumps the view counter atomically in SQL so concurrent
// detail reads never lose increments.
func (gdb *GormDB) IncrementViews(id string) error {
	return gdb.db.Model(&models.Property{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// StatusCount is one group-by bucket of the catalog breakdown
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// TypeCount is one property-type bucket of the catalog breakdown
type TypeCount struct {
	PropertyType string `json:"property_type"`
	Count        int64  `json:"count"`
}

// MonthCount is one month bucket of listing creation volume
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// PropertyStatusBreakdown counts properties per listing status
func (gdb *GormDB) PropertyStatusBreakdown() ([]StatusCount, error) {
	var stats []StatusCount
	err := gdb.db.Model(&models.Property{}).
		Select("status, count(*) as count").
		Group("status").
		Order("count DESC").
		Scan(&stats).Error
	return stats, err
}

// PropertyTypeBreakdown counts properties per property type
func (gdb *GormDB) PropertyTypeBreakdown() ([]TypeCount, error) {
	var stats []TypeCount
	err := gdb.db.Model(&models.Property{}).
		Select("property_type, count(*) as count").
		Group("property_type").
		Order("count DESC").
		Scan(&stats).Error
	return stats, err
}

// MonthlyListingStats counts listings created per month over the whole table
func (gdb *GormDB) MonthlyListingStats() ([]MonthCount, error) {
	expr := gdb.monthExpr()
	var stats []MonthCount
	err := gdb.db.Model(&models.Property{}).
		Select(expr + " as month, count(*) as count").
		Group(expr).
		Order("month DESC").
		Limit(12).
		Scan(&stats).Error
	return stats, err
}

// CountProperties returns the total row count
func (gdb *GormDB) CountProperties() (int64, error) {
	var n int64
	err := gdb.db.Model(&models.Property{}).Count(&n).Error
	return n, err
}
