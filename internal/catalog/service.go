package catalog

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"real-estate-marketplace/internal/activity"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/errs"
	"real-estate-marketplace/internal/models"
	"real-estate-marketplace/internal/search"
)

// Ledger records behavioral events without failing the caller
type Ledger interface {
	Record(ev activity.Event)
}

// Service owns the property catalog
type Service struct {
	db     *database.GormDB
	search *search.SearchClient
	ledger Ledger
}

// NewService creates the catalog service. searchClient may be nil when the
// side index is disabled; the catalog then serves text search from SQL.
func NewService(db *database.GormDB, searchClient *search.SearchClient, ledger Ledger) *Service {
	return &Service{db: db, search: searchClient, ledger: ledger}
}

// Create validates and persists a new draft listing owned by the actor
func (s *Service) Create(actor models.Actor, in CreateInput) (*models.Property, error) {
	if actor.Anonymous() {
		return nil, errs.Forbidden("listing creation requires an authenticated user")
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.YearBuilt != nil && !validYearBuilt(*in.YearBuilt) {
		return nil, errs.FieldError("yearBuilt", "must be between 1800 and five years from now")
	}

	p := &models.Property{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Description:   in.Description,
		Price:         in.Price,
		Currency:      models.CurrencyETB,
		Beds:          in.Beds,
		Baths:         in.Baths,
		Sqft:          in.Sqft,
		Address:       in.Address,
		PropertyType:  models.PropertyType(in.PropertyType),
		Status:        models.StatusForSale,
		PublishStatus: models.PublishStatusDraft,
		ListingType:   models.ListingTypeSale,
		YearBuilt:     in.YearBuilt,
		LotSize:       in.LotSize,
		Features:      in.Features,
		Images:        in.Images,
		IsFeatured:    in.IsFeatured,
		OwnerID:       actor.ID,
		Lat:           models.DefaultLat,
		Lng:           models.DefaultLng,
	}

	if in.Currency != "" {
		p.Currency = models.Currency(in.Currency)
	}
	if in.Status != "" {
		p.Status = models.ListingStatus(in.Status)
	}
	if in.ListingType != "" {
		p.ListingType = models.ListingType(in.ListingType)
	}
	if in.Lat != nil {
		p.Lat = *in.Lat
	}
	if in.Lng != nil {
		p.Lng = *in.Lng
	}
	if !in.ContactInfo.Empty() {
		p.ContactInfo = in.ContactInfo
	}
	// Only admins can seed featured placement
	if in.IsFeatured && !actor.IsAdmin() {
		p.IsFeatured = false
	}

	if err := s.db.CreateProperty(p); err != nil {
		return nil, err
	}

	s.ledger.Record(activity.Event{
		Type:       models.ActivityPropertyUpload,
		Actor:      actor,
		PropertyID: p.ID,
	})

	return p, nil
}

// PublicGet retrieves one listing for an external viewer. Unpublished
// listings are hidden as not-found unless the actor can manage them. A
// successful public read bumps the view counter and records the view.
func (s *Service) PublicGet(actor models.Actor, id string, meta activity.Event) (*models.Property, error) {
	p, err := s.get(id)
	if err != nil {
		return nil, err
	}

	if !p.IsPublished() {
		if !actor.CanManage(p.OwnerID) {
			return nil, errs.NotFound("property", id)
		}
		return p, nil
	}

	// Owners reading their own listing do not count as a view
	if actor.ID != p.OwnerID {
		if err := s.db.IncrementViews(id); err != nil {
			log.Printf("Catalog: Failed to increment views for %s: %v", id, err)
		} else {
			p.Views++
		}

		meta.Type = models.ActivityPropertyView
		meta.Actor = actor
		meta.PropertyID = id
		s.ledger.Record(meta)
	}

	return p, nil
}

// ManagementGet retrieves one listing for its owner or an admin
func (s *Service) ManagementGet(actor models.Actor, id string) (*models.Property, error) {
	p, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(p.OwnerID) {
		return nil, errs.Forbidden("not the listing owner")
	}
	return p, nil
}

// Update applies a partial update; owner or admin only
func (s *Service) Update(actor models.Actor, id string, in UpdateInput) (*models.Property, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.YearBuilt != nil && !validYearBuilt(*in.YearBuilt) {
		return nil, errs.FieldError("yearBuilt", "must be between 1800 and five years from now")
	}

	p, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(p.OwnerID) {
		return nil, errs.Forbidden("not the listing owner")
	}

	applyUpdate(p, in)

	if err := s.db.SaveProperty(p); err != nil {
		return nil, err
	}

	s.reindex(p)
	s.ledger.Record(activity.Event{
		Type:       models.ActivityPropertyEdit,
		Actor:      actor,
		PropertyID: p.ID,
	})

	return p, nil
}

func applyUpdate(p *models.Property, in UpdateInput) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Currency != nil {
		p.Currency = models.Currency(*in.Currency)
	}
	if in.Beds != nil {
		p.Beds = *in.Beds
	}
	if in.Baths != nil {
		p.Baths = *in.Baths
	}
	if in.Sqft != nil {
		p.Sqft = *in.Sqft
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.Lat != nil {
		p.Lat = *in.Lat
	}
	if in.Lng != nil {
		p.Lng = *in.Lng
	}
	if in.PropertyType != nil {
		p.PropertyType = models.PropertyType(*in.PropertyType)
	}
	if in.Status != nil {
		p.Status = models.ListingStatus(*in.Status)
	}
	if in.ListingType != nil {
		p.ListingType = models.ListingType(*in.ListingType)
	}
	if in.YearBuilt != nil {
		p.YearBuilt = in.YearBuilt
	}
	if in.LotSize != nil {
		p.LotSize = in.LotSize
	}
	if in.Features != nil {
		p.Features = *in.Features
	}
	if in.Images != nil {
		p.Images = *in.Images
	}
	if in.ContactInfo != nil {
		if in.ContactInfo.Empty() {
			p.ContactInfo = nil
		} else {
			p.ContactInfo = in.ContactInfo
		}
	}
}

// Delete removes a listing; owner or admin only
func (s *Service) Delete(actor models.Actor, id string) error {
	p, err := s.get(id)
	if err != nil {
		return err
	}
	if !actor.CanManage(p.OwnerID) {
		return errs.Forbidden("not the listing owner")
	}

	if err := s.db.DeleteProperty(id); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.RemoveListing(id); err != nil {
			log.Printf("Catalog: Failed to deindex %s: %v", id, err)
		}
	}

	s.ledger.Record(activity.Event{
		Type:       models.ActivityPropertyDelete,
		Actor:      actor,
		PropertyID: id,
	})

	return nil
}

// Publish makes a listing externally visible; owner or admin only
func (s *Service) Publish(actor models.Actor, id string) (*models.Property, error) {
	p, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(p.OwnerID) {
		return nil, errs.Forbidden("not the listing owner")
	}

	p.Publish()
	if err := s.db.SaveProperty(p); err != nil {
		return nil, err
	}

	s.reindex(p)
	s.ledger.Record(activity.Event{
		Type:       models.ActivityPropertyPublish,
		Actor:      actor,
		PropertyID: p.ID,
	})

	return p, nil
}

// Archive hides a listing; owner or admin only
func (s *Service) Archive(actor models.Actor, id string) (*models.Property, error) {
	p, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(p.OwnerID) {
		return nil, errs.Forbidden("not the listing owner")
	}

	p.Archive()
	if err := s.db.SaveProperty(p); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.RemoveListing(p.ID); err != nil {
			log.Printf("Catalog: Failed to deindex %s: %v", p.ID, err)
		}
	}

	s.ledger.Record(activity.Event{
		Type:       models.ActivityPropertyArchive,
		Actor:      actor,
		PropertyID: p.ID,
	})

	return p, nil
}

// MarkDraft returns a listing to draft; owner or admin only
func (s *Service) MarkDraft(actor models.Actor, id string) (*models.Property, error) {
	p, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(p.OwnerID) {
		return nil, errs.Forbidden("not the listing owner")
	}

	p.SetAsDraft()
	if err := s.db.SaveProperty(p); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.RemoveListing(p.ID); err != nil {
			log.Printf("Catalog: Failed to deindex %s: %v", p.ID, err)
		}
	}

	return p, nil
}

// ToggleStatus cycles the transactional status; owner or admin only
func (s *Service) ToggleStatus(actor models.Actor, id string) (*models.Property, error) {
	p, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(p.OwnerID) {
		return nil, errs.Forbidden("not the listing owner")
	}

	p.ToggleSaleStatus()
	if err := s.db.SaveProperty(p); err != nil {
		return nil, err
	}

	s.reindex(p)
	return p, nil
}

// SetFeatured curates the featured flag; admin only
func (s *Service) SetFeatured(actor models.Actor, id string, featured bool) (*models.Property, error) {
	if !actor.IsAdmin() {
		return nil, errs.Forbidden("featured curation requires admin role")
	}

	p, err := s.get(id)
	if err != nil {
		return nil, err
	}

	p.IsFeatured = featured
	if err := s.db.SaveProperty(p); err != nil {
		return nil, err
	}

	s.reindex(p)
	return p, nil
}

// Search serves the public listing search and records the query
func (s *Service) Search(actor models.Actor, f database.PropertyFilters, meta activity.Event) ([]models.Property, int64, error) {
	properties, total, err := s.db.PublicListings(f)
	if err != nil {
		return nil, 0, err
	}

	n := len(properties)
	meta.Type = models.ActivitySearch
	meta.Actor = actor
	meta.SearchQuery = f.Search
	meta.ResultCount = &n
	s.ledger.Record(meta)

	return properties, total, nil
}

// TextSearch serves free-text search from the side index, falling back to
// SQL LIKE when the index is unavailable.
func (s *Service) TextSearch(actor models.Actor, query string, limit int64, meta activity.Event) ([]models.Property, error) {
	var (
		properties []models.Property
		err        error
	)

	if s.search != nil {
		properties, err = s.search.Search(query, limit)
		if err != nil {
			log.Printf("Catalog: Search index error, falling back to SQL: %v", err)
		}
	}
	if s.search == nil || err != nil {
		properties, _, err = s.db.PublicListings(database.PropertyFilters{
			Search: query,
			Limit:  int(limit),
		})
		if err != nil {
			return nil, err
		}
	}

	n := len(properties)
	meta.Type = models.ActivitySearch
	meta.Actor = actor
	meta.SearchQuery = query
	meta.ResultCount = &n
	s.ledger.Record(meta)

	return properties, nil
}

// FilteredTextSearch serves free-text search with structured filters from
// the side index, falling back to SQL when the index is unavailable.
func (s *Service) FilteredTextSearch(actor models.Actor, params search.FilterParams, meta activity.Event) ([]models.Property, error) {
	var (
		properties []models.Property
		err        error
	)

	if s.search != nil {
		properties, err = s.search.FilterSearch(params)
		if err != nil {
			log.Printf("Catalog: Search index error, falling back to SQL: %v", err)
		}
	}
	if s.search == nil || err != nil {
		f := database.PropertyFilters{
			Search:   params.Query,
			Status:   params.Status,
			MinPrice: params.MinPrice,
			MaxPrice: params.MaxPrice,
			MinBeds:  params.MinBeds,
			MinBaths: params.MinBaths,
			Limit:    int(params.Limit),
		}
		if len(params.PropertyTypes) == 1 {
			f.PropertyType = params.PropertyTypes[0]
		}
		properties, _, err = s.db.PublicListings(f)
		if err != nil {
			return nil, err
		}
	}

	n := len(properties)
	meta.Type = models.ActivitySearch
	meta.Actor = actor
	meta.SearchQuery = params.Query
	meta.FilterCriteria = filterCriteria(params)
	meta.ResultCount = &n
	s.ledger.Record(meta)

	return properties, nil
}

// filterCriteria flattens the structured filters for the ledger row
func filterCriteria(params search.FilterParams) map[string]interface{} {
	criteria := make(map[string]interface{})
	if params.MinPrice != nil {
		criteria["min_price"] = *params.MinPrice
	}
	if params.MaxPrice != nil {
		criteria["max_price"] = *params.MaxPrice
	}
	if params.MinBeds != nil {
		criteria["min_beds"] = *params.MinBeds
	}
	if params.MinBaths != nil {
		criteria["min_baths"] = *params.MinBaths
	}
	if len(params.PropertyTypes) > 0 {
		criteria["property_types"] = params.PropertyTypes
	}
	if params.Status != "" {
		criteria["status"] = params.Status
	}
	return criteria
}

// SearchFacets reports filterable value counts from the side index for
// the public filter UI. Requires the index to be configured.
func (s *Service) SearchFacets() (map[string]interface{}, error) {
	if s.search == nil {
		return nil, errors.New("search index not configured")
	}
	return s.search.GetFacets([]string{"propertyType", "status", "listing_type", "is_featured"})
}

// ManagementList serves the back-office listing table; admin sees all,
// everyone else only their own listings.
func (s *Service) ManagementList(actor models.Actor, f database.PropertyFilters) ([]models.Property, int64, error) {
	if actor.Anonymous() {
		return nil, 0, errs.Forbidden("management listings require an authenticated user")
	}
	if !actor.IsAdmin() {
		f.OwnerID = actor.ID
	}
	return s.db.ManagementListings(f)
}

// OwnerListings serves one user's listings regardless of publish status
func (s *Service) OwnerListings(actor models.Actor, ownerID string, f database.PropertyFilters) ([]models.Property, int64, error) {
	if !actor.CanManage(ownerID) {
		return nil, 0, errs.Forbidden("not the listing owner")
	}
	f.OwnerID = ownerID
	return s.db.ManagementListings(f)
}

// Featured serves the public featured strip
func (s *Service) Featured(limit int) ([]models.Property, error) {
	return s.db.FeaturedListings(limit)
}

// Nearby serves the public radius search
func (s *Service) Nearby(lat, lng, radiusKm float64, limit int) ([]models.Property, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, errs.FieldError("coordinates", "out of range")
	}
	return s.db.NearbyListings(lat, lng, radiusKm, limit)
}

// StatusBreakdown reports listing counts per status; admin only
func (s *Service) StatusBreakdown(actor models.Actor) ([]database.StatusCount, error) {
	if !actor.IsAdmin() {
		return nil, errs.Forbidden("catalog stats require admin role")
	}
	return s.db.PropertyStatusBreakdown()
}

// TypeBreakdown reports listing counts per property type; admin only
func (s *Service) TypeBreakdown(actor models.Actor) ([]database.TypeCount, error) {
	if !actor.IsAdmin() {
		return nil, errs.Forbidden("catalog stats require admin role")
	}
	return s.db.PropertyTypeBreakdown()
}

// MonthlyStats reports listing creation volume per month; admin only
func (s *Service) MonthlyStats(actor models.Actor) ([]database.MonthCount, error) {
	if !actor.IsAdmin() {
		return nil, errs.Forbidden("catalog stats require admin role")
	}
	return s.db.MonthlyListingStats()
}

// Reindex rebuilds the side index from published listings; admin only
func (s *Service) Reindex(actor models.Actor) (int, error) {
	if !actor.IsAdmin() {
		return 0, errs.Forbidden("reindex requires admin role")
	}
	if s.search == nil {
		return 0, errors.New("search index not configured")
	}

	published, _, err := s.db.PublicListings(database.PropertyFilters{Limit: database.MaxPublicPageSize})
	if err != nil {
		return 0, err
	}

	total := 0
	page := 1
	for len(published) > 0 {
		if err := s.search.IndexListings(published); err != nil {
			return total, err
		}
		total += len(published)
		if len(published) < database.MaxPublicPageSize {
			break
		}
		page++
		published, _, err = s.db.PublicListings(database.PropertyFilters{
			Limit: database.MaxPublicPageSize,
			Page:  page,
		})
		if err != nil {
			return total, err
		}
	}

	log.Printf("Catalog: Reindexed %d published listings", total)
	return total, nil
}

// reindex refreshes one listing in the side index when published
func (s *Service) reindex(p *models.Property) {
	if s.search == nil {
		return
	}
	if !p.IsPublished() {
		return
	}
	if err := s.search.IndexListing(p); err != nil {
		log.Printf("Catalog: Failed to index %s: %v", p.ID, err)
	}
}

func (s *Service) get(id string) (*models.Property, error) {
	p, err := s.db.GetProperty(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("property", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
