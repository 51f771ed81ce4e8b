package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"real-estate-marketplace/internal/catalog"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/models"
	"real-estate-marketplace/internal/search"
)

// PropertyHandler handles catalog requests
type PropertyHandler struct {
	catalog *catalog.Service
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(catalogSvc *catalog.Service) *PropertyHandler {
	return &PropertyHandler{catalog: catalogSvc}
}

// SearchProperties handles the public listing search
func (h *PropertyHandler) SearchProperties(c *gin.Context) {
	f := propertyFiltersFrom(c)

	properties, total, err := h.catalog.Search(ActorFrom(c), f, requestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"total":      total,
		"page":       f.Page,
		"count":      len(properties),
	})
}

// TextSearch handles free-text search against the side index
func (h *PropertyHandler) TextSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	params, filtered := searchFilterParams(c)
	var (
		properties []models.Property
		err        error
	)
	if filtered {
		params.Query = query
		params.Limit = limit
		properties, err = h.catalog.FilteredTextSearch(ActorFrom(c), params, requestMeta(c))
	} else {
		properties, err = h.catalog.TextSearch(ActorFrom(c), query, limit, requestMeta(c))
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"count":      len(properties),
	})
}

// searchFilterParams parses the structured filter query params; filtered
// reports whether any were supplied
func searchFilterParams(c *gin.Context) (search.FilterParams, bool) {
	var params search.FilterParams
	filtered := false

	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		params.MinPrice = &v
		filtered = true
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		params.MaxPrice = &v
		filtered = true
	}
	if v, err := strconv.Atoi(c.Query("min_beds")); err == nil {
		params.MinBeds = &v
		filtered = true
	}
	if v, err := strconv.Atoi(c.Query("min_baths")); err == nil {
		params.MinBaths = &v
		filtered = true
	}
	if pt := c.Query("propertyType"); pt != "" {
		params.PropertyTypes = []string{pt}
		filtered = true
	}
	if st := c.Query("status"); st != "" {
		params.Status = st
		filtered = true
	}
	if sort := c.Query("sort"); sort != "" {
		params.SortBy = sort
		filtered = true
	}
	return params, filtered
}

// GetSearchFacets handles facet counts for the public filter UI
func (h *PropertyHandler) GetSearchFacets(c *gin.Context) {
	facets, err := h.catalog.SearchFacets()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search index not available"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"facets": facets})
}

// GetFeatured handles the public featured strip
func (h *PropertyHandler) GetFeatured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	properties, err := h.catalog.Featured(limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"count":      len(properties),
	})
}

// GetNearby handles the public radius search
func (h *PropertyHandler) GetNearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})
		return
	}
	radius, _ := strconv.ParseFloat(c.DefaultQuery("radius", "10"), 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	properties, err := h.catalog.Nearby(lat, lng, radius, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"count":      len(properties),
	})
}

// GetProperty handles the public listing detail
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	property, err := h.catalog.PublicGet(ActorFrom(c), c.Param("id"), requestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// CreateProperty handles listing intake
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	var in catalog.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	property, err := h.catalog.Create(ActorFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

// UpdateProperty handles partial listing updates
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	var in catalog.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	property, err := h.catalog.Update(ActorFrom(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// DeleteProperty handles listing deletion
func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	if err := h.catalog.Delete(ActorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "property deleted"})
}

// PublishProperty makes a listing externally visible
func (h *PropertyHandler) PublishProperty(c *gin.Context) {
	property, err := h.catalog.Publish(ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// ArchiveProperty hides a listing
func (h *PropertyHandler) ArchiveProperty(c *gin.Context) {
	property, err := h.catalog.Archive(ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// DraftProperty returns a listing to draft
func (h *PropertyHandler) DraftProperty(c *gin.Context) {
	property, err := h.catalog.MarkDraft(ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// ToggleStatus cycles for_sale<->sold / for_rent<->rented
func (h *PropertyHandler) ToggleStatus(c *gin.Context) {
	property, err := h.catalog.ToggleStatus(ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// SetFeatured curates the featured flag
func (h *PropertyHandler) SetFeatured(c *gin.Context) {
	var req struct {
		Featured bool `json:"featured"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	property, err := h.catalog.SetFeatured(ActorFrom(c), c.Param("id"), req.Featured)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// ManageProperties handles the back-office listing table
func (h *PropertyHandler) ManageProperties(c *gin.Context) {
	f := propertyFiltersFrom(c)
	f.PublishStatus = c.Query("publish_status")

	properties, total, err := h.catalog.ManagementList(ActorFrom(c), f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"total":      total,
		"page":       f.Page,
		"count":      len(properties),
	})
}

// OwnerProperties lists one user's listings regardless of publish status
func (h *PropertyHandler) OwnerProperties(c *gin.Context) {
	f := propertyFiltersFrom(c)

	properties, total, err := h.catalog.OwnerListings(ActorFrom(c), c.Param("id"), f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"total":      total,
		"count":      len(properties),
	})
}

// propertyFiltersFrom parses the shared listing filters from query params
func propertyFiltersFrom(c *gin.Context) database.PropertyFilters {
	f := database.PropertyFilters{
		Status:       c.Query("status"),
		PropertyType: c.Query("propertyType"),
		ListingType:  c.Query("listing_type"),
		Search:       c.Query("search"),
		SortBy:       c.Query("sort"),
	}

	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if v := c.Query("min_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &p
		}
	}
	if v := c.Query("max_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
		}
	}
	if v := c.Query("min_beds"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.MinBeds = &n
		}
	}
	if v := c.Query("max_beds"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.MaxBeds = &n
		}
	}
	if v := c.Query("min_baths"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.MinBaths = &n
		}
	}
	if v := c.Query("min_sqft"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.MinSqft = &n
		}
	}
	if v := c.Query("featured"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Featured = &b
		}
	}

	return f
}
