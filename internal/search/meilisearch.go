package search

import (
	"real-estate-marketplace/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "listings",
	}
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"title",
		"description",
		"address",
		"features",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"id",
		"price",
		"beds",
		"baths",
		"propertyType",
		"status",
		"listing_type",
		"is_featured",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"price",
		"beds",
		"created_at",
	})
	if err != nil {
		return err
	}

	return nil
}

// IndexListing indexes a single published listing
func (s *SearchClient) IndexListing(property *models.Property) error {
	_, err := s.client.Index(s.index).AddDocuments([]models.Property{*property})
	return err
}

// IndexListings indexes multiple listings
func (s *SearchClient) IndexListings(properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}
	_, err := s.client.Index(s.index).AddDocuments(properties)
	return err
}

// RemoveListing drops a listing from the index
func (s *SearchClient) RemoveListing(id string) error {
	_, err := s.client.Index(s.index).DeleteDocument(id)
	return err
}

// SearchRequest represents advanced search parameters
type SearchRequest struct {
	Query                string
	Limit                int64
	Offset               int64
	Filter               []string
	Sort                 []string
	FacetsFilter         []string
	AttributesToRetrieve []string
}

// SearchResult represents search results with facets
type SearchResult struct {
	Hits           []models.Property
	TotalHits      int64
	Facets         map[string]interface{}
	ProcessingTime int64
}

// Search searches listings with basic options
func (s *SearchClient) Search(query string, limit int64) ([]models.Property, error) {
	result, err := s.AdvancedSearch(SearchRequest{
		Query: query,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	return result.Hits, nil
}

// AdvancedSearch performs advanced search with facets and filters
func (s *SearchClient) AdvancedSearch(req SearchRequest) (*SearchResult, error) {
	if req.Limit == 0 {
		req.Limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	if len(req.Filter) > 0 {
		filterStr := ""
		for i, f := range req.Filter {
			if i > 0 {
				filterStr += " AND "
			}
			filterStr += f
		}
		searchReq.Filter = filterStr
	}

	if len(req.Sort) > 0 {
		searchReq.Sort = req.Sort
	}

	if len(req.FacetsFilter) > 0 {
		searchReq.Facets = req.FacetsFilter
	}

	if len(req.AttributesToRetrieve) > 0 {
		searchReq.AttributesToRetrieve = req.AttributesToRetrieve
	}

	searchRes, err := s.client.Index(s.index).Search(req.Query, searchReq)
	if err != nil {
		return nil, err
	}

	properties := make([]models.Property, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		property := parseListingFromHit(hit)
		properties = append(properties, property)
	}

	var facets map[string]interface{}
	if searchRes.FacetDistribution != nil {
		facets, _ = searchRes.FacetDistribution.(map[string]interface{})
	}

	result := &SearchResult{
		Hits:           properties,
		TotalHits:      searchRes.EstimatedTotalHits,
		Facets:         facets,
		ProcessingTime: searchRes.ProcessingTimeMs,
	}

	return result, nil
}

// parseListingFromHit converts a search hit to a Property
func parseListingFromHit(hit interface{}) models.Property {
	hitMap := hit.(map[string]interface{})
	property := models.Property{
		ID:            getString(hitMap, "id"),
		Title:         getString(hitMap, "title"),
		Description:   getString(hitMap, "description"),
		Address:       getString(hitMap, "address"),
		PropertyType:  models.PropertyType(getString(hitMap, "propertyType")),
		Status:        models.ListingStatus(getString(hitMap, "status")),
		PublishStatus: models.PublishStatus(getString(hitMap, "publish_status")),
		ListingType:   models.ListingType(getString(hitMap, "listing_type")),
		Currency:      models.Currency(getString(hitMap, "currency")),
		OwnerID:       getString(hitMap, "owner_id"),
	}

	if price, ok := hitMap["price"].(float64); ok {
		property.Price = price
	}
	if beds, ok := hitMap["beds"].(float64); ok {
		property.Beds = int(beds)
	}
	if baths, ok := hitMap["baths"].(float64); ok {
		property.Baths = int(baths)
	}
	if sqft, ok := hitMap["sqft"].(float64); ok {
		property.Sqft = int(sqft)
	}
	if featured, ok := hitMap["is_featured"].(bool); ok {
		property.IsFeatured = featured
	}

	return property
}

// getString safely extracts a string from map
func getString(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

// GetFacets retrieves facet distribution for specified fields
func (s *SearchClient) GetFacets(facets []string) (map[string]interface{}, error) {
	searchRes, err := s.client.Index(s.index).Search("", &meilisearch.SearchRequest{
		Limit:  0,
		Facets: facets,
	})
	if err != nil {
		return nil, err
	}

	if searchRes.FacetDistribution != nil {
		if facetMap, ok := searchRes.FacetDistribution.(map[string]interface{}); ok {
			return facetMap, nil
		}
	}
	return map[string]interface{}{}, nil
}
