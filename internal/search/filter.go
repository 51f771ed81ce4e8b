package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"real-estate-marketplace/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

type FilterParams struct {
	Query         string
	MinPrice      *float64
	MaxPrice      *float64
	MinBeds       *int
	MinBaths      *int
	PropertyTypes []string
	Status        string
	SortBy        string
	Limit         int64
}

// statusFilter widens for_sale/for_rent to match dual-purpose listings
// whose listing_type disagrees with status, mirroring the SQL surface
func statusFilter(status string) string {
	switch status {
	case "for_rent":
		return "(status = 'for_rent' OR listing_type = 'rent' OR listing_type = 'both')"
	case "for_sale":
		return "(status = 'for_sale' OR listing_type = 'sale' OR listing_type = 'both')"
	}
	return fmt.Sprintf("status = '%s'", status)
}

// FilterSearch performs free-text search with structured filters
func (s *SearchClient) FilterSearch(params FilterParams) ([]models.Property, error) {
	var filters []string

	if params.MinPrice != nil {
		filters = append(filters, fmt.Sprintf("price >= %g", *params.MinPrice))
	}
	if params.MaxPrice != nil {
		filters = append(filters, fmt.Sprintf("price <= %g", *params.MaxPrice))
	}

	if params.MinBeds != nil {
		filters = append(filters, fmt.Sprintf("beds >= %d", *params.MinBeds))
	}
	if params.MinBaths != nil {
		filters = append(filters, fmt.Sprintf("baths >= %d", *params.MinBaths))
	}

	if len(params.PropertyTypes) > 0 {
		typeFilters := make([]string, len(params.PropertyTypes))
		for i, t := range params.PropertyTypes {
			typeFilters[i] = fmt.Sprintf("propertyType = '%s'", t)
		}
		filters = append(filters, fmt.Sprintf("(%s)", strings.Join(typeFilters, " OR ")))
	}

	if params.Status != "" {
		filters = append(filters, statusFilter(params.Status))
	}

	var filterStr string
	if len(filters) > 0 {
		filterStr = strings.Join(filters, " AND ")
	}

	var sort []string
	if params.SortBy != "" {
		sort = []string{params.SortBy}
	}

	if params.Limit == 0 {
		params.Limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit: params.Limit,
	}

	if filterStr != "" {
		searchReq.Filter = filterStr
	}

	if len(sort) > 0 {
		searchReq.Sort = sort
	}

	searchRes, err := s.client.Index(s.index).Search(params.Query, searchReq)
	if err != nil {
		return nil, err
	}

	var properties []models.Property
	for _, hit := range searchRes.Hits {
		hitJSON, err := json.Marshal(hit)
		if err != nil {
			continue
		}

		var property models.Property
		if err := json.Unmarshal(hitJSON, &property); err != nil {
			continue
		}

		properties = append(properties, property)
	}

	return properties, nil
}
