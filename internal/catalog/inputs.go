package catalog

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"real-estate-marketplace/internal/errs"
	"real-estate-marketplace/internal/models"
)

var validate = validator.New()

// CreateInput is the intake payload for a new listing
type CreateInput struct {
	Title        string   `json:"title" validate:"required,min=5,max=200"`
	Description  string   `json:"description" validate:"max=2000"`
	Price        float64  `json:"price" validate:"gte=0"`
	Currency     string   `json:"currency" validate:"omitempty,oneof=ETB USD"`
	Beds         int      `json:"beds" validate:"min=0,max=20"`
	Baths        int      `json:"baths" validate:"min=0,max=20"`
	Sqft         int      `json:"sqft" validate:"required,min=1"`
	Address      string   `json:"address" validate:"required,min=10,max=500"`
	Lat          *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng          *float64 `json:"lng" validate:"omitempty,gte=-180,lte=180"`
	PropertyType string   `json:"propertyType" validate:"required,oneof=house apartment condo villa townhouse studio other"`
	Status       string   `json:"status" validate:"omitempty,oneof=for_sale for_rent sold rented off_market"`
	ListingType  string   `json:"listing_type" validate:"omitempty,oneof=sale rent both"`
	YearBuilt    *int     `json:"yearBuilt"`
	LotSize      *float64 `json:"lotSize" validate:"omitempty,gt=0"`

	Features    []string            `json:"features"`
	Images      []string            `json:"images" validate:"dive,http_url"`
	ContactInfo *models.ContactInfo `json:"contact_info"`
	IsFeatured  bool                `json:"is_featured"`
}

// UpdateInput is the partial-update payload; nil fields stay unchanged
type UpdateInput struct {
	Title        *string  `json:"title" validate:"omitempty,min=5,max=200"`
	Description  *string  `json:"description" validate:"omitempty,max=2000"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	Currency     *string  `json:"currency" validate:"omitempty,oneof=ETB USD"`
	Beds         *int     `json:"beds" validate:"omitempty,min=0,max=20"`
	Baths        *int     `json:"baths" validate:"omitempty,min=0,max=20"`
	Sqft         *int     `json:"sqft" validate:"omitempty,min=1"`
	Address      *string  `json:"address" validate:"omitempty,min=10,max=500"`
	Lat          *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng          *float64 `json:"lng" validate:"omitempty,gte=-180,lte=180"`
	PropertyType *string  `json:"propertyType" validate:"omitempty,oneof=house apartment condo villa townhouse studio other"`
	Status       *string  `json:"status" validate:"omitempty,oneof=for_sale for_rent sold rented off_market"`
	ListingType  *string  `json:"listing_type" validate:"omitempty,oneof=sale rent both"`
	YearBuilt    *int     `json:"yearBuilt"`
	LotSize      *float64 `json:"lotSize" validate:"omitempty,gt=0"`

	Features    *[]string           `json:"features"`
	Images      *[]string           `json:"images" validate:"omitempty,dive,http_url"`
	ContactInfo *models.ContactInfo `json:"contact_info"`
}

// validateStruct converts validator errors into the field-map form
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = "failed " + fe.Tag() + " check"
	}
	return errs.NewValidation(fields)
}

// validYearBuilt allows 1800 through five years ahead of now, covering
// off-plan listings.
func validYearBuilt(year int) bool {
	return year >= 1800 && year <= time.Now().Year()+5
}
