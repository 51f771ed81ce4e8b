package leads

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"real-estate-marketplace/internal/errs"
	"real-estate-marketplace/internal/models"
)

var validate = validator.New()

// CreateInput is the intake payload for a new lead. Public inquiry forms
// and back-office entry both use it.
type CreateInput struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required"`
	Phone     string `json:"phone" validate:"required"`

	Source   string `json:"source" validate:"omitempty,oneof=website phone_call email referral social_media advertisement walk_in other"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`

	PropertyID string `json:"property_id"`
	Message    string `json:"message" validate:"max=2000"`

	Preferences *models.SearchPreferences `json:"preferences"`
	Tags        []string                  `json:"tags"`

	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
}

// UpdateInput is the partial-update payload; nil fields stay unchanged
type UpdateInput struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`

	Source   *string `json:"source" validate:"omitempty,oneof=website phone_call email referral social_media advertisement walk_in other"`
	Status   *string `json:"status" validate:"omitempty,oneof=new contacted qualified converted lost"`
	Priority *string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`

	PropertyID *string `json:"property_id"`
	Message    *string `json:"message" validate:"omitempty,max=2000"`
	Notes      *string `json:"notes"`

	Preferences *models.SearchPreferences `json:"preferences"`
	Tags        *[]string                 `json:"tags"`

	NextFollowUp *time.Time `json:"next_follow_up"`
}

// InteractionInput is one contact-history entry
type InteractionInput struct {
	Type    string     `json:"type" validate:"required,oneof=call email meeting property_viewing follow_up note"`
	Notes   string     `json:"notes" validate:"max=2000"`
	Outcome string     `json:"outcome" validate:"omitempty,oneof=positive neutral negative no_response"`
	Date    *time.Time `json:"date"`

	// Optional pipeline advance recorded with the interaction
	NewStatus    string     `json:"new_status" validate:"omitempty,oneof=new contacted qualified converted lost"`
	NextFollowUp *time.Time `json:"next_follow_up"`
}

// ConvertInput carries the customer details for a lead conversion;
// blank fields default from the lead.
type ConvertInput struct {
	Address string   `json:"address"`
	Notes   string   `json:"notes"`
	Tags    []string `json:"tags"`
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

func validateContact(email, phone string) error {
	fields := map[string]string{}
	if email != "" && !models.ValidEmail(email) {
		fields["email"] = "not a valid email address"
	}
	if !models.ValidPhone(phone) {
		fields["phone"] = "contains invalid characters"
	}
	if len(fields) > 0 {
		return errs.NewValidation(fields)
	}
	return nil
}
