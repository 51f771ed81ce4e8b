package activity

import (
	"fmt"

	"real-estate-marketplace/internal/models"
)

// Describe builds the human-readable ledger line for an event. Unidentified
// actors are rendered as "Anonymous user".
func Describe(eventType models.ActivityType, userName, searchQuery string) string {
	who := userName
	if who == "" {
		who = "Anonymous user"
	}

	switch eventType {
	case models.ActivityLogin:
		return fmt.Sprintf("%s logged in", who)
	case models.ActivityLogout:
		return fmt.Sprintf("%s logged out", who)
	case models.ActivityPropertyView:
		return fmt.Sprintf("%s viewed a property", who)
	case models.ActivityPropertyClick:
		return fmt.Sprintf("%s clicked a property card", who)
	case models.ActivitySearch:
		return fmt.Sprintf("%s searched for %q", who, searchQuery)
	case models.ActivityFilterApplied:
		return fmt.Sprintf("%s applied search filters", who)
	case models.ActivityContactForm:
		return fmt.Sprintf("%s submitted a contact form", who)
	case models.ActivityPhoneCall:
		return fmt.Sprintf("%s initiated a phone call", who)
	case models.ActivityEmailSent:
		return fmt.Sprintf("%s sent an email", who)
	case models.ActivityPropertyInquiry:
		return fmt.Sprintf("%s inquired about a property", who)
	case models.ActivityPropertyFavorite:
		return fmt.Sprintf("%s favorited a property", who)
	case models.ActivityProfileUpdate:
		return fmt.Sprintf("%s updated their profile", who)
	case models.ActivityPasswordChange:
		return fmt.Sprintf("%s changed their password", who)
	case models.ActivityPropertyUpload:
		return fmt.Sprintf("%s created a property listing", who)
	case models.ActivityPropertyEdit:
		return fmt.Sprintf("%s updated a property listing", who)
	case models.ActivityPropertyDelete:
		return fmt.Sprintf("%s deleted a property listing", who)
	case models.ActivityImageUpload:
		return fmt.Sprintf("%s uploaded a property image", who)
	case models.ActivityAdminAction:
		return fmt.Sprintf("%s performed an admin action", who)
	case models.ActivityPageView:
		return fmt.Sprintf("%s viewed a page", who)
	case models.ActivityButtonClick:
		return fmt.Sprintf("%s clicked a button", who)
	case models.ActivityFormSubmission:
		return fmt.Sprintf("%s submitted a form", who)
	case models.ActivityError:
		return fmt.Sprintf("%s hit an error", who)
	case models.ActivityLeadCreated:
		return fmt.Sprintf("%s created a lead", who)
	case models.ActivityLeadUpdated:
		return fmt.Sprintf("%s updated a lead", who)
	case models.ActivityLeadStatusUpdated:
		return fmt.Sprintf("%s changed a lead status", who)
	case models.ActivityFollowUpScheduled:
		return fmt.Sprintf("%s scheduled a follow-up", who)
	case models.ActivityLeadDeleted:
		return fmt.Sprintf("%s deleted a lead", who)
	case models.ActivityPropertyPublish:
		return fmt.Sprintf("%s published a property listing", who)
	case models.ActivityPropertyArchive:
		return fmt.Sprintf("%s archived a property listing", who)
	case models.ActivityLeadAssigned:
		return fmt.Sprintf("%s assigned a lead", who)
	case models.ActivityLeadInteraction:
		return fmt.Sprintf("%s logged a lead interaction", who)
	case models.ActivityLeadConverted:
		return fmt.Sprintf("%s converted a lead to a customer", who)
	case models.ActivityCustomerCreate:
		return fmt.Sprintf("%s created a customer", who)
	case models.ActivityCustomerUpdate:
		return fmt.Sprintf("%s updated a customer", who)
	case models.ActivityCustomerDelete:
		return fmt.Sprintf("%s deleted a customer", who)
	default:
		return fmt.Sprintf("%s performed %s", who, eventType)
	}
}
