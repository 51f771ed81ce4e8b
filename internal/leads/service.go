package leads

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"real-estate-marketplace/internal/activity"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/errs"
	"real-estate-marketplace/internal/models"
)

// Follow-up reports look this far ahead.
const FollowUpWindow = 7 * 24 * time.Hour

// Ledger records behavioral events without failing the caller
type Ledger interface {
	Record(ev activity.Event)
}

// Service owns the lead pipeline
type Service struct {
	db     *database.GormDB
	ledger Ledger
}

func NewService(db *database.GormDB, ledger Ledger) *Service {
	return &Service{db: db, ledger: ledger}
}

// Provenance is request-derived acquisition metadata attached at intake
type Provenance struct {
	IPAddress string
	UserAgent string
	Referrer  string
}

// Create validates and persists a new lead. Intake is open to anonymous
// callers so public inquiry forms can submit directly.
func (s *Service) Create(actor models.Actor, in CreateInput, prov Provenance) (*models.Lead, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if !models.ValidEmail(in.Email) {
		return nil, errs.FieldError("email", "not a valid email address")
	}
	if !models.ValidPhone(in.Phone) {
		return nil, errs.FieldError("phone", "contains invalid characters")
	}

	l := &models.Lead{
		ID:          uuid.NewString(),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		Source:      models.LeadSourceWebsite,
		Status:      models.LeadStatusNew,
		Priority:    models.LeadPriorityMedium,
		PropertyID:  in.PropertyID,
		Message:     in.Message,
		Preferences: in.Preferences,
		Tags:        in.Tags,
		UTMSource:   in.UTMSource,
		UTMMedium:   in.UTMMedium,
		UTMCampaign: in.UTMCampaign,
		IPAddress:   prov.IPAddress,
		UserAgent:   prov.UserAgent,
		Referrer:    prov.Referrer,
	}

	if in.Source != "" {
		l.Source = models.LeadSource(in.Source)
	}
	if in.Priority != "" {
		l.Priority = models.LeadPriority(in.Priority)
	}

	// Staff-entered leads go straight to the creator's book
	if !actor.Anonymous() {
		l.AssignedTo = actor.ID
	}

	if err := s.db.CreateLead(l); err != nil {
		return nil, err
	}

	s.ledger.Record(activity.Event{
		Type:       models.ActivityLeadCreated,
		Actor:      actor,
		LeadID:     l.ID,
		PropertyID: l.PropertyID,
		IPAddress:  prov.IPAddress,
		UserAgent:  prov.UserAgent,
		Referrer:   prov.Referrer,
	})

	return l, nil
}

// List retrieves leads for back-office users. Agents only see leads
// assigned to them; admins see everything.
func (s *Service) List(actor models.Actor, f database.LeadFilters) ([]models.Lead, int64, error) {
	if actor.Anonymous() {
		return nil, 0, errs.Forbidden("lead listing requires an authenticated user")
	}
	if !actor.IsAdmin() {
		f.AssignedTo = actor.ID
	}
	return s.db.ListLeads(f)
}

// Get retrieves one lead with its interaction history
func (s *Service) Get(actor models.Actor, id string) (*models.Lead, error) {
	l, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(actor, l) {
		return nil, errs.Forbidden("lead is assigned to another agent")
	}
	return l, nil
}

// Update applies a partial update and records status transitions
func (s *Service) Update(actor models.Actor, id string, in UpdateInput) (*models.Lead, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	l, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(actor, l) {
		return nil, errs.Forbidden("lead is assigned to another agent")
	}

	email := l.Email
	if in.Email != nil {
		email = *in.Email
	}
	phone := l.Phone
	if in.Phone != nil {
		phone = *in.Phone
	}
	if err := validateContact(email, phone); err != nil {
		return nil, err
	}

	prevStatus := l.Status
	statusChanged := in.Status != nil && models.LeadStatus(*in.Status) != l.Status
	applyUpdate(l, in)

	if err := s.db.SaveLead(l); err != nil {
		return nil, err
	}

	eventType := models.ActivityLeadUpdated
	if statusChanged {
		eventType = models.ActivityLeadStatusUpdated
		note := ""
		if in.Notes != nil {
			note = *in.Notes
		}
		if err := s.auditStatusChange(actor, l.ID, prevStatus, l.Status, note); err != nil {
			return nil, err
		}
	}
	s.ledger.Record(activity.Event{
		Type:   eventType,
		Actor:  actor,
		LeadID: l.ID,
	})

	return s.get(l.ID)
}

// auditStatusChange appends the transition record every status move leaves
// in the interaction log
func (s *Service) auditStatusChange(actor models.Actor, leadID string, from, to models.LeadStatus, note string) error {
	text := fmt.Sprintf("status changed from %s to %s", from, to)
	if note != "" {
		text += ": " + note
	}
	return s.db.AddInteraction(leadID, &models.LeadInteraction{
		ID:     uuid.NewString(),
		LeadID: leadID,
		Type:   models.InteractionNote,
		Notes:  text,
		Agent:  actor.ID,
		Date:   time.Now(),
	})
}

func applyUpdate(l *models.Lead, in UpdateInput) {
	if in.FirstName != nil {
		l.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		l.LastName = *in.LastName
	}
	if in.Email != nil {
		l.Email = *in.Email
	}
	if in.Phone != nil {
		l.Phone = *in.Phone
	}
	if in.Source != nil {
		l.Source = models.LeadSource(*in.Source)
	}
	if in.Status != nil {
		l.Status = models.LeadStatus(*in.Status)
	}
	if in.Priority != nil {
		l.Priority = models.LeadPriority(*in.Priority)
	}
	if in.PropertyID != nil {
		l.PropertyID = *in.PropertyID
	}
	if in.Message != nil {
		l.Message = *in.Message
	}
	if in.Notes != nil {
		l.Notes = *in.Notes
	}
	if in.Preferences != nil {
		l.Preferences = in.Preferences
	}
	if in.Tags != nil {
		l.Tags = *in.Tags
	}
	if in.NextFollowUp != nil {
		l.NextFollowUp = in.NextFollowUp
	}
}

// Delete removes a lead; admin only
func (s *Service) Delete(actor models.Actor, id string) error {
	if !actor.IsAdmin() {
		return errs.Forbidden("lead deletion requires admin role")
	}
	if _, err := s.get(id); err != nil {
		return err
	}

	if err := s.db.DeleteLead(id); err != nil {
		return err
	}

	s.ledger.Record(activity.Event{
		Type:   models.ActivityLeadDeleted,
		Actor:  actor,
		LeadID: id,
	})

	return nil
}

// Assign hands a lead to an agent; admin only
func (s *Service) Assign(actor models.Actor, id, agentID string) (*models.Lead, error) {
	if !actor.IsAdmin() {
		return nil, errs.Forbidden("lead assignment requires admin role")
	}
	if agentID == "" {
		return nil, errs.FieldError("agent_id", "required")
	}

	l, err := s.get(id)
	if err != nil {
		return nil, err
	}

	l.AssignedTo = agentID
	if err := s.db.SaveLead(l); err != nil {
		return nil, err
	}

	s.ledger.Record(activity.Event{
		Type:   models.ActivityLeadAssigned,
		Actor:  actor,
		LeadID: l.ID,
	})

	return l, nil
}

// AddInteraction appends a contact-history entry, advances the last-contact
// timestamp, and optionally moves the pipeline stage.
func (s *Service) AddInteraction(actor models.Actor, id string, in InteractionInput) (*models.Lead, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if actor.Anonymous() {
		return nil, errs.Forbidden("interaction logging requires an authenticated user")
	}

	l, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(actor, l) {
		return nil, errs.Forbidden("lead is assigned to another agent")
	}

	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}

	interaction := &models.LeadInteraction{
		ID:      uuid.NewString(),
		LeadID:  l.ID,
		Type:    models.InteractionType(in.Type),
		Notes:   in.Notes,
		Outcome: models.InteractionOutcome(in.Outcome),
		Agent:   actor.ID,
		Date:    date,
	}

	if err := s.db.AddInteraction(l.ID, interaction); err != nil {
		return nil, err
	}

	l.LastContactDate = &date
	prevStatus := l.Status
	statusChanged := in.NewStatus != "" && models.LeadStatus(in.NewStatus) != l.Status
	if statusChanged {
		l.Status = models.LeadStatus(in.NewStatus)
	}
	if in.NextFollowUp != nil {
		l.NextFollowUp = in.NextFollowUp
	}
	if err := s.db.SaveLead(l); err != nil {
		return nil, err
	}

	if statusChanged {
		if err := s.auditStatusChange(actor, l.ID, prevStatus, l.Status, in.Notes); err != nil {
			return nil, err
		}
		s.ledger.Record(activity.Event{
			Type:   models.ActivityLeadStatusUpdated,
			Actor:  actor,
			LeadID: l.ID,
		})
	}
	if in.NextFollowUp != nil {
		s.ledger.Record(activity.Event{
			Type:   models.ActivityFollowUpScheduled,
			Actor:  actor,
			LeadID: l.ID,
		})
	}

	s.ledger.Record(activity.Event{
		Type:   models.ActivityLeadInteraction,
		Actor:  actor,
		LeadID: l.ID,
	})

	return s.get(l.ID)
}

// Convert closes a lead as converted and creates the customer record.
// Duplicate customer contact details reject the convert.
func (s *Service) Convert(actor models.Actor, id string, in ConvertInput) (*models.Lead, *models.Customer, error) {
	if actor.Anonymous() {
		return nil, nil, errs.Forbidden("lead conversion requires an authenticated user")
	}

	l, err := s.get(id)
	if err != nil {
		return nil, nil, err
	}
	if !s.canAccess(actor, l) {
		return nil, nil, errs.Forbidden("lead is assigned to another agent")
	}
	if l.ConvertedToCustomer {
		return nil, nil, errs.Conflict("lead already converted")
	}

	if existing, err := s.db.FindCustomerByContact(l.Email, l.Phone); err == nil && existing != nil {
		return nil, nil, errs.Conflict("customer with this email or phone already exists")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	customer := &models.Customer{
		ID:          uuid.NewString(),
		FirstName:   l.FirstName,
		LastName:    l.LastName,
		Email:       l.Email,
		Phone:       l.Phone,
		Address:     in.Address,
		Status:      models.CustomerStatusActive,
		Preferences: l.Preferences,
		LeadID:      l.ID,
		AssignedTo:  l.AssignedTo,
		Notes:       in.Notes,
		Tags:        in.Tags,
	}

	// Two independent writes. A crash between them leaves the customer
	// without the lead link; the next convert attempt surfaces it as a
	// duplicate-contact conflict for manual reconciliation.
	if err := s.db.CreateCustomer(customer); err != nil {
		return nil, nil, err
	}
	l.MarkConverted(customer.ID)
	if err := s.db.SaveLead(l); err != nil {
		return nil, nil, err
	}

	s.ledger.Record(activity.Event{
		Type:       models.ActivityLeadConverted,
		Actor:      actor,
		LeadID:     l.ID,
		CustomerID: customer.ID,
	})

	return l, customer, nil
}

// UpcomingFollowUps lists open leads due within the next seven days
func (s *Service) UpcomingFollowUps(actor models.Actor) ([]models.Lead, error) {
	if actor.Anonymous() {
		return nil, errs.Forbidden("follow-up reports require an authenticated user")
	}
	leads, err := s.db.UpcomingFollowUps(FollowUpWindow)
	if err != nil {
		return nil, err
	}
	return s.scopeToActor(actor, leads), nil
}

// OverdueFollowUps lists open leads whose follow-up date has passed
func (s *Service) OverdueFollowUps(actor models.Actor) ([]models.Lead, error) {
	if actor.Anonymous() {
		return nil, errs.Forbidden("follow-up reports require an authenticated user")
	}
	leads, err := s.db.OverdueFollowUps()
	if err != nil {
		return nil, err
	}
	return s.scopeToActor(actor, leads), nil
}

func (s *Service) scopeToActor(actor models.Actor, leads []models.Lead) []models.Lead {
	if actor.IsAdmin() {
		return leads
	}
	scoped := make([]models.Lead, 0, len(leads))
	for _, l := range leads {
		if l.AssignedTo == actor.ID {
			scoped = append(scoped, l)
		}
	}
	return scoped
}

// FunnelStage is one pipeline stage with its share of all leads
type FunnelStage struct {
	Status     models.LeadStatus `json:"status"`
	Count      int64             `json:"count"`
	Percentage float64           `json:"percentage"`
}

// Stats is the pipeline overview report
type Stats struct {
	Total          int64                  `json:"total"`
	NewThisWeek    int64                  `json:"new_this_week"`
	Converted      int64                  `json:"converted"`
	ConversionRate float64                `json:"conversion_rate"`
	ByStatus       []database.StatusCount `json:"by_status"`
	BySource       []database.SourceCount `json:"by_source"`
}

// Stats builds the pipeline overview; admin only
func (s *Service) Stats(actor models.Actor) (*Stats, error) {
	if !actor.IsAdmin() {
		return nil, errs.Forbidden("lead stats require admin role")
	}

	total, err := s.db.CountLeads()
	if err != nil {
		return nil, err
	}
	converted, err := s.db.CountConvertedLeads()
	if err != nil {
		return nil, err
	}
	newThisWeek, err := s.db.CountLeadsSince(time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	byStatus, err := s.db.LeadStatusBreakdown()
	if err != nil {
		return nil, err
	}
	bySource, err := s.db.LeadSourceBreakdown()
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Total:       total,
		NewThisWeek: newThisWeek,
		Converted:   converted,
		ByStatus:    byStatus,
		BySource:    bySource,
	}
	if total > 0 {
		stats.ConversionRate = float64(converted) / float64(total) * 100
	}
	return stats, nil
}

// Funnel builds the stage-by-stage pipeline report in stage order; admin only
func (s *Service) Funnel(actor models.Actor) ([]FunnelStage, error) {
	if !actor.IsAdmin() {
		return nil, errs.Forbidden("lead funnel requires admin role")
	}

	byStatus, err := s.db.LeadStatusBreakdown()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(byStatus))
	var total int64
	for _, sc := range byStatus {
		counts[sc.Status] = sc.Count
		total += sc.Count
	}

	funnel := make([]FunnelStage, 0, len(models.FunnelOrder))
	for _, stage := range models.FunnelOrder {
		count := counts[string(stage)]
		pct := 0.0
		if total > 0 {
			pct = float64(count) / float64(total) * 100
		}
		funnel = append(funnel, FunnelStage{Status: stage, Count: count, Percentage: pct})
	}
	return funnel, nil
}

func (s *Service) canAccess(actor models.Actor, l *models.Lead) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.ID != "" && l.AssignedTo == actor.ID
}

func (s *Service) get(id string) (*models.Lead, error) {
	l, err := s.db.GetLead(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("lead", id)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}
