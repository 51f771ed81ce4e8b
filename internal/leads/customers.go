package leads

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"real-estate-marketplace/internal/activity"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/errs"
	"real-estate-marketplace/internal/models"
)

// CustomerInput is the payload for direct customer creation
type CustomerInput struct {
	FirstName   string                    `json:"first_name" validate:"required,max=100"`
	LastName    string                    `json:"last_name" validate:"required,max=100"`
	Email       string                    `json:"email" validate:"required"`
	Phone       string                    `json:"phone"`
	Address     string                    `json:"address" validate:"max=500"`
	Preferences *models.SearchPreferences `json:"preferences"`
	Notes       string                    `json:"notes"`
	Tags        []string                  `json:"tags"`
}

// CustomerUpdateInput is the partial-update payload
type CustomerUpdateInput struct {
	FirstName *string   `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string   `json:"last_name" validate:"omitempty,max=100"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address" validate:"omitempty,max=500"`
	Status    *string   `json:"status" validate:"omitempty,oneof=active inactive blocked"`
	Notes     *string   `json:"notes"`
	Tags      *[]string `json:"tags"`
}

// CustomerService owns the customer roster
type CustomerService struct {
	db     *database.GormDB
	ledger Ledger
}

func NewCustomerService(db *database.GormDB, ledger Ledger) *CustomerService {
	return &CustomerService{db: db, ledger: ledger}
}

// Create registers a customer directly, outside the lead pipeline.
// Existing email or phone rejects the create.
func (s *CustomerService) Create(actor models.Actor, in CustomerInput) (*models.Customer, error) {
	if actor.Anonymous() {
		return nil, errs.Forbidden("customer creation requires an authenticated user")
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := validateContact(in.Email, in.Phone); err != nil {
		return nil, err
	}

	if existing, err := s.db.FindCustomerByContact(in.Email, in.Phone); err == nil && existing != nil {
		return nil, errs.Conflict("customer with this email or phone already exists")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c := &models.Customer{
		ID:          uuid.NewString(),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		Address:     in.Address,
		Status:      models.CustomerStatusActive,
		Preferences: in.Preferences,
		AssignedTo:  actor.ID,
		Notes:       in.Notes,
		Tags:        in.Tags,
	}

	if err := s.db.CreateCustomer(c); err != nil {
		return nil, err
	}

	s.ledger.Record(activity.Event{
		Type:       models.ActivityCustomerCreate,
		Actor:      actor,
		CustomerID: c.ID,
	})

	return c, nil
}

// List retrieves customers; any back-office user
func (s *CustomerService) List(actor models.Actor, f database.CustomerFilters) ([]models.Customer, int64, error) {
	if actor.Anonymous() {
		return nil, 0, errs.Forbidden("customer listing requires an authenticated user")
	}
	return s.db.ListCustomers(f)
}

// Get retrieves one customer
func (s *CustomerService) Get(actor models.Actor, id string) (*models.Customer, error) {
	if actor.Anonymous() {
		return nil, errs.Forbidden("customer access requires an authenticated user")
	}
	return s.get(id)
}

// Update applies a partial update
func (s *CustomerService) Update(actor models.Actor, id string, in CustomerUpdateInput) (*models.Customer, error) {
	if actor.Anonymous() {
		return nil, errs.Forbidden("customer access requires an authenticated user")
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	c, err := s.get(id)
	if err != nil {
		return nil, err
	}

	email := c.Email
	if in.Email != nil {
		email = *in.Email
	}
	phone := c.Phone
	if in.Phone != nil {
		phone = *in.Phone
	}
	if err := validateContact(email, phone); err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		c.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		c.LastName = *in.LastName
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.Status != nil {
		c.Status = models.CustomerStatus(*in.Status)
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	if in.Tags != nil {
		c.Tags = *in.Tags
	}

	if err := s.db.SaveCustomer(c); err != nil {
		return nil, err
	}

	s.ledger.Record(activity.Event{
		Type:       models.ActivityCustomerUpdate,
		Actor:      actor,
		CustomerID: c.ID,
	})

	return c, nil
}

// UpdatePreferences merges the provided fields into the customer's
// standing search preferences
func (s *CustomerService) UpdatePreferences(actor models.Actor, id string, in models.SearchPreferences) (*models.Customer, error) {
	if actor.Anonymous() {
		return nil, errs.Forbidden("customer access requires an authenticated user")
	}

	c, err := s.get(id)
	if err != nil {
		return nil, err
	}

	if c.Preferences == nil {
		c.Preferences = &models.SearchPreferences{}
	}
	c.Preferences.Merge(in)

	if err := s.db.SaveCustomer(c); err != nil {
		return nil, err
	}

	s.ledger.Record(activity.Event{
		Type:       models.ActivityCustomerUpdate,
		Actor:      actor,
		CustomerID: c.ID,
	})

	return c, nil
}

// Delete removes a customer; admin only
func (s *CustomerService) Delete(actor models.Actor, id string) error {
	if !actor.IsAdmin() {
		return errs.Forbidden("customer deletion requires admin role")
	}
	if _, err := s.get(id); err != nil {
		return err
	}

	if err := s.db.DeleteCustomer(id); err != nil {
		return err
	}

	s.ledger.Record(activity.Event{
		Type:       models.ActivityCustomerDelete,
		Actor:      actor,
		CustomerID: id,
	})

	return nil
}

func (s *CustomerService) get(id string) (*models.Customer, error) {
	c, err := s.db.GetCustomer(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("customer", id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
