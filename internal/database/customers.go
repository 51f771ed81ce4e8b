package database

import (
	"strings"

	"real-estate-marketplace/internal/models"
)

// CustomerFilters narrows customer list queries
type CustomerFilters struct {
	Status     string
	AssignedTo string
	Search     string
	Page       int
	Limit      int
}

// ListCustomers retrieves customers matching the filters with a total count
func (gdb *GormDB) ListCustomers(f CustomerFilters) ([]models.Customer, int64, error) {
	q := gdb.db.Model(&models.Customer{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.AssignedTo != "" {
		q = q.Where("assigned_to = ?", f.AssignedTo)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR phone LIKE ?",
			like, like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	var customers []models.Customer
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&customers).Error
	return customers, total, err
}

// GetCustomer retrieves a customer by ID
func (gdb *GormDB) GetCustomer(id string) (*models.Customer, error) {
	var customer models.Customer
	err := gdb.db.Where("id = ?", id).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindCustomerByContact looks up a customer by exact email or phone match.
// Used for duplicate detection before create.
func (gdb *GormDB) FindCustomerByContact(email, phone string) (*models.Customer, error) {
	q := gdb.db.Model(&models.Customer{})
	if phone != "" {
		q = q.Where("email = ? OR phone = ?", email, phone)
	} else {
		q = q.Where("email = ?", email)
	}

	var customer models.Customer
	err := q.First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer inserts a new customer
func (gdb *GormDB) CreateCustomer(c *models.Customer) error {
	return gdb.db.Create(c).Error
}

// SaveCustomer persists all fields of an existing customer
func (gdb *GormDB) SaveCustomer(c *models.Customer) error {
	return gdb.db.Save(c).Error
}

// DeleteCustomer removes a customer row
func (gdb *GormDB) DeleteCustomer(id string) error {
	return gdb.db.Where("id = ?", id).Delete(&models.Customer{}).Error
}

// CountCustomers returns the total row count
func (gdb *GormDB) CountCustomers() (int64, error) {
	var n int64
	err := gdb.db.Model(&models.Customer{}).Count(&n).Error
	return n, err
}
