package database

import (
	"errors"

	"real-estate-marketplace/internal/models"

	"gorm.io/gorm"
)

// GetUserByEmail retrieves a user by email, nil when absent
func (gdb *GormDB) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := gdb.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser retrieves a user by ID
func (gdb *GormDB) GetUser(id string) (*models.User, error) {
	var user models.User
	err := gdb.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user
func (gdb *GormDB) CreateUser(u *models.User) error {
	return gdb.db.Create(u).Error
}

// SaveUser persists all fields of an existing user
func (gdb *GormDB) SaveUser(u *models.User) error {
	return gdb.db.Save(u).Error
}
