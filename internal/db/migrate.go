package db

import (
	"errors"

	"invest_platform/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Open connects to MySQL
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// Migrate creates or updates the tables for every domain model
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	return db.AutoMigrate(&domain.User{}, &domain.Profile{}, &domain.Transaction{}, &domain.UserRole{})
}

// GrantAdmin gives the admin role to the user registered under email.
// Granting twice is not an error.
func GrantAdmin(db *gorm.DB, email string) error {
	var user domain.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return err
	}
	var existing domain.UserRole
	err := db.Where("user_id = ? AND role = ?", user.ID, domain.RoleAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err := db.Create(&domain.UserRole{UserID: user.ID, Role: domain.RoleAdmin}).Error; err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": email}).Info("Admin role granted")
	return nil
}
