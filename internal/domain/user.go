package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleAdmin is the only role the platform consults
const RoleAdmin = "admin"

// User Model holds sign-in credentials
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`            // UUID
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null"` // Lower-cased email
	Password  string    `gorm:"not null"`                               // Hashed password
	CreatedAt time.Time `gorm:"autoCreateTime"`                         // Registration time
}

// BeforeCreate assigns the user id
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserRole Model, one row per granted role
type UserRole struct {
	ID     uint   `gorm:"primaryKey"`
	UserID string `gorm:"type:varchar(36);uniqueIndex:idx_user_role;not null"`
	Role   string `gorm:"type:varchar(32);uniqueIndex:idx_user_role;not null"`
}
