package repository

import (
	"context"
	"errors"
	"fmt"

	"invest_platform/internal/domain"

	"gorm.io/gorm"
)

// UserRepository stores credentials and the profile created alongside them
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateWithProfile inserts the user and its profile atomically.
// profile.UserID is filled from the generated user id.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return fmt.Errorf("insert user: %w", err)
		}
		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		return nil
	})
}

// FindByEmail returns the user registered under email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// ProfileRepository reads the profiles table
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a ProfileRepository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByUserID returns the profile owned by userID
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &p, nil
}

// ListDisplay returns the display fields of every profile
func (r *ProfileRepository) ListDisplay(ctx context.Context) ([]domain.Profile, error) {
	var profiles []domain.Profile
	if err := r.db.WithContext(ctx).Select("user_id", "display_name", "email").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// ReferralCodeExists reports whether code was issued to any profile
func (r *ProfileRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Profile{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
		return false, fmt.Errorf("lookup referral code: %w", err)
	}
	return count > 0, nil
}

// RoleRepository answers role lookups against user_roles
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a RoleRepository
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// HasRole reports whether userID holds role
func (r *RoleRepository) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("lookup role: %w", err)
	}
	return count > 0, nil
}
