package service

import (
	"context"

	"invest_platform/internal/domain"
)

// Identity is the authenticated caller of an operation
type Identity struct {
	UserID string
	Email  string
}

// TransactionStore is the part of the record store the workflow and review need
type TransactionStore interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
	Transition(ctx context.Context, id string, status domain.TransactionStatus, reviewerID string) (*domain.Transaction, error)
}

// ProfileStore reads profiles
type ProfileStore interface {
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	ListDisplay(ctx context.Context) ([]domain.Profile, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
}

// UserStore stores credentials
type UserStore interface {
	CreateWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RoleChecker answers role lookups
type RoleChecker interface {
	HasRole(ctx context.Context, userID, role string) (bool, error)
}

// Notifier hands a message to the operators without blocking
type Notifier interface {
	Dispatch(text string)
}

// CacheInvalidator drops cached per-user views after a write
type CacheInvalidator interface {
	InvalidateUser(ctx context.Context, userID string)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateUser(context.Context, string) {}
