package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType is the kind of request a user submitted
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdrawal
}

// TransactionStatus is the lifecycle state of a transaction
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusRejected  TransactionStatus = "rejected"
)

// ParseStatus converts a query value into a status. The empty string is not a status.
func ParseStatus(s string) (TransactionStatus, bool) {
	switch TransactionStatus(s) {
	case StatusPending, StatusCompleted, StatusRejected:
		return TransactionStatus(s), true
	}
	return "", false
}

// CanTransitionTo reports whether a reviewer may move a transaction from s to next.
// Only pending transactions move, and only to a terminal state.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	return s == StatusPending && (next == StatusCompleted || next == StatusRejected)
}

// Transaction Model
type Transaction struct {
	ID            string            `gorm:"primaryKey;type:varchar(36)" json:"id"`                         // UUID, generated on create
	UserID        string            `gorm:"type:varchar(36);index;not null" json:"user_id"`                // Owner
	Type          TransactionType   `gorm:"type:varchar(16);not null" json:"type"`                         // deposit or withdrawal
	Amount        decimal.Decimal   `gorm:"type:decimal(20,8);not null" json:"amount"`                     // Requested amount
	Currency      string            `gorm:"type:varchar(64);not null" json:"currency"`                     // Network/asset label
	WalletAddress *string           `gorm:"type:varchar(255)" json:"wallet_address"`                       // Optional for deposits
	Status        TransactionStatus `gorm:"type:varchar(16);index;not null;default:pending" json:"status"` // Lifecycle state
	ReviewedBy    *string           `gorm:"type:varchar(36)" json:"reviewed_by,omitempty"`                 // Admin who transitioned it
	ReviewedAt    *time.Time        `json:"reviewed_at,omitempty"`                                         // When it was transitioned
	CreatedAt     time.Time         `gorm:"autoCreateTime;index" json:"created_at"`                        // Immutable creation time
}

// BeforeCreate assigns the id and forces the initial status
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Status = StatusPending
	return nil
}
