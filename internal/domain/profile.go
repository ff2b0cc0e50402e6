package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile Model
type Profile struct {
	UserID       string          `gorm:"primaryKey;type:varchar(36)" json:"user_id"`                 // Owning identity
	DisplayName  string          `gorm:"type:varchar(100)" json:"display_name"`                      // Shown to admins
	Email        string          `gorm:"type:varchar(255)" json:"email"`                             // Contact email
	Balance      decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"balance"`       // Never settled automatically
	ReferralCode string          `gorm:"type:varchar(16);uniqueIndex;not null" json:"referral_code"` // Issued once
	ReferredBy   *string         `gorm:"type:varchar(16)" json:"referred_by,omitempty"`              // Inviter's code
}

// NewReferralCode issues an 8 character upper-case code
func NewReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
