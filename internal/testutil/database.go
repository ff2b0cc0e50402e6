package testutil

import (
	"testing"
	"time"

	"invest_platform/internal/db"
	"invest_platform/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database with the schema migrated.
// A single connection keeps the in-memory database alive and serializes writers.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// CreateTestUser inserts a user and profile and returns the user id
func CreateTestUser(t *testing.T, gdb *gorm.DB, email, displayName string) string {
	t.Helper()
	user := domain.User{Email: email, Password: "hash"}
	require.NoError(t, gdb.Create(&user).Error)
	profile := domain.Profile{
		UserID:       user.ID,
		DisplayName:  displayName,
		Email:        email,
		Balance:      decimal.Zero,
		ReferralCode: domain.NewReferralCode(),
	}
	require.NoError(t, gdb.Create(&profile).Error)
	return user.ID
}

// GrantRole inserts a user_roles row
func GrantRole(t *testing.T, gdb *gorm.DB, userID, role string) {
	t.Helper()
	require.NoError(t, gdb.Create(&domain.UserRole{UserID: userID, Role: role}).Error)
}

// CreateTestTransaction inserts a pending transaction and then forces its status.
// createdAt orders the rows; status bypasses the review flow on purpose.
func CreateTestTransaction(t *testing.T, gdb *gorm.DB, userID string, typ domain.TransactionType, amount string, status domain.TransactionStatus, createdAt time.Time) *domain.Transaction {
	t.Helper()
	tx := &domain.Transaction{
		UserID:    userID,
		Type:      typ,
		Amount:    decimal.RequireFromString(amount),
		Currency:  "USDT",
		CreatedAt: createdAt,
	}
	require.NoError(t, gdb.Create(tx).Error)
	if status != domain.StatusPending {
		require.NoError(t, gdb.Model(&domain.Transaction{}).Where("id = ?", tx.ID).Update("status", status).Error)
		tx.Status = status
	}
	return tx
}
