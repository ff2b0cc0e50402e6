package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invest_platform/internal/domain"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches the lookup
	ErrNotFound = errors.New("record not found")
	// ErrNotPending is returned when a status transition targets a reviewed transaction
	ErrNotPending = errors.New("transaction is not pending")
	// ErrDuplicate is returned when a unique column already holds the value
	ErrDuplicate = errors.New("duplicate record")
)

// TransactionRepository reads and writes the transactions table
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a TransactionRepository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts tx. The id and the pending status are assigned by the model hook.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// FindByID returns one transaction
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find transaction %s: %w", id, err)
	}
	return &tx, nil
}

// ListByUser returns the newest transactions of one user. limit <= 0 means all.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var txs []domain.Transaction
	if err := query.Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("list transactions of %s: %w", userID, err)
	}
	return txs, nil
}

// List returns every transaction, newest first
func (r *TransactionRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Transition moves a pending transaction to status. The update only matches pending rows,
// so of two concurrent reviewers exactly one succeeds and the other gets ErrNotPending.
func (r *TransactionRepository) Transition(ctx context.Context, id string, status domain.TransactionStatus, reviewerID string) (*domain.Transaction, error) {
	if !domain.StatusPending.CanTransitionTo(status) {
		return nil, fmt.Errorf("transition to %q: %w", status, ErrNotPending)
	}
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update transaction %s: %w", id, res.Error)
	}
	tx, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return tx, ErrNotPending
	}
	return tx, nil
}
