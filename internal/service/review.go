package service

import (
	"context"
	"errors"

	"invest_platform/internal/domain"
	"invest_platform/internal/metrics"
	"invest_platform/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ListFilter narrows the admin listing. A zero Status means all.
type ListFilter struct {
	Status domain.TransactionStatus
}

// ReviewRow is a transaction joined with its owner's display fields
type ReviewRow struct {
	domain.Transaction
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Stats summarises every transaction regardless of the filter
type Stats struct {
	Total           int             `json:"total"`
	Pending         int             `json:"pending"`
	CompletedVolume decimal.Decimal `json:"completed_volume"`
}

// TransactionList is the admin listing result
type TransactionList struct {
	Rows  []ReviewRow `json:"transactions"`
	Stats Stats       `json:"stats"`
}

// Review lets administrators list and settle transaction requests.
// Every call re-checks the actor's role against the role store.
type Review struct {
	txs      TransactionStore
	profiles ProfileStore
	roles    RoleChecker
	cache    CacheInvalidator
	metrics  *metrics.Metrics
}

// NewReview creates a Review. m may be nil.
func NewReview(txs TransactionStore, profiles ProfileStore, roles RoleChecker, m *metrics.Metrics) *Review {
	return &Review{
		txs:      txs,
		profiles: profiles,
		roles:    roles,
		cache:    noopInvalidator{},
		metrics:  m,
	}
}

// WithCache sets the cache dropped for the owner after a review
func (r *Review) WithCache(c CacheInvalidator) *Review {
	r.cache = c
	return r
}

// IsAdmin reports whether the actor holds the admin role. Lookup failures count as no.
func (r *Review) IsAdmin(ctx context.Context, actor *Identity) bool {
	if actor == nil || actor.UserID == "" {
		return false
	}
	ok, err := r.roles.HasRole(ctx, actor.UserID, domain.RoleAdmin)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": actor.UserID,
			"error":   err.Error(),
		}).Error("Role lookup failed")
		return false
	}
	return ok
}

func (r *Review) authorize(ctx context.Context, actor *Identity) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !r.IsAdmin(ctx, actor) {
		logrus.WithField("user_id", actor.UserID).Warn("Non-admin attempted a review operation")
		return ErrForbidden
	}
	return nil
}

// ListTransactions returns every transaction, newest first, joined with owner display fields
func (r *Review) ListTransactions(ctx context.Context, actor *Identity, filter ListFilter) (*TransactionList, error) {
	if err := r.authorize(ctx, actor); err != nil {
		return nil, err
	}
	txs, err := r.txs.List(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := r.profiles.ListDisplay(ctx)
	if err != nil {
		return nil, err
	}
	byUser := make(map[string]domain.Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}

	out := &TransactionList{Rows: make([]ReviewRow, 0, len(txs))}
	out.Stats.CompletedVolume = decimal.Zero
	for _, tx := range txs {
		out.Stats.Total++
		switch tx.Status {
		case domain.StatusPending:
			out.Stats.Pending++
		case domain.StatusCompleted:
			out.Stats.CompletedVolume = out.Stats.CompletedVolume.Add(tx.Amount)
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		p := byUser[tx.UserID] // Missing profile leaves the display fields empty
		out.Rows = append(out.Rows, ReviewRow{Transaction: tx, DisplayName: p.DisplayName, Email: p.Email})
	}
	return out, nil
}

// Approve moves a pending transaction to completed. Balances are not touched.
func (r *Review) Approve(ctx context.Context, actor *Identity, id string) (*domain.Transaction, error) {
	return r.transition(ctx, actor, id, domain.StatusCompleted)
}

// Reject moves a pending transaction to rejected
func (r *Review) Reject(ctx context.Context, actor *Identity, id string) (*domain.Transaction, error) {
	return r.transition(ctx, actor, id, domain.StatusRejected)
}

func (r *Review) transition(ctx context.Context, actor *Identity, id string, status domain.TransactionStatus) (*domain.Transaction, error) {
	if err := r.authorize(ctx, actor); err != nil {
		r.count(status, "forbidden")
		return nil, err
	}
	tx, err := r.txs.Transition(ctx, id, status, actor.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		r.count(status, "not_found")
		return nil, ErrTransactionNotFound
	case errors.Is(err, ErrNotPending):
		r.count(status, "conflict")
		logrus.WithFields(logrus.Fields{
			"transaction_id": id,
			"reviewer_id":    actor.UserID,
			"target":         status,
		}).Warn("Transaction already reviewed")
		return tx, ErrNotPending
	case err != nil:
		r.count(status, "error")
		logrus.WithFields(logrus.Fields{
			"transaction_id": id,
			"error":          err.Error(),
		}).Error("Failed to update transaction status")
		return nil, err
	}

	r.count(status, "ok")
	r.cache.InvalidateUser(ctx, tx.UserID)
	logrus.WithFields(logrus.Fields{
		"transaction_id": tx.ID,
		"owner_id":       tx.UserID,
		"reviewer_id":    actor.UserID,
		"status":         tx.Status,
	}).Info("Transaction reviewed")
	return tx, nil
}

func (r *Review) count(status domain.TransactionStatus, result string) {
	if r.metrics != nil {
		r.metrics.Transitions.WithLabelValues(string(status), result).Inc()
	}
}
