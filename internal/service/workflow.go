package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"invest_platform/internal/config"
	"invest_platform/internal/domain"
	"invest_platform/internal/metrics"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultCurrency is attached when the form leaves the currency blank
const DefaultCurrency = "USDT"

// MinWithdrawal is the smallest amount a withdrawal request may ask for
var MinWithdrawal = decimal.NewFromInt(50)

// DepositRequest is the deposit form
type DepositRequest struct {
	Amount        string
	Currency      string
	Network       string // Optional key of a configured receive address
	WalletAddress string // Optional sender wallet
}

// WithdrawalRequest is the withdrawal form
type WithdrawalRequest struct {
	Amount        string
	Currency      string
	WalletAddress string
}

// Workflow validates deposit and withdrawal requests and records them as pending transactions
type Workflow struct {
	txs      TransactionStore
	profiles ProfileStore
	notifier Notifier
	cache    CacheInvalidator
	networks []config.DepositNetwork
	metrics  *metrics.Metrics
}

// NewWorkflow creates a Workflow. m may be nil.
func NewWorkflow(txs TransactionStore, profiles ProfileStore, notifier Notifier, networks []config.DepositNetwork, m *metrics.Metrics) *Workflow {
	return &Workflow{
		txs:      txs,
		profiles: profiles,
		notifier: notifier,
		cache:    noopInvalidator{},
		networks: networks,
		metrics:  m,
	}
}

// WithCache sets the cache dropped after every accepted request
func (w *Workflow) WithCache(c CacheInvalidator) *Workflow {
	w.cache = c
	return w
}

// DepositAddresses lists the platform's receive addresses, one per network
func (w *Workflow) DepositAddresses() []config.DepositNetwork {
	out := make([]config.DepositNetwork, len(w.networks))
	copy(out, w.networks)
	return out
}

// SubmitDeposit records a pending deposit request
func (w *Workflow) SubmitDeposit(ctx context.Context, user *Identity, req DepositRequest) (*domain.Transaction, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		w.count(domain.TransactionTypeDeposit, "invalid")
		return nil, err
	}
	currency := strings.TrimSpace(req.Currency)
	if key := strings.TrimSpace(req.Network); key != "" {
		network, ok := w.network(key)
		if !ok {
			w.count(domain.TransactionTypeDeposit, "invalid")
			return nil, ErrUnknownNetwork
		}
		currency = network.Currency
	}
	tx := &domain.Transaction{
		UserID:        user.UserID,
		Type:          domain.TransactionTypeDeposit,
		Amount:        amount,
		Currency:      currencyOrDefault(currency),
		WalletAddress: optional(req.WalletAddress),
	}
	return w.record(ctx, user, tx)
}

// SubmitWithdrawal records a pending withdrawal request
func (w *Workflow) SubmitWithdrawal(ctx context.Context, user *Identity, req WithdrawalRequest) (*domain.Transaction, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		w.count(domain.TransactionTypeWithdrawal, "invalid")
		return nil, err
	}
	if amount.LessThan(MinWithdrawal) {
		w.count(domain.TransactionTypeWithdrawal, "invalid")
		return nil, ErrBelowMinimum
	}
	wallet := optional(req.WalletAddress)
	if wallet == nil {
		w.count(domain.TransactionTypeWithdrawal, "invalid")
		return nil, ErrWalletRequired
	}
	tx := &domain.Transaction{
		UserID:        user.UserID,
		Type:          domain.TransactionTypeWithdrawal,
		Amount:        amount,
		Currency:      currencyOrDefault(req.Currency),
		WalletAddress: wallet,
	}
	return w.record(ctx, user, tx)
}

// History returns the caller's own transactions, newest first
func (w *Workflow) History(ctx context.Context, user *Identity, limit int) ([]domain.Transaction, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return w.txs.ListByUser(ctx, user.UserID, limit)
}

func (w *Workflow) record(ctx context.Context, user *Identity, tx *domain.Transaction) (*domain.Transaction, error) {
	if err := w.txs.Create(ctx, tx); err != nil {
		w.count(tx.Type, "error")
		logrus.WithFields(logrus.Fields{
			"user_id": user.UserID,
			"type":    tx.Type,
			"amount":  tx.Amount.String(),
			"error":   err.Error(),
		}).Error("Transaction request failed")
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	w.count(tx.Type, "created")
	logrus.WithFields(logrus.Fields{
		"user_id":        user.UserID,
		"transaction_id": tx.ID,
		"type":           tx.Type,
		"amount":         tx.Amount.String(),
		"currency":       tx.Currency,
		"status":         tx.Status,
	}).Info("Transaction request created")

	w.cache.InvalidateUser(ctx, user.UserID)
	w.notifier.Dispatch(w.summary(ctx, user, tx))
	return tx, nil
}

// summary is the operator-facing text. User supplied values are escaped for HTML parse mode.
func (w *Workflow) summary(ctx context.Context, user *Identity, tx *domain.Transaction) string {
	name := ""
	if p, err := w.profiles.FindByUserID(ctx, user.UserID); err == nil {
		name = p.DisplayName
	}
	title := "🆕 New deposit request"
	if tx.Type == domain.TransactionTypeWithdrawal {
		title = "🆕 New withdrawal request"
	}
	var b strings.Builder
	b.WriteString(title + "\n\n")
	if name != "" {
		fmt.Fprintf(&b, "👤 Name: %s\n", html.EscapeString(name))
	}
	fmt.Fprintf(&b, "📧 Email: %s\n", html.EscapeString(user.Email))
	fmt.Fprintf(&b, "💰 Amount: %s %s\n", tx.Amount.String(), html.EscapeString(tx.Currency))
	if tx.WalletAddress != nil {
		fmt.Fprintf(&b, "👛 Wallet: %s\n", html.EscapeString(*tx.WalletAddress))
	}
	fmt.Fprintf(&b, "🆔 ID: %s", tx.ID)
	return b.String()
}

func (w *Workflow) network(key string) (config.DepositNetwork, bool) {
	for _, n := range w.networks {
		if strings.EqualFold(n.Key, key) {
			return n, true
		}
	}
	return config.DepositNetwork{}, false
}

func (w *Workflow) count(typ domain.TransactionType, result string) {
	if w.metrics != nil {
		w.metrics.Submissions.WithLabelValues(string(typ), result).Inc()
	}
}

// maxAmount is the first value that no longer fits decimal(20,8)
var maxAmount = decimal.New(1, 12)

// parseAmount accepts a positive decimal string that the amount column stores exactly:
// at most 8 fractional digits and below 1e12.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !amount.IsPositive() || !amount.Equal(amount.Truncate(8)) || amount.GreaterThanOrEqual(maxAmount) {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return amount, nil
}

func currencyOrDefault(c string) string {
	if c = strings.TrimSpace(c); c != "" {
		return c
	}
	return DefaultCurrency
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
