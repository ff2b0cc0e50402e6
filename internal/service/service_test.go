package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"invest_platform/internal/config"
	"invest_platform/internal/domain"
	"invest_platform/internal/repository"
	"invest_platform/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// recordingNotifier keeps every dispatched text
type recordingNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (r *recordingNotifier) Dispatch(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
}

func (r *recordingNotifier) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}

// recordingInvalidator keeps every invalidated user id
type recordingInvalidator struct {
	mu    sync.Mutex
	users []string
}

func (r *recordingInvalidator) InvalidateUser(_ context.Context, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, userID)
}

// failingRoles always errors on lookup
type failingRoles struct{}

func (failingRoles) HasRole(context.Context, string, string) (bool, error) {
	return false, errors.New("role store down")
}

// failingTxStore errors on every write
type failingTxStore struct {
	TransactionStore
}

func (failingTxStore) Create(context.Context, *domain.Transaction) error {
	return errors.New("disk full")
}

var testNetworks = []config.DepositNetwork{
	{Key: "trc20", Label: "TRC-20", Currency: "USDT (TRC-20)", Address: "TXtrc"},
	{Key: "btc", Label: "Bitcoin", Currency: "BTC", Address: "bc1q"},
}

type fixture struct {
	db       *gorm.DB
	txs      *repository.TransactionRepository
	profiles *repository.ProfileRepository
	notifier *recordingNotifier
	workflow *Workflow
	review   *Review
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.SetupTestDB(t)
	f := &fixture{
		db:       gdb,
		txs:      repository.NewTransactionRepository(gdb),
		profiles: repository.NewProfileRepository(gdb),
		notifier: &recordingNotifier{},
	}
	f.workflow = NewWorkflow(f.txs, f.profiles, f.notifier, testNetworks, nil)
	f.review = NewReview(f.txs, f.profiles, repository.NewRoleRepository(gdb), nil)
	return f
}

func (f *fixture) user(t *testing.T, email, name string) *Identity {
	t.Helper()
	return &Identity{UserID: testutil.CreateTestUser(t, f.db, email, name), Email: email}
}

func (f *fixture) admin(t *testing.T, email string) *Identity {
	t.Helper()
	id := f.user(t, email, "Admin")
	testutil.GrantRole(t, f.db, id.UserID, domain.RoleAdmin)
	return id
}

func (f *fixture) count(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&domain.Transaction{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}
