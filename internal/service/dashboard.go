package service

import (
	"context"
	"strings"
	"time"

	"invest_platform/internal/domain"
	"invest_platform/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// RecentLimit is how many transactions the dashboard shows
	RecentLimit = 10
	// DashboardTTL bounds how stale a cached dashboard may be
	DashboardTTL = 60 * time.Second
)

// DashboardView is what a signed-in user sees on the home screen
type DashboardView struct {
	Profile      domain.Profile       `json:"profile"`
	Transactions []domain.Transaction `json:"transactions"`
	ReferralLink string               `json:"referral_link"`
}

// Dashboard assembles a user's home screen, cached per user in Redis
type Dashboard struct {
	txs       TransactionStore
	profiles  ProfileStore
	rdb       *redis.Client // nil disables caching
	publicURL string
}

// NewDashboard creates a Dashboard
func NewDashboard(txs TransactionStore, profiles ProfileStore, rdb *redis.Client, publicURL string) *Dashboard {
	return &Dashboard{txs: txs, profiles: profiles, rdb: rdb, publicURL: strings.TrimRight(publicURL, "/")}
}

// Dashboard returns the caller's profile, latest transactions and referral link
func (d *Dashboard) Dashboard(ctx context.Context, user *Identity) (*DashboardView, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	key := utils.DashboardCacheKey(user.UserID)
	if d.rdb != nil {
		var cached DashboardView
		found, err := utils.GetCache(ctx, d.rdb, key, &cached)
		if err != nil {
			logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Dashboard cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	profile, err := d.profiles.FindByUserID(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	txs, err := d.txs.ListByUser(ctx, user.UserID, RecentLimit)
	if err != nil {
		return nil, err
	}
	view := &DashboardView{
		Profile:      *profile,
		Transactions: txs,
		ReferralLink: d.publicURL + "/register?ref=" + profile.ReferralCode,
	}

	if d.rdb != nil {
		if err := utils.SetCache(ctx, d.rdb, key, view, DashboardTTL); err != nil {
			logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Dashboard cache write failed")
		}
	}
	return view, nil
}

// RedisInvalidator drops a user's cached dashboard
type RedisInvalidator struct {
	rdb *redis.Client
}

// NewRedisInvalidator creates a RedisInvalidator
func NewRedisInvalidator(rdb *redis.Client) *RedisInvalidator {
	return &RedisInvalidator{rdb: rdb}
}

// InvalidateUser deletes the cached dashboard. Failures are logged only; the entry expires anyway.
func (r *RedisInvalidator) InvalidateUser(ctx context.Context, userID string) {
	if err := utils.DeleteCache(ctx, r.rdb, utils.DashboardCacheKey(userID)); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Dashboard cache invalidation failed")
	}
}
