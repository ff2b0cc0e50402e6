package service

import (
	"context"
	"testing"
	"time"

	"invest_platform/internal/repository"
	"invest_platform/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) (*Auth, *fixture) {
	t.Helper()
	f := newFixture(t)
	_, rdb := setupRedis(t)
	auth := NewAuth(repository.NewUserRepository(f.db), f.profiles, utils.NewDenylist(rdb), "test-secret", time.Hour)
	return auth, f
}

func TestSignUpAndSignIn(t *testing.T) {
	auth, f := newAuth(t)
	ctx := context.Background()

	session, err := auth.SignUp(ctx, SignUpRequest{Email: " Ann@Example.com ", Password: "secret1", DisplayName: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", session.Email)
	assert.NotEmpty(t, session.Token)

	profile, err := f.profiles.FindByUserID(ctx, session.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", profile.DisplayName)
	assert.Len(t, profile.ReferralCode, 8)
	assert.True(t, profile.Balance.IsZero())

	again, err := auth.SignIn(ctx, "ANN@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, session.UserID, again.UserID)

	_, err = auth.SignIn(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpValidation(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	_, err := auth.SignUp(ctx, SignUpRequest{Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, err = auth.SignUp(ctx, SignUpRequest{Email: "ann@example.com", Password: "12345"})
	assert.ErrorIs(t, err, ErrPasswordShort)

	_, err = auth.SignUp(ctx, SignUpRequest{Email: "ann@example.com", Password: "секрет"})
	require.NoError(t, err)
	_, err = auth.SignUp(ctx, SignUpRequest{Email: "ANN@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUpReferral(t *testing.T) {
	auth, f := newAuth(t)
	ctx := context.Background()

	inviter, err := auth.SignUp(ctx, SignUpRequest{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	inviterProfile, err := f.profiles.FindByUserID(ctx, inviter.UserID)
	require.NoError(t, err)
	assert.Equal(t, "ann", inviterProfile.DisplayName)

	invited, err := auth.SignUp(ctx, SignUpRequest{Email: "bob@example.com", Password: "secret1", ReferralCode: inviterProfile.ReferralCode})
	require.NoError(t, err)
	profile, err := f.profiles.FindByUserID(ctx, invited.UserID)
	require.NoError(t, err)
	require.NotNil(t, profile.ReferredBy)
	assert.Equal(t, inviterProfile.ReferralCode, *profile.ReferredBy)

	stray, err := auth.SignUp(ctx, SignUpRequest{Email: "eve@example.com", Password: "secret1", ReferralCode: "NOPE0000"})
	require.NoError(t, err)
	profile, err = f.profiles.FindByUserID(ctx, stray.UserID)
	require.NoError(t, err)
	assert.Nil(t, profile.ReferredBy)
}

func TestAuthenticateAndSignOut(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()
	session, err := auth.SignUp(ctx, SignUpRequest{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	claims, err := auth.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, claims.UserID)

	require.NoError(t, auth.SignOut(ctx, claims))
	_, err = auth.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = auth.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, auth.SignOut(ctx, nil), ErrUnauthenticated)
}

func TestAuthenticateFailsClosedWithoutDenylist(t *testing.T) {
	f := newFixture(t)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer rdb.Close()
	auth := NewAuth(repository.NewUserRepository(f.db), f.profiles, utils.NewDenylist(rdb), "test-secret", time.Hour)
	session, err := auth.SignUp(context.Background(), SignUpRequest{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = auth.Authenticate(context.Background(), session.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCurrentUser(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()
	session, err := auth.SignUp(ctx, SignUpRequest{Email: "ann@example.com", Password: "secret1", DisplayName: "Ann"})
	require.NoError(t, err)

	profile, err := auth.CurrentUser(ctx, &Identity{UserID: session.UserID, Email: session.Email})
	require.NoError(t, err)
	assert.Equal(t, "Ann", profile.DisplayName)

	_, err = auth.CurrentUser(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
