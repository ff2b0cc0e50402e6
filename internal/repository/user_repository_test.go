package repository

import (
	"context"
	"testing"

	"invest_platform/internal/domain"
	"invest_platform/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWithProfile(t *testing.T) {
	gdb := testutil.SetupTestDB(t)
	users := NewUserRepository(gdb)
	profiles := NewProfileRepository(gdb)
	ctx := context.Background()

	user := &domain.User{Email: "ann@example.com", Password: "hash"}
	profile := &domain.Profile{DisplayName: "Ann", Email: "ann@example.com", ReferralCode: "ABCDEF12"}
	require.NoError(t, users.CreateWithProfile(ctx, user, profile))
	assert.Equal(t, user.ID, profile.UserID)

	got, err := profiles.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.DisplayName)
	assert.True(t, got.Balance.IsZero())

	exists, err := profiles.ReferralCodeExists(ctx, "ABCDEF12")
	require.NoError(t, err)
	assert.True(t, exists)

	dup := &domain.User{Email: "ann@example.com", Password: "hash"}
	err = users.CreateWithProfile(ctx, dup, &domain.Profile{ReferralCode: "ZZZZZZZZ"})
	assert.ErrorIs(t, err, ErrDuplicate)

	found, err := users.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListDisplayAndRoles(t *testing.T) {
	gdb := testutil.SetupTestDB(t)
	ann := testutil.CreateTestUser(t, gdb, "ann@example.com", "Ann")
	bob := testutil.CreateTestUser(t, gdb, "bob@example.com", "Bob")
	testutil.GrantRole(t, gdb, ann, domain.RoleAdmin)

	list, err := NewProfileRepository(gdb).ListDisplay(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)

	roles := NewRoleRepository(gdb)
	ok, err := roles.HasRole(context.Background(), ann, domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = roles.HasRole(context.Background(), bob, domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
}
