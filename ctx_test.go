package community_test

import (
	"context"
	"testing"

	community "github.com/alumnihub/go-community"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContextRoundTrip(t *testing.T) {
	user := &community.AuthenticatedUser{
		ID:    "user-123",
		Email: "user@example.com",
		Role:  community.RoleMember,
	}

	ctx := community.WithUserContext(context.Background(), user)

	got, ok := community.UserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)
}

func TestUserFromContextMissing(t *testing.T) {
	got, ok := community.UserFromContext(context.Background())
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestUserFromRouterContext(t *testing.T) {
	user := &community.AuthenticatedUser{
		ID:    "user-123",
		Email: "user@example.com",
		Role:  community.RoleAdmin,
	}

	t.Run("user present under custom key", func(t *testing.T) {
		mc := new(MockContext)
		mc.On("Locals", "session_user").Return(user)

		got, ok := community.UserFromRouterContext(mc, "session_user")
		require.True(t, ok)
		assert.Equal(t, user, got)
	})

	t.Run("empty key falls back to default", func(t *testing.T) {
		mc := new(MockContext)
		mc.On("Locals", "user").Return(user)

		got, ok := community.UserFromRouterContext(mc, "")
		require.True(t, ok)
		assert.Equal(t, user, got)
	})

	t.Run("nothing stored", func(t *testing.T) {
		mc := new(MockContext)
		mc.On("Locals", "user").Return(nil)

		got, ok := community.UserFromRouterContext(mc, "user")
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("wrong type stored", func(t *testing.T) {
		mc := new(MockContext)
		mc.On("Locals", "user").Return("not-a-user")

		got, ok := community.UserFromRouterContext(mc, "user")
		assert.False(t, ok)
		assert.Nil(t, got)
	})
}

func TestAuthorize(t *testing.T) {
	member := &community.AuthenticatedUser{ID: "1", Role: community.RoleMember}
	admin := &community.AuthenticatedUser{ID: "2", Role: community.RoleAdmin}

	tests := []struct {
		name    string
		user    *community.AuthenticatedUser
		allowed []community.UserRole
		wantErr error
	}{
		{name: "member allowed", user: member, allowed: []community.UserRole{community.RoleMember}, wantErr: nil},
		{name: "admin allowed among several", user: admin, allowed: []community.UserRole{community.RoleMember, community.RoleAdmin}, wantErr: nil},
		{name: "member blocked from admin route", user: member, allowed: []community.UserRole{community.RoleAdmin}, wantErr: community.ErrForbidden},
		{name: "nil user", user: nil, allowed: []community.UserRole{community.RoleMember}, wantErr: community.ErrUnauthenticated},
		{name: "empty allowed set blocks everyone", user: admin, allowed: nil, wantErr: community.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := community.Authorize(tt.user, tt.allowed...)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
