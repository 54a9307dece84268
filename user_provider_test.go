package community_test

import (
	"context"
	"testing"
	"time"

	community "github.com/alumnihub/go-community"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newVerifiableUser(t *testing.T, email, password string) *community.User {
	t.Helper()

	hash, err := community.HashPassword(password)
	require.NoError(t, err)

	return &community.User{
		ID:           uuid.New(),
		Role:         community.RoleMember,
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: hash,
	}
}

func TestVerifyIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		user := newVerifiableUser(t, "user@example.com", "password123")

		store := new(MockUserTracker)
		store.On("GetByEmail", ctx, "user@example.com").Return(user, nil)
		store.On("TrackSuccessfulLogin", ctx, user).Return(nil)

		provider := community.NewUserProvider(store)

		identity, err := provider.VerifyIdentity(ctx, "user@example.com", "password123")
		require.NoError(t, err)

		assert.Equal(t, user.ID.String(), identity.ID())
		assert.Equal(t, "user@example.com", identity.Email())
		assert.Equal(t, community.RoleMember, identity.Role())
		store.AssertExpectations(t)
	})

	t.Run("email is normalized before lookup", func(t *testing.T) {
		user := newVerifiableUser(t, "user@example.com", "password123")

		store := new(MockUserTracker)
		store.On("GetByEmail", ctx, "user@example.com").Return(user, nil)
		store.On("TrackSuccessfulLogin", ctx, user).Return(nil)

		provider := community.NewUserProvider(store)

		_, err := provider.VerifyIdentity(ctx, "  USER@Example.COM ", "password123")
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("unknown email yields invalid credentials", func(t *testing.T) {
		store := new(MockUserTracker)
		store.On("GetByEmail", ctx, "ghost@example.com").Return(nil, goerrors.New("not found", goerrors.CategoryNotFound))

		provider := community.NewUserProvider(store)

		identity, err := provider.VerifyIdentity(ctx, "ghost@example.com", "whatever")
		assert.Nil(t, identity)
		assert.Equal(t, community.ErrInvalidCredentials, err)
	})

	t.Run("wrong password yields invalid credentials and tracks the attempt", func(t *testing.T) {
		user := newVerifiableUser(t, "user@example.com", "password123")

		store := new(MockUserTracker)
		store.On("GetByEmail", ctx, "user@example.com").Return(user, nil)
		store.On("TrackAttemptedLogin", ctx, user).Return(nil)

		provider := community.NewUserProvider(store)

		identity, err := provider.VerifyIdentity(ctx, "user@example.com", "wrong-password")
		assert.Nil(t, identity)
		assert.Equal(t, community.ErrInvalidCredentials, err)
		store.AssertExpectations(t)
	})

	t.Run("too many attempts inside the cooldown window", func(t *testing.T) {
		user := newVerifiableUser(t, "user@example.com", "password123")
		now := time.Now()
		user.LoginAttempts = community.MaxLoginAttempts + 1
		user.LoginAttemptAt = &now

		store := new(MockUserTracker)
		store.On("GetByEmail", ctx, "user@example.com").Return(user, nil)

		provider := community.NewUserProvider(store)

		identity, err := provider.VerifyIdentity(ctx, "user@example.com", "password123")
		assert.Nil(t, identity)
		assert.Equal(t, community.ErrTooManyLoginAttempts, err)
		store.AssertNotCalled(t, "TrackSuccessfulLogin", mock.Anything, mock.Anything)
	})

	t.Run("cooldown expired resets the counter", func(t *testing.T) {
		user := newVerifiableUser(t, "user@example.com", "password123")
		stale := time.Now().Add(-25 * time.Hour)
		user.LoginAttempts = community.MaxLoginAttempts + 1
		user.LoginAttemptAt = &stale

		store := new(MockUserTracker)
		store.On("GetByEmail", ctx, "user@example.com").Return(user, nil)
		store.On("TrackSuccessfulLogin", ctx, user).Return(nil)

		provider := community.NewUserProvider(store)

		identity, err := provider.VerifyIdentity(ctx, "user@example.com", "password123")
		require.NoError(t, err)
		assert.NotNil(t, identity)
		store.AssertExpectations(t)
	})

	t.Run("tracking failure on success is logged not returned", func(t *testing.T) {
		user := newVerifiableUser(t, "user@example.com", "password123")

		store := new(MockUserTracker)
		store.On("GetByEmail", ctx, "user@example.com").Return(user, nil)
		store.On("TrackSuccessfulLogin", ctx, user).Return(goerrors.New("db down", goerrors.CategoryInternal))

		provider := community.NewUserProvider(store)

		identity, err := provider.VerifyIdentity(ctx, "user@example.com", "password123")
		require.NoError(t, err)
		assert.NotNil(t, identity)
	})

	t.Run("invalid role fails validation", func(t *testing.T) {
		user := newVerifiableUser(t, "user@example.com", "password123")
		user.Role = community.UserRole("superuser")

		store := new(MockUserTracker)
		store.On("GetByEmail", ctx, "user@example.com").Return(user, nil)
		store.On("TrackSuccessfulLogin", ctx, user).Return(nil)

		provider := community.NewUserProvider(store)

		identity, err := provider.VerifyIdentity(ctx, "user@example.com", "password123")
		assert.Nil(t, identity)
		assert.Error(t, err)
	})
}

func TestFindIdentityByID(t *testing.T) {
	ctx := context.Background()

	t.Run("existing user", func(t *testing.T) {
		user := newVerifiableUser(t, "user@example.com", "password123")

		store := new(MockUserTracker)
		store.On("GetByID", ctx, user.ID.String()).Return(user, nil)

		provider := community.NewUserProvider(store)

		identity, err := provider.FindIdentityByID(ctx, user.ID.String())
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), identity.ID())
	})

	t.Run("missing user", func(t *testing.T) {
		store := new(MockUserTracker)
		store.On("GetByID", ctx, "missing-id").Return(nil, goerrors.New("not found", goerrors.CategoryNotFound))

		provider := community.NewUserProvider(store)

		identity, err := provider.FindIdentityByID(ctx, "missing-id")
		assert.Nil(t, identity)
		assert.Equal(t, community.ErrIdentityNotFound, err)
	})
}
