package community_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	community "github.com/alumnihub/go-community"
)

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the user and issues a session token", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		repo.UsersRepo.On("GetByEmailTx", mock.Anything, mock.Anything, "ada@example.com").
			Return(nil, repository.NewRecordNotFound())
		repo.UsersRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, nil)

		handler := community.NewRegisterUserHandler(repo, newTestTokenService())

		var resp *community.RegisterUserResponse
		err := handler.Execute(ctx, community.RegisterUserMessage{
			FirstName:  "Ada",
			LastName:   "Lovelace",
			Email:      " Ada@Example.COM ",
			Password:   "difference-engine",
			OnResponse: func(r *community.RegisterUserResponse) { resp = r },
		})
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.Equal(t, "ada@example.com", resp.User.Email)
		assert.Equal(t, community.RoleMember, resp.User.Role)
		assert.NotEqual(t, "difference-engine", resp.User.PasswordHash)
		assert.NoError(t, community.ComparePasswordAndHash("difference-engine", resp.User.PasswordHash))

		claims, err := newTestTokenService().Validate(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, community.PurposeSession, claims.Purpose())
	})

	t.Run("duplicate email conflicts without mutating", func(t *testing.T) {
		existing := &community.User{ID: uuid.New(), Email: "taken@example.com"}

		repo := NewMockRepositoryManager()
		repo.UsersRepo.On("GetByEmailTx", mock.Anything, mock.Anything, "taken@example.com").
			Return(existing, nil)

		handler := community.NewRegisterUserHandler(repo, newTestTokenService())

		err := handler.Execute(ctx, community.RegisterUserMessage{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "taken@example.com",
			Password:  "difference-engine",
		})
		assert.Equal(t, community.ErrAlreadyExists, err)
		repo.UsersRepo.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insert race collapses to the same conflict", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		repo.UsersRepo.On("GetByEmailTx", mock.Anything, mock.Anything, "raced@example.com").
			Return(nil, repository.NewRecordNotFound())
		repo.UsersRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("UNIQUE constraint failed: users.email"))

		handler := community.NewRegisterUserHandler(repo, newTestTokenService())

		err := handler.Execute(ctx, community.RegisterUserMessage{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "raced@example.com",
			Password:  "difference-engine",
		})
		assert.Equal(t, community.ErrAlreadyExists, err)
	})

	t.Run("welcome notification failure does not fail registration", func(t *testing.T) {
		repo := NewMockRepositoryManager()
		repo.UsersRepo.On("GetByEmailTx", mock.Anything, mock.Anything, "ada@example.com").
			Return(nil, repository.NewRecordNotFound())
		repo.UsersRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, nil)

		notifier := new(MockNotifier)
		notifier.On("NotifyWelcome", mock.Anything, "ada@example.com", "Ada").
			Return(errors.New("smtp down"))

		handler := community.NewRegisterUserHandler(repo, newTestTokenService()).
			WithNotifier(notifier)

		var resp *community.RegisterUserResponse
		err := handler.Execute(ctx, community.RegisterUserMessage{
			FirstName:  "Ada",
			LastName:   "Lovelace",
			Email:      "ada@example.com",
			Password:   "difference-engine",
			OnResponse: func(r *community.RegisterUserResponse) { resp = r },
		})
		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.NotEmpty(t, resp.Token)
		notifier.AssertExpectations(t)
	})
}
