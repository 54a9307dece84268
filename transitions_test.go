package community_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	community "github.com/alumnihub/go-community"
	goerrors "github.com/goliatone/go-errors"
)

func TestCanTransitionRequest(t *testing.T) {
	tests := []struct {
		name     string
		from     community.RequestStatus
		to       community.RequestStatus
		expected bool
	}{
		{"pending to accepted", community.RequestStatusPending, community.RequestStatusAccepted, true},
		{"pending to declined", community.RequestStatusPending, community.RequestStatusDeclined, true},
		{"same state is a no-op", community.RequestStatusAccepted, community.RequestStatusAccepted, true},
		{"accepted is terminal", community.RequestStatusAccepted, community.RequestStatusDeclined, false},
		{"declined is terminal", community.RequestStatusDeclined, community.RequestStatusAccepted, false},
		{"cannot reopen", community.RequestStatusAccepted, community.RequestStatusPending, false},
		{"unknown source state", community.RequestStatus("ghost"), community.RequestStatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, community.CanTransitionRequest(tt.from, tt.to))
		})
	}
}

func TestTransitionRequest(t *testing.T) {
	t.Run("applies allowed transition", func(t *testing.T) {
		request := &community.MentorshipRequest{Status: community.RequestStatusPending}

		err := community.TransitionRequest(request, community.RequestStatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, community.RequestStatusAccepted, request.Status)
	})

	t.Run("rejects terminal transitions", func(t *testing.T) {
		request := &community.MentorshipRequest{Status: community.RequestStatusDeclined}

		err := community.TransitionRequest(request, community.RequestStatusAccepted)
		require.Error(t, err)
		assert.Equal(t, community.RequestStatusDeclined, request.Status)

		var structured *goerrors.Error
		require.True(t, goerrors.As(err, &structured))
		assert.Equal(t, goerrors.CategoryValidation, structured.Category)
		assert.Equal(t, "INVALID_STATE_TRANSITION", structured.TextCode)
	})

	t.Run("rejects unknown target", func(t *testing.T) {
		request := &community.MentorshipRequest{Status: community.RequestStatusPending}

		err := community.TransitionRequest(request, community.RequestStatus("expired"))
		require.Error(t, err)
		assert.Equal(t, community.RequestStatusPending, request.Status)
	})

	t.Run("rejects nil request", func(t *testing.T) {
		err := community.TransitionRequest(nil, community.RequestStatusAccepted)
		require.Error(t, err)
	})
}

func TestTransitionApplication(t *testing.T) {
	t.Run("pending to approved", func(t *testing.T) {
		application := &community.StartupApplication{Status: community.ApplicationStatusPending}

		err := community.TransitionApplication(application, community.ApplicationStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, community.ApplicationStatusApproved, application.Status)
	})

	t.Run("pending to rejected", func(t *testing.T) {
		application := &community.StartupApplication{Status: community.ApplicationStatusPending}

		err := community.TransitionApplication(application, community.ApplicationStatusRejected)
		require.NoError(t, err)
		assert.Equal(t, community.ApplicationStatusRejected, application.Status)
	})

	t.Run("same state is a no-op", func(t *testing.T) {
		application := &community.StartupApplication{Status: community.ApplicationStatusApproved}

		err := community.TransitionApplication(application, community.ApplicationStatusApproved)
		require.NoError(t, err)
	})

	t.Run("approved is terminal", func(t *testing.T) {
		application := &community.StartupApplication{Status: community.ApplicationStatusApproved}

		err := community.TransitionApplication(application, community.ApplicationStatusRejected)
		require.Error(t, err)
		assert.Equal(t, community.ApplicationStatusApproved, application.Status)
	})

	t.Run("rejects nil application", func(t *testing.T) {
		err := community.TransitionApplication(nil, community.ApplicationStatusApproved)
		require.Error(t, err)
	})
}
