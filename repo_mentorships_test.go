package community_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	community "github.com/alumnihub/go-community"
)

func TestMentoringActivityLookups(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := community.NewMentorshipsRepository(db)

	mentor := insertUser(t, db, "mentor@example.com", []string{"go"})
	mentee := insertUser(t, db, "mentee@example.com", nil)

	offering := &community.Mentorship{
		ID:          uuid.New(),
		MentorID:    mentor.ID,
		Title:       "Backend mentorship",
		Description: "Weekly pairing on distributed systems",
		Expertise:   []string{"go", "postgres"},
		MaxMentees:  3,
		IsActive:    true,
	}
	_, err := db.NewInsert().Model(offering).Exec(ctx)
	require.NoError(t, err)

	request := &community.MentorshipRequest{
		ID:           uuid.New(),
		MentorshipID: offering.ID,
		MenteeID:     mentee.ID,
		Message:      "I would like to join",
		Status:       community.RequestStatusPending,
	}
	_, err = db.NewInsert().Model(request).Exec(ctx)
	require.NoError(t, err)

	t.Run("mentor sees own offerings with requests", func(t *testing.T) {
		offerings, err := repo.ListByMentor(ctx, mentor.ID)
		require.NoError(t, err)
		require.Len(t, offerings, 1)
		require.Len(t, offerings[0].Requests, 1)
		require.NotNil(t, offerings[0].Requests[0].Mentee)
		assert.Equal(t, mentee.ID, offerings[0].Requests[0].Mentee.ID)
	})

	t.Run("mentee sees own requests with the offering", func(t *testing.T) {
		requests, err := repo.ListRequestsByMentee(ctx, mentee.ID)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		require.NotNil(t, requests[0].Mentorship)
		assert.Equal(t, offering.ID, requests[0].Mentorship.ID)
		require.NotNil(t, requests[0].Mentorship.Mentor)
		assert.Equal(t, mentor.ID, requests[0].Mentorship.Mentor.ID)
	})

	t.Run("outsider sees nothing", func(t *testing.T) {
		offerings, err := repo.ListByMentor(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, offerings)

		requests, err := repo.ListRequestsByMentee(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, requests)
	})
}
