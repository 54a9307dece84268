package community_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	community "github.com/alumnihub/go-community"
)

// newTestDB opens an in-memory sqlite database with fresh tables for
// the models the repository tests touch.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	err = db.ResetModel(context.Background(),
		(*community.User)(nil),
		(*community.Event)(nil),
		(*community.EventRegistration)(nil),
		(*community.Mentorship)(nil),
		(*community.MentorshipRequest)(nil),
	)
	require.NoError(t, err)

	return db
}

func insertUser(t *testing.T, db *bun.DB, email string, expertise []string) *community.User {
	t.Helper()

	user := &community.User{
		ID:        uuid.New(),
		Role:      community.RoleMember,
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Expertise: expertise,
	}
	_, err := db.NewInsert().Model(user).Exec(context.Background())
	require.NoError(t, err)

	return user
}

func TestDirectoryExpertiseFilter(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := community.NewUsersRepository(db)

	goUser := insertUser(t, db, "gopher@example.com", []string{"go", "postgres"})
	insertUser(t, db, "rustacean@example.com", []string{"rust"})
	insertUser(t, db, "blank@example.com", nil)

	t.Run("filters on array membership", func(t *testing.T) {
		users, total, err := repo.Directory(ctx, community.UserFilter{Expertise: "go"}, community.NewPager(1, 10, 10))
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, users, 1)
		assert.Equal(t, goUser.ID, users[0].ID)
	})

	t.Run("no match means empty page", func(t *testing.T) {
		users, total, err := repo.Directory(ctx, community.UserFilter{Expertise: "cobol"}, community.NewPager(1, 10, 10))
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, users)
	})

	t.Run("empty filter returns everyone", func(t *testing.T) {
		_, total, err := repo.Directory(ctx, community.UserFilter{}, community.NewPager(1, 10, 10))
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})
}
