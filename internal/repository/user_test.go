package repository

import (
	"testing"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_userRepository_AdjustFollowCounters(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := NewUserRepository()

	require.NoError(t, repo.AdjustFollowCounters(ctx, "user1", 1, 2))
	require.NoError(t, repo.AdjustFollowCounters(ctx, "user1", -3, -1))

	user, err := repo.GetByID(ctx, "user1")
	require.NoError(t, err)
	require.Zero(t, user.FollowersCount)
	require.Equal(t, int64(1), user.FollowingCount)

	require.ErrorIs(t, repo.AdjustFollowCounters(ctx, "unknown", 1, 0), gorm.ErrRecordNotFound)
	require.NoError(t, repo.AdjustFollowCounters(ctx, "unknown", -1, 0))
}

func Test_userRepository_Create(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := NewUserRepository()

	err := repo.Create(ctx, &entity.User{
		Base:     entity.Base{ID: "user4"},
		Username: testutil.User1.Username,
		Email:    "other@example.com",
	})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	users, err := repo.GetByIDs(ctx, []string{"user1", "user3", "unknown"})
	require.NoError(t, err)
	require.Len(t, users, 2)

	user, err := repo.GetByEmail(ctx, testutil.User2.Email)
	require.NoError(t, err)
	require.Equal(t, "user2", user.ID)
}
