package repository

import (
	"testing"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/pkg/testutil"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_counterRepository(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	db := xcontext.DB(ctx)

	likeRepo := NewLikeRepository()
	require.NoError(t, likeRepo.Create(ctx, newLike("user2", entity.LikeTargetPost, "post1")))
	require.NoError(t, likeRepo.Create(ctx, newLike("user3", entity.LikeTargetPost, "post1")))
	require.NoError(t, db.Create(&entity.Follow{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 1},
		FollowerID:    "user2",
		FollowingID:   "user1",
	}).Error)

	// Drift every counter.
	require.NoError(t, db.Model(&entity.Post{}).Where("id=?", "post1").Update("like_count", 7).Error)
	require.NoError(t, db.Model(&entity.Post{}).Where("id=?", "post3").Update("like_count", 3).Error)
	require.NoError(t, db.Model(&entity.User{}).Where("id=?", "user1").Update("followers_count", 9).Error)
	require.NoError(t, db.Model(&entity.Community{}).Where("id=?", "community1").Update("members_count", 0).Error)

	repo := NewCounterRepository()
	require.NoError(t, repo.ReconcilePost(ctx, "post1"))

	require.Equal(t, int64(2), takeByID[entity.Post](t, db, "post1").LikeCount)
	require.Equal(t, int64(3), takeByID[entity.Post](t, db, "post3").LikeCount)

	require.NoError(t, repo.ReconcileAll(ctx))

	require.Zero(t, takeByID[entity.Post](t, db, "post3").LikeCount)
	require.Equal(t, int64(1), takeByID[entity.User](t, db, "user1").FollowersCount)
	require.Equal(t, int64(1), takeByID[entity.User](t, db, "user2").FollowingCount)
	require.Equal(t, int64(2), takeByID[entity.Community](t, db, "community1").MembersCount)
}

// takeByID loads a fresh row, a reused struct would add its own primary key to the query.
func takeByID[T any](t *testing.T, db *gorm.DB, id string) T {
	t.Helper()
	var result T
	require.NoError(t, db.Take(&result, "id=?", id).Error)
	return result
}
