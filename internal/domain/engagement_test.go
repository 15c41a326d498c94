package domain

import (
	"context"
	"testing"
	"time"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/internal/repository"
	"github.com/socialgraph-lab/backend/pkg/pubsub"
	"github.com/socialgraph-lab/backend/pkg/testutil"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// racingLikeRepository hides existing likes from Get, as if they were inserted by a concurrent
// request right after the check.
type racingLikeRepository struct {
	repository.LikeRepository
	hide bool
}

func (r *racingLikeRepository) Get(
	ctx context.Context, userID string, target entity.LikeTarget, targetID string,
) (*entity.Like, error) {
	if r.hide {
		return nil, gorm.ErrRecordNotFound
	}

	return r.LikeRepository.Get(ctx, userID, target, targetID)
}

func Test_engagementDomain_Subscribe_RepairsDrift(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	_, err := d.like.TogglePostLike(ctx, &model.TogglePostLikeRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	_, err = d.follow.Follow(ctx, &model.FollowUserRequest{UserID: testutil.User1.ID})
	require.NoError(t, err)

	// Simulate counter updates lost after their primary write.
	db := xcontext.DB(ctx)
	require.NoError(t, db.Model(&entity.Post{}).Where("id=?", testutil.Post1.ID).
		UpdateColumn("like_count", 42).Error)
	require.NoError(t, db.Model(&entity.User{}).Where("id=?", testutil.User1.ID).
		UpdateColumn("followers_count", 0).Error)
	require.NoError(t, db.Model(&entity.User{}).Where("id=?", testutil.User2.ID).
		UpdateColumn("following_count", 7).Error)

	for _, pack := range d.publisher.Packs {
		d.engagement.Subscribe(ctx, pack, time.Now())
	}

	require.Equal(t, int64(1), loadPost(t, ctx, testutil.Post1.ID).LikeCount)
	require.Equal(t, int64(1), loadUser(t, ctx, testutil.User1.ID).FollowersCount)
	require.Equal(t, int64(1), loadUser(t, ctx, testutil.User2.ID).FollowingCount)

	// Malformed messages are dropped.
	d.engagement.Subscribe(ctx, &pubsub.Pack{Msg: []byte("{")}, time.Now())
}

func Test_engagementDomain_Reconcile_Community(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	require.NoError(t, xcontext.DB(ctx).Model(&entity.Community{}).
		Where("id=?", testutil.Community1.ID).
		UpdateColumn("members_count", 0).Error)

	err := d.engagement.Reconcile(ctx, model.EngagementEvent{
		Type:        model.EventCommunityJoined,
		CommunityID: testutil.Community1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), loadCommunity(t, ctx, testutil.Community1.ID).MembersCount)
}

func Test_counterRepository_ReconcileAll(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	comment, err := d.comment.Create(ctx, &model.CreateCommentRequest{PostID: testutil.Post3.ID, Content: "hey"})
	require.NoError(t, err)
	_, err = d.like.ToggleCommentLike(ctx, &model.ToggleCommentLikeRequest{CommentID: comment.Comment.ID})
	require.NoError(t, err)

	db := xcontext.DB(ctx)
	require.NoError(t, db.Model(&entity.Post{}).Where("1=1").UpdateColumn("comment_count", 9).Error)
	require.NoError(t, db.Model(&entity.Comment{}).Where("1=1").UpdateColumn("like_count", 9).Error)
	require.NoError(t, db.Model(&entity.Community{}).Where("1=1").UpdateColumn("members_count", 9).Error)

	require.NoError(t, repository.NewCounterRepository().ReconcileAll(ctx))

	require.Equal(t, int64(1), loadPost(t, ctx, testutil.Post3.ID).CommentCount)
	require.Zero(t, loadPost(t, ctx, testutil.Post1.ID).CommentCount)
	require.Equal(t, int64(2), loadCommunity(t, ctx, testutil.Community1.ID).MembersCount)

	var c entity.Comment
	require.NoError(t, db.Take(&c, "id=?", comment.Comment.ID).Error)
	require.Equal(t, int64(1), c.LikeCount)
}
