package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/internal/repository"
	"github.com/socialgraph-lab/backend/pkg/idutil"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_likeDomain_TogglePostLike_Idempotence(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	resp, err := d.like.TogglePostLike(ctx, &model.TogglePostLikeRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.Equal(t, model.LikeActionLiked, resp.Action)
	require.Equal(t, int64(1), resp.LikeCount)
	require.Equal(t, "Post liked successfully", resp.ResponseMessage())

	post, err := d.post.Get(ctx, &model.GetPostRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.True(t, post.Post.IsLiked)

	resp, err = d.like.TogglePostLike(ctx, &model.TogglePostLikeRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.Equal(t, model.LikeActionUnliked, resp.Action)
	require.Zero(t, resp.LikeCount)

	// Two toggles restore the original state.
	require.Zero(t, loadPost(t, ctx, testutil.Post1.ID).LikeCount)
	require.Zero(t, countRows(t, ctx, &entity.Like{}, "post_id=?", testutil.Post1.ID))

	require.Len(t, d.publisher.Packs, 2)
	for i, eventType := range []model.EventType{model.EventPostLiked, model.EventPostUnliked} {
		event, err := DecodeEvent(d.publisher.Packs[i].Msg)
		require.NoError(t, err)
		require.Equal(t, eventType, event.Type)
		require.Equal(t, testutil.Post1.ID, event.PostID)
		require.Equal(t, "engagement", d.publisher.Topics[i])
	}
}

func Test_likeDomain_TogglePostLike_ManyLikers(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	const likers = 20
	users := []*entity.User{}
	for i := 0; i < likers; i++ {
		user := testutil.SampleUser(ctx, nil)
		users = append(users, user)

		resp, err := d.like.TogglePostLike(
			testutil.WithUserID(ctx, user.ID),
			&model.TogglePostLikeRequest{PostID: testutil.Post3.ID},
		)
		require.NoError(t, err)
		require.Equal(t, int64(i+1), resp.LikeCount)
	}

	// Every third liker takes the like back.
	unliked := 0
	for i := 0; i < likers; i += 3 {
		_, err := d.like.TogglePostLike(
			testutil.WithUserID(ctx, users[i].ID),
			&model.TogglePostLikeRequest{PostID: testutil.Post3.ID},
		)
		require.NoError(t, err)
		unliked++
	}

	rows := countRows(t, ctx, &entity.Like{}, "post_id=?", testutil.Post3.ID)
	require.Equal(t, int64(likers-unliked), rows)
	require.Equal(t, rows, loadPost(t, ctx, testutil.Post3.ID).LikeCount)
}

func Test_likeDomain_ToggleCommentLike(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	comment, err := d.comment.Create(ctx, &model.CreateCommentRequest{PostID: testutil.Post1.ID, Content: "hi"})
	require.NoError(t, err)

	resp, err := d.like.ToggleCommentLike(ctx, &model.ToggleCommentLikeRequest{CommentID: comment.Comment.ID})
	require.NoError(t, err)
	require.Equal(t, model.LikeActionLiked, resp.Action)
	require.Equal(t, int64(1), resp.LikeCount)
	require.Equal(t, "Comment liked successfully", resp.ResponseMessage())

	// A like on a comment does not count as a like on its post.
	require.Zero(t, loadPost(t, ctx, testutil.Post1.ID).LikeCount)

	resp, err = d.like.ToggleCommentLike(ctx, &model.ToggleCommentLikeRequest{CommentID: comment.Comment.ID})
	require.NoError(t, err)
	require.Equal(t, model.LikeActionUnliked, resp.Action)
	require.Zero(t, resp.LikeCount)
}

func Test_likeDomain_Toggle_Invalid(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	_, err := d.like.TogglePostLike(ctx, &model.TogglePostLikeRequest{PostID: "unknown"})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = d.like.ToggleCommentLike(ctx, &model.ToggleCommentLikeRequest{CommentID: "unknown"})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = d.like.TogglePostLike(ctx, &model.TogglePostLikeRequest{PostID: testutil.Post2.ID})
	requireErrorCode(t, err, errorx.PermissionDenied)
	require.Zero(t, countRows(t, ctx, &entity.Like{}, "1=1"))
}

func Test_likeDomain_Toggle_ConcurrentLike(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	// Another request of the same user already inserted the like row, but the existence check
	// of this request did not see it.
	likeRepo := &racingLikeRepository{LikeRepository: d.like.likeRepo}
	d.like.likeRepo = likeRepo
	require.NoError(t, d.like.likeRepo.Create(ctx, &entity.Like{
		Base:    entity.Base{ID: "existing"},
		LikedBy: testutil.User2.ID,
		PostID:  nullString(testutil.Post1.ID),
	}))
	require.NoError(t, d.post.postRepo.IncreaseLikes(ctx, testutil.Post1.ID))

	likeRepo.hide = true
	resp, err := d.like.TogglePostLike(ctx, &model.TogglePostLikeRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.Equal(t, model.LikeActionLiked, resp.Action)
	require.Equal(t, int64(1), resp.LikeCount)
	require.Equal(t, int64(1), countRows(t, ctx, &entity.Like{}, "post_id=?", testutil.Post1.ID))
}

type brokenCounterPostRepository struct {
	repository.PostRepository
}

func (r *brokenCounterPostRepository) IncreaseLikes(ctx context.Context, id string) error {
	return errors.New("counter unavailable")
}

func Test_likeDomain_TogglePostLike_CounterFailurePublishesEvent(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	node, err := idutil.NewNode()
	require.NoError(t, err)

	communityRepo := repository.NewCommunityRepository(&testutil.MockRedisClient{})
	likeDomain := NewLikeDomain(
		repository.NewLikeRepository(),
		&brokenCounterPostRepository{PostRepository: repository.NewPostRepository()},
		repository.NewCommentRepository(),
		communityRepo,
		NewEventPublisher(d.publisher, node),
	)

	_, err = likeDomain.TogglePostLike(ctx, &model.TogglePostLikeRequest{PostID: testutil.Post1.ID})
	requireErrorCode(t, err, errorx.Unknown.Code)

	// The like is kept and the counter lags behind it.
	require.Equal(t, int64(1), countRows(t, ctx, &entity.Like{}, "post_id=?", testutil.Post1.ID))
	require.Zero(t, loadPost(t, ctx, testutil.Post1.ID).LikeCount)

	require.Len(t, d.publisher.Packs, 1)
	event, err := DecodeEvent(d.publisher.Packs[0].Msg)
	require.NoError(t, err)
	require.Equal(t, model.EventPostLiked, event.Type)
	require.Equal(t, testutil.Post1.ID, event.PostID)

	d.engagement.Subscribe(ctx, d.publisher.Packs[0], time.Now())
	require.Equal(t, int64(1), loadPost(t, ctx, testutil.Post1.ID).LikeCount)
}
