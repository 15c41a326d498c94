package domain

import (
	"testing"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_commentDomain_CreateDelete(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	_, err := d.comment.Create(ctx, &model.CreateCommentRequest{PostID: testutil.Post1.ID, Content: "  "})
	requireErrorCode(t, err, errorx.BadRequest)

	_, err = d.comment.Create(ctx, &model.CreateCommentRequest{PostID: "unknown", Content: "nice"})
	requireErrorCode(t, err, errorx.NotFound)

	resp, err := d.comment.Create(ctx, &model.CreateCommentRequest{PostID: testutil.Post1.ID, Content: " nice "})
	require.NoError(t, err)
	require.Equal(t, "nice", resp.Comment.Content)
	require.Equal(t, testutil.User2.Username, resp.Comment.Owner.Username)
	require.Equal(t, int64(1), loadPost(t, ctx, testutil.Post1.ID).CommentCount)

	_, err = d.like.ToggleCommentLike(
		testutil.WithUserID(ctx, testutil.User1.ID),
		&model.ToggleCommentLikeRequest{CommentID: resp.Comment.ID},
	)
	require.NoError(t, err)

	_, err = d.comment.Delete(
		testutil.WithUserID(ctx, testutil.User1.ID),
		&model.DeleteCommentRequest{CommentID: resp.Comment.ID},
	)
	requireErrorCode(t, err, errorx.PermissionDenied)

	_, err = d.comment.Delete(ctx, &model.DeleteCommentRequest{CommentID: resp.Comment.ID})
	require.NoError(t, err)
	require.Zero(t, loadPost(t, ctx, testutil.Post1.ID).CommentCount)
	require.Zero(t, countRows(t, ctx, &entity.Like{}, "comment_id=?", resp.Comment.ID))

	_, err = d.comment.Delete(ctx, &model.DeleteCommentRequest{CommentID: resp.Comment.ID})
	requireErrorCode(t, err, errorx.NotFound)
}

func Test_commentDomain_Update(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	created, err := d.comment.Create(ctx, &model.CreateCommentRequest{PostID: testutil.Post1.ID, Content: "first"})
	require.NoError(t, err)

	_, err = d.comment.Update(
		testutil.WithUserID(ctx, testutil.User3.ID),
		&model.UpdateCommentRequest{CommentID: created.Comment.ID, Content: "mine now"},
	)
	requireErrorCode(t, err, errorx.PermissionDenied)

	_, err = d.comment.Update(ctx, &model.UpdateCommentRequest{CommentID: created.Comment.ID})
	requireErrorCode(t, err, errorx.BadRequest)

	resp, err := d.comment.Update(ctx, &model.UpdateCommentRequest{CommentID: created.Comment.ID, Content: "second"})
	require.NoError(t, err)
	require.Equal(t, "second", resp.Comment.Content)
}

func Test_commentDomain_GetList(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	ids := []string{}
	for _, content := range []string{"one", "two", "three"} {
		resp, err := d.comment.Create(ctx, &model.CreateCommentRequest{PostID: testutil.Post2.ID, Content: content})
		require.NoError(t, err)
		ids = append(ids, resp.Comment.ID)
	}

	_, err := d.like.ToggleCommentLike(ctx, &model.ToggleCommentLikeRequest{CommentID: ids[0]})
	require.NoError(t, err)

	resp, err := d.comment.GetList(ctx, &model.GetCommentsRequest{PostID: testutil.Post2.ID, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, resp.Comments, 2)
	require.Equal(t, int64(3), resp.TotalCount)
	require.Equal(t, 2, resp.TotalPages)
	require.True(t, resp.HasNextPage)

	resp, err = d.comment.GetList(ctx, &model.GetCommentsRequest{PostID: testutil.Post2.ID, Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, resp.Comments, 1)
	require.False(t, resp.HasNextPage)

	resp, err = d.comment.GetList(ctx, &model.GetCommentsRequest{PostID: testutil.Post2.ID})
	require.NoError(t, err)
	require.Len(t, resp.Comments, 3)
	for _, c := range resp.Comments {
		require.Equal(t, c.ID == ids[0], c.IsLiked)
		require.Equal(t, c.ID == ids[0], c.LikeCount == 1)
	}

	// Comments of a community post follow the visibility of the post.
	_, err = d.comment.GetList(
		testutil.WithUserID(ctx, testutil.User3.ID),
		&model.GetCommentsRequest{PostID: testutil.Post2.ID},
	)
	requireErrorCode(t, err, errorx.PermissionDenied)

	_, err = d.comment.Create(
		testutil.WithUserID(ctx, testutil.User3.ID),
		&model.CreateCommentRequest{PostID: testutil.Post2.ID, Content: "let me in"},
	)
	requireErrorCode(t, err, errorx.PermissionDenied)
	require.Equal(t, int64(3), loadPost(t, ctx, testutil.Post2.ID).CommentCount)
}
