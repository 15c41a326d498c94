package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/testutil"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_postDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	resp, err := d.post.Create(ctx, &model.CreatePostRequest{Text: "  hello world  "})
	require.NoError(t, err)
	require.Equal(t, "hello world", resp.Post.Text)
	require.True(t, resp.Post.IsPublic)
	require.Empty(t, resp.Post.CommunityID)
	require.Equal(t, testutil.User2.Username, resp.Post.Owner.Username)

	resp, err = d.post.Create(ctx, &model.CreatePostRequest{
		Text:        "for gophers",
		CommunityID: testutil.Community1.ID,
	})
	require.NoError(t, err)
	require.False(t, resp.Post.IsPublic)
	require.Equal(t, testutil.Community1.ID, resp.Post.CommunityID)
}

func Test_postDomain_Create_Invalid(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	_, err := d.post.Create(ctx, &model.CreatePostRequest{Text: "   "})
	requireErrorCode(t, err, errorx.BadRequest)

	_, err = d.post.Create(ctx, &model.CreatePostRequest{Text: "hi", CommunityID: "unknown"})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = d.post.Create(ctx, &model.CreatePostRequest{Text: "hi", CommunityID: testutil.Community1.ID})
	requireErrorCode(t, err, errorx.PermissionDenied)

	require.Zero(t, countRows(t, ctx, &entity.Post{}, "owner_id=?", testutil.User3.ID))
}

func Test_postDomain_Create_Image(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	imgCtx := testutil.WithMultipartFile(ctx, "image", "cat.png", "image/png", testutil.PNGImage(16, 16))
	resp, err := d.post.Create(imgCtx, &model.CreatePostRequest{Text: "a cat"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Post.ImageURL)

	_, ok := d.storage.Get(resp.Post.ImageURL)
	require.True(t, ok)

	// A failed upload aborts the creation.
	d.post.storage = &testutil.MockStorage{}
	imgCtx = testutil.WithMultipartFile(ctx, "image", "dog.png", "image/png", testutil.PNGImage(16, 16))
	_, err = d.post.Create(imgCtx, &model.CreatePostRequest{Text: "a dog"})
	requireErrorCode(t, err, errorx.Unavailable)
	require.Zero(t, countRows(t, ctx, &entity.Post{}, "text=?", "a dog"))

	badCtx := testutil.WithMultipartFile(ctx, "image", "x.txt", "text/plain", []byte("not an image"))
	_, err = d.post.Create(badCtx, &model.CreatePostRequest{Text: "a text"})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_postDomain_Get_Visibility(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	testCases := []struct {
		name   string
		userID string
		code   errorx.Code
	}{
		{name: "owner", userID: testutil.User1.ID},
		{name: "member", userID: testutil.User2.ID},
		{name: "other user", userID: testutil.User3.ID, code: errorx.PermissionDenied},
		{name: "anonymous", userID: "", code: errorx.PermissionDenied},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			userCtx := testutil.WithUserID(ctx, tt.userID)
			resp, err := d.post.Get(userCtx, &model.GetPostRequest{PostID: testutil.Post2.ID})
			if tt.code != 0 {
				requireErrorCode(t, err, tt.code)
				return
			}

			require.NoError(t, err)
			require.Equal(t, testutil.Post2.ID, resp.Post.ID)
		})
	}

	// Public posts are visible to everyone.
	resp, err := d.post.Get(ctx, &model.GetPostRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.False(t, resp.Post.IsLiked)

	_, err = d.post.Get(ctx, &model.GetPostRequest{PostID: "unknown"})
	requireErrorCode(t, err, errorx.NotFound)
}

func Test_postDomain_Update(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	_, err := d.post.Update(testutil.WithUserID(ctx, testutil.User2.ID), &model.UpdatePostRequest{
		PostID: testutil.Post1.ID,
		Text:   "hacked",
	})
	requireErrorCode(t, err, errorx.PermissionDenied)

	_, err = d.post.Update(ctx, &model.UpdatePostRequest{PostID: testutil.Post1.ID})
	requireErrorCode(t, err, errorx.BadRequest)

	first, err := d.post.Update(
		testutil.WithMultipartFile(ctx, "image", "a.png", "image/png", testutil.PNGImage(8, 8)),
		&model.UpdatePostRequest{PostID: testutil.Post1.ID, Text: "edited"},
	)
	require.NoError(t, err)
	require.Equal(t, "edited", first.Post.Text)
	require.NotEmpty(t, first.Post.ImageURL)

	second, err := d.post.Update(
		testutil.WithMultipartFile(ctx, "image", "b.png", "image/png", testutil.PNGImage(8, 8)),
		&model.UpdatePostRequest{PostID: testutil.Post1.ID},
	)
	require.NoError(t, err)
	require.Equal(t, "edited", second.Post.Text)

	_, ok := d.storage.Get(first.Post.ImageURL)
	require.False(t, ok)
	_, ok = d.storage.Get(second.Post.ImageURL)
	require.True(t, ok)
}

func Test_postDomain_Delete_Cascade(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	post := testutil.SamplePost(ctx, &entity.Post{OwnerID: testutil.User1.ID})
	other := testutil.SamplePost(ctx, &entity.Post{OwnerID: testutil.User2.ID})

	commentIDs := []string{}
	for _, userID := range []string{testutil.User1.ID, testutil.User2.ID, testutil.User3.ID} {
		resp, err := d.comment.Create(testutil.WithUserID(ctx, userID), &model.CreateCommentRequest{
			PostID:  post.ID,
			Content: "comment of " + userID,
		})
		require.NoError(t, err)
		commentIDs = append(commentIDs, resp.Comment.ID)
	}

	likes := []struct {
		userID    string
		postID    string
		commentID string
	}{
		{userID: testutil.User2.ID, postID: post.ID},
		{userID: testutil.User3.ID, postID: post.ID},
		{userID: testutil.User1.ID, commentID: commentIDs[0]},
		{userID: testutil.User3.ID, commentID: commentIDs[0]},
		{userID: testutil.User1.ID, commentID: commentIDs[1]},
	}
	for _, l := range likes {
		userCtx := testutil.WithUserID(ctx, l.userID)
		var err error
		if l.postID != "" {
			_, err = d.like.TogglePostLike(userCtx, &model.TogglePostLikeRequest{PostID: l.postID})
		} else {
			_, err = d.like.ToggleCommentLike(userCtx, &model.ToggleCommentLikeRequest{CommentID: l.commentID})
		}
		require.NoError(t, err)
	}

	// A like on another post must survive.
	_, err := d.like.TogglePostLike(ctx, &model.TogglePostLikeRequest{PostID: other.ID})
	require.NoError(t, err)
	require.Equal(t, int64(6), countRows(t, ctx, &entity.Like{}, "1=1"))

	_, err = d.post.Delete(testutil.WithUserID(ctx, testutil.User2.ID), &model.DeletePostRequest{PostID: post.ID})
	requireErrorCode(t, err, errorx.PermissionDenied)

	_, err = d.post.Delete(ctx, &model.DeletePostRequest{PostID: post.ID})
	require.NoError(t, err)

	require.Zero(t, countRows(t, ctx, &entity.Post{}, "id=?", post.ID))
	require.Zero(t, countRows(t, ctx, &entity.Comment{}, "post_id=?", post.ID))
	require.Zero(t, countRows(t, ctx, &entity.Like{}, "post_id=?", post.ID))
	require.Zero(t, countRows(t, ctx, &entity.Like{}, "comment_id IN (?)", commentIDs))
	require.Equal(t, int64(1), countRows(t, ctx, &entity.Like{}, "post_id=?", other.ID))

	_, err = d.post.Get(ctx, &model.GetPostRequest{PostID: post.ID})
	requireErrorCode(t, err, errorx.NotFound)
}

func Test_postDomain_TogglePublish(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	_, err := d.post.TogglePublish(
		testutil.WithUserID(ctx, testutil.User2.ID),
		&model.TogglePublishPostRequest{PostID: testutil.Post1.ID},
	)
	requireErrorCode(t, err, errorx.PermissionDenied)

	resp, err := d.post.TogglePublish(ctx, &model.TogglePublishPostRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.False(t, resp.Post.IsPublic)
	require.False(t, loadPost(t, ctx, testutil.Post1.ID).IsPublic)

	_, err = d.post.Get(testutil.WithUserID(ctx, testutil.User3.ID), &model.GetPostRequest{PostID: testutil.Post1.ID})
	requireErrorCode(t, err, errorx.PermissionDenied)

	resp, err = d.post.TogglePublish(ctx, &model.TogglePublishPostRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.True(t, resp.Post.IsPublic)

	_, err = d.post.TogglePublish(ctx, &model.TogglePublishPostRequest{PostID: testutil.Post2.ID})
	requireErrorCode(t, err, errorx.BadRequest)
	require.False(t, loadPost(t, ctx, testutil.Post2.ID).IsPublic)
}

func Test_postDomain_GetUserPosts(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		testutil.SamplePost(ctx, &entity.Post{
			Base:    entity.Base{ID: fmt.Sprintf("user3_post%02d", i), CreatedAt: base.Add(time.Duration(i) * time.Minute)},
			OwnerID: testutil.User3.ID,
		})
	}

	// Private posts are never listed to other users.
	private := testutil.SamplePost(ctx, &entity.Post{OwnerID: testutil.User3.ID})
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Post{}).
		Where("id=?", private.ID).
		Update("is_public", false).Error)

	resp, err := d.post.GetUserPosts(ctx, &model.GetUserPostsRequest{UserID: testutil.User3.ID})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 8)
	require.Equal(t, "user3_post09", resp.Posts[0].ID)
	require.Equal(t, int64(10), resp.TotalCount)
	require.Equal(t, 2, resp.TotalPages)
	require.Equal(t, 1, resp.CurrentPage)
	require.True(t, resp.HasNextPage)

	resp, err = d.post.GetUserPosts(ctx, &model.GetUserPostsRequest{UserID: testutil.User3.ID, Page: 2})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 2)
	require.Equal(t, "user3_post00", resp.Posts[1].ID)
	require.False(t, resp.HasNextPage)
	require.True(t, resp.HasPrevPage)

	_, err = d.post.GetUserPosts(ctx, &model.GetUserPostsRequest{UserID: "unknown"})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = d.post.GetUserPosts(ctx, &model.GetUserPostsRequest{UserID: testutil.User3.ID, PageSize: 1000})
	requireErrorCode(t, err, errorx.BadRequest)

	mine, err := d.post.GetMyPosts(ctx, &model.GetMyPostsRequest{PageSize: 50})
	require.NoError(t, err)
	require.Len(t, mine.Posts, 11)
}
