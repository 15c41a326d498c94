package domain

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/internal/repository"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_communityDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	resp, err := d.community.Create(ctx, &model.CreateCommunityRequest{Name: "  Rustaceans "})
	require.NoError(t, err)
	require.Equal(t, "Rustaceans", resp.Community.Name)
	require.Equal(t, testutil.User2.ID, resp.Community.Owner.ID)
	require.Equal(t, int64(1), resp.Community.MembersCount)

	community := loadCommunity(t, ctx, resp.Community.ID)
	require.Equal(t, int64(1), community.MembersCount)
	require.Equal(t, int64(1), countRows(t, ctx, &entity.CommunityMember{},
		"community_id=? AND user_id=?", community.ID, testutil.User2.ID))

	_, err = d.community.Create(ctx, &model.CreateCommunityRequest{Name: "Rustaceans"})
	requireErrorCode(t, err, errorx.AlreadyExists)

	_, err = d.community.Create(ctx, &model.CreateCommunityRequest{Name: "   "})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_communityDomain_Create_Avatar(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	ctx = testutil.WithMultipartFile(ctx, "avatar", "avatar.png", "image/png", testutil.PNGImage(128, 32))
	resp, err := d.community.Create(ctx, &model.CreateCommunityRequest{Name: "Artists"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Community.AvatarURL)

	// The avatar is downscaled to the configured width.
	data, ok := d.storage.Get(resp.Community.AvatarURL)
	require.True(t, ok)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 64, img.Bounds().Dx())
	require.Equal(t, 16, img.Bounds().Dy())
}

func Test_communityDomain_Create_UploadFailure(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)
	d.community.storage = &testutil.MockStorage{}

	ctx = testutil.WithMultipartFile(ctx, "avatar", "avatar.png", "image/png", testutil.PNGImage(8, 8))
	_, err := d.community.Create(ctx, &model.CreateCommunityRequest{Name: "Artists"})
	requireErrorCode(t, err, errorx.Unavailable)
	require.Zero(t, countRows(t, ctx, &entity.Community{}, "name=?", "Artists"))
}

func Test_communityDomain_Update(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	_, err := d.community.Update(testutil.WithUserID(ctx, testutil.User2.ID), &model.UpdateCommunityRequest{
		CommunityID: testutil.Community1.ID,
		Name:        "Renamed",
	})
	requireErrorCode(t, err, errorx.PermissionDenied)

	first, err := d.community.Update(
		testutil.WithMultipartFile(ctx, "avatar", "a.png", "image/png", testutil.PNGImage(8, 8)),
		&model.UpdateCommunityRequest{CommunityID: testutil.Community1.ID},
	)
	require.NoError(t, err)
	require.NotEmpty(t, first.Community.AvatarURL)

	second, err := d.community.Update(
		testutil.WithMultipartFile(ctx, "avatar", "b.png", "image/png", testutil.PNGImage(8, 8)),
		&model.UpdateCommunityRequest{CommunityID: testutil.Community1.ID, Name: "Gopher Club"},
	)
	require.NoError(t, err)
	require.Equal(t, "Gopher Club", second.Community.Name)
	require.NotEqual(t, first.Community.AvatarURL, second.Community.AvatarURL)

	// The replaced avatar is removed from the storage.
	_, ok := d.storage.Get(first.Community.AvatarURL)
	require.False(t, ok)
	_, ok = d.storage.Get(second.Community.AvatarURL)
	require.True(t, ok)
}

func Test_communityDomain_JoinLeave(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	_, err := d.community.Join(ctx, &model.JoinCommunityRequest{CommunityID: testutil.Community1.ID})
	require.NoError(t, err)
	require.Equal(t, int64(3), loadCommunity(t, ctx, testutil.Community1.ID).MembersCount)

	_, err = d.community.Join(ctx, &model.JoinCommunityRequest{CommunityID: testutil.Community1.ID})
	requireErrorCode(t, err, errorx.AlreadyExists)
	require.Equal(t, int64(3), loadCommunity(t, ctx, testutil.Community1.ID).MembersCount)

	getResp, err := d.community.Get(ctx, &model.GetCommunityRequest{CommunityID: testutil.Community1.ID})
	require.NoError(t, err)
	require.True(t, getResp.IsMember)

	mine, err := d.community.GetMine(ctx, &model.GetMyCommunitiesRequest{})
	require.NoError(t, err)
	require.Len(t, mine.Communities, 1)

	_, err = d.community.Leave(ctx, &model.LeaveCommunityRequest{CommunityID: testutil.Community1.ID})
	require.NoError(t, err)
	require.Equal(t, int64(2), loadCommunity(t, ctx, testutil.Community1.ID).MembersCount)

	_, err = d.community.Leave(ctx, &model.LeaveCommunityRequest{CommunityID: testutil.Community1.ID})
	requireErrorCode(t, err, errorx.NotFound)

	mine, err = d.community.GetMine(ctx, &model.GetMyCommunitiesRequest{})
	require.NoError(t, err)
	require.NotNil(t, mine.Communities)
	require.Empty(t, mine.Communities)
	require.Equal(t, "You are not a member of any community", mine.ResponseMessage())
}

func Test_communityDomain_OwnerCannotJoinOrLeave(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	_, err := d.community.Join(ctx, &model.JoinCommunityRequest{CommunityID: testutil.Community1.ID})
	requireErrorCode(t, err, errorx.BadRequest)

	_, err = d.community.Leave(ctx, &model.LeaveCommunityRequest{CommunityID: testutil.Community1.ID})
	requireErrorCode(t, err, errorx.BadRequest)

	require.Equal(t, int64(2), loadCommunity(t, ctx, testutil.Community1.ID).MembersCount)
}

func Test_communityDomain_GetMembers(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	resp, err := d.community.GetMembers(ctx, &model.GetCommunityMembersRequest{CommunityID: testutil.Community1.ID})
	require.NoError(t, err)
	require.Len(t, resp.Members, 2)
	require.Equal(t, testutil.User1.Username, resp.Members[0].Username)
	require.Equal(t, testutil.User2.Username, resp.Members[1].Username)
}

func Test_communityDomain_GetPosts(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	resp, err := d.community.GetPosts(ctx, &model.GetCommunityPostsRequest{CommunityID: testutil.Community1.ID})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	require.Equal(t, testutil.Post2.ID, resp.Posts[0].ID)
	require.Equal(t, int64(1), resp.TotalCount)
	require.Equal(t, 1, resp.TotalPages)
	require.False(t, resp.HasNextPage)

	_, err = d.community.GetPosts(
		testutil.WithUserID(ctx, testutil.User3.ID),
		&model.GetCommunityPostsRequest{CommunityID: testutil.Community1.ID},
	)
	requireErrorCode(t, err, errorx.PermissionDenied)

	_, err = d.community.GetPosts(
		testutil.WithUserID(ctx, ""),
		&model.GetCommunityPostsRequest{CommunityID: testutil.Community1.ID},
	)
	requireErrorCode(t, err, errorx.PermissionDenied)
}

func Test_communityDomain_Delete(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	_, err := d.community.Delete(
		testutil.WithUserID(ctx, testutil.User2.ID),
		&model.DeleteCommunityRequest{CommunityID: testutil.Community1.ID},
	)
	requireErrorCode(t, err, errorx.PermissionDenied)

	_, err = d.community.Delete(ctx, &model.DeleteCommunityRequest{CommunityID: testutil.Community1.ID})
	require.NoError(t, err)

	require.Zero(t, countRows(t, ctx, &entity.Community{}, "id=?", testutil.Community1.ID))
	require.Zero(t, countRows(t, ctx, &entity.CommunityMember{}, "community_id=?", testutil.Community1.ID))

	// The post of the deleted community is kept and visible to its owner only.
	_, err = d.post.Get(ctx, &model.GetPostRequest{PostID: testutil.Post2.ID})
	require.NoError(t, err)

	_, err = d.post.Get(testutil.WithUserID(ctx, testutil.User2.ID), &model.GetPostRequest{PostID: testutil.Post2.ID})
	requireErrorCode(t, err, errorx.PermissionDenied)

	_, err = d.community.Get(ctx, &model.GetCommunityRequest{CommunityID: testutil.Community1.ID})
	requireErrorCode(t, err, errorx.NotFound)
}

type undeletableCommunityRepository struct {
	repository.CommunityRepository
}

func (r *undeletableCommunityRepository) DeleteByID(ctx context.Context, id string) error {
	return errors.New("community table locked")
}

func Test_communityDomain_Delete_KeepsMembersOnFailure(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestDomains(t)

	communityDomain := NewCommunityDomain(
		&undeletableCommunityRepository{
			CommunityRepository: repository.NewCommunityRepository(&testutil.MockRedisClient{}),
		},
		repository.NewUserRepository(),
		repository.NewPostRepository(),
		repository.NewLikeRepository(),
		d.storage,
		nil,
	)

	_, err := communityDomain.Delete(ctx, &model.DeleteCommunityRequest{CommunityID: testutil.Community1.ID})
	requireErrorCode(t, err, errorx.Unknown.Code)

	// Nothing of the deletion is left behind.
	require.Equal(t, int64(2), countRows(t, ctx, &entity.CommunityMember{}, "community_id=?", testutil.Community1.ID))
	require.Equal(t, int64(2), loadCommunity(t, ctx, testutil.Community1.ID).MembersCount)

	// The database is usable again once the transaction is gone.
	_, err = d.community.Delete(ctx, &model.DeleteCommunityRequest{CommunityID: testutil.Community1.ID})
	require.NoError(t, err)
	require.Zero(t, countRows(t, ctx, &entity.CommunityMember{}, "community_id=?", testutil.Community1.ID))
	require.Zero(t, countRows(t, ctx, &entity.Community{}, "id=?", testutil.Community1.ID))
}
