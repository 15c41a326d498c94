package domain

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"

	"github.com/socialgraph-lab/backend/internal/common"
	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/internal/repository"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/pagination"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var usernameRegex = regexp.MustCompile("^[a-z0-9_]*$")

func checkUsername(username string) error {
	if len(username) < 4 {
		return errorx.New(errorx.BadRequest, "Username too short (at least 4 characters)")
	}

	if len(username) > 32 {
		return errorx.New(errorx.BadRequest, "Username too long (at most 32 characters)")
	}

	if !usernameRegex.MatchString(username) {
		return errorx.New(errorx.BadRequest, "Username contains invalid characters")
	}

	return nil
}

func checkEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errorx.New(errorx.BadRequest, "Invalid email")
	}

	return nil
}

func checkCommunityName(name string) error {
	if name == "" {
		return errorx.New(errorx.BadRequest, "Community name is required")
	}

	if len(name) > 64 {
		return errorx.New(errorx.BadRequest, "Community name too long (at most 64 characters)")
	}

	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// pageRequest normalizes a page request against the api server limits.
func pageRequest(ctx context.Context, page, pageSize, defaultPageSize int) (int, int, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if defaultPageSize == 0 {
		defaultPageSize = apiCfg.DefaultPageSize
	}

	page, pageSize, err := pagination.Normalize(page, pageSize, pagination.PageSizeConfig{
		Default: defaultPageSize,
		Max:     apiCfg.MaxPageSize,
	})
	if err != nil {
		return 0, 0, errorx.New(errorx.BadRequest, "Invalid pagination: %v", err)
	}

	return page, pageSize, nil
}

// counterFailure reports a counter update which failed after its primary write succeeded.
// The primary write is not rolled back, the reconciler repairs the counter later.
func counterFailure(ctx context.Context, entityName string, err error) error {
	xcontext.Logger(ctx).Errorf("Cannot update %s counter: %v", entityName, err)
	common.IncCounter(common.CounterUpdateFailureTotal, entityName)
	return errorx.Unknown
}

// accessChecker is the single place deciding community membership and post visibility.
type accessChecker struct {
	communityRepo repository.CommunityRepository
}

func newAccessChecker(communityRepo repository.CommunityRepository) *accessChecker {
	return &accessChecker{communityRepo: communityRepo}
}

// HasAccess reports whether the user is the owner or a member of the community. Anonymous
// users never have access.
func (c *accessChecker) HasAccess(ctx context.Context, community *entity.Community, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	if community.OwnerID == userID {
		return true, nil
	}

	return c.communityRepo.IsMember(ctx, community.ID, userID)
}

// CanViewPost returns nil if the user may see the post, otherwise a PermissionDenied error.
func (c *accessChecker) CanViewPost(ctx context.Context, post *entity.Post, userID string) error {
	if post.IsPublic {
		return nil
	}

	if userID != "" && post.OwnerID == userID {
		return nil
	}

	if post.CommunityID.Valid && userID != "" {
		community, err := c.communityRepo.GetByID(ctx, post.CommunityID.String)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
			return errorx.Unknown
		}

		if err == nil {
			ok, err := c.HasAccess(ctx, community, userID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot check community membership: %v", err)
				return errorx.Unknown
			}

			if ok {
				return nil
			}
		}
	}

	return errorx.New(errorx.PermissionDenied, "You do not have permission to view this post")
}

// postConverter converts posts in batch, loading owners and liked state with one query each.
type postConverter struct {
	userRepo repository.UserRepository
	likeRepo repository.LikeRepository
}

func newPostConverter(userRepo repository.UserRepository, likeRepo repository.LikeRepository) *postConverter {
	return &postConverter{userRepo: userRepo, likeRepo: likeRepo}
}

func (c *postConverter) Convert(ctx context.Context, posts []entity.Post) ([]model.Post, error) {
	result := []model.Post{}
	if len(posts) == 0 {
		return result, nil
	}

	ownerIDs := []string{}
	postIDs := []string{}
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if !slices.Contains(ownerIDs, p.OwnerID) {
			ownerIDs = append(ownerIDs, p.OwnerID)
		}
	}

	owners, err := c.userRepo.GetByIDs(ctx, ownerIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get post owners: %v", err)
		return nil, errorx.Unknown
	}

	ownerSet := map[string]*entity.User{}
	for i := range owners {
		ownerSet[owners[i].ID] = &owners[i]
	}

	likedIDs, err := c.likeRepo.GetLikedIDs(ctx, xcontext.RequestUserID(ctx), entity.LikeTargetPost, postIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get liked posts: %v", err)
		return nil, errorx.Unknown
	}

	for i := range posts {
		result = append(result, model.ConvertPost(
			&posts[i], ownerSet[posts[i].OwnerID], slices.Contains(likedIDs, posts[i].ID)))
	}

	return result, nil
}

func (c *postConverter) ConvertOne(ctx context.Context, post *entity.Post) (model.Post, error) {
	posts, err := c.Convert(ctx, []entity.Post{*post})
	if err != nil {
		return model.Post{}, err
	}

	return posts[0], nil
}
