package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/socialgraph-lab/backend/internal/common"
	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/internal/repository"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/pagination"
	"github.com/socialgraph-lab/backend/pkg/storage"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PostDomain interface {
	Create(context.Context, *model.CreatePostRequest) (*model.CreatePostResponse, error)
	Get(context.Context, *model.GetPostRequest) (*model.GetPostResponse, error)
	Update(context.Context, *model.UpdatePostRequest) (*model.UpdatePostResponse, error)
	Delete(context.Context, *model.DeletePostRequest) (*model.DeletePostResponse, error)
	TogglePublish(context.Context, *model.TogglePublishPostRequest) (*model.TogglePublishPostResponse, error)
	GetMyPosts(context.Context, *model.GetMyPostsRequest) (*model.GetMyPostsResponse, error)
	GetUserPosts(context.Context, *model.GetUserPostsRequest) (*model.GetUserPostsResponse, error)
}

type postDomain struct {
	postRepo      repository.PostRepository
	commentRepo   repository.CommentRepository
	likeRepo      repository.LikeRepository
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
	storage       storage.Storage
	access        *accessChecker
	converter     *postConverter
}

func NewPostDomain(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	communityRepo repository.CommunityRepository,
	userRepo repository.UserRepository,
	storage storage.Storage,
) *postDomain {
	return &postDomain{
		postRepo:      postRepo,
		commentRepo:   commentRepo,
		likeRepo:      likeRepo,
		communityRepo: communityRepo,
		userRepo:      userRepo,
		storage:       storage,
		access:        newAccessChecker(communityRepo),
		converter:     newPostConverter(userRepo, likeRepo),
	}
}

func getPost(ctx context.Context, postRepo repository.PostRepository, postID string) (*entity.Post, error) {
	if postID == "" {
		return nil, errorx.New(errorx.BadRequest, "Invalid post id")
	}

	post, err := postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	return post, nil
}

func (d *postDomain) getOwnedPost(ctx context.Context, postID string) (*entity.Post, error) {
	post, err := getPost(ctx, d.postRepo, postID)
	if err != nil {
		return nil, err
	}

	if post.OwnerID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the owner can modify this post")
	}

	return post, nil
}

func (d *postDomain) Create(
	ctx context.Context, req *model.CreatePostRequest,
) (*model.CreatePostResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errorx.New(errorx.BadRequest, "Post text is required")
	}

	userID := xcontext.RequestUserID(ctx)
	if req.CommunityID != "" {
		community, err := d.communityRepo.GetByID(ctx, req.CommunityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found community")
			}

			xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
			return nil, errorx.Unknown
		}

		ok, err := d.access.HasAccess(ctx, community, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot check community membership: %v", err)
			return nil, errorx.Unknown
		}

		if !ok {
			return nil, errorx.New(errorx.PermissionDenied, "Only members can post in this community")
		}
	}

	image, err := common.ProcessImage(ctx, d.storage, "image", common.PostImagePrefix)
	if err != nil {
		return nil, err
	}

	post := &entity.Post{
		Base:        entity.Base{ID: uuid.NewString()},
		Text:        text,
		OwnerID:     userID,
		IsPublic:    req.CommunityID == "",
		CommunityID: nullString(req.CommunityID),
	}
	if image != nil {
		post.ImageURL = image.Url
	}

	if err := d.postRepo.Create(ctx, post); err != nil {
		common.DeleteImage(ctx, d.storage, post.ImageURL)
		xcontext.Logger(ctx).Errorf("Cannot create post: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.converter.ConvertOne(ctx, post)
	if err != nil {
		return nil, err
	}

	return &model.CreatePostResponse{Post: result}, nil
}

func (d *postDomain) Get(ctx context.Context, req *model.GetPostRequest) (*model.GetPostResponse, error) {
	post, err := getPost(ctx, d.postRepo, req.PostID)
	if err != nil {
		return nil, err
	}

	if err := d.access.CanViewPost(ctx, post, xcontext.RequestUserID(ctx)); err != nil {
		return nil, err
	}

	result, err := d.converter.ConvertOne(ctx, post)
	if err != nil {
		return nil, err
	}

	return &model.GetPostResponse{Post: result}, nil
}

func (d *postDomain) Update(
	ctx context.Context, req *model.UpdatePostRequest,
) (*model.UpdatePostResponse, error) {
	post, err := d.getOwnedPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	update := map[string]any{}
	if text := strings.TrimSpace(req.Text); text != "" {
		update["text"] = text
	}

	image, err := common.ProcessImage(ctx, d.storage, "image", common.PostImagePrefix)
	if err != nil {
		return nil, err
	}

	if image != nil {
		update["image_url"] = image.Url
	}

	if len(update) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Nothing to update")
	}

	if err := d.postRepo.UpdateByID(ctx, post.ID, update); err != nil {
		if image != nil {
			common.DeleteImage(ctx, d.storage, image.Url)
		}

		xcontext.Logger(ctx).Errorf("Cannot update post: %v", err)
		return nil, errorx.Unknown
	}

	if image != nil {
		common.DeleteImage(ctx, d.storage, post.ImageURL)
	}

	post, err = getPost(ctx, d.postRepo, post.ID)
	if err != nil {
		return nil, err
	}

	result, err := d.converter.ConvertOne(ctx, post)
	if err != nil {
		return nil, err
	}

	return &model.UpdatePostResponse{Post: result}, nil
}

// Delete removes the post together with its comments and every like on either of them.
func (d *postDomain) Delete(
	ctx context.Context, req *model.DeletePostRequest,
) (*model.DeletePostResponse, error) {
	post, err := d.getOwnedPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	commentIDs, err := d.commentRepo.GetIDsByPostID(ctx, post.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comments of post: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.likeRepo.DeleteByTarget(ctx, entity.LikeTargetComment, commentIDs...); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete likes of comments: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.commentRepo.DeleteByPostID(ctx, post.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete comments of post: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.likeRepo.DeleteByTarget(ctx, entity.LikeTargetPost, post.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete likes of post: %v", err)
		return nil, errorx.Unknown
	}

	deleted, err := d.postRepo.DeleteByID(ctx, post.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete post: %v", err)
		return nil, errorx.Unknown
	}

	if !deleted {
		return nil, errorx.New(errorx.NotFound, "Not found post")
	}

	common.DeleteImage(ctx, d.storage, post.ImageURL)
	return &model.DeletePostResponse{}, nil
}

func (d *postDomain) TogglePublish(
	ctx context.Context, req *model.TogglePublishPostRequest,
) (*model.TogglePublishPostResponse, error) {
	post, err := d.getOwnedPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	if post.CommunityID.Valid && !post.IsPublic {
		return nil, errorx.New(errorx.BadRequest, "Community posts cannot be public")
	}

	if err := d.postRepo.UpdateByID(ctx, post.ID, map[string]any{"is_public": !post.IsPublic}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot toggle publish of post: %v", err)
		return nil, errorx.Unknown
	}

	post.IsPublic = !post.IsPublic
	result, err := d.converter.ConvertOne(ctx, post)
	if err != nil {
		return nil, err
	}

	return &model.TogglePublishPostResponse{Post: result}, nil
}

func (d *postDomain) listPosts(
	ctx context.Context, filter repository.GetListPostFilter, page, pageSize int,
) ([]model.Post, model.Pagination, error) {
	filter.Order = repository.PostOrderRecent
	filter.Offset = pagination.Offset(page, pageSize)
	filter.Limit = pageSize

	posts, err := d.postRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get posts: %v", err)
		return nil, model.Pagination{}, errorx.Unknown
	}

	total, err := d.postRepo.Count(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count posts: %v", err)
		return nil, model.Pagination{}, errorx.Unknown
	}

	result, err := d.converter.Convert(ctx, posts)
	if err != nil {
		return nil, model.Pagination{}, err
	}

	return result, model.ConvertPagination(total, page, pageSize), nil
}

func (d *postDomain) GetMyPosts(
	ctx context.Context, req *model.GetMyPostsRequest,
) (*model.GetMyPostsResponse, error) {
	page, pageSize, err := pageRequest(ctx, req.Page, req.PageSize, 0)
	if err != nil {
		return nil, err
	}

	posts, p, err := d.listPosts(ctx, repository.GetListPostFilter{
		OwnerID: xcontext.RequestUserID(ctx),
	}, page, pageSize)
	if err != nil {
		return nil, err
	}

	return &model.GetMyPostsResponse{Posts: posts, Pagination: p}, nil
}

func (d *postDomain) GetUserPosts(
	ctx context.Context, req *model.GetUserPostsRequest,
) (*model.GetUserPostsResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Invalid user id")
	}

	if _, err := d.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	defaultPageSize := xcontext.Configs(ctx).Feed.UserPostPageSize
	page, pageSize, err := pageRequest(ctx, req.Page, req.PageSize, defaultPageSize)
	if err != nil {
		return nil, err
	}

	posts, p, err := d.listPosts(ctx, repository.GetListPostFilter{
		OwnerID:    req.UserID,
		OnlyPublic: true,
	}, page, pageSize)
	if err != nil {
		return nil, err
	}

	return &model.GetUserPostsResponse{Posts: posts, Pagination: p}, nil
}
