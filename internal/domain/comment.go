package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/internal/repository"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/pagination"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type CommentDomain interface {
	Create(context.Context, *model.CreateCommentRequest) (*model.CreateCommentResponse, error)
	Update(context.Context, *model.UpdateCommentRequest) (*model.UpdateCommentResponse, error)
	Delete(context.Context, *model.DeleteCommentRequest) (*model.DeleteCommentResponse, error)
	GetList(context.Context, *model.GetCommentsRequest) (*model.GetCommentsResponse, error)
}

type commentDomain struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	likeRepo    repository.LikeRepository
	userRepo    repository.UserRepository
	publisher   *EventPublisher
	access      *accessChecker
}

func NewCommentDomain(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
	communityRepo repository.CommunityRepository,
	publisher *EventPublisher,
) *commentDomain {
	return &commentDomain{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		access:      newAccessChecker(communityRepo),
	}
}

func getComment(
	ctx context.Context, commentRepo repository.CommentRepository, commentID string,
) (*entity.Comment, error) {
	if commentID == "" {
		return nil, errorx.New(errorx.BadRequest, "Invalid comment id")
	}

	comment, err := commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found comment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get comment: %v", err)
		return nil, errorx.Unknown
	}

	return comment, nil
}

func (d *commentDomain) getOwnedComment(ctx context.Context, commentID string) (*entity.Comment, error) {
	comment, err := getComment(ctx, d.commentRepo, commentID)
	if err != nil {
		return nil, err
	}

	if comment.OwnerID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the owner can modify this comment")
	}

	return comment, nil
}

func (d *commentDomain) Create(
	ctx context.Context, req *model.CreateCommentRequest,
) (*model.CreateCommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errorx.New(errorx.BadRequest, "Comment content is required")
	}

	post, err := getPost(ctx, d.postRepo, req.PostID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	if err := d.access.CanViewPost(ctx, post, userID); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		Base:    entity.Base{ID: uuid.NewString()},
		Content: content,
		OwnerID: userID,
		PostID:  post.ID,
	}
	if err := d.commentRepo.Create(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create comment: %v", err)
		return nil, errorx.Unknown
	}

	event := model.EngagementEvent{
		Type:      model.EventCommentCreated,
		PostID:    post.ID,
		CommentID: comment.ID,
	}
	if err := d.postRepo.IncreaseComments(ctx, post.ID); err != nil {
		d.publisher.Publish(ctx, event)
		return nil, counterFailure(ctx, "post", err)
	}

	d.publisher.Publish(ctx, event)

	owner, err := d.userRepo.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get comment owner: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCommentResponse{Comment: model.ConvertComment(comment, owner, false)}, nil
}

func (d *commentDomain) Update(
	ctx context.Context, req *model.UpdateCommentRequest,
) (*model.UpdateCommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errorx.New(errorx.BadRequest, "Comment content is required")
	}

	comment, err := d.getOwnedComment(ctx, req.CommentID)
	if err != nil {
		return nil, err
	}

	if err := d.commentRepo.UpdateContent(ctx, comment.ID, content); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update comment: %v", err)
		return nil, errorx.Unknown
	}

	comment, err = getComment(ctx, d.commentRepo, comment.ID)
	if err != nil {
		return nil, err
	}

	owner, err := d.userRepo.GetByID(ctx, comment.OwnerID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get comment owner: %v", err)
		return nil, errorx.Unknown
	}

	likedIDs, err := d.likeRepo.GetLikedIDs(
		ctx, xcontext.RequestUserID(ctx), entity.LikeTargetComment, []string{comment.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get liked comments: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateCommentResponse{
		Comment: model.ConvertComment(comment, owner, len(likedIDs) > 0),
	}, nil
}

func (d *commentDomain) Delete(
	ctx context.Context, req *model.DeleteCommentRequest,
) (*model.DeleteCommentResponse, error) {
	comment, err := d.getOwnedComment(ctx, req.CommentID)
	if err != nil {
		return nil, err
	}

	if err := d.likeRepo.DeleteByTarget(ctx, entity.LikeTargetComment, comment.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete likes of comment: %v", err)
		return nil, errorx.Unknown
	}

	deleted, err := d.commentRepo.DeleteByID(ctx, comment.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete comment: %v", err)
		return nil, errorx.Unknown
	}

	if !deleted {
		return nil, errorx.New(errorx.NotFound, "Not found comment")
	}

	event := model.EngagementEvent{
		Type:      model.EventCommentDeleted,
		PostID:    comment.PostID,
		CommentID: comment.ID,
	}
	if err := d.postRepo.DecreaseComments(ctx, comment.PostID); err != nil {
		d.publisher.Publish(ctx, event)
		return nil, counterFailure(ctx, "post", err)
	}

	d.publisher.Publish(ctx, event)

	return &model.DeleteCommentResponse{}, nil
}

func (d *commentDomain) GetList(
	ctx context.Context, req *model.GetCommentsRequest,
) (*model.GetCommentsResponse, error) {
	post, err := getPost(ctx, d.postRepo, req.PostID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	if err := d.access.CanViewPost(ctx, post, userID); err != nil {
		return nil, err
	}

	page, pageSize, err := pageRequest(ctx, req.Page, req.PageSize, 0)
	if err != nil {
		return nil, err
	}

	comments, err := d.commentRepo.GetListByPostID(ctx, post.ID, pagination.Offset(page, pageSize), pageSize)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comments: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.commentRepo.CountByPostID(ctx, post.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count comments: %v", err)
		return nil, errorx.Unknown
	}

	commentIDs := []string{}
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
	}

	likedIDs, err := d.likeRepo.GetLikedIDs(ctx, userID, entity.LikeTargetComment, commentIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get liked comments: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Comment{}
	for i := range comments {
		result = append(result, model.ConvertComment(
			&comments[i], &comments[i].Owner, slices.Contains(likedIDs, comments[i].ID)))
	}

	return &model.GetCommentsResponse{
		Comments:   result,
		Pagination: model.ConvertPagination(total, page, pageSize),
	}, nil
}
