package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/socialgraph-lab/backend/internal/common"
	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/internal/repository"
	"github.com/socialgraph-lab/backend/pkg/enum"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type LikeDomain interface {
	TogglePostLike(context.Context, *model.TogglePostLikeRequest) (*model.ToggleLikeResponse, error)
	ToggleCommentLike(context.Context, *model.ToggleCommentLikeRequest) (*model.ToggleLikeResponse, error)
}

type likeDomain struct {
	likeRepo    repository.LikeRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	publisher   *EventPublisher
	access      *accessChecker
}

func NewLikeDomain(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	communityRepo repository.CommunityRepository,
	publisher *EventPublisher,
) *likeDomain {
	return &likeDomain{
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		publisher:   publisher,
		access:      newAccessChecker(communityRepo),
	}
}

// likeTarget abstracts the counter operations of a likeable entity.
type likeTarget struct {
	kind         entity.LikeTarget
	id           string
	increase     func(context.Context, string) error
	decrease     func(context.Context, string) error
	count        func(context.Context) (int64, error)
	likedEvent   model.EventType
	unlikedEvent model.EventType
	event        model.EngagementEvent
}

func (d *likeDomain) TogglePostLike(
	ctx context.Context, req *model.TogglePostLikeRequest,
) (*model.ToggleLikeResponse, error) {
	post, err := getPost(ctx, d.postRepo, req.PostID)
	if err != nil {
		return nil, err
	}

	if err := d.access.CanViewPost(ctx, post, xcontext.RequestUserID(ctx)); err != nil {
		return nil, err
	}

	return d.toggle(ctx, likeTarget{
		kind:     entity.LikeTargetPost,
		id:       post.ID,
		increase: d.postRepo.IncreaseLikes,
		decrease: d.postRepo.DecreaseLikes,
		count: func(ctx context.Context) (int64, error) {
			p, err := d.postRepo.GetByID(ctx, post.ID)
			if err != nil {
				return 0, err
			}
			return p.LikeCount, nil
		},
		likedEvent:   model.EventPostLiked,
		unlikedEvent: model.EventPostUnliked,
		event:        model.EngagementEvent{PostID: post.ID},
	})
}

func (d *likeDomain) ToggleCommentLike(
	ctx context.Context, req *model.ToggleCommentLikeRequest,
) (*model.ToggleLikeResponse, error) {
	comment, err := getComment(ctx, d.commentRepo, req.CommentID)
	if err != nil {
		return nil, err
	}

	post, err := getPost(ctx, d.postRepo, comment.PostID)
	if err != nil {
		return nil, err
	}

	if err := d.access.CanViewPost(ctx, post, xcontext.RequestUserID(ctx)); err != nil {
		return nil, err
	}

	return d.toggle(ctx, likeTarget{
		kind:     entity.LikeTargetComment,
		id:       comment.ID,
		increase: d.commentRepo.IncreaseLikes,
		decrease: d.commentRepo.DecreaseLikes,
		count: func(ctx context.Context) (int64, error) {
			c, err := d.commentRepo.GetByID(ctx, comment.ID)
			if err != nil {
				return 0, err
			}
			return c.LikeCount, nil
		},
		likedEvent:   model.EventCommentLiked,
		unlikedEvent: model.EventCommentUnliked,
		event:        model.EngagementEvent{PostID: post.ID, CommentID: comment.ID},
	})
}

// toggle removes the like of the request user if present, otherwise adds one. A concurrent
// toggle which already did the same change leaves the counter untouched.
func (d *likeDomain) toggle(ctx context.Context, target likeTarget) (*model.ToggleLikeResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	kind := enum.ToString(target.kind)

	_, err := d.likeRepo.Get(ctx, userID, target.kind, target.id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get like: %v", err)
		return nil, errorx.Unknown
	}

	event := target.event
	var action string
	if err == nil {
		action = model.LikeActionUnliked
		event.Type = target.unlikedEvent
		deleted, err := d.likeRepo.Delete(ctx, userID, target.kind, target.id)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete like: %v", err)
			return nil, errorx.Unknown
		}

		if deleted {
			if err := target.decrease(ctx, target.id); err != nil {
				d.publisher.Publish(ctx, event)
				return nil, counterFailure(ctx, kind, err)
			}
		}
	} else {
		action = model.LikeActionLiked
		event.Type = target.likedEvent
		like := &entity.Like{
			Base:    entity.Base{ID: uuid.NewString()},
			LikedBy: userID,
		}
		if target.kind == entity.LikeTargetComment {
			like.CommentID = nullString(target.id)
		} else {
			like.PostID = nullString(target.id)
		}

		err := d.likeRepo.Create(ctx, like)
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			xcontext.Logger(ctx).Errorf("Cannot create like: %v", err)
			return nil, errorx.Unknown
		}

		if err == nil {
			if err := target.increase(ctx, target.id); err != nil {
				d.publisher.Publish(ctx, event)
				return nil, counterFailure(ctx, kind, err)
			}
		}
	}

	likeCount, err := target.count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get like count: %v", err)
		return nil, errorx.Unknown
	}

	common.IncCounter(common.EngagementToggleTotal, kind, action)

	d.publisher.Publish(ctx, event)

	return model.NewToggleLikeResponse(kind, action, likeCount), nil
}
