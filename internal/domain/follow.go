package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/internal/repository"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type FollowDomain interface {
	Follow(context.Context, *model.FollowUserRequest) (*model.FollowUserResponse, error)
	Unfollow(context.Context, *model.UnfollowUserRequest) (*model.UnfollowUserResponse, error)
	GetFollowers(context.Context, *model.GetFollowersRequest) (*model.GetFollowersResponse, error)
	GetFollowing(context.Context, *model.GetFollowingRequest) (*model.GetFollowingResponse, error)
}

type followDomain struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	publisher  *EventPublisher
	node       *snowflake.Node
}

func NewFollowDomain(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	publisher *EventPublisher,
	node *snowflake.Node,
) *followDomain {
	return &followDomain{
		userRepo:   userRepo,
		followRepo: followRepo,
		publisher:  publisher,
		node:       node,
	}
}

func (d *followDomain) getUser(ctx context.Context, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, errorx.New(errorx.BadRequest, "Invalid user id")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}

func (d *followDomain) Follow(
	ctx context.Context, req *model.FollowUserRequest,
) (*model.FollowUserResponse, error) {
	followerID := xcontext.RequestUserID(ctx)
	if req.UserID == followerID {
		return nil, errorx.New(errorx.BadRequest, "You cannot follow yourself")
	}

	if _, err := d.getUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	if _, err := d.followRepo.Get(ctx, followerID, req.UserID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "You are already following this user")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get follow relation: %v", err)
		return nil, errorx.Unknown
	}

	follow := &entity.Follow{
		SnowFlakeBase: entity.SnowFlakeBase{ID: d.node.Generate().Int64()},
		FollowerID:    followerID,
		FollowingID:   req.UserID,
	}
	if err := d.followRepo.Create(ctx, follow); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "You are already following this user")
		}

		xcontext.Logger(ctx).Errorf("Cannot create follow relation: %v", err)
		return nil, errorx.Unknown
	}

	event := model.EngagementEvent{Type: model.EventUserFollowed, UserID: req.UserID}
	if err := d.adjustCounters(ctx, req.UserID, followerID, 1); err != nil {
		d.publisher.Publish(ctx, event)
		return nil, counterFailure(ctx, "user", err)
	}

	d.publisher.Publish(ctx, event)
	return &model.FollowUserResponse{}, nil
}

// adjustCounters applies delta to the follower count of followingID and the following count
// of followerID.
func (d *followDomain) adjustCounters(ctx context.Context, followingID, followerID string, delta int) error {
	if err := d.userRepo.AdjustFollowCounters(ctx, followingID, delta, 0); err != nil {
		return err
	}

	return d.userRepo.AdjustFollowCounters(ctx, followerID, 0, delta)
}

func (d *followDomain) Unfollow(
	ctx context.Context, req *model.UnfollowUserRequest,
) (*model.UnfollowUserResponse, error) {
	followerID := xcontext.RequestUserID(ctx)
	if _, err := d.getUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	// A self relation never exists, so unfollowing oneself reports NotFound below.
	deleted, err := d.followRepo.Delete(ctx, followerID, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete follow relation: %v", err)
		return nil, errorx.Unknown
	}

	if !deleted {
		return nil, errorx.New(errorx.NotFound, "You are not following this user")
	}

	event := model.EngagementEvent{Type: model.EventUserUnfollowed, UserID: req.UserID}
	if err := d.adjustCounters(ctx, req.UserID, followerID, -1); err != nil {
		d.publisher.Publish(ctx, event)
		return nil, counterFailure(ctx, "user", err)
	}

	d.publisher.Publish(ctx, event)
	return &model.UnfollowUserResponse{}, nil
}

func (d *followDomain) GetFollowers(
	ctx context.Context, req *model.GetFollowersRequest,
) (*model.GetFollowersResponse, error) {
	if _, err := d.getUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	follows, err := d.followRepo.GetFollowers(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get followers: %v", err)
		return nil, errorx.Unknown
	}

	users := []model.ShortUser{}
	for i := range follows {
		users = append(users, model.ConvertShortUser(&follows[i].Follower, follows[i].FollowerID))
	}

	return &model.GetFollowersResponse{Users: users}, nil
}

func (d *followDomain) GetFollowing(
	ctx context.Context, req *model.GetFollowingRequest,
) (*model.GetFollowingResponse, error) {
	if _, err := d.getUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	follows, err := d.followRepo.GetFollowing(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get following: %v", err)
		return nil, errorx.Unknown
	}

	users := []model.ShortUser{}
	for i := range follows {
		users = append(users, model.ConvertShortUser(&follows[i].Following, follows[i].FollowingID))
	}

	return &model.GetFollowingResponse{Users: users}, nil
}
