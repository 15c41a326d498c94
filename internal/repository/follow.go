package repository

import (
	"context"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

type FollowRepository interface {
	Create(ctx context.Context, data *entity.Follow) error
	Get(ctx context.Context, followerID, followingID string) (*entity.Follow, error)
	Delete(ctx context.Context, followerID, followingID string) (bool, error)
	GetFollowers(ctx context.Context, userID string) ([]entity.Follow, error)
	GetFollowing(ctx context.Context, userID string) ([]entity.Follow, error)
	GetFollowingIDs(ctx context.Context, userID string) ([]string, error)
}

type followRepository struct{}

func NewFollowRepository() *followRepository {
	return &followRepository{}
}

func (r *followRepository) Create(ctx context.Context, data *entity.Follow) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *followRepository) Get(ctx context.Context, followerID, followingID string) (*entity.Follow, error) {
	var result entity.Follow
	err := xcontext.DB(ctx).
		Where("follower_id=? AND following_id=?", followerID, followingID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Delete returns false if there was no relation to delete.
func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	tx := xcontext.DB(ctx).
		Where("follower_id=? AND following_id=?", followerID, followingID).
		Delete(&entity.Follow{})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *followRepository) GetFollowers(ctx context.Context, userID string) ([]entity.Follow, error) {
	result := []entity.Follow{}
	err := xcontext.DB(ctx).
		Preload("Follower").
		Where("following_id=?", userID).
		Order("id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *followRepository) GetFollowing(ctx context.Context, userID string) ([]entity.Follow, error) {
	result := []entity.Follow{}
	err := xcontext.DB(ctx).
		Preload("Following").
		Where("follower_id=?", userID).
		Order("id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *followRepository) GetFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	result := []string{}
	err := xcontext.DB(ctx).
		Model(&entity.Follow{}).
		Where("follower_id=?", userID).
		Pluck("following_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
