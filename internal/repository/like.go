package repository

import (
	"context"
	"fmt"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

type LikeRepository interface {
	Create(ctx context.Context, data *entity.Like) error
	Get(ctx context.Context, userID string, target entity.LikeTarget, targetID string) (*entity.Like, error)
	Delete(ctx context.Context, userID string, target entity.LikeTarget, targetID string) (bool, error)
	GetLikedIDs(ctx context.Context, userID string, target entity.LikeTarget, targetIDs []string) ([]string, error)
	Count(ctx context.Context, target entity.LikeTarget, targetID string) (int64, error)
	DeleteByTarget(ctx context.Context, target entity.LikeTarget, targetIDs ...string) error
}

type likeRepository struct{}

func NewLikeRepository() *likeRepository {
	return &likeRepository{}
}

func targetColumn(target entity.LikeTarget) string {
	if target == entity.LikeTargetComment {
		return "comment_id"
	}

	return "post_id"
}

func (r *likeRepository) Create(ctx context.Context, data *entity.Like) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *likeRepository) Get(
	ctx context.Context, userID string, target entity.LikeTarget, targetID string,
) (*entity.Like, error) {
	var result entity.Like
	err := xcontext.DB(ctx).
		Where(fmt.Sprintf("liked_by=? AND %s=?", targetColumn(target)), userID, targetID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Delete returns false if there was no like to delete.
func (r *likeRepository) Delete(
	ctx context.Context, userID string, target entity.LikeTarget, targetID string,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Where(fmt.Sprintf("liked_by=? AND %s=?", targetColumn(target)), userID, targetID).
		Delete(&entity.Like{})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

// GetLikedIDs returns the subset of targetIDs liked by the user.
func (r *likeRepository) GetLikedIDs(
	ctx context.Context, userID string, target entity.LikeTarget, targetIDs []string,
) ([]string, error) {
	result := []string{}
	if userID == "" || len(targetIDs) == 0 {
		return result, nil
	}

	column := targetColumn(target)
	err := xcontext.DB(ctx).
		Model(&entity.Like{}).
		Where(fmt.Sprintf("liked_by=? AND %s IN (?)", column), userID, targetIDs).
		Pluck(column, &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *likeRepository) Count(ctx context.Context, target entity.LikeTarget, targetID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.Like{}).
		Where(fmt.Sprintf("%s=?", targetColumn(target)), targetID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *likeRepository) DeleteByTarget(ctx context.Context, target entity.LikeTarget, targetIDs ...string) error {
	if len(targetIDs) == 0 {
		return nil
	}

	return xcontext.DB(ctx).
		Delete(&entity.Like{}, fmt.Sprintf("%s IN (?)", targetColumn(target)), targetIDs).Error
}
