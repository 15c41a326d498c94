package repository

import (
	"context"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, data *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	GetListByPostID(ctx context.Context, postID string, offset, limit int) ([]entity.Comment, error)
	CountByPostID(ctx context.Context, postID string) (int64, error)
	GetIDsByPostID(ctx context.Context, postID string) ([]string, error)
	UpdateContent(ctx context.Context, id, content string) error
	DeleteByID(ctx context.Context, id string) (bool, error)
	DeleteByPostID(ctx context.Context, postID string) error
	IncreaseLikes(ctx context.Context, id string) error
	DecreaseLikes(ctx context.Context, id string) error
}

type commentRepository struct{}

func NewCommentRepository() *commentRepository {
	return &commentRepository{}
}

func (r *commentRepository) Create(ctx context.Context, data *entity.Comment) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	var result entity.Comment
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *commentRepository) GetListByPostID(
	ctx context.Context, postID string, offset, limit int,
) ([]entity.Comment, error) {
	result := []entity.Comment{}
	err := xcontext.DB(ctx).
		Preload("Owner").
		Where("post_id=?", postID).
		Order("created_at DESC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *commentRepository) CountByPostID(ctx context.Context, postID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Comment{}).Where("post_id=?", postID).Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *commentRepository) GetIDsByPostID(ctx context.Context, postID string) ([]string, error) {
	result := []string{}
	err := xcontext.DB(ctx).Model(&entity.Comment{}).Where("post_id=?", postID).Pluck("id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, content string) error {
	tx := xcontext.DB(ctx).Model(&entity.Comment{}).Where("id=?", id).Update("content", content)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *commentRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	tx := xcontext.DB(ctx).Delete(&entity.Comment{}, "id=?", id)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *commentRepository) DeleteByPostID(ctx context.Context, postID string) error {
	return xcontext.DB(ctx).Delete(&entity.Comment{}, "post_id=?", postID).Error
}

func (r *commentRepository) IncreaseLikes(ctx context.Context, id string) error {
	return increaseCounter(ctx, &entity.Comment{}, id, "like_count")
}

func (r *commentRepository) DecreaseLikes(ctx context.Context, id string) error {
	return decreaseCounter(ctx, &entity.Comment{}, id, "like_count")
}
