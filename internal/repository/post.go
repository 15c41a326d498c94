package repository

import (
	"context"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PostOrder int

const (
	// Newest first.
	PostOrderRecent PostOrder = iota

	// Most liked first, ties broken by recency.
	PostOrderLikes
)

type GetListPostFilter struct {
	OwnerID     string
	CommunityID string
	OnlyPublic  bool

	// NoCommunity excludes posts which belong to a community.
	NoCommunity bool

	// OwnerIDs restricts the result to posts of these owners. A non-nil empty slice matches
	// nothing.
	OwnerIDs        []string
	ExcludeOwnerIDs []string

	// IDs restricts the result to these posts. A non-nil empty slice matches nothing.
	IDs []string

	Order  PostOrder
	Offset int
	Limit  int
}

func (f GetListPostFilter) matchesNothing() bool {
	return (f.OwnerIDs != nil && len(f.OwnerIDs) == 0) || (f.IDs != nil && len(f.IDs) == 0)
}

type PostRepository interface {
	Create(ctx context.Context, data *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetList(ctx context.Context, filter GetListPostFilter) ([]entity.Post, error)
	Count(ctx context.Context, filter GetListPostFilter) (int64, error)
	UpdateByID(ctx context.Context, id string, data map[string]any) error
	DeleteByID(ctx context.Context, id string) (bool, error)
	IncreaseLikes(ctx context.Context, id string) error
	DecreaseLikes(ctx context.Context, id string) error
	IncreaseComments(ctx context.Context, id string) error
	DecreaseComments(ctx context.Context, id string) error
}

type postRepository struct{}

func NewPostRepository() *postRepository {
	return &postRepository{}
}

func (r *postRepository) Create(ctx context.Context, data *entity.Post) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var result entity.Post
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *postRepository) applyFilter(tx *gorm.DB, filter GetListPostFilter) *gorm.DB {
	if filter.OwnerID != "" {
		tx = tx.Where("owner_id=?", filter.OwnerID)
	}

	if filter.CommunityID != "" {
		tx = tx.Where("community_id=?", filter.CommunityID)
	}

	if filter.OnlyPublic {
		tx = tx.Where("is_public=?", true)
	}

	if filter.NoCommunity {
		tx = tx.Where("community_id IS NULL")
	}

	if filter.OwnerIDs != nil {
		tx = tx.Where("owner_id IN (?)", filter.OwnerIDs)
	}

	if len(filter.ExcludeOwnerIDs) > 0 {
		tx = tx.Where("owner_id NOT IN (?)", filter.ExcludeOwnerIDs)
	}

	if filter.IDs != nil {
		tx = tx.Where("id IN (?)", filter.IDs)
	}

	return tx
}

func (r *postRepository) GetList(ctx context.Context, filter GetListPostFilter) ([]entity.Post, error) {
	result := []entity.Post{}
	if filter.matchesNothing() {
		return result, nil
	}

	tx := r.applyFilter(xcontext.DB(ctx).Model(&entity.Post{}), filter)
	if filter.Order == PostOrderLikes {
		tx = tx.Order("like_count DESC")
	}

	tx = tx.Order("created_at DESC").Order("id ASC").Offset(filter.Offset)
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *postRepository) Count(ctx context.Context, filter GetListPostFilter) (int64, error) {
	if filter.matchesNothing() {
		return 0, nil
	}

	var result int64
	tx := r.applyFilter(xcontext.DB(ctx).Model(&entity.Post{}), filter)
	if err := tx.Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

func (r *postRepository) UpdateByID(ctx context.Context, id string, data map[string]any) error {
	tx := xcontext.DB(ctx).Model(&entity.Post{}).Where("id=?", id).Updates(data)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *postRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	tx := xcontext.DB(ctx).Delete(&entity.Post{}, "id=?", id)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *postRepository) IncreaseLikes(ctx context.Context, id string) error {
	return increaseCounter(ctx, &entity.Post{}, id, "like_count")
}

func (r *postRepository) DecreaseLikes(ctx context.Context, id string) error {
	return decreaseCounter(ctx, &entity.Post{}, id, "like_count")
}

func (r *postRepository) IncreaseComments(ctx context.Context, id string) error {
	return increaseCounter(ctx, &entity.Post{}, id, "comment_count")
}

func (r *postRepository) DecreaseComments(ctx context.Context, id string) error {
	return decreaseCounter(ctx, &entity.Post{}, id, "comment_count")
}
