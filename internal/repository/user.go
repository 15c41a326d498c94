package repository

import (
	"context"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateByID(ctx context.Context, id string, data *entity.User) error
	AdjustFollowCounters(ctx context.Context, id string, followersDelta, followingDelta int) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	result := []entity.User{}
	if len(ids) == 0 {
		return result, nil
	}

	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "username=?", username).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "email=?", email).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) UpdateByID(ctx context.Context, id string, data *entity.User) error {
	tx := xcontext.DB(ctx).
		Omit("followers_count", "following_count", "created_at").
		Where("id=?", id).
		Updates(data)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// AdjustFollowCounters applies both deltas in a single row update. Counters never go below
// zero. It returns gorm.ErrRecordNotFound if the user does not exist and a delta is positive.
func (r *userRepository) AdjustFollowCounters(
	ctx context.Context, id string, followersDelta, followingDelta int,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		UpdateColumns(map[string]any{
			"followers_count": flooredDelta("followers_count", followersDelta),
			"following_count": flooredDelta("following_count", followingDelta),
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errInvalidAffectedRows
	}

	if tx.RowsAffected == 0 && (followersDelta > 0 || followingDelta > 0) {
		return gorm.ErrRecordNotFound
	}

	return nil
}
