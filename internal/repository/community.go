package repository

import (
	"context"
	"errors"

	"github.com/socialgraph-lab/backend/internal/common"
	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"github.com/socialgraph-lab/backend/pkg/xredis"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityRepository interface {
	Create(ctx context.Context, data *entity.Community) error
	GetByID(ctx context.Context, id string) (*entity.Community, error)
	GetByName(ctx context.Context, name string) (*entity.Community, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Community, error)
	GetListByMember(ctx context.Context, userID string) ([]entity.Community, error)
	GetTrending(ctx context.Context, limit int) ([]entity.Community, error)
	UpdateByID(ctx context.Context, id string, data *entity.Community) error
	DeleteByID(ctx context.Context, id string) error

	AddMember(ctx context.Context, communityID, userID string) (bool, error)
	RemoveMember(ctx context.Context, communityID, userID string) (bool, error)
	DeleteMembers(ctx context.Context, communityID string) error
	IsMember(ctx context.Context, communityID, userID string) (bool, error)
	GetMembers(ctx context.Context, communityID string) ([]entity.CommunityMember, error)
	IncreaseMembers(ctx context.Context, communityID string) error
	DecreaseMembers(ctx context.Context, communityID string) error
}

type communityRepository struct {
	redisClient xredis.Client
}

func NewCommunityRepository(redisClient xredis.Client) *communityRepository {
	return &communityRepository{redisClient: redisClient}
}

func (r *communityRepository) cache(ctx context.Context, community *entity.Community) {
	ttl := xcontext.Configs(ctx).Redis.CommunityTTL
	key := common.RedisKeyCommunity(community.ID)
	if err := r.redisClient.SetObj(ctx, key, community, ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot set community to redis: %v", err)
	}
}

func (r *communityRepository) fromCache(ctx context.Context, id string) *entity.Community {
	var community entity.Community
	err := r.redisClient.GetObj(ctx, common.RedisKeyCommunity(id), &community)
	if err != nil {
		if !errors.Is(err, xredis.ErrNotFound) {
			xcontext.Logger(ctx).Warnf("Cannot get community from redis: %v", err)
		}
		return nil
	}

	return &community
}

func (r *communityRepository) invalidateCache(ctx context.Context, id string) {
	if err := r.redisClient.Del(ctx, common.RedisKeyCommunity(id)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate community redis key: %v", err)
	}
}

func (r *communityRepository) Create(ctx context.Context, data *entity.Community) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *communityRepository) GetByID(ctx context.Context, id string) (*entity.Community, error) {
	if c := r.fromCache(ctx, id); c != nil {
		return c, nil
	}

	var result entity.Community
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	r.cache(ctx, &result)
	return &result, nil
}

func (r *communityRepository) GetByName(ctx context.Context, name string) (*entity.Community, error) {
	var result entity.Community
	if err := xcontext.DB(ctx).Take(&result, "name=?", name).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *communityRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Community, error) {
	result := []entity.Community{}
	if len(ids) == 0 {
		return result, nil
	}

	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *communityRepository) GetListByMember(ctx context.Context, userID string) ([]entity.Community, error) {
	result := []entity.Community{}
	err := xcontext.DB(ctx).
		Joins("join community_members on community_members.community_id=communities.id").
		Where("community_members.user_id=?", userID).
		Order("community_members.created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *communityRepository) GetTrending(ctx context.Context, limit int) ([]entity.Community, error) {
	result := []entity.Community{}
	err := xcontext.DB(ctx).
		Order("members_count DESC").
		Order("created_at DESC").
		Order("id ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *communityRepository) UpdateByID(ctx context.Context, id string, data *entity.Community) error {
	tx := xcontext.DB(ctx).
		Omit("members_count", "owner_id", "created_at").
		Where("id=?", id).
		Updates(data)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateCache(ctx, id)
	return nil
}

func (r *communityRepository) DeleteByID(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Community{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateCache(ctx, id)
	return nil
}

// AddMember is a set-union insert, it returns false if the user was already a member.
func (r *communityRepository) AddMember(ctx context.Context, communityID, userID string) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.CommunityMember{CommunityID: communityID, UserID: userID})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *communityRepository) RemoveMember(ctx context.Context, communityID, userID string) (bool, error) {
	tx := xcontext.DB(ctx).
		Delete(&entity.CommunityMember{}, "community_id=? AND user_id=?", communityID, userID)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *communityRepository) DeleteMembers(ctx context.Context, communityID string) error {
	return xcontext.DB(ctx).Delete(&entity.CommunityMember{}, "community_id=?", communityID).Error
}

func (r *communityRepository) IsMember(ctx context.Context, communityID, userID string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.CommunityMember{}).
		Where("community_id=? AND user_id=?", communityID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *communityRepository) GetMembers(ctx context.Context, communityID string) ([]entity.CommunityMember, error) {
	result := []entity.CommunityMember{}
	err := xcontext.DB(ctx).
		Preload("User").
		Where("community_id=?", communityID).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *communityRepository) IncreaseMembers(ctx context.Context, communityID string) error {
	if err := increaseCounter(ctx, &entity.Community{}, communityID, "members_count"); err != nil {
		return err
	}

	r.invalidateCache(ctx, communityID)
	return nil
}

func (r *communityRepository) DecreaseMembers(ctx context.Context, communityID string) error {
	if err := decreaseCounter(ctx, &entity.Community{}, communityID, "members_count"); err != nil {
		return err
	}

	r.invalidateCache(ctx, communityID)
	return nil
}
