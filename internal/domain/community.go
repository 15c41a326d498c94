package domain

import (
	"context"
	"database/sql"
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

type CommunityDomain interface {
	Create(context.Context, *model.CreateCommunityRequest) (*model.CreateCommunityResponse, error)
	Get(context.Context, *model.GetCommunityRequest) (*model.GetCommunityResponse, error)
	GetMine(context.Context, *model.GetMyCommunitiesRequest) (*model.GetMyCommunitiesResponse, error)
	Update(context.Context, *model.UpdateCommunityRequest) (*model.UpdateCommunityResponse, error)
	Delete(context.Context, *model.DeleteCommunityRequest) (*model.DeleteCommunityResponse, error)
	Join(context.Context, *model.JoinCommunityRequest) (*model.JoinCommunityResponse, error)
	Leave(context.Context, *model.LeaveCommunityRequest) (*model.LeaveCommunityResponse, error)
	GetMembers(context.Context, *model.GetCommunityMembersRequest) (*model.GetCommunityMembersResponse, error)
	GetPosts(context.Context, *model.GetCommunityPostsRequest) (*model.GetCommunityPostsResponse, error)
}

type communityDomain struct {
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
	postRepo      repository.PostRepository
	storage       storage.Storage
	publisher     *EventPublisher
	access        *accessChecker
	converter     *postConverter
}

func NewCommunityDomain(
	communityRepo repository.CommunityRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	storage storage.Storage,
	publisher *EventPublisher,
) *communityDomain {
	return &communityDomain{
		communityRepo: communityRepo,
		userRepo:      userRepo,
		postRepo:      postRepo,
		storage:       storage,
		publisher:     publisher,
		access:        newAccessChecker(communityRepo),
		converter:     newPostConverter(userRepo, likeRepo),
	}
}

func (d *communityDomain) getCommunity(ctx context.Context, communityID string) (*entity.Community, error) {
	if communityID == "" {
		return nil, errorx.New(errorx.BadRequest, "Invalid community id")
	}

	community, err := d.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found community")
		}

		xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
		return nil, errorx.Unknown
	}

	return community, nil
}

func (d *communityDomain) getOwnedCommunity(ctx context.Context, communityID string) (*entity.Community, error) {
	community, err := d.getCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}

	if community.OwnerID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the owner can modify this community")
	}

	return community, nil
}

func (d *communityDomain) convert(ctx context.Context, communities []entity.Community) ([]model.Community, error) {
	ownerIDs := []string{}
	for _, c := range communities {
		ownerIDs = append(ownerIDs, c.OwnerID)
	}

	owners, err := d.userRepo.GetByIDs(ctx, ownerIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community owners: %v", err)
		return nil, errorx.Unknown
	}

	ownerSet := map[string]*entity.User{}
	for i := range owners {
		ownerSet[owners[i].ID] = &owners[i]
	}

	result := []model.Community{}
	for i := range communities {
		result = append(result, model.ConvertCommunity(&communities[i], ownerSet[communities[i].OwnerID]))
	}

	return result, nil
}

func (d *communityDomain) convertOne(ctx context.Context, community *entity.Community) (model.Community, error) {
	result, err := d.convert(ctx, []entity.Community{*community})
	if err != nil {
		return model.Community{}, err
	}

	return result[0], nil
}

func (d *communityDomain) checkNameAvailable(ctx context.Context, name, excludeID string) error {
	existing, err := d.communityRepo.GetByName(ctx, name)
	if err == nil && existing.ID != excludeID {
		return errorx.New(errorx.AlreadyExists, "Community name is already taken")
	}

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get community by name: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *communityDomain) Create(
	ctx context.Context, req *model.CreateCommunityRequest,
) (*model.CreateCommunityResponse, error) {
	name := strings.TrimSpace(req.Name)
	if err := checkCommunityName(name); err != nil {
		return nil, err
	}

	if err := d.checkNameAvailable(ctx, name, ""); err != nil {
		return nil, err
	}

	avatar, err := common.ProcessImage(ctx, d.storage, "avatar", common.CommunityAvatarPrefix)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	community := &entity.Community{
		Base:         entity.Base{ID: uuid.NewString()},
		Name:         name,
		OwnerID:      userID,
		MembersCount: 1,
	}
	if avatar != nil {
		community.AvatarURL = avatar.Url
	}

	if err := d.communityRepo.Create(ctx, community); err != nil {
		common.DeleteImage(ctx, d.storage, community.AvatarURL)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "Community name is already taken")
		}

		xcontext.Logger(ctx).Errorf("Cannot create community: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.communityRepo.AddMember(ctx, community.ID, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot add owner as member: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.convertOne(ctx, community)
	if err != nil {
		return nil, err
	}

	return &model.CreateCommunityResponse{Community: result}, nil
}

func (d *communityDomain) Get(
	ctx context.Context, req *model.GetCommunityRequest,
) (*model.GetCommunityResponse, error) {
	community, err := d.getCommunity(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}

	isMember, err := d.access.HasAccess(ctx, community, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check community membership: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.convertOne(ctx, community)
	if err != nil {
		return nil, err
	}

	return &model.GetCommunityResponse{Community: result, IsMember: isMember}, nil
}

func (d *communityDomain) GetMine(
	ctx context.Context, req *model.GetMyCommunitiesRequest,
) (*model.GetMyCommunitiesResponse, error) {
	communities, err := d.communityRepo.GetListByMember(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get communities of user: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.convert(ctx, communities)
	if err != nil {
		return nil, err
	}

	return &model.GetMyCommunitiesResponse{Communities: result}, nil
}

func (d *communityDomain) Update(
	ctx context.Context, req *model.UpdateCommunityRequest,
) (*model.UpdateCommunityResponse, error) {
	community, err := d.getOwnedCommunity(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}

	update := &entity.Community{}
	if name := strings.TrimSpace(req.Name); name != "" {
		if err := checkCommunityName(name); err != nil {
			return nil, err
		}

		if err := d.checkNameAvailable(ctx, name, community.ID); err != nil {
			return nil, err
		}

		update.Name = name
	}

	avatar, err := common.ProcessImage(ctx, d.storage, "avatar", common.CommunityAvatarPrefix)
	if err != nil {
		return nil, err
	}

	if avatar != nil {
		update.AvatarURL = avatar.Url
	}

	if update.Name == "" && update.AvatarURL == "" {
		return nil, errorx.New(errorx.BadRequest, "Nothing to update")
	}

	if err := d.communityRepo.UpdateByID(ctx, community.ID, update); err != nil {
		common.DeleteImage(ctx, d.storage, update.AvatarURL)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "Community name is already taken")
		}

		xcontext.Logger(ctx).Errorf("Cannot update community: %v", err)
		return nil, errorx.Unknown
	}

	if update.AvatarURL != "" {
		common.DeleteImage(ctx, d.storage, community.AvatarURL)
	}

	community, err = d.getCommunity(ctx, community.ID)
	if err != nil {
		return nil, err
	}

	result, err := d.convertOne(ctx, community)
	if err != nil {
		return nil, err
	}

	return &model.UpdateCommunityResponse{Community: result}, nil
}

// Delete removes the community and its memberships. Posts are kept; they stay private and
// from then on only their owners can see them.
func (d *communityDomain) Delete(
	ctx context.Context, req *model.DeleteCommunityRequest,
) (*model.DeleteCommunityResponse, error) {
	community, err := d.getOwnedCommunity(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.communityRepo.DeleteMembers(ctx, community.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete community members: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.communityRepo.DeleteByID(ctx, community.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found community")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete community: %v", err)
		return nil, errorx.Unknown
	}

	ctx, err = xcontext.WithCommitDBTransaction(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit community deletion: %v", err)
		return nil, errorx.Unknown
	}

	common.DeleteImage(ctx, d.storage, community.AvatarURL)
	return &model.DeleteCommunityResponse{}, nil
}

func (d *communityDomain) Join(
	ctx context.Context, req *model.JoinCommunityRequest,
) (*model.JoinCommunityResponse, error) {
	community, err := d.getCommunity(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	if community.OwnerID == userID {
		return nil, errorx.New(errorx.BadRequest, "You are the owner of this community")
	}

	added, err := d.communityRepo.AddMember(ctx, community.ID, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot add member: %v", err)
		return nil, errorx.Unknown
	}

	if !added {
		return nil, errorx.New(errorx.AlreadyExists, "You are already a member of this community")
	}

	event := model.EngagementEvent{Type: model.EventCommunityJoined, CommunityID: community.ID}
	if err := d.communityRepo.IncreaseMembers(ctx, community.ID); err != nil {
		d.publisher.Publish(ctx, event)
		return nil, counterFailure(ctx, "community", err)
	}

	d.publisher.Publish(ctx, event)

	return &model.JoinCommunityResponse{}, nil
}

func (d *communityDomain) Leave(
	ctx context.Context, req *model.LeaveCommunityRequest,
) (*model.LeaveCommunityResponse, error) {
	community, err := d.getCommunity(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	if community.OwnerID == userID {
		return nil, errorx.New(errorx.BadRequest, "The owner cannot leave the community")
	}

	removed, err := d.communityRepo.RemoveMember(ctx, community.ID, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot remove member: %v", err)
		return nil, errorx.Unknown
	}

	if !removed {
		return nil, errorx.New(errorx.NotFound, "You are not a member of this community")
	}

	event := model.EngagementEvent{Type: model.EventCommunityLeft, CommunityID: community.ID}
	if err := d.communityRepo.DecreaseMembers(ctx, community.ID); err != nil {
		d.publisher.Publish(ctx, event)
		return nil, counterFailure(ctx, "community", err)
	}

	d.publisher.Publish(ctx, event)

	return &model.LeaveCommunityResponse{}, nil
}

func (d *communityDomain) GetMembers(
	ctx context.Context, req *model.GetCommunityMembersRequest,
) (*model.GetCommunityMembersResponse, error) {
	community, err := d.getCommunity(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}

	members, err := d.communityRepo.GetMembers(ctx, community.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community members: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.ShortUser{}
	for i := range members {
		result = append(result, model.ConvertShortUser(&members[i].User, members[i].UserID))
	}

	return &model.GetCommunityMembersResponse{Members: result}, nil
}

func (d *communityDomain) GetPosts(
	ctx context.Context, req *model.GetCommunityPostsRequest,
) (*model.GetCommunityPostsResponse, error) {
	community, err := d.getCommunity(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}

	ok, err := d.access.HasAccess(ctx, community, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check community membership: %v", err)
		return nil, errorx.Unknown
	}

	if !ok {
		return nil, errorx.New(errorx.PermissionDenied, "Only members can view posts of this community")
	}

	pageSize := xcontext.Configs(ctx).Feed.CommunityPageSize
	page, pageSize, err := pageRequest(ctx, req.Page, pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	filter := repository.GetListPostFilter{
		CommunityID: community.ID,
		Order:       repository.PostOrderRecent,
		Offset:      pagination.Offset(page, pageSize),
		Limit:       pageSize,
	}

	posts, err := d.postRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community posts: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.postRepo.Count(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count community posts: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.converter.Convert(ctx, posts)
	if err != nil {
		return nil, err
	}

	return &model.GetCommunityPostsResponse{
		Posts:      result,
		Pagination: model.ConvertPagination(total, page, pageSize),
	}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
