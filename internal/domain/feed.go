package domain

import (
	"context"
	"errors"

	"github.com/socialgraph-lab/backend/internal/common"
	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/internal/repository"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/pagination"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"github.com/socialgraph-lab/backend/pkg/xredis"
	"golang.org/x/sync/errgroup"
)

type FeedDomain interface {
	GetFeed(context.Context, *model.GetFeedRequest) (*model.GetFeedResponse, error)
	Explore(context.Context, *model.ExploreRequest) (*model.ExploreResponse, error)
	GetTrending(context.Context, *model.GetTrendingRequest) (*model.GetTrendingResponse, error)
}

type feedDomain struct {
	postRepo      repository.PostRepository
	followRepo    repository.FollowRepository
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
	redisClient   xredis.Client
	converter     *postConverter
}

// trendingSnapshot is the cached ranking of the trending view. Only ids are cached, rows are
// loaded again on every request so visibility and deletions apply immediately.
type trendingSnapshot struct {
	PostIDs      []string `json:"post_ids"`
	CommunityIDs []string `json:"community_ids"`
}

func NewFeedDomain(
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	communityRepo repository.CommunityRepository,
	userRepo repository.UserRepository,
	likeRepo repository.LikeRepository,
	redisClient xredis.Client,
) *feedDomain {
	return &feedDomain{
		postRepo:      postRepo,
		followRepo:    followRepo,
		communityRepo: communityRepo,
		userRepo:      userRepo,
		redisClient:   redisClient,
		converter:     newPostConverter(userRepo, likeRepo),
	}
}

func (d *feedDomain) GetFeed(ctx context.Context, req *model.GetFeedRequest) (*model.GetFeedResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit < 0 || req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit and offset must not be negative")
	}

	limit := req.Limit
	if limit == 0 {
		limit = apiCfg.DefaultPageSize
	}

	if apiCfg.MaxPageSize > 0 && limit > apiCfg.MaxPageSize {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxPageSize)
	}

	followingIDs, err := d.followRepo.GetFollowingIDs(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get following users: %v", err)
		return nil, errorx.Unknown
	}

	posts, err := d.postRepo.GetList(ctx, repository.GetListPostFilter{
		OwnerIDs:   followingIDs,
		OnlyPublic: true,
		Order:      repository.PostOrderRecent,
		Offset:     req.Offset,
		Limit:      limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get feed posts: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.converter.Convert(ctx, posts)
	if err != nil {
		return nil, err
	}

	return &model.GetFeedResponse{Posts: result}, nil
}

// Explore lists public posts outside any community from users the caller does not follow,
// newest first, together with the most liked headlines of the same set.
func (d *feedDomain) Explore(ctx context.Context, req *model.ExploreRequest) (*model.ExploreResponse, error) {
	feedCfg := xcontext.Configs(ctx).Feed
	if req.Page < 0 {
		return nil, errorx.New(errorx.BadRequest, "Page must be positive")
	}

	page, pageSize := req.Page, feedCfg.ExplorePageSize
	if page == 0 {
		page = 1
	}

	excludeIDs := []string{}
	if userID := xcontext.RequestUserID(ctx); userID != "" {
		followingIDs, err := d.followRepo.GetFollowingIDs(ctx, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get following users: %v", err)
			return nil, errorx.Unknown
		}

		excludeIDs = append(followingIDs, userID)
	}

	filter := repository.GetListPostFilter{
		OnlyPublic:      true,
		NoCommunity:     true,
		ExcludeOwnerIDs: excludeIDs,
	}

	pageFilter := filter
	pageFilter.Order = repository.PostOrderRecent
	pageFilter.Offset = pagination.Offset(page, pageSize)
	pageFilter.Limit = pageSize

	headlineFilter := filter
	headlineFilter.Order = repository.PostOrderLikes
	headlineFilter.Limit = feedCfg.HeadlineCount

	var posts, headlinePosts []entity.Post
	var total int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		posts, err = d.postRepo.GetList(gctx, pageFilter)
		return err
	})
	g.Go(func() (err error) {
		total, err = d.postRepo.Count(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		headlinePosts, err = d.postRepo.GetList(gctx, headlineFilter)
		return err
	})
	if err := g.Wait(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get explore posts: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.converter.Convert(ctx, posts)
	if err != nil {
		return nil, err
	}

	headlines := []model.Headline{}
	for _, p := range headlinePosts {
		headlines = append(headlines, model.Headline{
			PostID:    p.ID,
			Headline:  common.Truncate(p.Text, feedCfg.HeadlineLength),
			LikeCount: p.LikeCount,
		})
	}

	return &model.ExploreResponse{
		Posts:      result,
		Headlines:  headlines,
		Pagination: model.ConvertPagination(total, page, pageSize),
	}, nil
}

func (d *feedDomain) loadTrendingRanking(ctx context.Context) (*trendingSnapshot, error) {
	var snapshot trendingSnapshot
	err := d.redisClient.GetObj(ctx, common.RedisKeyTrending(), &snapshot)
	if err == nil {
		return &snapshot, nil
	}

	if !errors.Is(err, xredis.ErrNotFound) {
		xcontext.Logger(ctx).Warnf("Cannot get trending from redis: %v", err)
	}

	feedCfg := xcontext.Configs(ctx).Feed
	var posts []entity.Post
	var communities []entity.Community
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		posts, err = d.postRepo.GetList(gctx, repository.GetListPostFilter{
			OnlyPublic: true,
			Order:      repository.PostOrderLikes,
			Limit:      feedCfg.TrendingPosts,
		})
		return err
	})
	g.Go(func() (err error) {
		communities, err = d.communityRepo.GetTrending(gctx, feedCfg.TrendingCommunity)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot = trendingSnapshot{PostIDs: []string{}, CommunityIDs: []string{}}
	for _, p := range posts {
		snapshot.PostIDs = append(snapshot.PostIDs, p.ID)
	}
	for _, c := range communities {
		snapshot.CommunityIDs = append(snapshot.CommunityIDs, c.ID)
	}

	ttl := xcontext.Configs(ctx).Redis.TrendingTTL
	if err := d.redisClient.SetObj(ctx, common.RedisKeyTrending(), snapshot, ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot set trending to redis: %v", err)
	}

	return &snapshot, nil
}

// loadTrending resolves the cached ranking into rows, dropping posts which are no longer
// public and anything deleted since the ranking was computed.
func (d *feedDomain) loadTrending(ctx context.Context) ([]entity.Post, []entity.Community, error) {
	snapshot, err := d.loadTrendingRanking(ctx)
	if err != nil {
		return nil, nil, err
	}

	// A nil id list would lift the id restriction.
	if snapshot.PostIDs == nil {
		snapshot.PostIDs = []string{}
	}

	var posts []entity.Post
	var communities []entity.Community
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		posts, err = d.postRepo.GetList(gctx, repository.GetListPostFilter{
			IDs:        snapshot.PostIDs,
			OnlyPublic: true,
		})
		return err
	})
	g.Go(func() (err error) {
		communities, err = d.communityRepo.GetByIDs(gctx, snapshot.CommunityIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	postSet := map[string]entity.Post{}
	for _, p := range posts {
		postSet[p.ID] = p
	}

	communitySet := map[string]entity.Community{}
	for _, c := range communities {
		communitySet[c.ID] = c
	}

	rankedPosts := []entity.Post{}
	for _, id := range snapshot.PostIDs {
		if p, ok := postSet[id]; ok {
			rankedPosts = append(rankedPosts, p)
		}
	}

	rankedCommunities := []entity.Community{}
	for _, id := range snapshot.CommunityIDs {
		if c, ok := communitySet[id]; ok {
			rankedCommunities = append(rankedCommunities, c)
		}
	}

	return rankedPosts, rankedCommunities, nil
}

func (d *feedDomain) GetTrending(
	ctx context.Context, req *model.GetTrendingRequest,
) (*model.GetTrendingResponse, error) {
	trendingPosts, trendingCommunities, err := d.loadTrending(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get trending: %v", err)
		return nil, errorx.Unknown
	}

	posts, err := d.converter.Convert(ctx, trendingPosts)
	if err != nil {
		return nil, err
	}

	ownerIDs := []string{}
	for _, c := range trendingCommunities {
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

	communities := []model.Community{}
	for i := range trendingCommunities {
		c := &trendingCommunities[i]
		communities = append(communities, model.ConvertCommunity(c, ownerSet[c.OwnerID]))
	}

	return &model.GetTrendingResponse{Posts: posts, Communities: communities}, nil
}
