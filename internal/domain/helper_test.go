package domain

import (
	"context"
	"testing"
	"time"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/internal/repository"
	"github.com/socialgraph-lab/backend/pkg/authenticator"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/idutil"
	"github.com/socialgraph-lab/backend/pkg/storage"
	"github.com/socialgraph-lab/backend/pkg/testutil"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

// objectStorage is the memory storage, which also exposes uploaded objects.
type objectStorage interface {
	storage.Storage
	Get(url string) ([]byte, bool)
}

type testDomains struct {
	storage     objectStorage
	publisher   *testutil.MockPublisher
	tokenEngine authenticator.TokenEngine[model.AccessToken]

	user       *userDomain
	follow     *followDomain
	community  *communityDomain
	post       *postDomain
	comment    *commentDomain
	like       *likeDomain
	feed       *feedDomain
	engagement *engagementDomain
}

func newTestDomains(t *testing.T) *testDomains {
	node, err := idutil.NewNode()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository()
	followRepo := repository.NewFollowRepository()
	communityRepo := repository.NewCommunityRepository(&testutil.MockRedisClient{})
	postRepo := repository.NewPostRepository()
	commentRepo := repository.NewCommentRepository()
	likeRepo := repository.NewLikeRepository()
	counterRepo := repository.NewCounterRepository()

	fileStorage := storage.NewMemoryStorage()
	publisher := &testutil.MockPublisher{}
	eventPublisher := NewEventPublisher(publisher, node)
	tokenEngine := authenticator.NewTokenEngine[model.AccessToken]("secret", time.Minute)

	return &testDomains{
		storage:     fileStorage,
		publisher:   publisher,
		tokenEngine: tokenEngine,
		user:        NewUserDomain(userRepo, followRepo, tokenEngine),
		follow:      NewFollowDomain(userRepo, followRepo, eventPublisher, node),
		community:   NewCommunityDomain(communityRepo, userRepo, postRepo, likeRepo, fileStorage, eventPublisher),
		post:        NewPostDomain(postRepo, commentRepo, likeRepo, communityRepo, userRepo, fileStorage),
		comment:     NewCommentDomain(commentRepo, postRepo, likeRepo, userRepo, communityRepo, eventPublisher),
		like:        NewLikeDomain(likeRepo, postRepo, commentRepo, communityRepo, eventPublisher),
		feed:        NewFeedDomain(postRepo, followRepo, communityRepo, userRepo, likeRepo, &testutil.MockRedisClient{}),
		engagement:  NewEngagementDomain(counterRepo),
	}
}

func requireErrorCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, errorx.CodeOf(err), err.Error())
}

func loadPost(t *testing.T, ctx context.Context, id string) entity.Post {
	var post entity.Post
	require.NoError(t, xcontext.DB(ctx).Take(&post, "id=?", id).Error)
	return post
}

func loadUser(t *testing.T, ctx context.Context, id string) entity.User {
	var user entity.User
	require.NoError(t, xcontext.DB(ctx).Take(&user, "id=?", id).Error)
	return user
}

func loadCommunity(t *testing.T, ctx context.Context, id string) entity.Community {
	var community entity.Community
	require.NoError(t, xcontext.DB(ctx).Take(&community, "id=?", id).Error)
	return community
}

func countRows(t *testing.T, ctx context.Context, model any, query string, args ...any) int64 {
	var count int64
	require.NoError(t, xcontext.DB(ctx).Model(model).Where(query, args...).Count(&count).Error)
	return count
}
