package repository

import (
	"context"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

var (
	postCounters = map[string]any{
		"like_count":    gorm.Expr("(SELECT COUNT(*) FROM likes WHERE likes.post_id=posts.id)"),
		"comment_count": gorm.Expr("(SELECT COUNT(*) FROM comments WHERE comments.post_id=posts.id)"),
	}

	commentCounters = map[string]any{
		"like_count": gorm.Expr("(SELECT COUNT(*) FROM likes WHERE likes.comment_id=comments.id)"),
	}

	userCounters = map[string]any{
		"followers_count": gorm.Expr("(SELECT COUNT(*) FROM follows WHERE follows.following_id=users.id)"),
		"following_count": gorm.Expr("(SELECT COUNT(*) FROM follows WHERE follows.follower_id=users.id)"),
	}

	communityCounters = map[string]any{
		"members_count": gorm.Expr(
			"(SELECT COUNT(*) FROM community_members WHERE community_members.community_id=communities.id)"),
	}
)

// CounterRepository recomputes denormalized counters from the rows they project.
type CounterRepository interface {
	ReconcilePost(ctx context.Context, id string) error
	ReconcileComment(ctx context.Context, id string) error
	ReconcileUser(ctx context.Context, id string) error
	ReconcileCommunity(ctx context.Context, id string) error
	ReconcileAll(ctx context.Context) error
}

type counterRepository struct{}

func NewCounterRepository() *counterRepository {
	return &counterRepository{}
}

func (r *counterRepository) reconcile(ctx context.Context, model any, id string, counters map[string]any) error {
	return xcontext.DB(ctx).Model(model).Where("id=?", id).UpdateColumns(counters).Error
}

func (r *counterRepository) ReconcilePost(ctx context.Context, id string) error {
	return r.reconcile(ctx, &entity.Post{}, id, postCounters)
}

func (r *counterRepository) ReconcileComment(ctx context.Context, id string) error {
	return r.reconcile(ctx, &entity.Comment{}, id, commentCounters)
}

func (r *counterRepository) ReconcileUser(ctx context.Context, id string) error {
	return r.reconcile(ctx, &entity.User{}, id, userCounters)
}

func (r *counterRepository) ReconcileCommunity(ctx context.Context, id string) error {
	return r.reconcile(ctx, &entity.Community{}, id, communityCounters)
}

func (r *counterRepository) ReconcileAll(ctx context.Context) error {
	db := xcontext.DB(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for model, counters := range map[any]map[string]any{
		&entity.Post{}:      postCounters,
		&entity.Comment{}:   commentCounters,
		&entity.User{}:      userCounters,
		&entity.Community{}: communityCounters,
	} {
		if err := db.Model(model).UpdateColumns(counters).Error; err != nil {
			return err
		}
	}

	return nil
}
