package domain

import (
	"context"
	"time"

	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/internal/repository"
	"github.com/socialgraph-lab/backend/pkg/pubsub"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

// EngagementDomain consumes engagement events and recomputes the counters they name.
type EngagementDomain interface {
	Reconcile(context.Context, model.EngagementEvent) error
	Subscribe(context.Context, *pubsub.Pack, time.Time)
}

type engagementDomain struct {
	counterRepo repository.CounterRepository
}

func NewEngagementDomain(counterRepo repository.CounterRepository) *engagementDomain {
	return &engagementDomain{counterRepo: counterRepo}
}

func (d *engagementDomain) Reconcile(ctx context.Context, event model.EngagementEvent) error {
	switch event.Type {
	case model.EventPostLiked, model.EventPostUnliked:
		return d.counterRepo.ReconcilePost(ctx, event.PostID)

	case model.EventCommentLiked, model.EventCommentUnliked:
		return d.counterRepo.ReconcileComment(ctx, event.CommentID)

	case model.EventCommentCreated, model.EventCommentDeleted:
		return d.counterRepo.ReconcilePost(ctx, event.PostID)

	case model.EventUserFollowed, model.EventUserUnfollowed:
		if err := d.counterRepo.ReconcileUser(ctx, event.UserID); err != nil {
			return err
		}

		return d.counterRepo.ReconcileUser(ctx, event.ActorID)

	case model.EventCommunityJoined, model.EventCommunityLeft:
		return d.counterRepo.ReconcileCommunity(ctx, event.CommunityID)
	}

	xcontext.Logger(ctx).Warnf("Unknown engagement event type %s", event.Type)
	return nil
}

func (d *engagementDomain) Subscribe(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	event, err := DecodeEvent(pack.Msg)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode engagement event: %v", err)
		return
	}

	if err := d.Reconcile(ctx, event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reconcile counters of event %s (%s): %v", event.ID, event.Type, err)
		return
	}

	xcontext.Logger(ctx).Debugf("Reconciled counters of event %s (%s) published at %s", event.ID, event.Type, t)
}
