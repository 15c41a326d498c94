package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/pkg/pubsub"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

// EventPublisher announces which counters a write touched. Publishing is best-effort, a lost
// event is covered by the periodic reconciliation.
type EventPublisher struct {
	publisher pubsub.Publisher
	node      *snowflake.Node
}

func NewEventPublisher(publisher pubsub.Publisher, node *snowflake.Node) *EventPublisher {
	return &EventPublisher{publisher: publisher, node: node}
}

func (p *EventPublisher) Publish(ctx context.Context, event model.EngagementEvent) {
	if p == nil || p.publisher == nil {
		return
	}

	event.ID = p.node.Generate().String()
	event.ActorID = xcontext.RequestUserID(ctx)
	event.OccurredAt = time.Now().UnixMilli()

	b, err := EncodeEvent(event)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot encode event %s: %v", event.Type, err)
		return
	}

	err = p.publisher.Publish(ctx, xcontext.Configs(ctx).Events.Topic, &pubsub.Pack{
		Key: []byte(event.ID),
		Msg: b,
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish event %s: %v", event.Type, err)
	}
}

func EncodeEvent(event model.EngagementEvent) ([]byte, error) {
	return json.Marshal(structs.Map(event))
}

func DecodeEvent(b []byte) (model.EngagementEvent, error) {
	var data map[string]any
	if err := json.Unmarshal(b, &data); err != nil {
		return model.EngagementEvent{}, err
	}

	var event model.EngagementEvent
	if err := mapstructure.Decode(data, &event); err != nil {
		return model.EngagementEvent{}, err
	}

	return event, nil
}
