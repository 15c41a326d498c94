package testutil

import (
	"context"

	"github.com/socialgraph-lab/backend/pkg/pubsub"
)

// MockPublisher records every published pack unless PublishFunc is set.
type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	Topics []string
	Packs  []*pubsub.Pack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	m.Topics = append(m.Topics, topic)
	m.Packs = append(m.Packs, pack)
	return nil
}
