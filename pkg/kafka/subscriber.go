package kafka

import (
	"context"
	"errors"

	"github.com/Shopify/sarama"
	"github.com/socialgraph-lab/backend/pkg/pubsub"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

type subscriber struct {
	groupID     string
	brokerAddrs []string
	topics      []string
	client      sarama.ConsumerGroup
	handler     pubsub.SubscribeHandler
}

func NewSubscriber(
	groupID string,
	brokerAddrs []string,
	topics []string,
	handler pubsub.SubscribeHandler,
) (*subscriber, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	client, err := sarama.NewConsumerGroup(brokerAddrs, groupID, config)
	if err != nil {
		return nil, err
	}

	return &subscriber{
		groupID:     groupID,
		brokerAddrs: brokerAddrs,
		topics:      topics,
		client:      client,
		handler:     handler,
	}, nil
}

func (g *subscriber) Stop(ctx context.Context) error {
	return g.client.Close()
}

func (g *subscriber) Subscribe(ctx context.Context) error {
	consumer := consumerGroupHandler{
		ready: make(chan bool),
		fn:    g.handler,
	}

	go func() {
		for {
			// Consume returns on every server-side rebalance, the session must be recreated
			// to get the new claims.
			if err := g.client.Consume(ctx, g.topics, &consumer); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}

				xcontext.Logger(ctx).Errorf("Error from consumer: %v", err)
			}

			if ctx.Err() != nil {
				return
			}

			consumer.ready = make(chan bool)
		}
	}()

	select {
	case <-consumer.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type consumerGroupHandler struct {
	ready chan bool
	fn    pubsub.SubscribeHandler
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

func (h *consumerGroupHandler) Cleanup(session sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			h.fn(session.Context(), &pubsub.Pack{
				Key: message.Key,
				Msg: message.Value,
			}, message.Timestamp)
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}
