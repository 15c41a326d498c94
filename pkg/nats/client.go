package nats

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/socialgraph-lab/backend/config"
	"github.com/socialgraph-lab/backend/pkg/pubsub"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

const keyHeader = "Pack-Key"

type Client struct {
	conn *nats.Conn
}

func NewClient(ctx context.Context, cfg config.NatsConfigs) (*Client, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				xcontext.Logger(ctx).Warnf("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			xcontext.Logger(ctx).Infof("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, err
	}

	return &Client{conn: conn}, nil
}

func (c *Client) Publish(ctx context.Context, subject string, pack *pubsub.Pack) error {
	msg := nats.NewMsg(subject)
	msg.Data = pack.Msg
	if len(pack.Key) > 0 {
		msg.Header.Set(keyHeader, string(pack.Key))
	}

	return c.conn.PublishMsg(msg)
}

func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

type subscriber struct {
	client  *Client
	subject string
	queue   string
	handler pubsub.SubscribeHandler
	sub     *nats.Subscription
}

// NewSubscriber creates a queue subscriber, every message is delivered to only one member of
// the queue group.
func NewSubscriber(client *Client, subject, queue string, handler pubsub.SubscribeHandler) *subscriber {
	return &subscriber{
		client:  client,
		subject: subject,
		queue:   queue,
		handler: handler,
	}
}

func (s *subscriber) Subscribe(ctx context.Context) error {
	sub, err := s.client.conn.QueueSubscribe(s.subject, s.queue, func(msg *nats.Msg) {
		s.handler(ctx, &pubsub.Pack{
			Key: []byte(msg.Header.Get(keyHeader)),
			Msg: msg.Data,
		}, time.Now())
	})
	if err != nil {
		return err
	}

	s.sub = sub
	return nil
}

func (s *subscriber) Stop(ctx context.Context) error {
	if s.sub == nil {
		return nil
	}

	return s.sub.Drain()
}
