package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/socialgraph-lab/backend/internal/domain"
	"github.com/socialgraph-lab/backend/pkg/kafka"
	"github.com/socialgraph-lab/backend/pkg/nats"
	"github.com/socialgraph-lab/backend/pkg/pubsub"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSubscriber(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadDatabase()
	s.loadRepos()
	s.engagementDomain = domain.NewEngagementDomain(s.counterRepo)
	s.startPrometheus()
	defer s.close()

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	subscriber, err := s.newSubscriber()
	if err != nil {
		return err
	}

	if err := subscriber.Subscribe(ctx); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Subscriber started")
	<-ctx.Done()

	if err := subscriber.Stop(s.ctx); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot stop subscriber: %v", err)
	}
	xcontext.Logger(s.ctx).Infof("Subscriber stopped")

	return nil
}

func (s *srv) newSubscriber() (pubsub.Subscriber, error) {
	cfg := xcontext.Configs(s.ctx)
	switch cfg.Events.Broker {
	case "kafka":
		return kafka.NewSubscriber(cfg.Events.Group, []string{cfg.Kafka.Addr},
			[]string{cfg.Events.Topic}, s.engagementDomain.Subscribe)

	case "nats":
		client, err := nats.NewClient(s.ctx, cfg.Nats)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Close)

		return nats.NewSubscriber(client, cfg.Events.Topic, cfg.Events.Group,
			s.engagementDomain.Subscribe), nil

	default:
		return nil, fmt.Errorf("no event broker is configured, got %q", cfg.Events.Broker)
	}
}
