package pubsub

import "context"

type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
}

// NopPublisher drops every message. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, *Pack) error {
	return nil
}
