// Package broker carries cache invalidation events between console instances.
package broker

import "context"

// MessageBroker publishes messages on a topic and delivers every message to
// every consumer of that topic.
type MessageBroker interface {
	Publish(topic string, message []byte) error
	Consume(ctx context.Context, topic string) (<-chan []byte, error)
	Close() error
}
