// Package pubsub provides the generic publish/subscribe channel the plotting
// surface delivers document events, log entries, and reload signals over.
package pubsub

import (
	"context"
	"time"
)

// Topic groups events on a broker. For the document event channel the topic
// is the notification kind; other brokers use the fixed topics below.
type Topic string

const (
	TopicLog    Topic = "log"
	TopicReload Topic = "reload"
)

// Event is a published occurrence with a typed payload. Origin identifies
// the surface or subsystem that produced it.
type Event[T any] struct {
	Topic   Topic
	Origin  string
	Payload T
	At      time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes events with a typed payload.
type Publisher[T any] interface {
	Publish(topic Topic, origin string, payload T)
}
