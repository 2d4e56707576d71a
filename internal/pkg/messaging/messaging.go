package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnsupported is returned when a feature is not supported by the selected broker.
var ErrUnsupported = errors.New("messaging: unsupported operation")

// Messaging is a broker client that can publish and consume messages.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher publishes messages to a destination (topic or subject).
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer consumes messages from a source and blocks until ctx is done.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message. With auto-ack enabled a nil error
// acks the message and a non-nil error nacks it.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a broker-agnostic message to be published.
type OutgoingMessage struct {
	Body []byte
	// Key is used by Kafka for partitioning.
	Key []byte
	// Headers are mapped to Kafka headers, NATS headers and Pub/Sub attributes.
	// NSQ has no header support and drops them.
	Headers []Header
	// OrderingKey is used by Google Pub/Sub.
	OrderingKey string
	// Delay requests deferred delivery. Only NSQ supports it.
	Delay time.Duration
}

// Header is a key/value pair used for message headers.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult carries optional broker-specific publish metadata.
type PublishResult struct {
	MessageID string
	Topic     string
	Timestamp time.Time
}

// Message is a broker-agnostic received message.
type Message interface {
	Body() []byte
	Headers() []Header
	ID() string
	Timestamp() time.Time

	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}

// HeaderValue returns the first value of the named header, or "".
func HeaderValue(msg Message, key string) string {
	for _, h := range msg.Headers() {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
