package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"google.golang.org/api/option"
)

var (
	ErrPubSubProjectIDRequired    = errors.New("messaging: pubsub project id is required")
	ErrPubSubTopicRequired        = errors.New("messaging: pubsub topic is required")
	ErrPubSubSubscriptionRequired = errors.New("messaging: pubsub subscription is required")
	ErrPubSubHandlerRequired      = errors.New("messaging: pubsub handler is required")
)

// PubSubConfig configures the Google Pub/Sub implementation.
type PubSubConfig struct {
	ProjectID     string
	ClientOptions []option.ClientOption
}

// PubSub is a messaging implementation backed by Google Pub/Sub.
type PubSub struct {
	client *pubsub.Client

	mu         sync.Mutex
	closed     bool
	publishers map[string]*pubsub.Publisher
}

func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	if cfg.ProjectID == "" {
		return nil, ErrPubSubProjectIDRequired
	}

	c, err := pubsub.NewClient(ctx, cfg.ProjectID, cfg.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("messaging: pubsub new client: %w", err)
	}

	return &PubSub{client: c, publishers: map[string]*pubsub.Publisher{}}, nil
}

// Close flushes publishers and closes the client.
func (p *PubSub) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	pubs := p.publishers
	p.publishers = nil
	p.mu.Unlock()

	for _, pub := range pubs {
		pub.Stop()
	}
	return p.client.Close()
}

// Publish sends the message; headers become string attributes.
func (p *PubSub) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrPubSubTopicRequired
	}
	if msg.Delay > 0 {
		return PublishResult{}, ErrUnsupported
	}

	pub, err := p.publisher(destination)
	if err != nil {
		return PublishResult{}, err
	}

	var attrs map[string]string
	if len(msg.Headers) > 0 {
		attrs = make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			if _, dup := attrs[h.Key]; h.Key != "" && !dup {
				attrs[h.Key] = string(h.Value)
			}
		}
	}

	id, err := pub.Publish(ctx, &pubsub.Message{
		Data:        msg.Body,
		Attributes:  attrs,
		OrderingKey: msg.OrderingKey,
	}).Get(ctx)
	if err != nil {
		return PublishResult{}, fmt.Errorf("messaging: pubsub publish: %w", err)
	}

	return PublishResult{MessageID: id, Topic: destination, Timestamp: time.Now()}, nil
}

// Consume receives from the subscription named by WithSubscription, or from
// source itself when no subscription option is given.
func (p *PubSub) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	co := newConsumeOptions(opts...)
	subscription := co.subscription
	if subscription == "" {
		subscription = source
	}

	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case subscription == "":
		return ErrPubSubSubscriptionRequired
	case handler == nil:
		return ErrPubSubHandlerRequired
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return io.ErrClosedPipe
	}

	sub := p.client.Subscriber(subscription)
	if co.concurrency > 0 {
		sub.ReceiveSettings.NumGoroutines = co.concurrency
	}
	if co.maxInFlight > 0 {
		sub.ReceiveSettings.MaxOutstandingMessages = co.maxInFlight
	}

	return sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		//nolint:errcheck // pubsub Ack/Nack never fail synchronously
		_ = dispatch(ctx, "pubsub", &pubSubMessage{msg: m}, handler, co.autoAck)
	})
}

func (p *PubSub) publisher(topic string) (*pubsub.Publisher, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, io.ErrClosedPipe
	}
	if pub, ok := p.publishers[topic]; ok {
		return pub, nil
	}
	pub := p.client.Publisher(topic)
	p.publishers[topic] = pub
	return pub, nil
}

type pubSubMessage struct {
	ackOnce
	msg *pubsub.Message
}

func (m *pubSubMessage) Body() []byte { return m.msg.Data }

func (m *pubSubMessage) Headers() []Header {
	out := make([]Header, 0, len(m.msg.Attributes))
	for k, v := range m.msg.Attributes {
		out = append(out, Header{Key: k, Value: []byte(v)})
	}
	return out
}

func (m *pubSubMessage) ID() string { return m.msg.ID }

func (m *pubSubMessage) Timestamp() time.Time { return m.msg.PublishTime }

func (m *pubSubMessage) Ack(context.Context) error {
	if m.claim() {
		m.msg.Ack()
	}
	return nil
}

func (m *pubSubMessage) Nack(context.Context) error {
	if m.claim() {
		m.msg.Nack()
	}
	return nil
}
