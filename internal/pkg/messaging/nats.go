package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

var (
	ErrNATSSubjectRequired = errors.New("messaging: nats subject is required")
	ErrNATSURLRequired     = errors.New("messaging: nats url is required")
	ErrNATSHandlerRequired = errors.New("messaging: nats handler is required")
)

// NATSConfig configures the NATS implementation.
type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS is a messaging implementation backed by core NATS.
type NATS struct {
	conn *nats.Conn

	mu     sync.Mutex
	subs   map[*nats.Subscription]struct{}
	closed bool
}

func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn, subs: map[*nats.Subscription]struct{}{}}, nil
}

// Close drains subscriptions and closes the connection.
func (n *NATS) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	subs := n.subs
	n.subs = nil
	n.mu.Unlock()

	var err error
	for sub := range subs {
		err = errors.Join(err, sub.Drain())
	}
	err = errors.Join(err, n.conn.Drain())
	n.conn.Close()
	return err
}

func (n *NATS) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrNATSSubjectRequired
	}
	if msg.Delay > 0 {
		return PublishResult{}, ErrUnsupported
	}

	nm := nats.NewMsg(destination)
	nm.Data = msg.Body
	for _, h := range msg.Headers {
		if h.Key != "" {
			nm.Header.Add(h.Key, string(h.Value))
		}
	}

	if err := n.conn.PublishMsg(nm); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nats publish: %w", err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nats flush: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

// Consume subscribes with the configured queue group and blocks until ctx is done.
func (n *NATS) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case source == "":
		return ErrNATSSubjectRequired
	case handler == nil:
		return ErrNATSHandlerRequired
	}

	co := newConsumeOptions(opts...)
	concurrency := concurrencyOrDefault(co.concurrency, 1)
	msgCh := make(chan *nats.Msg, concurrency)

	sub, err := n.conn.QueueSubscribe(source, co.queueGroup, func(m *nats.Msg) {
		select {
		case msgCh <- m:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("messaging: nats subscribe: %w", err)
	}

	var wg sync.WaitGroup
	for range concurrency {
		wg.Go(func() {
			for m := range msgCh {
				//nolint:errcheck // core nats ack failures are not actionable
				_ = dispatch(ctx, "nats", &natsMessage{msg: m, receivedAt: time.Now()}, handler, co.autoAck)
			}
		})
	}

	stop := func() error {
		derr := sub.Drain()
		close(msgCh)
		wg.Wait()
		n.mu.Lock()
		delete(n.subs, sub)
		n.mu.Unlock()
		return derr
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return errors.Join(io.ErrClosedPipe, stop())
	}
	n.subs[sub] = struct{}{}
	n.mu.Unlock()

	if err := n.conn.Flush(); err != nil {
		return errors.Join(fmt.Errorf("messaging: nats flush: %w", err), stop())
	}

	<-ctx.Done()
	return errors.Join(ctx.Err(), stop())
}

type natsMessage struct {
	ackOnce
	msg        *nats.Msg
	receivedAt time.Time
}

func (m *natsMessage) Body() []byte { return m.msg.Data }

func (m *natsMessage) Headers() []Header {
	var out []Header
	for k, values := range m.msg.Header {
		for _, v := range values {
			out = append(out, Header{Key: k, Value: []byte(v)})
		}
	}
	return out
}

func (m *natsMessage) ID() string { return m.msg.Subject }

func (m *natsMessage) Timestamp() time.Time { return m.receivedAt }

func (m *natsMessage) Ack(context.Context) error {
	if !m.claim() {
		return nil
	}
	return ignoreNoReply(m.msg.Ack())
}

func (m *natsMessage) Nack(context.Context) error {
	if !m.claim() {
		return nil
	}
	return ignoreNoReply(m.msg.Nak())
}

// ignoreNoReply treats acks on core (non JetStream) messages as no-ops.
func ignoreNoReply(err error) error {
	if errors.Is(err, nats.ErrMsgNoReply) || errors.Is(err, nats.ErrMsgNotBound) {
		return nil
	}
	return err
}
