package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

var (
	ErrNSQTopicRequired         = errors.New("messaging: nsq topic is required")
	ErrNSQChannelRequired       = errors.New("messaging: nsq channel is required")
	ErrNSQHandlerRequired       = errors.New("messaging: nsq handler is required")
	ErrNSQProducerAddrRequired  = errors.New("messaging: nsq producer address is required")
	ErrNSQConsumerAddrsRequired = errors.New("messaging: nsq nsqd or lookupd addresses are required")
)

// NSQConfig configures the NSQ implementation.
type NSQConfig struct {
	ProducerAddr         string
	ConsumerNSQDAddrs    []string
	ConsumerLookupdAddrs []string
}

// NSQ is a messaging implementation backed by NSQ.
type NSQ struct {
	producer     *nsq.Producer
	nsqdAddrs    []string
	lookupdAddrs []string

	mu        sync.Mutex
	consumers map[*nsq.Consumer]struct{}
	closed    bool
}

func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	n := &NSQ{
		nsqdAddrs:    append([]string{}, cfg.ConsumerNSQDAddrs...),
		lookupdAddrs: append([]string{}, cfg.ConsumerLookupdAddrs...),
		consumers:    map[*nsq.Consumer]struct{}{},
	}

	if cfg.ProducerAddr != "" {
		p, err := nsq.NewProducer(cfg.ProducerAddr, nsq.NewConfig())
		if err != nil {
			return nil, fmt.Errorf("messaging: nsq new producer: %w", err)
		}
		p.SetLoggerLevel(nsq.LogLevelError)
		n.producer = p
	}

	return n, nil
}

// Close stops consumers and the producer.
func (n *NSQ) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	consumers := n.consumers
	n.consumers = nil
	n.mu.Unlock()

	for c := range consumers {
		stopNSQConsumer(c)
	}
	if n.producer != nil {
		n.producer.Stop()
	}
	return nil
}

// Publish sends the body to topic. Headers are not supported by NSQ and are dropped.
func (n *NSQ) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrNSQTopicRequired
	}
	if n.producer == nil {
		return PublishResult{}, ErrNSQProducerAddrRequired
	}

	var err error
	if msg.Delay > 0 {
		err = n.producer.DeferredPublish(destination, msg.Delay, msg.Body)
	} else {
		err = n.producer.Publish(destination, msg.Body)
	}
	if err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nsq publish: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

func (n *NSQ) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	co := newConsumeOptions(opts...)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case source == "":
		return ErrNSQTopicRequired
	case handler == nil:
		return ErrNSQHandlerRequired
	case co.channel == "":
		return ErrNSQChannelRequired
	case len(n.nsqdAddrs) == 0 && len(n.lookupdAddrs) == 0:
		return ErrNSQConsumerAddrsRequired
	}

	concurrency := concurrencyOrDefault(co.concurrency, 1)
	cfg := nsq.NewConfig()
	cfg.MaxInFlight = max(co.maxInFlight, concurrency)

	consumer, err := nsq.NewConsumer(source, co.channel, cfg)
	if err != nil {
		return fmt.Errorf("messaging: nsq new consumer: %w", err)
	}
	consumer.SetLoggerLevel(nsq.LogLevelError)
	consumer.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		m.DisableAutoResponse()
		return dispatch(ctx, "nsq", &nsqMessage{msg: m}, handler, co.autoAck)
	}), concurrency)

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		stopNSQConsumer(consumer)
		return io.ErrClosedPipe
	}
	n.consumers[consumer] = struct{}{}
	n.mu.Unlock()

	if len(n.lookupdAddrs) > 0 {
		err = consumer.ConnectToNSQLookupds(n.lookupdAddrs)
	} else {
		err = consumer.ConnectToNSQDs(n.nsqdAddrs)
	}
	if err != nil {
		stopNSQConsumer(consumer)
		return fmt.Errorf("messaging: nsq connect: %w", err)
	}

	select {
	case <-ctx.Done():
		stopNSQConsumer(consumer)
		err = ctx.Err()
	case <-consumer.StopChan:
	}

	n.mu.Lock()
	delete(n.consumers, consumer)
	n.mu.Unlock()
	return err
}

func stopNSQConsumer(c *nsq.Consumer) {
	c.Stop()
	<-c.StopChan
}

type nsqMessage struct {
	ackOnce
	msg *nsq.Message
}

func (m *nsqMessage) Body() []byte { return m.msg.Body }

func (m *nsqMessage) Headers() []Header { return nil }

func (m *nsqMessage) ID() string { return fmt.Sprintf("%x", m.msg.ID) }

func (m *nsqMessage) Timestamp() time.Time { return time.Unix(0, m.msg.Timestamp) }

func (m *nsqMessage) Ack(context.Context) error {
	if m.claim() {
		m.msg.Finish()
	}
	return nil
}

func (m *nsqMessage) Nack(context.Context) error {
	if m.claim() {
		m.msg.Requeue(-1)
	}
	return nil
}
