package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

var (
	ErrKafkaTopicRequired   = errors.New("messaging: kafka topic is required")
	ErrKafkaHandlerRequired = errors.New("messaging: kafka handler is required")
	ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")
	ErrKafkaGroupRequired   = errors.New("messaging: kafka consumer group is required")
)

// KafkaConfig configures the Kafka implementation.
type KafkaConfig struct {
	Brokers []string
	Dialer  *kafka.Dialer
}

// Kafka is a messaging implementation backed by kafka-go.
type Kafka struct {
	brokers []string
	dialer  *kafka.Dialer

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	readers map[*kafka.Reader]struct{}
	closed  bool
}

func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	return &Kafka{
		brokers: append([]string{}, cfg.Brokers...),
		dialer:  cfg.Dialer,
		writers: map[string]*kafka.Writer{},
		readers: map[*kafka.Reader]struct{}{},
	}, nil
}

// Close shuts down all readers and writers.
func (k *Kafka) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	writers, readers := k.writers, k.readers
	k.writers, k.readers = nil, nil
	k.mu.Unlock()

	var err error
	for r := range readers {
		err = errors.Join(err, r.Close())
	}
	for _, w := range writers {
		err = errors.Join(err, w.Close())
	}
	return err
}

func (k *Kafka) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrKafkaTopicRequired
	}
	if msg.Delay > 0 {
		return PublishResult{}, ErrUnsupported
	}

	w, err := k.writer(destination)
	if err != nil {
		return PublishResult{}, err
	}

	km := kafka.Message{Key: msg.Key, Value: msg.Body, Time: time.Now()}
	for _, h := range msg.Headers {
		if h.Key != "" {
			km.Headers = append(km.Headers, kafka.Header{Key: h.Key, Value: h.Value})
		}
	}

	if err := w.WriteMessages(ctx, km); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: kafka publish: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: km.Time}, nil
}

// Consume reads the topic as part of a consumer group and commits on ack.
func (k *Kafka) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	co := newConsumeOptions(opts...)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case source == "":
		return ErrKafkaTopicRequired
	case handler == nil:
		return ErrKafkaHandlerRequired
	case co.group == "":
		return ErrKafkaGroupRequired
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.brokers,
		GroupID:  co.group,
		Topic:    source,
		MaxBytes: 10e6,
		Dialer:   k.dialer,
	})
	if err := k.track(reader); err != nil {
		return errors.Join(err, reader.Close())
	}
	defer k.untrack(reader)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgCh := make(chan kafka.Message)
	errCh := make(chan error, 1)
	sendErr := func(err error) {
		select {
		case errCh <- err:
		default:
		}
	}

	go func() {
		defer close(msgCh)
		for {
			m, err := reader.FetchMessage(ctx)
			if err != nil {
				sendErr(err)
				return
			}
			select {
			case msgCh <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for range concurrencyOrDefault(co.concurrency, 1) {
		wg.Go(func() {
			for m := range msgCh {
				if err := dispatch(ctx, "kafka", &kafkaMessage{reader: reader, msg: m}, handler, co.autoAck); err != nil {
					sendErr(err)
					cancel()
					return
				}
			}
		})
	}

	var err error
	select {
	case err = <-errCh:
		cancel()
	case <-ctx.Done():
		err = ctx.Err()
	}
	wg.Wait()

	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("messaging: kafka consume: %w", err)
	}
	return errors.Join(err, reader.Close())
}

func (k *Kafka) writer(topic string) (*kafka.Writer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil, io.ErrClosedPipe
	}
	if w, ok := k.writers[topic]; ok {
		return w, nil
	}

	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  k.brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		Dialer:   k.dialer,
	})
	k.writers[topic] = w
	return w, nil
}

func (k *Kafka) track(r *kafka.Reader) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return io.ErrClosedPipe
	}
	k.readers[r] = struct{}{}
	return nil
}

func (k *Kafka) untrack(r *kafka.Reader) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.readers, r)
}

type kafkaMessage struct {
	ackOnce
	reader *kafka.Reader
	msg    kafka.Message
}

func (m *kafkaMessage) Body() []byte { return m.msg.Value }

func (m *kafkaMessage) Headers() []Header {
	out := make([]Header, 0, len(m.msg.Headers))
	for _, h := range m.msg.Headers {
		out = append(out, Header{Key: h.Key, Value: h.Value})
	}
	return out
}

func (m *kafkaMessage) ID() string {
	return fmt.Sprintf("%s/%d/%d", m.msg.Topic, m.msg.Partition, m.msg.Offset)
}

func (m *kafkaMessage) Timestamp() time.Time { return m.msg.Time }

func (m *kafkaMessage) Ack(ctx context.Context) error {
	if !m.claim() {
		return nil
	}
	return m.reader.CommitMessages(ctx, m.msg)
}

// Nack leaves the offset uncommitted so the group redelivers after a rebalance.
func (m *kafkaMessage) Nack(context.Context) error {
	m.claim()
	return nil
}
