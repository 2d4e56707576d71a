package messaging

import (
	"context"
	"log/slog"
	"time"
)

// Noop discards published messages and never delivers any. It backs the
// empty driver so publishing stays best effort when no broker is configured.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) Publish(ctx context.Context, destination string, _ OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	slog.DebugContext(ctx, "messaging disabled, message dropped", "destination", destination)
	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

func (*Noop) Consume(ctx context.Context, _ string, _ Handler, _ ...ConsumeOption) error {
	<-ctx.Done()
	return ctx.Err()
}

func (*Noop) Close() error { return nil }
