package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"

	"github.com/shandysiswandi/followup/internal/pkg/stacktrace"
)

// ackOnce makes Ack and Nack idempotent across handler and auto-ack.
type ackOnce struct {
	responded atomic.Bool
}

func (a *ackOnce) claim() bool { return !a.responded.Swap(true) }

func (a *ackOnce) done() bool { return a.responded.Load() }

type respondable interface {
	Message
	done() bool
}

// dispatch runs handler with panic recovery and applies auto-ack. The returned
// error is the ack/nack failure, never the handler error.
func dispatch(ctx context.Context, kind string, msg respondable, handler Handler, autoAck bool) error {
	herr := callWithRecover(ctx, kind, func() error { return handler(ctx, msg) })
	if herr != nil {
		slog.WarnContext(ctx, "messaging handler returned error", "kind", kind, "id", msg.ID(), "error", herr)
	}

	if msg.done() || !autoAck {
		return nil
	}
	if herr == nil {
		return msg.Ack(ctx)
	}
	return msg.Nack(ctx)
}

func callWithRecover(ctx context.Context, kind string, fn func() error) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}

		stack := debug.Stack()
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", paths)
		} else {
			slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", string(stack))
		}
		err = fmt.Errorf("messaging: panic in %s handler: %v", kind, rvr)
	}()

	return fn()
}

func concurrencyOrDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
