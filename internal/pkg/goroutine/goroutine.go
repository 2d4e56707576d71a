// Package goroutine runs background work under a shared concurrency cap.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/followup/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 100

// ErrPanic is joined into Wait's result for every recovered panic.
var ErrPanic = errors.New("goroutine panicked")

// Manager runs functions in goroutines with a configurable concurrency limit.
//
// Errors returned by tasks are collected and surfaced by Wait. After Wait is
// called no new work is accepted.
type Manager struct {
	wg   sync.WaitGroup
	sema chan struct{}

	mu     sync.Mutex
	errs   []error
	closed bool
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go schedules f and reports whether it was started. It refuses work when the
// manager is closed or already at its limit.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) bool {
	if g == nil {
		return false
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		slog.WarnContext(ctx, "goroutine manager is closed, skipping new goroutine")
		return false
	}

	select {
	case g.sema <- struct{}{}:
	default:
		g.mu.Unlock()
		slog.WarnContext(ctx, "maximum goroutine limit reached, failed to start new goroutine")
		return false
	}
	g.wg.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()
		defer func() { <-g.sema }()
		defer g.recover(ctx)

		if err := ctx.Err(); err != nil {
			slog.WarnContext(ctx, "goroutine canceled", "because", err)
			return
		}

		if err := f(ctx); err != nil {
			g.collect(err)
		}
	}()

	return true
}

func (g *Manager) recover(ctx context.Context) {
	rvr := recover()
	if rvr == nil {
		return
	}

	stack := debug.Stack()
	if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
		slog.ErrorContext(ctx, "panic occurred in goroutine", "because", rvr, "stack", paths)
	} else {
		slog.ErrorContext(ctx, "panic occurred in goroutine", "because", rvr, "stack", string(stack))
	}
	g.collect(ErrPanic)
}

func (g *Manager) collect(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// Wait closes the manager, blocks until every scheduled goroutine finishes
// and returns the collected errors joined together.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
