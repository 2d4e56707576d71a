// Package scheduler runs named jobs on cron expressions in a fixed time zone.
//
// Each tick gets its own correlation id so the logs of one run can be
// followed across the use case and its adapters.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shandysiswandi/followup/internal/pkg/instrument"
	"github.com/shandysiswandi/followup/internal/pkg/stacktrace"
	"github.com/shandysiswandi/followup/internal/pkg/uid"
)

var (
	// ErrDuplicateJob is returned when a job name is registered twice.
	ErrDuplicateJob = errors.New("scheduler: job already registered")
	// ErrUnknownJob is returned by Trigger for a name that was never registered.
	ErrUnknownJob = errors.New("scheduler: unknown job")
)

// Job is a unit of scheduled work. Its error is logged, never retried.
type Job func(ctx context.Context) error

// Entry describes a registered job.
type Entry struct {
	Name string
	Spec string
	Next time.Time
}

// Scheduler wraps robfig/cron with context propagation and panic recovery.
type Scheduler struct {
	cron *cron.Cron
	loc  *time.Location
	uuid uid.StringID

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	entries map[string]cron.EntryID
	specs   map[string]string
}

// New creates a scheduler evaluating expressions in loc (nil means time.Local).
func New(loc *time.Location, gen uid.StringID) *Scheduler {
	if loc == nil {
		loc = time.Local
	}

	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn))
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(logger)),
		),
		loc:     loc,
		uuid:    gen,
		ctx:     ctx,
		cancel:  cancel,
		entries: map[string]cron.EntryID{},
		specs:   map[string]string{},
	}
}

// Register adds job under name. spec is a standard five field expression or a
// descriptor such as "@daily".
func (s *Scheduler) Register(name, spec string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	id, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("scheduler: invalid spec %q for %s: %w", spec, name, err)
	}

	s.entries[name] = id
	s.specs[name] = spec
	slog.Info("scheduled job registered", "job", name, "spec", spec, "tz", s.loc.String())
	return nil
}

// Trigger runs the named job synchronously, outside its schedule.
func (s *Scheduler) Trigger(name string) error {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	s.cron.Entry(id).WrappedJob.Run()
	return nil
}

// Entries lists registered jobs with their next activation.
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().In(s.loc)
	out := make([]Entry, 0, len(s.entries))
	for name, id := range s.entries {
		out = append(out, Entry{Name: name, Spec: s.specs[name], Next: s.cron.Entry(id).Schedule.Next(now)})
	}
	return out
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new ticks, cancels the context handed to running jobs and
// waits for them to return or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(name string, job Job) {
	ctx := s.ctx
	if s.uuid != nil {
		ctx = instrument.SetCorrelationID(ctx, s.uuid.Generate())
	}
	start := time.Now()

	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic in scheduled job", "job", name, "because", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic in scheduled job", "job", name, "because", rvr, "stack", string(stack))
			}
		}
	}()

	if err := job(ctx); err != nil {
		slog.ErrorContext(ctx, "scheduled job failed", "job", name, "error", err, "latency_ms", time.Since(start).Milliseconds())
		return
	}
	slog.InfoContext(ctx, "scheduled job finished", "job", name, "latency_ms", time.Since(start).Milliseconds())
}

// NextRun returns the first activation of spec strictly after from, in loc.
func NextRun(spec string, loc *time.Location, from time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	return sched.Next(from.In(loc)), nil
}
