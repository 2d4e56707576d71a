// Package idempotency guards an operation with a redis-backed state key so it
// runs at most once per key within the configured TTL.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAlreadyInProgress = errors.New("operation already in progress")
	ErrAlreadyCompleted  = errors.New("operation already completed")
	ErrAlreadyFailed     = errors.New("operation already failed")
	ErrInvalidState      = errors.New("invalid state")
	// ErrUnavailable wraps redis failures while acquiring a key; fn did not run.
	ErrUnavailable = errors.New("idempotency store unavailable")
)

type State string

const (
	StateNone       State = "none"        // operation can proceed
	StateInProgress State = "in_progress" // operation already in progress
	StateCompleted  State = "completed"   // operation already completed
	StateFailed     State = "failed"      // previous operation failed
	StateError      State = "error"       // state lookup itself failed
)

func (s State) String() string {
	return string(s)
}

// Skipped reports whether err means fn was not run because another attempt
// owns or already finished the key.
func Skipped(err error) bool {
	return errors.Is(err, ErrAlreadyInProgress) ||
		errors.Is(err, ErrAlreadyCompleted) ||
		errors.Is(err, ErrAlreadyFailed)
}

type keepFailedError struct{ err error }

func (e keepFailedError) Error() string { return e.err.Error() }
func (e keepFailedError) Unwrap() error { return e.err }

// KeepFailed marks err so Exec records the key as failed even with
// WithReleaseOnFailure, for failures that already had side effects.
func KeepFailed(err error) error {
	if err == nil {
		return nil
	}
	return keepFailedError{err: err}
}

type Idempotency interface {
	Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error)
	MarkCompleted(ctx context.Context, key string, ttl time.Duration) error
	MarkFailed(ctx context.Context, key string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

// StateTracker implements Idempotency on top of redis SETNX.
type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

// TrackerOption configures a StateTracker.
type TrackerOption func(*StateTracker)

// WithPrefix namespaces every key. The default is "idempotency:".
func WithPrefix(prefix string) TrackerOption {
	return func(s *StateTracker) {
		s.prefix = prefix
	}
}

func New(client redis.UniversalClient, opts ...TrackerOption) *StateTracker {
	s := &StateTracker{client: client, prefix: "idempotency:"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = time.Minute
)

type Option func(*execOptions)

type execOptions struct {
	lockDuration     time.Duration
	stateTTL         time.Duration
	releaseOnFailure bool
}

// WithLockDuration bounds how long an in-progress marker survives a crashed run.
func WithLockDuration(lockDuration time.Duration) Option {
	return func(o *execOptions) {
		o.lockDuration = lockDuration
	}
}

// WithStateTTL sets how long the completed or failed marker is kept.
func WithStateTTL(stateTTL time.Duration) Option {
	return func(o *execOptions) {
		o.stateTTL = stateTTL
	}
}

// WithReleaseOnFailure deletes the key when fn fails so the next trigger retries.
func WithReleaseOnFailure() Option {
	return func(o *execOptions) {
		o.releaseOnFailure = true
	}
}

// Acquire tries to start an operation.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	fk := s.prefix + key

	acquired, err := s.client.SetNX(ctx, fk, StateInProgress.String(), lockDuration).Result()
	if err != nil {
		return StateError, err
	}
	if acquired {
		return StateNone, nil
	}

	result, err := s.client.Get(ctx, fk).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		acquired, err = s.client.SetNX(ctx, fk, StateInProgress.String(), lockDuration).Result()
		if err != nil {
			return StateError, err
		}
		if acquired {
			return StateNone, nil
		}
		return StateError, ErrInvalidState
	}
	if err != nil {
		return StateError, err
	}

	switch State(result) {
	case StateInProgress, StateCompleted, StateFailed:
		return State(result), nil
	default:
		return StateError, ErrInvalidState
	}
}

func (s *StateTracker) MarkCompleted(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, StateCompleted.String(), ttl).Err()
}

func (s *StateTracker) MarkFailed(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, StateFailed.String(), ttl).Err()
}

func (s *StateTracker) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Exec runs fn unless key is already in progress, completed or failed.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := &execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(o)
	}
	if o.lockDuration <= 0 {
		o.lockDuration = defaultLockDuration
	}
	if o.stateTTL <= 0 {
		o.stateTTL = defaultStateTTL
	}

	state, err := s.Acquire(ctx, key, o.lockDuration)
	if err != nil {
		if errors.Is(err, ErrInvalidState) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	switch state {
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	case StateFailed:
		return ErrAlreadyFailed
	}

	if err := fn(ctx); err != nil {
		var (
			markErr error
			keep    keepFailedError
		)
		if o.releaseOnFailure && !errors.As(err, &keep) {
			markErr = s.Release(ctx, key)
		} else {
			markErr = s.MarkFailed(ctx, key, o.stateTTL)
		}
		return errors.Join(err, markErr)
	}

	return s.MarkCompleted(ctx, key, o.stateTTL)
}
