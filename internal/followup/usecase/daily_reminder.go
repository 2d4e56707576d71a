package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/followup/internal/followup/entity"
	"github.com/shandysiswandi/followup/internal/pkg/idempotency"
)

// RunDailyReminders is the scheduled tick. Every configured daily preset runs
// for today; failures are logged and never returned.
func (s *Usecase) RunDailyReminders(ctx context.Context) {
	ctx, span := s.startSpan(ctx, "RunDailyReminders")
	defer span.End()

	today := s.today()
	for _, v := range s.settings.DailyVariants {
		if err := s.runDaily(ctx, v, today); err != nil {
			slog.ErrorContext(ctx, "daily reminder run failed", "variant", v, "date", today.Format(entity.DateLayout), "error", err)
		}
	}
}

// runDaily runs a daily preset at most once per date when dedup is configured.
func (s *Usecase) runDaily(ctx context.Context, v entity.Variant, today time.Time) error {
	p, ok := v.Pipeline()
	if !ok || !v.Daily() {
		slog.ErrorContext(ctx, "not a daily preset", "variant", v)
		return nil
	}

	run := func(ctx context.Context) error {
		res, err := s.Run(ctx, p, today)
		if err != nil && res.Mails > 0 {
			// some recipients already got mail; a same-day replay must not resend
			return idempotency.KeepFailed(err)
		}
		return err
	}

	if s.dedup == nil {
		return run(ctx)
	}

	key := string(v) + ":" + today.Format(entity.DateLayout)
	err := s.dedup.Exec(ctx, key, run,
		idempotency.WithLockDuration(s.settings.DedupLock),
		idempotency.WithStateTTL(s.settings.DedupTTL),
		idempotency.WithReleaseOnFailure(),
	)
	if idempotency.Skipped(err) {
		slog.InfoContext(ctx, "daily reminder already handled", "variant", v, "key", key, "reason", err.Error())
		return nil
	}
	if errors.Is(err, idempotency.ErrUnavailable) {
		slog.WarnContext(ctx, "dedup marker unavailable, running unguarded", "variant", v, "key", key, "error", err)
		return run(ctx)
	}

	return err
}
