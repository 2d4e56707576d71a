package inbound

import (
	"context"

	"github.com/shandysiswandi/followup/internal/pkg/config"
	"github.com/shandysiswandi/followup/internal/pkg/scheduler"
)

const (
	DailyRemindersJob = "followup.daily_reminders"
	defaultDailyCron  = "0 8 * * *"
)

type jobRegistrar interface {
	Register(name, spec string, job scheduler.Job) error
}

// RegisterCronJob schedules the daily reminders at followup.schedule.cron,
// 08:00 when unset. The scheduler owns the time zone.
func RegisterCronJob(s jobRegistrar, cfg config.Config, uc ucScheduled) error {
	spec := cfg.GetString("followup.schedule.cron")
	if spec == "" {
		spec = defaultDailyCron
	}

	return s.Register(DailyRemindersJob, spec, func(ctx context.Context) error {
		uc.RunDailyReminders(ctx)
		return nil
	})
}
