package inbound

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/followup/internal/pkg/config"
	"github.com/shandysiswandi/followup/internal/pkg/instrument"
	"github.com/shandysiswandi/followup/internal/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registered struct {
	name, spec string
	job        scheduler.Job
}

type fakeRegistrar struct {
	jobs []registered
}

func (f *fakeRegistrar) Register(name, spec string, job scheduler.Job) error {
	f.jobs = append(f.jobs, registered{name: name, spec: spec, job: job})
	return nil
}

func TestRegisterCronJob_DefaultSpec(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte("followup:\n  central_recipient: boss@example.com\n"))
	require.NoError(t, err)

	reg := &fakeRegistrar{}
	uc := &fakeUC{}
	require.NoError(t, RegisterCronJob(reg, cfg, uc))

	require.Len(t, reg.jobs, 1)
	assert.Equal(t, DailyRemindersJob, reg.jobs[0].name)
	assert.Equal(t, "0 8 * * *", reg.jobs[0].spec)

	require.NoError(t, reg.jobs[0].job(context.Background()))
	assert.Equal(t, 1, uc.ticks)
}

func TestRegisterCronJob_WithScheduler(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte("followup:\n  schedule:\n    cron: \"30 7 * * 1-5\"\n"))
	require.NoError(t, err)

	s := scheduler.New(time.UTC, stubUUID{})
	uc := &fakeUC{}
	require.NoError(t, RegisterCronJob(s, cfg, uc))

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "30 7 * * 1-5", entries[0].Spec)
	assert.Equal(t, 7, entries[0].Next.Hour())
	assert.Equal(t, 30, entries[0].Next.Minute())

	require.NoError(t, s.Trigger(DailyRemindersJob))
	assert.Equal(t, 1, uc.ticks)
	assert.Equal(t, "generated-cid", instrument.GetCorrelationID(uc.ctxs[0]))

	assert.ErrorIs(t, RegisterCronJob(s, cfg, uc), scheduler.ErrDuplicateJob)
}

func TestRegisterCronJob_InvalidSpec(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte("followup:\n  schedule:\n    cron: \"every day\"\n"))
	require.NoError(t, err)

	assert.Error(t, RegisterCronJob(scheduler.New(time.UTC, stubUUID{}), cfg, &fakeUC{}))
}
