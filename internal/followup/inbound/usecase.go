package inbound

import (
	"context"

	"github.com/shandysiswandi/followup/internal/followup/entity"
	"github.com/shandysiswandi/followup/internal/followup/usecase"
)

type ucConsumer interface {
	ConsumeReportRequest(ctx context.Context, in usecase.ConsumeReportRequestInput) error
}

type ucScheduled interface {
	RunDailyReminders(ctx context.Context)
}

type uc interface {
	ucConsumer
	ucScheduled

	OverdueReport(ctx context.Context) (*entity.ReportResult, error)
}
