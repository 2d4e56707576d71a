package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/followup/internal/followup/entity"
)

type ConsumeReportRequestInput struct {
	Variant string `validate:"required,oneof=daily_per_user daily_summary"`
	Date    string `validate:"omitempty,datetime=2006-01-02"`
}

// ConsumeReportRequest runs a daily preset on request, for today or for a
// given date. It shares the dedup key of the scheduled run, so replaying a
// day that already went out is a no-op.
func (s *Usecase) ConsumeReportRequest(ctx context.Context, in ConsumeReportRequestInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeReportRequest")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	day := s.today()
	if in.Date != "" {
		d, err := time.ParseInLocation(entity.DateLayout, in.Date, s.settings.Location)
		if err != nil {
			slog.ErrorContext(ctx, "invalid report date", "date", in.Date, "error", err)
			return nil
		}
		day = d
	}

	v, _ := entity.VariantFromString(in.Variant)
	if err := s.runDaily(ctx, v, day); err != nil {
		slog.ErrorContext(ctx, "requested report failed", "variant", v, "date", day.Format(entity.DateLayout), "error", err)
	}

	return nil
}
