package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/followup/internal/followup/entity"
	"github.com/shandysiswandi/followup/internal/pkg/goerror"
)

// OverdueReport sends every follow-up past its due date to the central
// recipient. Only authenticated callers may run it.
func (s *Usecase) OverdueReport(ctx context.Context) (*entity.ReportResult, error) {
	ctx, span := s.startSpan(ctx, "OverdueReport")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	p, _ := entity.VariantOverdueReport.Pipeline()
	res, err := s.Run(ctx, p, s.today())
	if err != nil {
		slog.ErrorContext(ctx, "failed to run overdue report", "requested_by", clm.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if res.Items == 0 {
		return &entity.ReportResult{Success: true, Message: "No overdue follow-ups found."}, nil
	}

	return &entity.ReportResult{
		Success: true,
		Message: fmt.Sprintf("Reported %d overdue follow-up(s) to %s.", res.Items, s.settings.CentralRecipient),
	}, nil
}
