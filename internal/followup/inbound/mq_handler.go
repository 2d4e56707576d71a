package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/followup/internal/followup/usecase"
	"github.com/shandysiswandi/followup/internal/pkg/instrument"
	"github.com/shandysiswandi/followup/internal/pkg/messaging"
	"github.com/shandysiswandi/followup/internal/pkg/uid"
	"github.com/shandysiswandi/followup/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   ucConsumer
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := messaging.HeaderValue(msg, keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) ReportRequested(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("followup.inbound.mq").Start(ctx, "ReportRequested")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: followup report requested", "msg_body", string(body))

	var payload event.FollowupReportRequestedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of followup report requested", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeReportRequest(ctx, usecase.ConsumeReportRequestInput{
		Variant: payload.Variant,
		Date:    payload.Date,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume followup report requested", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
