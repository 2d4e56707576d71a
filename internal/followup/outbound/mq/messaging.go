package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/followup/internal/followup/entity"
	"github.com/shandysiswandi/followup/internal/pkg/instrument"
	"github.com/shandysiswandi/followup/internal/pkg/messaging"
	"github.com/shandysiswandi/followup/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishMailQueued(ctx context.Context, msg entity.MailQueued) error {
	ctx, span := m.ins.Tracer("followup.outbound.mq").Start(ctx, "PublishMailQueued")
	defer span.End()

	body, err := json.Marshal(event.FollowupMailQueuedMessage{
		MailID:    msg.MailID,
		To:        msg.To,
		Variant:   string(msg.Variant),
		ItemCount: msg.ItemCount,
		Date:      msg.Date,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.FollowupMailQueuedDestination, messaging.OutgoingMessage{
		Body:        body,
		Key:         []byte(msg.MailID),
		OrderingKey: string(msg.Variant),
		Headers:     []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
