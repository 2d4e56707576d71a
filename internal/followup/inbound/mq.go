package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/followup/internal/pkg/config"
	"github.com/shandysiswandi/followup/internal/pkg/goroutine"
	"github.com/shandysiswandi/followup/internal/pkg/instrument"
	"github.com/shandysiswandi/followup/internal/pkg/messaging"
	"github.com/shandysiswandi/followup/internal/pkg/uid"
	"github.com/shandysiswandi/followup/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Consumer,
	uuid uid.StringID,
	uc ucConsumer,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.followup.consumer_names")

	var consumers = []struct {
		name               string
		topic              string // destination where publisher sent message
		nsqConsumerName    string // for nsq
		natsConsumerName   string // for nats
		kafkaConsumerName  string // for kafka
		pubsubConsumerName string // for google pubsub
		handler            messaging.Handler
	}{
		{
			name:               event.FollowupReportRequestedConsumerFollowup,
			topic:              event.FollowupReportRequestedDestination,
			nsqConsumerName:    event.FollowupReportRequestedConsumerFollowup,
			natsConsumerName:   event.FollowupReportRequestedConsumerFollowup,
			kafkaConsumerName:  event.FollowupReportRequestedConsumerFollowup,
			pubsubConsumerName: event.FollowupReportRequestedConsumerFollowup,
			handler:            mqHandler.ReportRequested,
		},
	}

	for _, consumer := range consumers {
		if !slices.Contains(enableConsumerNames, consumer.name) {
			continue
		}

		ok := routine.Go(ctx, func(pCtx context.Context) error {
			slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
			return messenger.Consume(pCtx,
				consumer.topic,
				consumer.handler,
				messaging.WithChannel(consumer.nsqConsumerName),
				messaging.WithQueueGroup(consumer.natsConsumerName),
				messaging.WithGroup(consumer.kafkaConsumerName),
				messaging.WithSubscription(consumer.pubsubConsumerName),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(1),
				messaging.WithMaxInFlight(1),
			)
		})
		if !ok {
			slog.ErrorContext(ctx, "failed to start consumer", "consumer", consumer.name)
		}
	}
}
