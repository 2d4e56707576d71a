package inbound

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/followup/internal/followup/usecase"
	"github.com/shandysiswandi/followup/internal/pkg/config"
	"github.com/shandysiswandi/followup/internal/pkg/goroutine"
	"github.com/shandysiswandi/followup/internal/pkg/instrument"
	"github.com/shandysiswandi/followup/internal/pkg/messaging"
	"github.com/shandysiswandi/followup/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(uc *fakeUC) *MQHandler {
	return &MQHandler{uc: uc, uuid: stubUUID{}, ins: instrument.NewNoop()}
}

func TestReportRequested(t *testing.T) {
	uc := &fakeUC{}
	h := newHandler(uc)

	err := h.ReportRequested(context.Background(), &fakeMessage{
		body:    []byte(`{"variant":"daily_summary","date":"2024-01-15"}`),
		headers: []messaging.Header{{Key: "cID", Value: []byte("cid-from-producer")}},
	})
	require.NoError(t, err)

	assert.Equal(t, []usecase.ConsumeReportRequestInput{{Variant: "daily_summary", Date: "2024-01-15"}}, uc.consumed)
	assert.Equal(t, "cid-from-producer", instrument.GetCorrelationID(uc.ctxs[0]))
}

func TestReportRequested_GeneratesCorrelationID(t *testing.T) {
	uc := &fakeUC{}
	require.NoError(t, newHandler(uc).ReportRequested(context.Background(), &fakeMessage{body: []byte(`{"variant":"daily_per_user"}`)}))
	assert.Equal(t, "generated-cid", instrument.GetCorrelationID(uc.ctxs[0]))
}

func TestReportRequested_BadBodyIsDropped(t *testing.T) {
	uc := &fakeUC{}
	require.NoError(t, newHandler(uc).ReportRequested(context.Background(), &fakeMessage{body: []byte(`{not json`)}))
	assert.Empty(t, uc.consumed)
}

func TestReportRequested_UsecaseError(t *testing.T) {
	boom := errors.New("boom")
	uc := &fakeUC{consumeFn: func(context.Context) error { return boom }}
	assert.ErrorIs(t, newHandler(uc).ReportRequested(context.Background(), &fakeMessage{body: []byte(`{"variant":"daily_summary"}`)}), boom)
}

type consumeCall struct {
	source  string
	handler messaging.Handler
}

type fakeConsumer struct {
	mu    sync.Mutex
	calls []consumeCall
	ready chan struct{}
}

func (f *fakeConsumer) Consume(ctx context.Context, source string, handler messaging.Handler, _ ...messaging.ConsumeOption) error {
	f.mu.Lock()
	f.calls = append(f.calls, consumeCall{source: source, handler: handler})
	f.mu.Unlock()
	close(f.ready)

	<-ctx.Done()
	return nil
}

func TestRegisterMQConsumer(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  followup:\n    consumer_names: followup_report_requested_followup\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	routine := goroutine.NewManager(2)
	consumer := &fakeConsumer{ready: make(chan struct{})}
	uc := &fakeUC{}

	RegisterMQConsumer(ctx, cfg, routine, consumer, stubUUID{}, uc, instrument.NewNoop())

	select {
	case <-consumer.ready:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer was not started")
	}

	cancel()
	require.NoError(t, routine.Wait())

	require.Len(t, consumer.calls, 1)
	assert.Equal(t, event.FollowupReportRequestedDestination, consumer.calls[0].source)

	require.NoError(t, consumer.calls[0].handler(context.Background(), &fakeMessage{body: []byte(`{"variant":"daily_summary"}`)}))
	assert.Len(t, uc.consumed, 1)
}

func TestRegisterMQConsumer_Disabled(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  followup:\n    consumer_names: \"\"\n"))
	require.NoError(t, err)

	routine := goroutine.NewManager(2)
	consumer := &fakeConsumer{ready: make(chan struct{})}

	RegisterMQConsumer(context.Background(), cfg, routine, consumer, stubUUID{}, &fakeUC{}, instrument.NewNoop())
	require.NoError(t, routine.Wait())
	assert.Empty(t, consumer.calls)
}
