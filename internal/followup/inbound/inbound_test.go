package inbound

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/followup/internal/followup/entity"
	"github.com/shandysiswandi/followup/internal/followup/usecase"
	"github.com/shandysiswandi/followup/internal/pkg/messaging"
)

type fakeUC struct {
	mu sync.Mutex

	report    *entity.ReportResult
	reportErr error
	consumed  []usecase.ConsumeReportRequestInput
	consumeFn func(ctx context.Context) error
	ticks     int
	ctxs      []context.Context
}

func (f *fakeUC) OverdueReport(ctx context.Context) (*entity.ReportResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxs = append(f.ctxs, ctx)
	return f.report, f.reportErr
}

func (f *fakeUC) RunDailyReminders(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks++
	f.ctxs = append(f.ctxs, ctx)
}

func (f *fakeUC) ConsumeReportRequest(ctx context.Context, in usecase.ConsumeReportRequestInput) error {
	f.mu.Lock()
	f.consumed = append(f.consumed, in)
	f.ctxs = append(f.ctxs, ctx)
	fn := f.consumeFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return nil
}

type stubUUID struct{}

func (stubUUID) Generate() string { return "generated-cid" }

type fakeMessage struct {
	body    []byte
	headers []messaging.Header
}

func (m *fakeMessage) Body() []byte                { return m.body }
func (m *fakeMessage) Headers() []messaging.Header { return m.headers }
func (m *fakeMessage) ID() string                  { return "m-1" }
func (m *fakeMessage) Timestamp() time.Time        { return time.Time{} }
func (m *fakeMessage) Ack(context.Context) error   { return nil }
func (m *fakeMessage) Nack(context.Context) error  { return nil }
