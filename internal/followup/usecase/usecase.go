package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/followup/internal/followup/entity"
	"github.com/shandysiswandi/followup/internal/pkg/clock"
	"github.com/shandysiswandi/followup/internal/pkg/idempotency"
	"github.com/shandysiswandi/followup/internal/pkg/instrument"
	"github.com/shandysiswandi/followup/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type repoStore interface {
	// ScanUsers calls fn once per user in a stable enumeration order and stops
	// at the first error.
	ScanUsers(ctx context.Context, fn func(entity.UserRecord) error) error
	AppendMail(ctx context.Context, doc entity.MailDocument) (string, error)
}

type repoEvent interface {
	PublishMailQueued(ctx context.Context, msg entity.MailQueued) error
}

type repoArchive interface {
	ArchiveReport(ctx context.Context, variant entity.Variant, date time.Time, html string) (string, error)
}

type dedup interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...idempotency.Option) error
}

type Usecase struct {
	repoStore   repoStore
	repoEvent   repoEvent
	repoArchive repoArchive
	dedup       dedup
	settings    Settings
	clock       clock.Clocker
	validator   validator.Validator
	ins         instrument.Instrumentation
	formatter   *Formatter

	itemsReported metric.Int64Counter
	mailAppended  metric.Int64Counter
	usersSkipped  metric.Int64Counter
}

type Dependency struct {
	RepoStore   repoStore
	RepoEvent   repoEvent
	RepoArchive repoArchive
	Dedup       dedup
	Settings    Settings
	Clock       clock.Clocker
	Validator   validator.Validator
	Instrument  instrument.Instrumentation
}

func NewFollowup(dep Dependency) (*Usecase, error) {
	if dep.RepoStore == nil {
		return nil, errors.New("followup: store is required")
	}
	if dep.Settings.CentralRecipient == "" {
		return nil, errors.New("followup: central recipient is required")
	}

	settings := dep.Settings
	if settings.Location == nil {
		settings.Location = time.Local
	}

	formatter, err := NewFormatter(settings.EscapeValues)
	if err != nil {
		return nil, err
	}

	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}
	meter := ins.Meter("followup.usecase")

	return &Usecase{
		repoStore:   dep.RepoStore,
		repoEvent:   dep.RepoEvent,
		repoArchive: dep.RepoArchive,
		dedup:       dep.Dedup,
		settings:    settings,
		clock:       dep.Clock,
		validator:   dep.Validator,
		ins:         ins,
		formatter:   formatter,

		itemsReported: instrument.Int64Counter(meter, "followup.items.reported", "Follow-up items included in a queued mail"),
		mailAppended:  instrument.Int64Counter(meter, "followup.mail.appended", "Mail documents appended to the mail collection"),
		usersSkipped:  instrument.Int64Counter(meter, "followup.users.skipped", "Users skipped for having no email"),
	}, nil
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("followup.usecase").Start(ctx, name)
}

// today returns midnight of the current day in the deployment location.
func (s *Usecase) today() time.Time {
	return clock.StartOfDay(s.clock.Now(), s.settings.Location)
}
