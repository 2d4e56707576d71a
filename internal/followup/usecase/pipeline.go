package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/followup/internal/followup/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// Run executes one pass of p for the day starting at today. Per-user mails
// are written while scanning, so a store error leaves earlier mails in place.
func (s *Usecase) Run(ctx context.Context, p entity.Pipeline, today time.Time) (_ entity.RunResult, err error) {
	ctx, span := s.startSpan(ctx, "Run")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("followup.variant", string(p.Variant)),
		attribute.String("followup.date", today.Format(entity.DateLayout)),
	)

	res := entity.RunResult{Variant: p.Variant}
	var groups [][]entity.DueItem

	stats, err := s.scan(ctx, today, p, func(user entity.UserRecord, items []entity.DueItem) error {
		if p.FanOut == entity.FanOutPerUser {
			return s.deliver(ctx, p, today, user.Email, items, &res)
		}
		groups = append(groups, items)
		return nil
	})
	res.Skipped = stats.Skipped
	if err != nil {
		slog.ErrorContext(ctx, "pipeline run aborted", "variant", p.Variant, "mails_written", res.Mails, "error", err)
		return res, err
	}

	if p.FanOut == entity.FanOutCentral {
		if items := Aggregate(groups, p.Sorted); len(items) > 0 {
			if err := s.deliver(ctx, p, today, s.settings.CentralRecipient, items, &res); err != nil {
				return res, err
			}
		}
	}

	if res.Mails == 0 {
		slog.InfoContext(ctx, "nothing to report", "variant", p.Variant, "users", stats.Users, "skipped", stats.Skipped)
		return res, nil
	}

	slog.InfoContext(ctx, "follow-up report queued",
		"variant", p.Variant,
		"users", stats.Users,
		"skipped", stats.Skipped,
		"items", res.Items,
		"mails", res.Mails,
	)

	return res, nil
}

// deliver formats items, appends the mail document and runs the best-effort
// follow-ups for it.
func (s *Usecase) deliver(
	ctx context.Context,
	p entity.Pipeline,
	today time.Time,
	to string,
	items []entity.DueItem,
	res *entity.RunResult,
) error {
	subject, html, err := s.formatter.Format(p, items)
	if err != nil {
		slog.ErrorContext(ctx, "failed to format report", "variant", p.Variant, "error", err)
		return err
	}

	id, err := s.repoStore.AppendMail(ctx, entity.MailDocument{
		To:      to,
		Message: entity.MailMessage{Subject: subject, HTML: html},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo append mail", "variant", p.Variant, "to", to, "error", err)
		return err
	}

	res.Mails++
	res.Items += len(items)
	res.MailIDs = append(res.MailIDs, id)
	s.count(ctx, s.mailAppended, 1, p.Variant)
	s.count(ctx, s.itemsReported, len(items), p.Variant)

	s.publishQueued(ctx, entity.MailQueued{
		MailID:    id,
		To:        to,
		Variant:   p.Variant,
		ItemCount: len(items),
		Date:      today.Format(entity.DateLayout),
	})
	s.archive(ctx, p.Variant, today, id, html)

	return nil
}

func (s *Usecase) publishQueued(ctx context.Context, msg entity.MailQueued) {
	if s.repoEvent == nil {
		return
	}
	if err := s.repoEvent.PublishMailQueued(ctx, msg); err != nil {
		slog.WarnContext(ctx, "failed to publish mail queued event", "mail_id", msg.MailID, "error", err)
	}
}

func (s *Usecase) archive(ctx context.Context, v entity.Variant, today time.Time, mailID, html string) {
	if s.repoArchive == nil {
		return
	}
	key, err := s.repoArchive.ArchiveReport(ctx, v, today, html)
	if err != nil {
		slog.WarnContext(ctx, "failed to archive report", "mail_id", mailID, "error", err)
		return
	}
	slog.DebugContext(ctx, "report archived", "mail_id", mailID, "key", key)
}

func (s *Usecase) count(ctx context.Context, c metric.Int64Counter, n int, v entity.Variant) {
	if c == nil {
		return
	}
	c.Add(ctx, int64(n), metric.WithAttributes(attribute.String("variant", string(v))))
}
