// Package mongo stores follow-ups in MongoDB using the document shape of the
// Firebase trigger-email extension: users carry embedded customers and every
// mail document is {to, message:{subject, html}}.
package mongo

import (
	"context"
	"errors"

	"github.com/shandysiswandi/followup/internal/pkg/goerror"
	"github.com/shandysiswandi/followup/internal/pkg/instrument"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultBatchSize int32 = 500

type Mongo struct {
	users     *mongo.Collection
	mail      *mongo.Collection
	ins       instrument.Instrumentation
	batchSize int32
}

type Config struct {
	UsersCollection string
	MailCollection  string
}

func NewMongo(db *mongo.Database, cfg Config, ins instrument.Instrumentation) *Mongo {
	if cfg.UsersCollection == "" {
		cfg.UsersCollection = "users"
	}
	if cfg.MailCollection == "" {
		cfg.MailCollection = "mail"
	}

	return &Mongo{
		users:     db.Collection(cfg.UsersCollection),
		mail:      db.Collection(cfg.MailCollection),
		ins:       ins,
		batchSize: defaultBatchSize,
	}
}

func (m *Mongo) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return goerror.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return goerror.ErrConflict
	}

	return err
}

func (m *Mongo) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return m.ins.Tracer("followup.outbound.mongo").Start(ctx, name)
}

func (m *Mongo) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
