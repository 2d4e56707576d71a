package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/followup/internal/pkg/clock"
	"github.com/shandysiswandi/followup/internal/pkg/goerror"
	"github.com/shandysiswandi/followup/internal/pkg/instrument"
	"github.com/shandysiswandi/followup/internal/pkg/uid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultBatchSize = 500

type DB struct {
	conn      *pgxpool.Pool
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
	batchSize int
}

func NewDB(conn *pgxpool.Pool, uid uid.NumberID, clk clock.Clocker, ins instrument.Instrumentation) *DB {
	return &DB{
		conn:      conn,
		uid:       uid,
		clock:     clk,
		ins:       ins,
		batchSize: defaultBatchSize,
	}
}

// - 23505 unique violation → goerror.ErrConflict
// - anything else is passed through and recorded on the span
func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("followup.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
