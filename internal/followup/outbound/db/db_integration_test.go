package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/followup/internal/followup/entity"
	"github.com/shandysiswandi/followup/internal/pkg/clock"
	"github.com/shandysiswandi/followup/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

type seqID struct{ n int64 }

func (s *seqID) Generate() int64 {
	s.n++
	return s.n
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("followup"),
		tcpostgres.WithUsername("followup"),
		tcpostgres.WithPassword("followup"),
		tcpostgres.WithInitScripts(filepath.Join("..", "..", "..", "..", "migrations", "0001_followup.sql")),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func TestDB_ScanUsersAndAppendMail(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
INSERT INTO followup_users (id, email, customers) VALUES
 ('u3', 'c@x.com', '[{"name":"Fay","address":"7 Hill","dueDate":"2024-02-01"}]'),
 ('u1', 'a@x.com', '[{"name":"Bob","address":"1 Main St","dueDate":"2024-02-01"},{"name":"Dan","address":"3 Elm","dueDate":"2024-01-01"}]'),
 ('u2', NULL, '[{"name":"Carl","address":"2 Oak Rd","dueDate":"2024-02-01"}]')`)
	require.NoError(t, err)

	now := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	s := NewDB(pool, &seqID{n: 100}, clock.NewFixed(now), instrument.NewNoop())
	s.batchSize = 2

	var got []entity.UserRecord
	require.NoError(t, s.ScanUsers(ctx, func(u entity.UserRecord) error {
		got = append(got, u)
		return nil
	}))

	require.Len(t, got, 3)
	assert.Equal(t, entity.UserRecord{ID: "u1", Email: "a@x.com", Customers: []entity.CustomerRecord{
		{Name: "Bob", Address: "1 Main St", DueDate: "2024-02-01"},
		{Name: "Dan", Address: "3 Elm", DueDate: "2024-01-01"},
	}}, got[0])
	assert.Equal(t, "u2", got[1].ID)
	assert.Empty(t, got[1].Email)
	assert.Equal(t, "u3", got[2].ID)

	id, err := s.AppendMail(ctx, entity.MailDocument{
		To:      "a@x.com",
		Message: entity.MailMessage{Subject: "You have 1 follow-up(s) due today!", HTML: "<ul></ul>"},
	})
	require.NoError(t, err)
	assert.Equal(t, "101", id)

	var (
		to, subject, html string
		createdAt         time.Time
	)
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT to_address, message->>'subject', message->>'html', created_at FROM followup_mail WHERE id = $1`, 101,
	).Scan(&to, &subject, &html, &createdAt))
	assert.Equal(t, "a@x.com", to)
	assert.Equal(t, "You have 1 follow-up(s) due today!", subject)
	assert.Equal(t, "<ul></ul>", html)
	assert.True(t, now.Equal(createdAt))
}

func TestDB_ScanUsersStopsOnCallbackError(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `INSERT INTO followup_users (id, email) VALUES ('a', 'a@x.com'), ('b', 'b@x.com')`)
	require.NoError(t, err)

	s := NewDB(pool, &seqID{}, clock.New(), instrument.NewNoop())
	stop := assert.AnError

	seen := 0
	err = s.ScanUsers(ctx, func(entity.UserRecord) error {
		seen++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
}

func TestDB_ScanUsersToleratesMistypedCustomers(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
INSERT INTO followup_users (id, email, customers) VALUES
 ('a', 'a@x.com', '[{"name":"Bob","address":"1 Main St","dueDate":20240101}]'),
 ('b', 'b@x.com', '{"name":"Carl"}'),
 ('c', 'c@x.com', '[{"name":42,"address":"3 Elm","dueDate":"2024-02-01"}]')`)
	require.NoError(t, err)

	s := NewDB(pool, &seqID{}, clock.New(), instrument.NewNoop())

	var got []entity.UserRecord
	require.NoError(t, s.ScanUsers(ctx, func(u entity.UserRecord) error {
		got = append(got, u)
		return nil
	}))

	require.Len(t, got, 3)
	assert.Equal(t, []entity.CustomerRecord{{Name: "Bob", Address: "1 Main St"}}, got[0].Customers)
	assert.Empty(t, got[1].Customers)
	assert.Equal(t, []entity.CustomerRecord{{Address: "3 Elm", DueDate: "2024-02-01"}}, got[2].Customers)
}
