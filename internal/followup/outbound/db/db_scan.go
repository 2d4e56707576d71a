package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/followup/internal/followup/entity"
)

const listUsersAfterID = `
SELECT id, COALESCE(email, ''), customers
FROM followup_users
WHERE id > $1
ORDER BY id
LIMIT $2`

// customerRow keeps every field raw so a mistyped value blanks that field
// instead of failing the whole page.
type customerRow struct {
	Name    json.RawMessage `json:"name"`
	Address json.RawMessage `json:"address"`
	DueDate json.RawMessage `json:"dueDate"`
}

func jsonString(raw json.RawMessage) string {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return v
}

// decodeCustomers reads the customers column. ok is false when the value is
// not a JSON array; entries that are not objects are dropped.
func decodeCustomers(raw []byte) (_ []entity.CustomerRecord, ok bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []entity.CustomerRecord{}, false
	}

	out := make([]entity.CustomerRecord, 0, len(items))
	for _, item := range items {
		var c customerRow
		if err := json.Unmarshal(item, &c); err != nil {
			continue
		}
		out = append(out, entity.CustomerRecord{
			Name:    jsonString(c.Name),
			Address: jsonString(c.Address),
			DueDate: jsonString(c.DueDate),
		})
	}

	return out, true
}

// ScanUsers walks followup_users in id order, one keyset page at a time.
func (s *DB) ScanUsers(ctx context.Context, fn func(entity.UserRecord) error) (err error) {
	ctx, span := s.startSpan(ctx, "ScanUsers")
	defer func() { s.endSpan(span, err) }()

	after := ""
	for {
		page, err := s.listUsersAfter(ctx, after)
		if err != nil {
			return err
		}

		for _, user := range page {
			if err := fn(user); err != nil {
				return err
			}
		}

		if len(page) < s.batchSize {
			return nil
		}
		after = page[len(page)-1].ID
	}
}

func (s *DB) listUsersAfter(ctx context.Context, after string) ([]entity.UserRecord, error) {
	rows, err := s.conn.Query(ctx, listUsersAfterID, after, s.batchSize)
	if err != nil {
		return nil, s.mapError(err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.UserRecord, error) {
		var (
			u   entity.UserRecord
			raw []byte
		)
		if err := row.Scan(&u.ID, &u.Email, &raw); err != nil {
			return entity.UserRecord{}, fmt.Errorf("scan followup user: %w", err)
		}

		var ok bool
		if u.Customers, ok = decodeCustomers(raw); !ok {
			slog.WarnContext(ctx, "ignoring malformed customers", "user_id", u.ID)
		}
		return u, nil
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return users, nil
}
