package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/followup/internal/followup/entity"
	"github.com/shandysiswandi/followup/internal/pkg/clock"
)

// ScanUser selects the customers of user that match mode on today. today's
// location is the deployment location. A user without email is skipped and
// yields no items.
func ScanUser(user entity.UserRecord, today time.Time, mode entity.DateMode) ([]entity.DueItem, bool) {
	if user.Email == "" {
		return nil, true
	}

	match := dueMatcher(today, mode)

	return lo.FilterMap(user.Customers, func(c entity.CustomerRecord, _ int) (entity.DueItem, bool) {
		if !match(c.DueDate) {
			return entity.DueItem{}, false
		}
		return entity.DueItem{
			Name:        c.Name,
			Address:     c.Address,
			DueDate:     c.DueDate,
			WorkerEmail: user.Email,
		}, true
	}), false
}

// dueMatcher never reports a match for a due date that does not parse.
func dueMatcher(today time.Time, mode entity.DateMode) func(string) bool {
	switch mode {
	case entity.DateModeDueToday:
		iso := today.Format(entity.DateLayout)
		return func(due string) bool { return due == iso }
	case entity.DateModeOverdue:
		loc := today.Location()
		start := clock.StartOfDay(today, loc)
		return func(due string) bool {
			d, err := time.ParseInLocation(entity.DateLayout, due, loc)
			return err == nil && d.Before(start)
		}
	default:
		return func(string) bool { return false }
	}
}

// scan walks the store once and hands every user with matching items to fn,
// in store order.
func (s *Usecase) scan(
	ctx context.Context,
	today time.Time,
	p entity.Pipeline,
	fn func(user entity.UserRecord, items []entity.DueItem) error,
) (entity.ScanStats, error) {
	var stats entity.ScanStats

	err := s.repoStore.ScanUsers(ctx, func(user entity.UserRecord) error {
		stats.Users++

		items, skipped := ScanUser(user, today, p.DateMode)
		if skipped {
			stats.Skipped++
			s.count(ctx, s.usersSkipped, 1, p.Variant)
			slog.InfoContext(ctx, "skipping user", "user_id", user.ID, "reason", "missing email")
			return nil
		}
		if len(items) == 0 {
			return nil
		}

		stats.Items += len(items)
		return fn(user, items)
	})

	return stats, err
}
