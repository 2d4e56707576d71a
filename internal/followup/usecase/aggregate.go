package usecase

import (
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/followup/internal/followup/entity"
)

// Aggregate concatenates groups in order. With sorted set the result is
// stably ordered by due date, oldest first.
func Aggregate(groups [][]entity.DueItem, sorted bool) []entity.DueItem {
	items := lo.Flatten(groups)
	if sorted {
		slices.SortStableFunc(items, func(a, b entity.DueItem) int {
			return compareDueDate(a.DueDate, b.DueDate)
		})
	}
	return items
}

// compareDueDate orders unparseable dates after every valid one.
func compareDueDate(a, b string) int {
	ta, errA := time.Parse(entity.DateLayout, a)
	tb, errB := time.Parse(entity.DateLayout, b)

	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	default:
		return ta.Compare(tb)
	}
}
