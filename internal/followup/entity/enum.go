package entity

import "strings"

type DateMode int16

const (
	DateModeUnknown  DateMode = 0
	DateModeDueToday DateMode = 1
	DateModeOverdue  DateMode = 2
)

func (m DateMode) String() string {
	switch m {
	case DateModeDueToday:
		return "due_today"
	case DateModeOverdue:
		return "overdue"
	default:
		return "unknown"
	}
}

type FanOut int16

const (
	FanOutUnknown FanOut = 0
	FanOutPerUser FanOut = 1
	FanOutCentral FanOut = 2
)

func (f FanOut) String() string {
	switch f {
	case FanOutPerUser:
		return "per_user"
	case FanOutCentral:
		return "central"
	default:
		return "unknown"
	}
}

// Variant names a pipeline preset.
type Variant string

const (
	VariantDailyPerUser  Variant = "daily_per_user"
	VariantDailySummary  Variant = "daily_summary"
	VariantOverdueReport Variant = "overdue_report"
)

// Pipeline describes which items are selected and who receives them.
type Pipeline struct {
	Variant  Variant
	DateMode DateMode
	FanOut   FanOut
	Sorted   bool
}

var pipelines = map[Variant]Pipeline{
	VariantDailyPerUser:  {Variant: VariantDailyPerUser, DateMode: DateModeDueToday, FanOut: FanOutPerUser},
	VariantDailySummary:  {Variant: VariantDailySummary, DateMode: DateModeDueToday, FanOut: FanOutCentral},
	VariantOverdueReport: {Variant: VariantOverdueReport, DateMode: DateModeOverdue, FanOut: FanOutCentral, Sorted: true},
}

// VariantFromString parses a preset name, ignoring surrounding space and case.
func VariantFromString(raw string) (Variant, bool) {
	v := Variant(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := pipelines[v]
	return v, ok
}

// Pipeline returns the preset for v.
func (v Variant) Pipeline() (Pipeline, bool) {
	p, ok := pipelines[v]
	return p, ok
}

// Daily reports whether v runs on the daily schedule.
func (v Variant) Daily() bool {
	p, ok := pipelines[v]
	return ok && p.DateMode == DateModeDueToday
}
