package usecase

import (
	"fmt"
	"time"

	"github.com/shandysiswandi/followup/internal/followup/entity"
	"github.com/shandysiswandi/followup/internal/pkg/config"
)

// Settings carries deployment values into the usecase.
type Settings struct {
	CentralRecipient string
	Location         *time.Location
	DailyVariants    []entity.Variant
	DedupTTL         time.Duration
	DedupLock        time.Duration
	EscapeValues     bool
}

// SettingsFromConfig reads the followup.* keys. Daily variants default to
// daily_per_user; the location falls back from followup.schedule.timezone to
// app.tz.
func SettingsFromConfig(cfg config.Config) (Settings, error) {
	st := Settings{
		CentralRecipient: cfg.GetString("followup.central_recipient"),
		Location:         cfg.GetLocation("followup.schedule.timezone"),
		DedupTTL:         cfg.GetHour("followup.dedup.ttl_hours"),
		DedupLock:        cfg.GetMinute("followup.dedup.lock_minutes"),
		EscapeValues:     cfg.GetBool("followup.html.escape_values"),
	}
	if cfg.GetString("followup.schedule.timezone") == "" {
		st.Location = cfg.GetLocation("app.tz")
	}
	if st.CentralRecipient == "" {
		return Settings{}, fmt.Errorf("followup.central_recipient is required")
	}
	if st.DedupTTL <= 0 {
		st.DedupTTL = 36 * time.Hour
	}
	if st.DedupLock <= 0 {
		st.DedupLock = 30 * time.Minute
	}

	names := cfg.GetArray("followup.schedule.variants")
	if len(names) == 0 {
		names = []string{string(entity.VariantDailyPerUser)}
	}
	for _, name := range names {
		v, ok := entity.VariantFromString(name)
		if !ok || !v.Daily() {
			return Settings{}, fmt.Errorf("followup.schedule.variants: %q is not a daily preset", name)
		}
		st.DailyVariants = append(st.DailyVariants, v)
	}

	return st, nil
}
