package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/followup/internal/followup"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.followup.enabled") {
		if err := followup.New(followup.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			MongoDB:    a.mongoDB,
			Redis:      a.redisClient(),
			Messaging:  a.messaging,
			Storage:    a.storage,
			Scheduler:  a.scheduler,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
		}); err != nil {
			slog.Error("failed to init module followup", "error", err)
			os.Exit(1)
		}
	}
}
