package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/followup/internal/pkg/clock"
	"github.com/shandysiswandi/followup/internal/pkg/config"
	"github.com/shandysiswandi/followup/internal/pkg/goroutine"
	"github.com/shandysiswandi/followup/internal/pkg/instrument"
	"github.com/shandysiswandi/followup/internal/pkg/jwt"
	"github.com/shandysiswandi/followup/internal/pkg/messaging"
	"github.com/shandysiswandi/followup/internal/pkg/router"
	"github.com/shandysiswandi/followup/internal/pkg/scheduler"
	"github.com/shandysiswandi/followup/internal/pkg/storage"
	"github.com/shandysiswandi/followup/internal/pkg/uid"
	"github.com/shandysiswandi/followup/internal/pkg/validator"
	"go.mongodb.org/mongo-driver/mongo"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uid       uid.NumberID
	uuid      uid.StringID
	jwt       jwt.JWT

	// resources, nil when the config leaves them off
	dbConn      *pgxpool.Pool
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
	cacheConn   *redis.Client
	messaging   messaging.Messaging
	storage     storage.Storage

	// server
	router     *router.Router
	httpServer *http.Server
	scheduler  *scheduler.Scheduler

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initStore()
	app.initCache()
	app.initStorage()
	app.initMessaging()
	app.initScheduler()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
