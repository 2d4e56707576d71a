package followup

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/followup/internal/followup/entity"
	"github.com/shandysiswandi/followup/internal/followup/inbound"
	"github.com/shandysiswandi/followup/internal/followup/outbound/archive"
	"github.com/shandysiswandi/followup/internal/followup/outbound/db"
	"github.com/shandysiswandi/followup/internal/followup/outbound/mongo"
	"github.com/shandysiswandi/followup/internal/followup/outbound/mq"
	"github.com/shandysiswandi/followup/internal/followup/usecase"
	"github.com/shandysiswandi/followup/internal/pkg/clock"
	"github.com/shandysiswandi/followup/internal/pkg/config"
	"github.com/shandysiswandi/followup/internal/pkg/goroutine"
	"github.com/shandysiswandi/followup/internal/pkg/idempotency"
	"github.com/shandysiswandi/followup/internal/pkg/instrument"
	"github.com/shandysiswandi/followup/internal/pkg/messaging"
	"github.com/shandysiswandi/followup/internal/pkg/router"
	"github.com/shandysiswandi/followup/internal/pkg/scheduler"
	"github.com/shandysiswandi/followup/internal/pkg/storage"
	"github.com/shandysiswandi/followup/internal/pkg/uid"
	"github.com/shandysiswandi/followup/internal/pkg/validator"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

type store interface {
	ScanUsers(ctx context.Context, fn func(entity.UserRecord) error) error
	AppendMail(ctx context.Context, doc entity.MailDocument) (string, error)
}

type Dependency struct {
	Ctx        context.Context
	DBConn     *pgxpool.Pool
	MongoDB    *mongodriver.Database
	Redis      redis.UniversalClient
	Messaging  messaging.Messaging
	Storage    storage.Storage
	Scheduler  *scheduler.Scheduler
	Config     config.Config
	Instrument instrument.Instrumentation
	UID        uid.NumberID
	UUID       uid.StringID
	Clock      clock.Clocker
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
	Router     *router.Router
}

func New(dep Dependency) error {
	settings, err := usecase.SettingsFromConfig(dep.Config)
	if err != nil {
		return err
	}

	repoStore, err := newStore(dep)
	if err != nil {
		return err
	}

	ucDep := usecase.Dependency{
		RepoStore:  repoStore,
		RepoEvent:  mq.NewMessaging(dep.Messaging, dep.Instrument),
		Settings:   settings,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	}
	if dep.Config.GetBool("followup.archive.enabled") {
		bucket := strings.TrimSpace(dep.Config.GetString("followup.archive.bucket"))
		if dep.Storage == nil || bucket == "" {
			return fmt.Errorf("followup.archive requires storage and followup.archive.bucket")
		}
		ucDep.RepoArchive = archive.NewArchive(dep.Storage, bucket, dep.UUID, dep.Instrument)
	}
	if dep.Config.GetBool("followup.dedup.enabled") {
		if dep.Redis == nil {
			return fmt.Errorf("followup.dedup requires redis")
		}
		ucDep.Dedup = idempotency.New(dep.Redis, idempotency.WithPrefix("followup:"))
	}

	uc, err := usecase.NewFollowup(ucDep)
	if err != nil {
		return err
	}

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Scheduler != nil {
		if err := inbound.RegisterCronJob(dep.Scheduler, dep.Config, uc); err != nil {
			return err
		}
	}
	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}

func newStore(dep Dependency) (store, error) {
	switch driver := strings.ToLower(strings.TrimSpace(dep.Config.GetString("store.driver"))); driver {
	case "", StoreDriverPostgres:
		if dep.DBConn == nil {
			return nil, fmt.Errorf("store.driver %q requires a database connection", StoreDriverPostgres)
		}
		return db.NewDB(dep.DBConn, dep.UID, dep.Clock, dep.Instrument), nil
	case StoreDriverMongo:
		if dep.MongoDB == nil {
			return nil, fmt.Errorf("store.driver %q requires a mongo database", StoreDriverMongo)
		}
		return mongo.NewMongo(dep.MongoDB, mongo.Config{
			UsersCollection: dep.Config.GetString("mongo.users_collection"),
			MailCollection:  dep.Config.GetString("mongo.mail_collection"),
		}, dep.Instrument), nil
	default:
		return nil, fmt.Errorf("unknown store.driver %q", driver)
	}
}
