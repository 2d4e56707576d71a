package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/followup/internal/followup"
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
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow
}

func (a *App) initJWT() {
	defaultJWT, err := jwt.NewHS512(jwt.Config{
		Secret:     []byte(a.config.GetString("jwt.secret")),
		Issuer:     a.config.GetString("jwt.issuer"),
		Audiences:  a.config.GetArray("jwt.audiences"),
		TTLMinutes: a.config.GetMinute("jwt.ttl_minutes"),
		Clock:      a.clock,
		UUID:       a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = defaultJWT
}

// ping retries fn with capped fibonacci backoff until store.connect_timeout_seconds elapses.
func (a *App) ping(name string, fn func(ctx context.Context) error) error {
	timeout := a.config.GetSecond("store.connect_timeout_seconds")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(a.ctx, timeout)
	defer cancel()

	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
		defer cancelPing()

		if err := fn(pingCtx); err != nil {
			slog.Warn("store not ready, retrying", "name", name, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (a *App) initStore() {
	switch driver := strings.ToLower(strings.TrimSpace(a.config.GetString("store.driver"))); driver {
	case "", followup.StoreDriverPostgres:
		a.initDatabase()
	case followup.StoreDriverMongo:
		a.initMongo()
	default:
		slog.Error("unknown store driver", "driver", driver)
		os.Exit(1)
	}
}

func (a *App) initDatabase() {
	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	if err := a.ping("Database", pool.Ping); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

func (a *App) initMongo() {
	opts := options.Client().
		ApplyURI(a.config.GetString("mongo.uri")).
		SetAppName(a.config.GetString("instrument.service_name"))
	if v := a.config.GetInt("mongo.max_pool_size"); v > 0 {
		opts.SetMaxPoolSize(uint64(v))
	}

	client, err := mongo.Connect(a.ctx, opts)
	if err != nil {
		slog.Error("failed to connect mongo", "error", err)
		os.Exit(1)
	}

	if err := a.ping("Mongo", func(ctx context.Context) error { return client.Ping(ctx, nil) }); err != nil {
		slog.Error("failed to ping mongo", "error", err)
		os.Exit(1)
	}

	a.mongoClient = client
	a.mongoDB = client.Database(a.config.GetString("mongo.database"))
}

// initCache only connects when the daily dedup marker is enabled.
func (a *App) initCache() {
	if !a.config.GetBool("followup.dedup.enabled") {
		return
	}

	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
}

func (a *App) redisClient() redis.UniversalClient {
	if a.cacheConn == nil {
		return nil
	}
	return a.cacheConn
}

func (a *App) gcsClientOptions() []option.ClientOption {
	var opts []option.ClientOption
	if a.config.GetBool("storage.gcs.without_auth") {
		opts = append(opts, option.WithoutAuthentication())
	}
	if v := strings.TrimSpace(a.config.GetString("storage.gcs.credentials_file")); v != "" {
		// #nosec G304 -- path is from trusted config file.
		credsJSON, err := os.ReadFile(v)
		if err != nil {
			slog.Error("failed to read gcs credentials file", "error", err)
			os.Exit(1)
		}
		creds, err := google.CredentialsFromJSON(a.ctx, credsJSON, gcs.ScopeReadWrite)
		if err != nil {
			slog.Error("failed to parse gcs credentials file", "error", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if v := a.config.GetBinary("storage.gcs.credentials_json"); len(v) > 0 {
		creds, err := google.CredentialsFromJSON(a.ctx, v, gcs.ScopeReadWrite)
		if err != nil {
			slog.Error("failed to parse gcs credentials json", "error", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if v := strings.TrimSpace(a.config.GetString("storage.gcs.endpoint")); v != "" {
		opts = append(opts, option.WithEndpoint(v))
	}
	if v := strings.TrimSpace(a.config.GetString("storage.gcs.user_agent")); v != "" {
		opts = append(opts, option.WithUserAgent(v))
	}
	return opts
}

// initStorage only connects when report archiving is enabled.
func (a *App) initStorage() {
	if !a.config.GetBool("followup.archive.enabled") {
		return
	}

	driver := strings.TrimSpace(a.config.GetString("storage.driver"))

	var gcsOptions storage.GCSOptions
	if driver == storage.DriverGCS {
		gcsOptions.ClientOptions = a.gcsClientOptions()
	}

	stg, err := storage.NewFromDriver(a.ctx, driver, storage.FactoryOptions{
		S3: storage.S3Options{
			Region:       strings.TrimSpace(a.config.GetString("storage.s3.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("storage.s3.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("storage.s3.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("storage.s3.secret_key")),
			SessionToken: strings.TrimSpace(a.config.GetString("storage.s3.session_token")),
			UsePathStyle: a.config.GetBool("storage.s3.use_path_style"),
		},
		GCS: gcsOptions,
		MinIO: storage.MinIOOptions{
			Region:       strings.TrimSpace(a.config.GetString("storage.minio.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("storage.minio.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("storage.minio.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("storage.minio.secret_key")),
			SessionToken: strings.TrimSpace(a.config.GetString("storage.minio.session_token")),
			UseSSL:       a.config.GetBool("storage.minio.use_ssl"),
		},
	})
	if err != nil {
		slog.Error("failed to init storage", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.storage = stg
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")

	var pubsubOptions []option.ClientOption
	if v := strings.TrimSpace(a.config.GetString("messaging.pubsub.endpoint")); v != "" {
		pubsubOptions = append(pubsubOptions, option.WithEndpoint(v), option.WithoutAuthentication())
	}

	client, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr:         a.config.GetString("messaging.nsq.producer_addr"),
			ConsumerNSQDAddrs:    a.config.GetArray("messaging.nsq.consumer_nsqd_addrs"),
			ConsumerLookupdAddrs: a.config.GetArray("messaging.nsq.consumer_lookupd_addrs"),
		},
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
				nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		Kafka: messaging.KafkaConfig{
			Brokers: a.config.GetArray("messaging.kafka.brokers"),
		},
		PubSub: messaging.PubSubConfig{
			ProjectID:     a.config.GetString("messaging.pubsub.project_id"),
			ClientOptions: pubsubOptions,
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initScheduler() {
	loc := a.config.GetLocation("followup.schedule.timezone")
	if a.config.GetString("followup.schedule.timezone") == "" {
		loc = a.config.GetLocation("app.tz")
	}

	a.scheduler = scheduler.New(loc, a.uuid)
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		JWT:        a.jwt,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				if a.dbConn != nil {
					a.dbConn.Close()
				}

				return nil
			},
		},
		{
			name: "Mongo",
			fn: func(ctx context.Context) error {
				if a.mongoClient == nil {
					return nil
				}
				return a.mongoClient.Disconnect(ctx)
			},
		},
		{
			name: "Storage",
			fn: func(context.Context) error {
				if a.storage == nil {
					return nil
				}
				return a.storage.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
