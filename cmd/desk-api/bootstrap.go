package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/WriteDesk/config"
	deskapi "github.com/BearBump/WriteDesk/internal/api/desk_api"
	"github.com/BearBump/WriteDesk/internal/broker/kafka"
	"github.com/BearBump/WriteDesk/internal/cache"
	"github.com/BearBump/WriteDesk/internal/cache/rediscache"
	"github.com/BearBump/WriteDesk/internal/integrations/geoip"
	geofake "github.com/BearBump/WriteDesk/internal/integrations/geoip/fake"
	"github.com/BearBump/WriteDesk/internal/integrations/geoip/ipapi"
	"github.com/BearBump/WriteDesk/internal/metrics"
	"github.com/BearBump/WriteDesk/internal/services/feeds"
	"github.com/BearBump/WriteDesk/internal/services/orders"
	"github.com/BearBump/WriteDesk/internal/storage/objectstore"
	"github.com/BearBump/WriteDesk/internal/storage/pgorders"
)

type deskAPIApp struct {
	ctx      context.Context
	cancel   context.CancelFunc
	opts     deskAPIOpts
	api      *deskapi.DeskAPI
	producer *kafka.Producer
	closeDB  func()
	closeRDB func() error
}

func mustBootstrapDeskAPI() *deskAPIApp {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}
	swaggerPath := os.Getenv("swaggerPath")
	if swaggerPath == "" {
		panic("swaggerPath env var is required")
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}

	httpAddr := cfg.WriteDesk.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	topic := cfg.Kafka.OrderSubmittedTopicName
	if topic == "" {
		topic = "writedesk.order.submitted"
	}
	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "writedesk:"
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	st := mustOpenPostgresWithRetry(ctx, cfg.Database.PostgresURL(), 60*time.Second)

	rdb := rediscache.NewClient(rediscache.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var feedCache cache.BytesCache
	if cfg.WriteDesk.FeedCacheEnabled == nil || *cfg.WriteDesk.FeedCacheEnabled {
		feedCache = rediscache.New(rdb, prefix)
	}

	files, err := objectstore.New(objectstore.Options{
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		Bucket:        cfg.Storage.Bucket,
		Region:        cfg.Storage.Region,
		UseSSL:        cfg.Storage.UseSSL,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		panic(err)
	}
	bucketCtx, bucketCancel := context.WithTimeout(ctx, 15*time.Second)
	if err := files.EnsureBucket(bucketCtx); err != nil {
		// MinIO может подняться позже; загрузки вернут ошибку, остальное работает.
		slog.Warn("object storage bucket check failed", "bucket", cfg.Storage.Bucket, "err", err)
	}
	bucketCancel()

	producer := kafka.NewProducer(cfg.Kafka.Brokers())
	m := metrics.New()

	ordersSvc := orders.New(orders.Config{
		Timezone:          cfg.WriteDesk.Timezone,
		SubmitLimit:       int64(cfg.WriteDesk.SubmitLimit),
		SubmitWindow:      time.Duration(cfg.WriteDesk.SubmitWindowSeconds) * time.Second,
		GeoTimeout:        time.Duration(cfg.Geo.TimeoutSeconds) * time.Second,
		MaxFileBytes:      cfg.WriteDesk.MaxUploadBytes,
		AllowedExtensions: cfg.WriteDesk.AllowedExtensions,
		Topic:             topic,
	}, orders.Deps{
		Repo:      st,
		Files:     files,
		Publisher: producer,
		Limiter:   rediscache.NewRateLimiter(rdb, prefix),
		Geo:       newGeoClient(cfg.Geo),
		Metrics:   m,
	})

	activityCfg := cfg.WriteDesk.Activity
	if activityCfg.Timezone == "" {
		activityCfg.Timezone = cfg.WriteDesk.Timezone
	}
	feedsSvc := feeds.New(feeds.Config{Activity: activityCfg}, feedCache, m, nil)

	api := deskapi.New(ordersSvc, feedsSvc, deskapi.Options{
		AdminToken:     cfg.WriteDesk.AdminToken,
		MaxUploadBytes: cfg.WriteDesk.MaxUploadBytes,
		Metrics:        m,
		Ready: func(r *http.Request) error {
			return st.Ping(r.Context())
		},
	})
	if cfg.WriteDesk.AdminToken == "" {
		slog.Warn("admin_token is empty, admin routes are closed")
	}

	return &deskAPIApp{
		ctx:    ctx,
		cancel: cancel,
		opts: deskAPIOpts{
			httpAddr:    httpAddr,
			swaggerPath: swaggerPath,
		},
		api:      api,
		producer: producer,
		closeDB:  st.Close,
		closeRDB: rdb.Close,
	}
}

func newGeoClient(cfg config.GeoConfig) geoip.Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	switch cfg.Mode {
	case "http":
		return ipapi.New(cfg.BaseURL, cfg.APIKey, timeout)
	case "off":
		return nil
	default:
		return geofake.New()
	}
}

func mustOpenPostgresWithRetry(ctx context.Context, connString string, wait time.Duration) *pgorders.Storage {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pgorders.New(ctx, connString)
		if err == nil {
			return st
		}
		lastErr = err
		slog.Warn("postgres is not ready yet", "err", err)
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("postgres is not ready after %s: %v", wait, lastErr))
}

func (a *deskAPIApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.producer != nil {
		_ = a.producer.Close()
	}
	if a.closeRDB != nil {
		_ = a.closeRDB()
	}
	if a.closeDB != nil {
		a.closeDB()
	}
}

func (a *deskAPIApp) Run() error {
	return runDeskAPI(a.ctx, a.opts, a.api)
}
