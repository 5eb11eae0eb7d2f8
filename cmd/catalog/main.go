package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"

	"github.com/wyfcoding/pkg/app"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/database"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"github.com/wyfcoding/pkg/metrics"
	"github.com/wyfcoding/pkg/middleware"

	"github.com/wyfcoding/stylehub/internal/catalog/application"
	"github.com/wyfcoding/stylehub/internal/catalog/domain"
	"github.com/wyfcoding/stylehub/internal/catalog/infrastructure/messaging"
	"github.com/wyfcoding/stylehub/internal/catalog/infrastructure/persistence/mysql"
	catalogredis "github.com/wyfcoding/stylehub/internal/catalog/infrastructure/persistence/redis"
	httpserver "github.com/wyfcoding/stylehub/internal/catalog/interfaces/http"
	"github.com/wyfcoding/stylehub/internal/session"
)

// BootstrapName 服务唯一标识
const BootstrapName = "catalog"

// Config 服务扩展配置
type Config struct {
	config.Config `mapstructure:",squash"`
}

// AppContext 应用上下文
type AppContext struct {
	Config      *Config
	CmdService  *application.CatalogCommandService
	QuerySvc    *application.CatalogQueryService
	ViewedSvc   *application.RecentlyViewedService
	HTTPHandler *httpserver.CatalogHandler
	Metrics     *metrics.Metrics
}

func main() {
	if err := app.NewBuilder[*Config, *AppContext](BootstrapName).
		WithConfig(&Config{}).
		WithService(initService).
		WithGRPC(registerGRPC).
		WithGin(registerGin).
		WithGinMiddleware(
			middleware.CORS(),
			middleware.TimeoutMiddleware(30*time.Second),
			session.Middleware(session.NewHeaderProvider()),
		).
		Build().
		Run(); err != nil {
		slog.Error("service bootstrap failed", "error", err)
	}
}

func registerGRPC(s *grpc.Server, ctx *AppContext) {
}

func registerGin(e *gin.Engine, ctx *AppContext) {
	if ctx.Config.Server.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	ctx.HTTPHandler.RegisterRoutes(e.Group(""))
}

func initService(cfg *Config, m *metrics.Metrics) (*AppContext, func(), error) {
	bootLog := slog.With("module", "bootstrap")
	logger := logging.Default()

	// 1. 数据库
	dbWrapper, err := database.NewDB(cfg.Data.Database, cfg.CircuitBreaker, logger, m)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init db: %w", err)
	}
	db := dbWrapper.RawDB()

	// 自动迁移
	if err := db.AutoMigrate(&domain.Product{}, &outbox.Message{}); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	// 2. 消息队列 & Outbox
	producer := kafka.NewProducer(&cfg.MessageQueue.Kafka, logger, m)
	outboxMgr := outbox.NewManager(db, logger.Logger)
	outboxProc := outbox.NewProcessor(outboxMgr, func(ctx context.Context, topic, key string, payload []byte) error {
		return producer.PublishToTopic(ctx, topic, []byte(key), payload)
	}, 100, 2*time.Second)
	outboxProc.Start()

	// 3. Redis
	redisCache, err := cache.NewRedisCache(&cfg.Data.Redis, cfg.CircuitBreaker, logger, m)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init redis: %w", err)
	}

	// 4. 仓储
	productRepo := mysql.NewProductRepository(db)
	viewedStore := catalogredis.NewRecentlyViewedStore(redisCache.GetClient())

	// 5. 服务
	publisher := messaging.NewOutboxPublisher(outboxMgr)
	cmdService := application.NewCatalogCommandService(productRepo, publisher)
	querySvc := application.NewCatalogQueryService(productRepo)
	viewedSvc := application.NewRecentlyViewedService(viewedStore, productRepo)

	// 6. Handler
	httpHandler := httpserver.NewCatalogHandler(cmdService, querySvc, viewedSvc)

	cleanup := func() {
		bootLog.Info("shutting down...")
		outboxProc.Stop()
		if producer != nil {
			producer.Close()
		}
		if sqlDB, err := db.DB(); err == nil && sqlDB != nil {
			sqlDB.Close()
		}
	}

	return &AppContext{
		Config:      cfg,
		CmdService:  cmdService,
		QuerySvc:    querySvc,
		ViewedSvc:   viewedSvc,
		HTTPHandler: httpHandler,
		Metrics:     m,
	}, cleanup, nil
}
