package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/database"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"github.com/wyfcoding/pkg/metrics"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	cartapplication "github.com/wyfcoding/stylehub/internal/cart/application"
	cartdomain "github.com/wyfcoding/stylehub/internal/cart/domain"
	"github.com/wyfcoding/stylehub/internal/cart/infrastructure/catalogbridge"
	cartmessaging "github.com/wyfcoding/stylehub/internal/cart/infrastructure/messaging"
	"github.com/wyfcoding/stylehub/internal/cart/infrastructure/persistence/localstore"
	cartmysql "github.com/wyfcoding/stylehub/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/wyfcoding/stylehub/internal/cart/interfaces/http"
	catalogapplication "github.com/wyfcoding/stylehub/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/stylehub/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/stylehub/internal/catalog/infrastructure/persistence/mysql"
	notificationapplication "github.com/wyfcoding/stylehub/internal/notification/application"
	notificationdomain "github.com/wyfcoding/stylehub/internal/notification/domain"
	notificationmysql "github.com/wyfcoding/stylehub/internal/notification/infrastructure/persistence/mysql"
	"github.com/wyfcoding/stylehub/internal/notification/infrastructure/sender"
	notificationconsumer "github.com/wyfcoding/stylehub/internal/notification/interfaces/consumer"
	orderapplication "github.com/wyfcoding/stylehub/internal/order/application"
	orderdomain "github.com/wyfcoding/stylehub/internal/order/domain"
	ordermessaging "github.com/wyfcoding/stylehub/internal/order/infrastructure/messaging"
	ordermysql "github.com/wyfcoding/stylehub/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/wyfcoding/stylehub/internal/order/interfaces/http"
	"github.com/wyfcoding/stylehub/internal/session"
	wishlistapplication "github.com/wyfcoding/stylehub/internal/wishlist/application"
	wishlistdomain "github.com/wyfcoding/stylehub/internal/wishlist/domain"
	wishlistmysql "github.com/wyfcoding/stylehub/internal/wishlist/infrastructure/persistence/mysql"
	wishlisthttp "github.com/wyfcoding/stylehub/internal/wishlist/interfaces/http"
)

var configPath = flag.String("config", "configs/storefront/config.toml", "config file path")

const notificationDispatchTopic = "notifications.dispatch"

func main() {
	flag.Parse()

	// 1. 配置
	var cfg config.Config
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	logCfg := &logging.Config{Service: cfg.Server.Name, Level: cfg.Log.Level}
	logger := logging.NewFromConfig(logCfg)
	slog.SetDefault(logger.Logger)

	// 3. 指标
	metricsImpl := metrics.NewMetrics(cfg.Server.Name)

	// 4. 数据库
	db, err := database.NewDB(cfg.Data.Database, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	if cfg.Server.Environment == "dev" {
		if err := db.RawDB().AutoMigrate(
			&catalogdomain.Product{},
			&cartdomain.CartItemRecord{},
			&wishlistdomain.EntryRecord{},
			&orderdomain.Order{},
			&orderdomain.OrderItem{},
			&notificationdomain.Notification{},
			&outbox.Message{},
		); err != nil {
			slog.Error("failed to migrate database", "error", err)
		}
	}

	// 5. Kafka & Outbox
	kafkaProducer := kafka.NewProducer(&cfg.MessageQueue.Kafka, logger, metricsImpl)
	outboxMgr := outbox.NewManager(db.RawDB(), logger.Logger)
	pusher := func(ctx context.Context, topic, key string, payload []byte) error {
		return kafkaProducer.PublishToTopic(ctx, topic, []byte(key), payload)
	}
	outboxProcessor := outbox.NewProcessor(outboxMgr, pusher, 100, 2*time.Second)

	// 6. Redis
	redisCache, err := cache.NewRedisCache(&cfg.Data.Redis, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	// 7. 仓储
	productRepo := catalogmysql.NewProductRepository(db.RawDB())
	cartRepo := cartmysql.NewCartRepository(db.RawDB())
	guestStore := localstore.NewRedisStore(redisCache.GetClient())
	wishlistRepo := wishlistmysql.NewWishlistRepository(db.RawDB())
	orderRepo := ordermysql.NewOrderRepository(db.RawDB())
	notificationRepo := notificationmysql.NewNotificationRepository(db.RawDB())

	// 8. 应用服务
	notificationSvc := notificationapplication.NewNotificationService(
		notificationRepo,
		sender.NewKafkaNotificationSender(kafkaProducer, notificationDispatchTopic),
	)

	catalogQuerySvc := catalogapplication.NewCatalogQueryService(productRepo)
	productReader := catalogbridge.NewProductReader(catalogQuerySvc)

	cartSvc := cartapplication.NewCartService(
		cartRepo,
		guestStore,
		productReader,
		notificationSvc,
		cartmessaging.NewOutboxPublisher(outboxMgr),
	)
	wishlistSvc := wishlistapplication.NewWishlistService(
		wishlistRepo,
		wishlistapplication.Policy{RequireAuth: true},
		notificationSvc,
	)
	orderCmdSvc := orderapplication.NewOrderCommandService(
		orderRepo,
		cartSvc,
		ordermessaging.NewOutboxPublisher(outboxMgr),
	)
	orderQuerySvc := orderapplication.NewOrderQueryService(orderRepo)

	// 9. 事件消费
	eventHandler := notificationconsumer.NewEventHandler(notificationSvc, logger.Logger)
	for _, topic := range []string{orderdomain.OrderPlacedEventType, cartdomain.CartMergedEventType} {
		consumerCfg := cfg.MessageQueue.Kafka
		consumerCfg.Topic = topic
		if consumerCfg.GroupID == "" {
			consumerCfg.GroupID = "storefront-notification-group"
		}
		consumer := kafka.NewConsumer(&consumerCfg, logger, metricsImpl)
		consumer.Start(context.Background(), 3, eventHandler.Handle)
	}

	// 10. 接口层
	grpcSrv := grpc.NewServer()
	reflection.Register(grpcSrv)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	// 会话中间件在登录事件上驱动游客购物车迁移。
	r.Use(session.Middleware(session.NewHeaderProvider(), cartSvc))
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	carthttp.NewCartHandler(cartSvc).RegisterRoutes(r.Group(""))
	wishlisthttp.NewWishlistHandler(wishlistSvc).RegisterRoutes(r.Group(""))
	orderhttp.NewOrderHandler(orderCmdSvc, orderQuerySvc).RegisterRoutes(r.Group(""))

	// 11. 启动
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		outboxProcessor.Start()
		<-ctx.Done()
		outboxProcessor.Stop()
		return nil
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.GRPC.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		slog.Info("gRPC server starting", "addr", addr)
		return grpcSrv.Serve(lis)
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTP.Port)
		server := &http.Server{Addr: addr, Handler: r}
		slog.Info("HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down servers...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		grpcSrv.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}

	if kafkaProducer != nil {
		kafkaProducer.Close()
	}
}
