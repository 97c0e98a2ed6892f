package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/coaching-service/config"
	"github.com/Eursukkul/coaching-service/internal/consumer"
	"github.com/Eursukkul/coaching-service/internal/handler"
	"github.com/Eursukkul/coaching-service/internal/middleware"
	"github.com/Eursukkul/coaching-service/internal/repository"
	"github.com/Eursukkul/coaching-service/internal/scheduler"
	"github.com/Eursukkul/coaching-service/internal/service"
	"github.com/Eursukkul/coaching-service/pkg/cache"
	"github.com/Eursukkul/coaching-service/pkg/database"
	"github.com/Eursukkul/coaching-service/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := database.NewPostgresDB(cfg.DSN())
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	defer sqlDB.Close()

	stores := service.Stores{
		Tx:            repository.NewTransactor(db),
		Packages:      repository.NewPackageRepository(db),
		Subscriptions: repository.NewSubscriptionRepository(db),
		Bookings:      repository.NewBookingRepository(db),
		Payments:      repository.NewPaymentRepository(db),
	}

	// Redis and RabbitMQ are optional; an empty address turns each off.
	var catalogCache service.PackageCache
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		catalogCache = cache.NewCatalogCache(rdb, "coaching", cfg.CatalogCacheTTL)
	}

	var opts []service.Option
	var mqConsumer *rabbitmq.Consumer
	if cfg.RabbitURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
		opts = append(opts, service.WithPublisher(publisher))

		mqConsumer, err = rabbitmq.NewConsumer(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer mqConsumer.Close()
	}

	packageSvc := service.NewPackageService(stores.Packages, catalogCache)
	subscriptionSvc := service.NewSubscriptionService(stores, opts...)
	bookingSvc := service.NewBookingService(stores, opts...)
	paymentSvc := service.NewPaymentService(stores, opts...)
	entitlementSvc := service.NewEntitlementService(stores, opts...)

	if mqConsumer != nil {
		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.Fatalf("failed to start consuming: %v", err)
		}
		consumer.NewPaymentConsumer(paymentSvc).Start(ctx, msgs)
	}

	sweeper := scheduler.NewExpirySweeper(subscriptionSvc)
	if err := sweeper.Start(cfg.ExpirySweepSpec); err != nil {
		log.Fatalf("failed to start expiry sweeper: %v", err)
	}
	defer sweeper.Stop()

	e := echo.New()
	e.HideBanner = !cfg.IsDevelopment()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	handler.Handlers{
		Health:        handler.NewHealthHandler(sqlDB),
		Packages:      handler.NewPackageHandler(packageSvc),
		Subscriptions: handler.NewSubscriptionHandler(subscriptionSvc),
		Bookings:      handler.NewBookingHandler(bookingSvc),
		Payments:      handler.NewPaymentHandler(paymentSvc),
		Entitlements:  handler.NewEntitlementHandler(entitlementSvc),
	}.Register(e, middleware.JWTAuth([]byte(cfg.JWTSecret)))

	go func() {
		log.Printf("Coaching Service starting on :%s (%s)", cfg.ServerPort, cfg.AppEnv)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Coaching Service shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
