package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/cloudevents"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/kafka"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/logging"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/metrics"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/middleware"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/mongodb"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/outbox"

	inventoryapp "github.com/dhirajgiri3/Shipcrowd-sub003/internal/inventory/application"
	inventoryMongo "github.com/dhirajgiri3/Shipcrowd-sub003/internal/inventory/infrastructure/mongodb"
	packingapp "github.com/dhirajgiri3/Shipcrowd-sub003/internal/packing/application"
	packingMongo "github.com/dhirajgiri3/Shipcrowd-sub003/internal/packing/infrastructure/mongodb"
	picklistapp "github.com/dhirajgiri3/Shipcrowd-sub003/internal/picklist/application"
	picklistMongo "github.com/dhirajgiri3/Shipcrowd-sub003/internal/picklist/infrastructure/mongodb"
	rtoapp "github.com/dhirajgiri3/Shipcrowd-sub003/internal/rto/application"
	rtoMongo "github.com/dhirajgiri3/Shipcrowd-sub003/internal/rto/infrastructure/mongodb"
)

const serviceName = "fulfillment-core"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting fulfillment-core API")

	config := loadConfig()
	ctx := context.Background()

	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)
	logger.Info("Metrics initialized")

	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	producer := kafka.NewProductionProducer(config.Kafka, m, logger)
	defer producer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	db := mongoClient.Database()

	inventoryRepo := inventoryMongo.NewInventoryRepository(db, cloudevents.NewEventFactory(cloudevents.SourceInventory))
	pickListRepo := picklistMongo.NewPickListRepository(db, cloudevents.NewEventFactory(cloudevents.SourcePickList))
	stationRepo := packingMongo.NewStationRepository(db, cloudevents.NewEventFactory(cloudevents.SourcePacking))
	rtoRepo := rtoMongo.NewRTORepository(db, cloudevents.NewEventFactory(cloudevents.SourceRTO))

	// All repositories write to the shared outbox collection, so a single
	// publisher drains them all.
	outboxPublisher := outbox.NewPublisher(
		inventoryRepo.GetOutboxRepository(),
		producer,
		logger,
		m,
		&outbox.PublisherConfig{
			PollInterval: 1 * time.Second,
			BatchSize:    100,
		},
	)
	if err := outboxPublisher.Start(ctx); err != nil {
		logger.WithError(err).Error("Failed to start outbox publisher")
		os.Exit(1)
	}
	defer outboxPublisher.Stop()
	logger.Info("Outbox publisher started")

	ledgerService := inventoryapp.NewLedgerService(inventoryRepo, logger, m)
	reservationService := inventoryapp.NewReservationService(inventoryRepo, logger, m)
	engineService := picklistapp.NewEngineService(pickListRepo, reservationService, logger, m)
	coordinatorService := packingapp.NewCoordinatorService(stationRepo, logger, m)
	lifecycleService := rtoapp.NewLifecycleService(rtoRepo, ledgerService, logger, m)

	router := gin.New()

	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)
	router.Use(middleware.MetricsMiddleware(m))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	v1 := router.Group("/api/v1")

	inventory := v1.Group("/inventory")
	{
		inventory.POST("", registerSKUHandler(ledgerService, logger))
		inventory.GET("", listInventoryHandler(ledgerService, logger))
		inventory.GET("/low-stock", lowStockHandler(ledgerService, logger))
		inventory.GET("/movements", movementHistoryHandler(ledgerService, logger))
		inventory.GET("/:sku", getInventoryHandler(ledgerService, logger))
		inventory.POST("/receive", receiveStockHandler(ledgerService, logger))
		inventory.POST("/adjust", adjustStockHandler(ledgerService, logger))
		inventory.POST("/damage", markDamagedHandler(ledgerService, logger))
		inventory.POST("/discontinue", discontinueSKUHandler(ledgerService, logger))
		inventory.POST("/reserve", reserveStockHandler(reservationService, logger))
		inventory.POST("/release", releaseReservationHandler(reservationService, logger))
		inventory.POST("/consume", consumeReservationHandler(reservationService, logger))
	}

	pickLists := v1.Group("/pick-lists")
	{
		pickLists.POST("", generatePickListHandler(engineService, logger))
		pickLists.GET("", listPickListsHandler(engineService, logger))
		pickLists.GET("/:pickListId", getPickListHandler(engineService, logger))
		pickLists.POST("/:pickListId/assign", assignPickListHandler(engineService, logger))
		pickLists.POST("/:pickListId/start", startPickingHandler(engineService, logger))
		pickLists.POST("/:pickListId/picks", recordPickHandler(engineService, logger))
		pickLists.POST("/:pickListId/complete", completePickListHandler(engineService, logger))
		pickLists.POST("/:pickListId/cancel", cancelPickListHandler(engineService, logger))
	}

	stations := v1.Group("/stations")
	{
		stations.POST("", registerStationHandler(coordinatorService, logger))
		stations.GET("", listStationsHandler(coordinatorService, logger))
		stations.GET("/:stationCode", getStationHandler(coordinatorService, logger))
		stations.POST("/:stationCode/assign", assignPackerHandler(coordinatorService, logger))
		stations.POST("/:stationCode/sessions", startSessionHandler(coordinatorService, logger))
		stations.POST("/:stationCode/pack", packItemHandler(coordinatorService, logger))
		stations.POST("/:stationCode/verify-weight", verifyWeightHandler(coordinatorService, logger))
		stations.POST("/:stationCode/complete", completeSessionHandler(coordinatorService, logger))
		stations.POST("/:stationCode/release", releaseStationHandler(coordinatorService, logger))
		stations.POST("/:stationCode/offline", stationOfflineHandler(coordinatorService, logger))
		stations.POST("/:stationCode/online", stationOnlineHandler(coordinatorService, logger))
	}

	rtos := v1.Group("/rtos")
	{
		rtos.POST("", createRTOHandler(lifecycleService, logger))
		rtos.GET("", listRTOHandler(lifecycleService, logger))
		rtos.GET("/:rtoId", getRTOHandler(lifecycleService, logger))
		rtos.GET("/:rtoId/notification", rtoNotificationHandler(lifecycleService, logger))
		rtos.POST("/:rtoId/in-transit", rtoInTransitHandler(lifecycleService, logger))
		rtos.POST("/:rtoId/delivered", rtoDeliveredHandler(lifecycleService, logger))
		rtos.POST("/:rtoId/qc", rtoRecordQCHandler(lifecycleService, logger))
		rtos.POST("/:rtoId/resolve", rtoResolveHandler(lifecycleService, logger))
	}

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	MongoDB    *mongodb.Config
	Kafka      *kafka.Config
}

func loadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "fulfillment"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:      []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ClientID:     serviceName,
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: -1,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
