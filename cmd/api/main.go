package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timeclock-platform/shift-service/internal/application"
	mongoRepo "github.com/timeclock-platform/shift-service/internal/infrastructure/mongodb"
	"github.com/timeclock-platform/shift-service/internal/infrastructure/notify"
	"github.com/timeclock-platform/shift-service/pkg/cloudevents"
	"github.com/timeclock-platform/shift-service/pkg/kafka"
	"github.com/timeclock-platform/shift-service/pkg/logging"
	"github.com/timeclock-platform/shift-service/pkg/metrics"
	"github.com/timeclock-platform/shift-service/pkg/middleware"
	"github.com/timeclock-platform/shift-service/pkg/mongodb"
	"github.com/timeclock-platform/shift-service/pkg/resilience"
)

func main() {
	// Setup logger
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting shift-service API")

	config := loadConfig()
	ctx := context.Background()

	// Initialize Prometheus metrics
	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)
	businessMetrics := middleware.NewBusinessMetrics(m)
	logger.Info("Metrics initialized")

	// Initialize MongoDB with instrumentation. Startup races the database
	// in compose and Kubernetes, so the initial connect is retried.
	mongoClient, err := resilience.RetryWithResult(ctx, resilience.DefaultRetryConfig(), func() (*mongodb.Client, error) {
		return mongodb.NewClient(ctx, config.MongoDB)
	})
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	instrumentedMongo := mongodb.NewInstrumentedClient(mongoClient, m, logger)
	defer instrumentedMongo.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Initialize Kafka producer with instrumentation
	kafkaProducer := kafka.NewProducer(config.Kafka)
	instrumentedProducer := kafka.NewInstrumentedProducer(kafkaProducer, m, logger)
	defer instrumentedProducer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	// Completion notifications go through a circuit breaker so a broker
	// outage cannot slow down shift endings.
	eventFactory := cloudevents.NewEventFactory(cloudevents.SourceShiftService)
	notifierBreaker := resilience.NewCircuitBreaker(
		resilience.DefaultCircuitBreakerConfig("shift-completion-notifier"),
		logger.Logger,
	)
	notifier := notify.NewKafkaCompletionNotifier(instrumentedProducer, eventFactory, notifierBreaker, logger)
	eventPublisher := notify.NewKafkaEventPublisher(instrumentedProducer, eventFactory, logger)

	// Initialize repository and application service
	repo := mongoRepo.NewShiftRepository(instrumentedMongo, logger)
	shiftService := application.NewShiftApplicationService(repo, notifier, eventPublisher, logger)

	// Setup Gin router with middleware
	router := gin.New()

	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)
	router.Use(middleware.MetricsMiddleware(m))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	// Health check endpoints
	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return instrumentedMongo.HealthCheck(ctx)
	}))

	// Metrics endpoint
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	// API v1 routes, all scoped to the authenticated employee
	apiV1 := router.Group("/api/v1")

	shifts := apiV1.Group("/shifts")
	shifts.Use(middleware.EmployeeAuth(middleware.DefaultAuthConfig()))
	{
		shifts.POST("/start", startShiftHandler(shiftService, logger, businessMetrics))
		shifts.POST("/end", endShiftHandler(shiftService, logger, businessMetrics))
		shifts.POST("/break/start", startBreakHandler(shiftService, logger, businessMetrics))
		shifts.POST("/break/end", endBreakHandler(shiftService, logger))
		shifts.GET("/current", getCurrentShiftHandler(shiftService, logger))
		shifts.GET("", listShiftsHandler(shiftService, logger))
		shifts.GET("/all", middleware.RequireAdmin(), listAllShiftsHandler(shiftService, logger))
	}

	// Start server
	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
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
