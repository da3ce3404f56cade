// File: notifyrelay/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notifyrelay/config"
	"notifyrelay/cron"
	"notifyrelay/database"
	notificationRepo "notifyrelay/database/repository/notification"
	projectRepo "notifyrelay/database/repository/project"
	"notifyrelay/handlers"
	"notifyrelay/middleware"
	"notifyrelay/routes"
	"notifyrelay/services/dispatch"
	"notifyrelay/services/notifier"
	"notifyrelay/services/project"
	"notifyrelay/services/reply"
	"notifyrelay/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()

	// Correlation table backend. Redis-backed tables survive restarts and
	// are shared across instances; the in-memory table is single-process.
	var corrTable dispatch.CorrelationTable
	var memTable *dispatch.MemoryCorrelationTable
	var redisClients []*redis.Client
	if config.AppConfig.CorrelationBackend == "redis" {
		utils.InitCorrelationCache()
		client := utils.GetCorrelationCacheClient()
		corrTable = dispatch.NewRedisCorrelationTable(client, config.CorrelationTTL())
		redisClients = append(redisClients, client)
	} else {
		memTable = dispatch.NewMemoryCorrelationTable(config.CorrelationTTL())
		corrTable = memTable
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	notifRepo := notificationRepo.NewMongoNotificationRepo()
	projRepo := projectRepo.NewMongoProjectRepo()

	// services.
	botNotifier := notifier.NewWebhookNotifier()

	dispatchService := dispatch.NewDispatchService(
		notifRepo,
		botNotifier,
		corrTable,
		config.AppConfig.MaxNotificationRetry,
		config.SendTimeout(),
		config.SendDelay(),
	)
	replyService := reply.NewReplyService(notifRepo, corrTable, botNotifier)
	projectService := project.NewProjectService(projRepo, notifRepo)

	notificationHandler := handlers.NewNotificationHandler(notifRepo, replyService)
	replyHandler := handlers.NewReplyHandler(replyService)
	projectHandler := handlers.NewProjectHandler(projectService)
	healthHandler := handlers.NewHealthHandler(notifRepo, projRepo)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Notification endpoints.
		CreateNotificationHandler: notificationHandler.CreateNotificationHandler,
		GetNotificationHandler:    notificationHandler.GetNotificationHandler,
		ListNotificationsHandler:  notificationHandler.ListNotificationsHandler,
		ListRepliesHandler:        notificationHandler.ListRepliesHandler,
		MarkReadHandler:           notificationHandler.MarkReadHandler,

		// Reply endpoint.
		SubmitReplyHandler: replyHandler.SubmitReplyHandler,

		// Project endpoints.
		CreateProjectHandler:    projectHandler.CreateProjectHandler,
		ListProjectsHandler:     projectHandler.ListProjectsHandler,
		UpdateWorkStatusHandler: projectHandler.UpdateWorkStatusHandler,

		// Health endpoint.
		HealthCheckHandler: healthHandler.HealthCheckHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background workers share a context cancelled at shutdown.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	utils.StartHealthMonitor(workerCtx, redisClients, database.MongoClient, botNotifier.HealthCheck, config.HealthTimeout())
	cron.StartDispatchWorker(workerCtx, dispatchService)
	if memTable != nil {
		cron.StartCorrelationSweeper(workerCtx, memTable)
	}

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
