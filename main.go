package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetsync/config"
	"meetsync/cron"
	"meetsync/database"
	meetingRepoPkg "meetsync/database/repository/meeting"
	"meetsync/handlers"
	"meetsync/knowledge"
	"meetsync/middleware"
	"meetsync/routes"
	ai "meetsync/services/intelligence"
	"meetsync/services/notification"
	"meetsync/services/scheduler"
	"meetsync/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	// Reference data: attendee directory, availability snapshots, rooms.
	kb, err := knowledge.Load(config.AppConfig.AvailabilityDataFile)
	if err != nil {
		logger.Sugar().Warnf("main: dataset file unavailable, using built-in reference data: %v", err)
		kb = knowledge.Default()
	}

	// Reasoning oracle. The scheduler stays functional without it via its
	// deterministic fallback.
	var oracle ai.ReasoningOracle
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		client, err := ai.NewGeminiClient(key, config.AppConfig.GeminiModel)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize gemini client: %v", err)
		}
		oracle = client
	} else {
		logger.Sugar().Warn("main: no oracle API key configured, running on deterministic fallback only")
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	meetingRepo := meetingRepoPkg.NewMongoMeetingRepo()

	// Services.
	sessionTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	checkpoints := scheduler.NewRedisCheckpointStore(utils.GetCheckpointCacheClient(), sessionTTL)
	registry := scheduler.NewSessionRegistry(sessionTTL)

	reminderOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	}
	push := &notification.PushService{}
	inviteService := &notification.DefaultInviteService{
		Calendar:  notification.NewCalendarClient(config.AppConfig.CalendarServiceURL),
		Push:      push,
		Reminders: notification.NewReminderScheduler(reminderOpts, time.Duration(config.AppConfig.ReminderLeadMinutes)*time.Minute),
	}

	schedulerService := scheduler.NewDefaultSchedulerService(
		oracle, kb, checkpoints, registry, inviteService, meetingRepo,
	)

	// Background workers: meeting reminders and session reclamation.
	cron.InitReminderWorker(push)
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := schedulerService.SweepSessions(context.Background()); n > 0 {
				logger.Sugar().Infof("main: reclaimed %d idle sessions", n)
			}
		}
	}()

	// Assemble the handler bundle and register routes.
	handlerBundle := handlers.NewHandlerBundle(schedulerService, meetingRepo)
	routes.RegisterRoutes(router, handlerBundle)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
