// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/config"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/cron"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/database"
	recordsRepo "github.com/abhijeetnazar/finance-agent-whatsapp-bot/database/repository/records"
	scheduleRepo "github.com/abhijeetnazar/finance-agent-whatsapp-bot/database/repository/schedule"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/handlers"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/middleware"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/routes"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/services/finance"
	ai "github.com/abhijeetnazar/finance-agent-whatsapp-bot/services/intelligence"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/services/notification"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/services/scheduler"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/services/sweep"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSchedulerCache()
	utils.InitAgentContextCache()
	utils.StartHealthMonitor(
		[]*redis.Client{utils.SchedulerClient, utils.AgentContextClient},
		database.MongoClient,
	)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	schedRepo := scheduleRepo.NewRedisScheduleRepo(utils.GetSchedulerCacheClient())
	deliveryRepo := recordsRepo.NewMongoRecordRepo()

	// services.
	schedulerService := &scheduler.DefaultSchedulerService{
		Repo: schedRepo,
	}
	marketService := finance.NewYahooClient()
	sender := notification.NewWhatsAppSender(
		config.AppConfig.WhatsAppPhoneNumberID,
		config.AppConfig.WhatsAppAccessToken,
	)

	ctxStore := ai.NewRedisContextStore(utils.GetAgentContextCacheClient(), 30*time.Minute)
	agentService := ai.NewDefaultAgentService(
		ai.NewGeminiClient(config.AppConfig.GeminiAPIKey),
		ctxStore,
		schedulerService,
		marketService,
	)

	sweepRunner := &sweep.Runner{
		Repo:         schedRepo,
		Producer:     agentService,
		Sender:       sender,
		Records:      deliveryRepo,
		EntryTimeout: time.Duration(config.AppConfig.SweepEntryTimeoutSecs) * time.Second,
	}
	cron.InitSweepWorker(sweepRunner)

	// handlers.
	webhookHandler := handlers.NewWebhookHandler(agentService, sender)
	reminderHandler := handlers.NewReminderHandler(schedulerService, deliveryRepo)

	routes.RegisterRoutes(router, webhookHandler, reminderHandler)

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
