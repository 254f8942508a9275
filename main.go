// File: resortagent/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resortagent/config"
	"resortagent/handlers"
	"resortagent/middleware"
	"resortagent/routes"
	"resortagent/services/extractor"
	"resortagent/services/mailbox"
	"resortagent/services/notification"
	"resortagent/services/pipeline"
	"resortagent/services/reservation"
	"resortagent/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// services.
	gemini, err := extractor.NewGeminiClient(context.Background(), config.AppConfig.GeminiAPIKey)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize Gemini client: %v", err)
	}
	extractorSvc := extractor.NewDefaultExtractor(gemini, logger)

	reservationClient := reservation.NewClient(
		config.AppConfig.BookingAPIURL,
		config.AppConfig.AdminUsername,
		config.AppConfig.AdminPassword,
		logger,
	)

	requestPipeline := pipeline.NewDefaultRequestPipeline(extractorSvc, reservationClient, logger)

	notifier := notification.NewTwilioNotifier(
		config.AppConfig.TwilioAccountSID,
		config.AppConfig.TwilioAuthToken,
		config.AppConfig.TwilioWhatsAppNumber,
		logger,
	)

	webhookHandler := handlers.NewWebhookHandler(requestPipeline, extractorSvc, notifier, logger)

	// Register routes.
	routes.RegisterRoutes(router, webhookHandler)

	// Email intake runs only when mailbox credentials are configured.
	if config.AppConfig.GmailUser != "" && config.AppConfig.GmailAppPassword != "" {
		seenStore := mailbox.NewSeenStore(utils.GetDedupCacheClient())
		poller := mailbox.NewPoller(
			config.AppConfig.IMAPAddr,
			config.AppConfig.GmailUser,
			config.AppConfig.GmailAppPassword,
			requestPipeline,
			seenStore,
			logger,
		)
		mailbox.InitMailboxWorker(poller)
	} else {
		logger.Sugar().Info("main: mailbox polling disabled, no credentials configured")
	}

	utils.StartKeepAlive(config.AppConfig.KeepAliveURL)

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
