package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hospital-sim-reporting/internal/blob"
	"hospital-sim-reporting/internal/chart"
	"hospital-sim-reporting/internal/config"
	"hospital-sim-reporting/internal/handler"
	"hospital-sim-reporting/internal/logger"
	"hospital-sim-reporting/internal/mailer"
	"hospital-sim-reporting/internal/middleware"
	"hospital-sim-reporting/internal/service"
	"hospital-sim-reporting/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()

	// 2. Build the process logger
	logg, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "hospital-sim-reporting")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logg.Sync()
	logg.Info("configuration loaded")

	// 3. Initialize the blob store client
	ctx := context.Background()
	blobs, err := blob.NewS3Store(ctx, cfg.Blob, logg)
	if err != nil {
		logg.Fatal("failed to initialize blob store", zap.Error(err))
	}

	// 4. Initialize services
	mail := mailer.NewSMTPMailer(cfg.Email, logg)
	reports := service.NewReportService(blobs, chart.NewRenderer(), mail, cfg.Store.ReportsContainer, logg)
	runs := service.NewRunService(cfg, blobs, reports, logg)

	// 5. Schedule the daily generate and analyze runs
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Schedule.Generate, func() {
		if err := runs.RunGenerate(context.Background()); err != nil {
			logg.Error("scheduled generate run failed", zap.Error(err))
		}
	}); err != nil {
		logg.Fatal("invalid generate schedule", zap.String("schedule", cfg.Schedule.Generate), zap.Error(err))
	}
	if _, err := scheduler.AddFunc(cfg.Schedule.Analyze, func() {
		if err := runs.RunAnalyze(context.Background()); err != nil {
			logg.Error("scheduled analyze run failed", zap.Error(err))
		}
	}); err != nil {
		logg.Fatal("invalid analyze schedule", zap.String("schedule", cfg.Schedule.Analyze), zap.Error(err))
	}
	scheduler.Start()
	logg.Info("scheduler started",
		zap.String("generate", cfg.Schedule.Generate),
		zap.String("analyze", cfg.Schedule.Analyze))

	// 6. Setup Gin router for health and manual triggers
	gin.SetMode(cfg.Server.GinMode)
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": "hospital-sim-reporting",
		})
	})

	triggerHandler := handler.NewTriggerHandler(runs)
	trigger := r.Group("/trigger")
	trigger.Use(middleware.APIKeyAuth(cfg.Server.TriggerAPIKey))
	{
		trigger.POST("/generate", triggerHandler.Generate)
		trigger.POST("/analyze", triggerHandler.Analyze)
	}

	// 7. Start the server
	go func() {
		logg.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := r.Run(":" + cfg.Server.Port); err != nil {
			logg.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// 8. Wait for interrupt signal, then stop the scheduler
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutting down")
	scheduler.Stop()
	logg.Info("server exited")
}
