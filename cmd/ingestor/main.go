package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gaming-sentiment-tracker/internal/classifier"
	"gaming-sentiment-tracker/internal/ingestor/config"
	"gaming-sentiment-tracker/internal/ingestor/digest"
	"gaming-sentiment-tracker/internal/ingestor/repository"
	"gaming-sentiment-tracker/internal/ingestor/service"
	"gaming-sentiment-tracker/internal/ingestor/source"
	"gaming-sentiment-tracker/pkg/common"
	"gaming-sentiment-tracker/pkg/logger"
	"gaming-sentiment-tracker/pkg/postgres"
	redisPkg "gaming-sentiment-tracker/pkg/redis"
	"gaming-sentiment-tracker/pkg/telegram"

	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the comment ingestion service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Ingestion Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize optional Redis duplicate short-circuit
	var redisClient *redisPkg.Client
	if cfg.Redis.Enabled {
		redisCfg := redisPkg.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}
		redisClient, err = redisPkg.NewClient(redisCfg)
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
	}

	// Initialize optional Telegram notifier
	var notifier telegram.Notifier
	if cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize classifier
	taxonomy := classifier.NewTaxonomy(cfg.Taxonomy.Categories)
	analyzer := classifier.NewSentimentAnalyzer()
	appLogger.Info("Keyword taxonomy loaded", logger.IntField("keywords", taxonomy.Size()))

	// Initialize comment source
	var commentSource source.Source
	switch cfg.Reddit.Source {
	case common.SourceRedditRSS:
		commentSource = source.NewRedditRSSSource(cfg.Reddit, appLogger)
	default:
		commentSource = source.NewRedditSource(cfg.Reddit, appLogger)
	}

	// Initialize repository and ingestion loop
	mentionRepo := repository.NewMentionRepository(db.DB, appLogger)
	ingestSvc := service.NewIngestService(cfg, commentSource, taxonomy, analyzer, mentionRepo, redisClient, notifier, appLogger)

	// Start the daily digest job
	if cfg.Digest.Enabled {
		digestJob, err := digest.New(cfg.Digest.Cron, mentionRepo, notifier, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to schedule digest job", logger.ErrorField(err))
		}
		digestJob.Start()
		defer digestJob.Stop()
	}

	// Run the ingestion loop until cancelled or the stream fails
	if err := ingestSvc.Run(ctx); err != nil {
		appLogger.Error("Ingestion service stopped with error", logger.ErrorField(err))
		os.Exit(1)
	}

	appLogger.Info("Ingestion service stopped")
}

func main() {
	rootCmd := &cobra.Command{Use: "ingestor"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-ingestor.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing ingestor CLI: %s\n", err)
		os.Exit(1)
	}
}
