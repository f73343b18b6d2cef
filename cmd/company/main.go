package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/drosetti/interbanking/internal/company/cache"
	"github.com/drosetti/interbanking/internal/company/config"
	"github.com/drosetti/interbanking/internal/company/controller"
	"github.com/drosetti/interbanking/internal/company/db"
	"github.com/drosetti/interbanking/internal/company/db/memory"
	"github.com/drosetti/interbanking/internal/company/events"
	"github.com/drosetti/interbanking/internal/company/handlers"
	"github.com/drosetti/interbanking/internal/company/metrics"
	"github.com/drosetti/interbanking/internal/pkg/idgen"
)

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := config.Load(configPath())
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	companies, transfers, adhesions, cleanup, err := initStorage(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}
	defer cleanup()

	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	reportCache, err := cache.New(context.Background(), cache.Config{
		Driver:   cfg.CacheDriver,
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   cfg.CachePrefix,
	})
	if err != nil {
		logger.Fatal("failed to initialize cache", zap.Error(err))
	}
	defer func() {
		if err := reportCache.Close(); err != nil {
			logger.Error("failed to close cache", zap.Error(err))
		}
	}()

	if cfg.AuditEnabled {
		consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, cfg.Topic, logger)
		consumer.RegisterHandler(func(_ context.Context, eventType events.EventType, adhesion json.RawMessage) error {
			logger.Info("adhesion event",
				zap.String("event_type", string(eventType)),
				zap.ByteString("adhesion", adhesion),
			)
			return nil
		})
		auditCtx, cancelAudit := context.WithCancel(context.Background())
		defer cancelAudit()
		consumer.Start(auditCtx)
		defer consumer.Close()
	}

	companySvc := controller.NewCompanyService(companies, transfers, adhesions, producer, initIDGenerator(cfg), logger)

	companyHandler := handlers.NewCompanyHandler(companySvc, reportCache, cfg.ReportTTL(), metrics.New(), logger)
	server := handlers.NewServer(cfg.HTTPPort, companyHandler, cfg.JWTSecret, logger)

	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return filepath.Join("internal", "company", "config", "config.yaml")
}

// initStorage builds the repositories for the configured driver.
func initStorage(cfg *config.Config, logger *zap.Logger) (
	controller.CompanyRepository,
	controller.TransferRepository,
	controller.AdhesionRepository,
	func(),
	error,
) {
	if cfg.StorageDriver == "memory" {
		logger.Info("using in-memory storage")
		return memory.NewCompanyRepo(), memory.NewTransferRepo(), memory.NewAdhesionRepo(), func() {}, nil
	}

	database, err := db.New(&db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		return nil, nil, nil, nil, err
	}
	cleanup := func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}
	return database.Companies(), database.Transfers(), database.Adhesions(), cleanup, nil
}

func initIDGenerator(cfg *config.Config) idgen.Generator {
	if cfg.IDGenerator == "uuid" {
		return idgen.NewUUIDGenerator()
	}
	return idgen.NewTokenGenerator()
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down the server.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Server stopped properly")
}
