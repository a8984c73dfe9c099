package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"kiranastock/internal/app/inventory/config"
	"kiranastock/internal/app/inventory/handler"
	"kiranastock/internal/app/inventory/repository"
	"kiranastock/internal/app/inventory/service"
	"kiranastock/internal/app/inventory/util"
	"kiranastock/pkg/logger"
	"kiranastock/web"
)

func main() {
	// === CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("inventory-service", os.Getenv("LOG_LEVEL"))

	// === POSTGRESQL ===
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().Msg("Successfully connected to PostgreSQL")

	// === SCHEMA MIGRATION ===
	// Includes the one-time conversion of the legacy items.category text
	// column into the category_id foreign key. The service refuses to
	// start on a failed migration rather than run against a half-converted
	// schema.
	if err := repository.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database schema")
	}

	// === REDIS ===
	// Redis backs the category list cache.
	redisClient, err := util.NewRedisClient(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("Successfully connected to Redis")

	// === KAFKA PRODUCER ===
	// Item change events go to the item_events topic.
	kafkaProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Msg("Successfully initialized Kafka producer")

	// === REPOSITORIES ===
	categoryRepo := repository.NewCategoryRepository(db)
	itemRepo := repository.NewItemRepository(db)

	// === BUSINESS LOGIC ===
	inventoryService := service.NewInventoryService(
		categoryRepo,
		itemRepo,
		redisClient,
		kafkaProducer,
	)

	// === SEEDING ===
	// Fills an empty store with the default catalog; a stocked store is
	// left untouched.
	if err := inventoryService.SeedIfEmpty(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed database")
	}

	// === HTTP HANDLERS AND ROUTES ===
	inventoryHandler := handler.NewInventoryHandler(inventoryService)

	webAssets, err := web.Static()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load embedded web client")
	}

	router := handler.SetupRoutes(inventoryHandler, webAssets)

	// === HTTP SERVER ===
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Inventory Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Inventory Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Inventory Service stopped gracefully")
}

// connectDB opens the gorm connection with retry logic, for starts in
// Docker where PostgreSQL may not be ready yet.
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			var sqlDB *sql.DB
			if sqlDB, err = db.DB(); err == nil {
				if err = sqlDB.Ping(); err == nil {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
					return db, nil
				}
			}
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to database, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
