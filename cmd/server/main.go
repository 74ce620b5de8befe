package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"token-forge.backend/internal/config"
	"token-forge.backend/internal/infrastructure/blockchain"
	"token-forge.backend/internal/infrastructure/jobs"
	"token-forge.backend/internal/infrastructure/models"
	"token-forge.backend/internal/infrastructure/repositories"
	"token-forge.backend/internal/infrastructure/storage"
	"token-forge.backend/internal/interfaces/http/handlers"
	"token-forge.backend/internal/interfaces/http/middleware"
	"token-forge.backend/internal/metrics"
	"token-forge.backend/internal/usecases"
	"token-forge.backend/pkg/jwt"
	"token-forge.backend/pkg/logger"
	"token-forge.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(context.Background(), "Database not available, endpoints will return errors", zap.Error(err))
	} else if err := db.AutoMigrate(
		&models.Chain{},
		&models.Token{},
		&models.TokenMetadata{},
		&models.TemporaryMetadata{},
		&models.TokenMetadataHistory{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories
	chainRepo := repositories.NewChainRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)
	metadataRepo := repositories.NewMetadataRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)

	// Ownership verification
	clientFactory := blockchain.NewClientFactory()
	ownerResolver := usecases.NewChainOwnerResolver(chainRepo, clientFactory, cfg.Verifier.Timeout)

	// Logo asset storage
	pinStore := storage.NewPinStore(cfg.Storage.PinEndpoint, cfg.Storage.PinToken, cfg.Storage.GatewayURL)
	localStore := storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
	assetStore := storage.NewFallbackStore(pinStore, localStore)

	// Usecases
	metadataUsecase := usecases.NewMetadataUsecase(
		metadataRepo,
		sessionRepo,
		tokenRepo,
		ownerResolver,
		assetStore,
		cfg.Metadata.AdminAddresses,
		cfg.Metadata.SessionTTL,
		cfg.Storage.MaxLogoBytes,
	)

	// Handlers
	metadataHandler := handlers.NewMetadataHandler(metadataUsecase)
	chainHandler := handlers.NewChainHandler(chainRepo)

	// Background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweepJob := jobs.NewSessionSweepJob(sessionRepo, 10*time.Minute)
	go sweepJob.Start(ctx)

	// Router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(metrics.Middleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerAPIV1Routes(r, routeDeps{
		metadataHandler: metadataHandler,
		chainHandler:    chainHandler,
		authMiddleware:  middleware.AuthMiddleware(jwtService),
		assetDir:        cfg.Storage.LocalDir,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(context.Background(), "Shutting down server")
		sweepJob.Stop()
		cancel()
	}()

	logger.Info(context.Background(), "Token metadata service starting",
		zap.String("port", cfg.Server.Port),
	)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
