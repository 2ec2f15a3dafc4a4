package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hireloop/interview/internal/archive"
	"hireloop/interview/internal/config"
	"hireloop/interview/internal/handlers"
	"hireloop/interview/internal/interview"
	"hireloop/interview/internal/jobs"
	"hireloop/interview/internal/llm"
	_ "hireloop/interview/internal/llm/gemini"
	"hireloop/interview/internal/prompts"
	"hireloop/interview/internal/routers"
	"hireloop/interview/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func registerRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, sessionHandler *handlers.SessionHandler, socketHandler *handlers.SessionSocketHandler, archiveHandler *handlers.ArchiveHandler, healthHandler *handlers.HealthHandler) {
	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, interviewHandler)
	routers.SessionRoutes(router, sessionHandler, socketHandler)
	routers.ArchiveRoutes(router, archiveHandler)
}

// Helper function for environment variables
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// initDatabase opens the archive database per configuration: sqlite for
// single-node deployments, postgres otherwise.
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseDriver == "sqlite" {
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return db, nil
	}

	host := getEnv("POSTGRES_HOST", "localhost")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "postgres")
	dbname := getEnv("POSTGRES_DB", "postgres")
	port := getEnv("POSTGRES_PORT", "5432")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initSessionStore builds the live-session mirror per configuration.
func initSessionStore(cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return store.New("redis", store.WithRedisClient(client))
	}
	return store.New("memory")
}

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("session_store", cfg.StoreDriver),
		zap.String("archive_db", cfg.DatabaseDriver))

	// prompt manager
	promptManager, err := prompts.NewManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	// model provider based on configuration
	provider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize model provider", zap.Error(err))
	}
	oracle := llm.NewInterviewer(provider, promptManager, logger)

	// archive database
	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize archive database", zap.Error(err))
	}
	archiveStore, err := archive.NewStore(db)
	if err != nil {
		logger.Fatal("Failed to initialize archive store", zap.Error(err))
	}

	// live-session mirror
	sessionStore, err := initSessionStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize session store", zap.Error(err))
	}
	defer sessionStore.Close()

	// the session controller, restored from the mirror if a session was live
	controller := interview.NewController(oracle, archiveStore, sessionStore, logger)
	controller.StartClock()
	defer controller.Close()

	interviewHandler := handlers.NewInterviewHandler(oracle, logger)
	sessionHandler := handlers.NewSessionHandler(controller, logger)
	socketHandler := handlers.NewSessionSocketHandler(controller, logger)
	archiveHandler := handlers.NewArchiveHandler(archiveStore, logger)
	healthHandler := handlers.NewHealthHandler(provider, promptManager, cfg)

	// transcript exporter job
	exporterJob := jobs.NewTranscriptExporterJob(archiveStore, &jobs.ExporterConfig{
		Schedule:      cfg.ExportSchedule,
		ExportDir:     cfg.ExportDir,
		ExportEnabled: cfg.ExportEnabled,
	}, logger)
	if err := exporterJob.Start(); err != nil {
		logger.Error("Failed to start transcript exporter job", zap.Error(err))
	}

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{getEnv("FRONTEND_ORIGIN", "http://localhost:5173")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(120*time.Second))

	registerRoutes(router, interviewHandler, sessionHandler, socketHandler, archiveHandler, healthHandler)

	serverAddr := ":" + cfg.Port

	// http server with timeouts; the write timeout stays generous because
	// model rounds can take most of a minute
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	exporterJob.Stop()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
