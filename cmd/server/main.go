// Package main runs the Rec4U screen-recorder backend: auth, recording
// uploads, and the background metadata extraction workers.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rec4u/backend/config"
	"github.com/rec4u/backend/internal/auth"
	"github.com/rec4u/backend/internal/media"
	"github.com/rec4u/backend/internal/middleware"
	"github.com/rec4u/backend/internal/recordings"
	"github.com/rec4u/backend/internal/worker"
	"github.com/rec4u/backend/pkg/database"
	"github.com/rec4u/backend/pkg/queue"
	"github.com/rec4u/backend/pkg/response"
	"github.com/rec4u/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	blobStore, err := storage.NewLocalStore(cfg.Storage.RecordingsDir, logger)
	if err != nil {
		logger.Fatal("blob store", zap.Error(err))
	}
	logger.Info("recordings directory ready", zap.String("dir", blobStore.Dir()))

	// Redis backs login rate limiting only; unreachable Redis disables it.
	var rdb *redis.Client
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, login rate limiting disabled", zap.Error(err))
		client.Close()
	} else {
		rdb = client
		defer rdb.Close()
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.ExpireMinutes)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Recordings: upload pipeline + deferred metadata extraction
	recordingRepo := recordings.NewRepository(pool)
	jobQueue := queue.New(cfg.Worker.QueueSize, logger)
	uploadService := recordings.NewService(blobStore, recordingRepo, jobQueue, logger)
	recordingHandler := recordings.NewHandler(uploadService, recordingRepo, logger)

	extractor := media.NewFFProbe(cfg.Storage.FFProbePath)
	processor := worker.NewMetadataProcessor(recordingRepo, extractor, jobQueue, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login",
			middleware.LoginRateLimit(rdb, cfg.Server.LoginRateLimit,
				time.Duration(cfg.Server.LoginRateWindowSec)*time.Second, logger),
			authHandler.Login)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/auth/me", authHandler.Me)

		api.POST("/recordings/upload", recordingHandler.Upload)
		api.GET("/recordings", recordingHandler.List)
		api.PUT("/recordings/:id", recordingHandler.Rename)
		api.DELETE("/recordings/:id", recordingHandler.Delete)
		api.POST("/recordings/:id/rescan", recordingHandler.Rescan)
		api.GET("/recordings/file/:filename", recordingHandler.ServeFile)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background metadata workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go processor.Run(workerCtx, cfg.Worker.Workers)
	logger.Info("metadata workers started", zap.Int("workers", cfg.Worker.Workers))

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
