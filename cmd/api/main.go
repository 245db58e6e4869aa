package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/buzlove/love-tree-backend/internal/api"
	"github.com/buzlove/love-tree-backend/internal/config"
	"github.com/buzlove/love-tree-backend/internal/logger"
	"github.com/buzlove/love-tree-backend/internal/repository"
	"github.com/buzlove/love-tree-backend/internal/service"
	"github.com/buzlove/love-tree-backend/internal/storage"
)

func main() {
	log := logger.NewDefault()
	logger.SetDefaultLogger(log)
	defer logger.Sync()

	// CONFIG_PATH overrides the config file location in deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}

	mascotRepo := repository.NewMascotRepository(db)
	letterRepo := repository.NewLetterRepository(db)
	relayRepo := repository.NewRelayRepository(db)
	pointRepo := repository.NewMapPointRepository(db)

	// The upload path cannot run without speech credentials; fail at boot
	// rather than on the first request.
	asrService, err := service.NewASRService(&cfg.ASR)
	if err != nil {
		log.WithError(err).Fatal("ASR vendor is not configured")
	}

	// Image generation and asset re-hosting are optional capabilities,
	// decided once here and injected; the pipeline degrades without them.
	imageGenService := service.NewImageGenService(&cfg.ImageGen)
	if !imageGenService.Enabled() {
		log.Warn("Image generation is not configured; mascots will have no image")
	}

	objectStorage, err := storage.NewStorage(&storage.S3Config{
		Type:      storage.StorageType(cfg.Storage.Type),
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}
	if objectStorage == nil {
		log.Warn("Asset storage is not configured; vendor image URLs will be served as-is")
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := objectStorage.EnsureBucket(ctx); err != nil {
			cancel()
			log.WithError(err).Fatal("Failed to ensure storage bucket")
		}
		cancel()
	}

	assetService := service.NewAssetService(objectStorage)
	mascotService := service.NewMascotService(
		mascotRepo,
		asrService,
		imageGenService,
		assetService,
		service.MascotConfig{
			MaxAudioDuration: time.Duration(cfg.Pipeline.MaxAudioSeconds) * time.Second,
			SampleRate:       cfg.ASR.SampleRate,
		},
	)

	router := api.SetupRouter(api.Deps{
		Mascots: mascotService,
		Letters: letterRepo,
		Relay:   relayRepo,
		Points:  pointRepo,
	}, &cfg.Server)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Infof("Starting API server on port %d (%s mode)", cfg.Server.Port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}
