package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lunary-backend/config"
	"lunary-backend/internal/api"
	"lunary-backend/internal/astro"
	"lunary-backend/internal/cosmic"
	"lunary-backend/internal/db"
	"lunary-backend/internal/invalidation"
	"lunary-backend/internal/notification"
	"lunary-backend/internal/refresh"
	"lunary-backend/internal/retrograde"
	"lunary-backend/internal/store"

	"github.com/SherClockHolmes/webpush-go"
)

func main() {
	logger := log.New(os.Stdout, "lunary-backend ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Fatalf("VAPID keys must be configured. Please generate them and add them to your config file.")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	ephemeris, err := astro.NewMeeusEphemeris(cfg.Ephemeris.VSOP87Dir)
	if err != nil {
		logger.Fatalf("failed to load ephemeris data: %v", err)
	}
	logger.Println("ephemeris data loaded")

	retroTable := retrograde.DefaultTable()
	if cfg.Retrograde.TablePath != "" {
		retroTable, err = retrograde.Load(cfg.Retrograde.TablePath)
		if err != nil {
			logger.Fatalf("failed to load retrograde table from %s: %v", cfg.Retrograde.TablePath, err)
		}
		logger.Printf("retrograde table loaded from %s", cfg.Retrograde.TablePath)
	}

	cosmicSvc := cosmic.NewService(appStore, ephemeris, retroTable)
	invalidator := invalidation.NewCoordinator(appStore)

	// Push delivery pool, fed by the batch refresh job.
	pool := notification.NewWorkerPool(cfg.Refresh.WorkerPoolSize, appStore, &webpushOptions)
	pool.Start(ctx)

	refreshJob := refresh.NewJob(appStore, cosmicSvc, pool, cfg.Refresh.PageSize)
	scheduler := refresh.NewScheduler(ctx, refreshJob)
	if err := scheduler.Register(cfg.Refresh.CronSpec); err != nil {
		logger.Fatalf("failed to register refresh schedule: %v", err)
	}
	scheduler.Start(cfg.Refresh.RunOnStart)
	defer scheduler.Stop()

	router := api.NewRouter(appStore, cosmicSvc, invalidator, retroTable, &webpushOptions)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
