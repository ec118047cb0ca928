package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/lucasorrentino/weekwise/internal/adapters/cache"
	adapterHTTP "github.com/lucasorrentino/weekwise/internal/adapters/handler/http"
	"github.com/lucasorrentino/weekwise/internal/adapters/repository"
	"github.com/lucasorrentino/weekwise/internal/config"
	"github.com/lucasorrentino/weekwise/internal/core/offline"
	"github.com/lucasorrentino/weekwise/internal/core/services"
	"github.com/lucasorrentino/weekwise/internal/core/workers"
)

func main() {
	startTime := time.Now()

	cfg := config.Load()

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	rdb, err := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
		rdb = nil
	}

	userRepo := repository.NewPostgresUserRepository(db)
	habitRepo := repository.NewPostgresHabitRepository(db)
	recordRepo := repository.NewPostgresRecordRepository(db)

	habits := services.NewHabitService(habitRepo)
	if rdb != nil {
		habits = services.NewHabitService(repository.NewCachedHabitRepository(habitRepo, rdb))
	}

	worker := workers.NewSnapshotWorker(habitRepo, recordRepo, rdb, nil)

	records := services.NewRecordService(recordRepo, habitRepo, worker)
	analyticsSvc := services.NewAnalyticsService(habitRepo, recordRepo, nil)
	exportSvc := services.NewExportService(analyticsSvc)
	authSvc := services.NewAuthService(userRepo)
	tokenSvc := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenDuration, userRepo)
	applier := offline.NewServiceApplier(habits, records)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	worker.Start(workerCtx)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(authSvc, tokenSvc),
		HabitHandler:     adapterHTTP.NewHabitHandler(habits),
		RecordHandler:    adapterHTTP.NewRecordHandler(records),
		AnalyticsHandler: adapterHTTP.NewAnalyticsHandler(analyticsSvc),
		ExportHandler:    adapterHTTP.NewExportHandler(exportSvc),
		SyncHandler:      adapterHTTP.NewSyncHandler(applier),
		TokenService:     tokenSvc,
		DB:               db,
		Redis:            rdb,
		StartTime:        startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Weekwise running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
