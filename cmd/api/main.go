package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/wellspringhq/wellspring-engine/internal/adapters/cache"
	adapterHTTP "github.com/wellspringhq/wellspring-engine/internal/adapters/handler/http"
	"github.com/wellspringhq/wellspring-engine/internal/adapters/repository"
	"github.com/wellspringhq/wellspring-engine/internal/core/services"
	"github.com/wellspringhq/wellspring-engine/internal/core/workers"
	"github.com/wellspringhq/wellspring-engine/pkg/logger"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()
	log := logger.New()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	serverPort := envOr("PORT", "8080")

	jwtSecret := envOr("JWT_SECRET", "dev-secret-change-me")
	jwtIssuer := envOr("JWT_ISSUER", "wellspring-engine")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Info("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.WithError(err).Fatal("Critical: failed to connect to database")
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Info("Database connected successfully")

	redisDB, _ := strconv.Atoi(envOr("REDIS_DB", "0"))
	rdb, err := cache.NewRedisClient(
		envOr("REDIS_HOST", "localhost"),
		envOr("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		redisDB,
	)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without cache and rate limiting")
		rdb = nil
	}

	userRepo := repository.NewPostgresUserRepository(db.DB)
	habitRepo := repository.NewPostgresHabitRepository(db)
	achievementRepo := repository.NewPostgresAchievementRepository(db)
	recordRepo := repository.NewPostgresRecordRepository(db)

	ledgerRepo := repository.NewPostgresLedgerRepository(db)

	tokenService := services.NewTokenService(jwtSecret, jwtIssuer, 24*time.Hour, userRepo)
	authService := services.NewAuthService(userRepo, tokenService)

	recountWorker := workers.NewRecountWorker(habitRepo, log)

	progressService := services.NewProgressService(ledgerRepo, achievementRepo, habitRepo, recordRepo, log)
	if rdb != nil {
		cached := repository.NewCachedLedgerRepository(ledgerRepo, rdb, log)
		progressService = services.NewProgressService(cached, achievementRepo, habitRepo, recordRepo, log)
	}

	habitService := services.NewHabitService(habitRepo, recountWorker)
	recordService := services.NewRecordService(recordRepo)

	var quoteCache services.DailyCache = cache.NewMemoryDailyCache()
	if rdb != nil {
		quoteCache = cache.NewRedisDailyCache(rdb, "quote")
	}
	quoteService := services.NewQuoteService(services.NewStaticQuoteClient(), quoteCache, log)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	recountWorker.Start(workerCtx)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService),
		ActivityHandler: adapterHTTP.NewActivityHandler(progressService),
		HabitHandler:    adapterHTTP.NewHabitHandler(habitService, progressService),
		RecordHandler:   adapterHTTP.NewRecordHandler(recordService),
		QuoteHandler:    adapterHTTP.NewQuoteHandler(quoteService),
		TokenService:    tokenService,
		DB:              db,
		Redis:           rdb,
		StartTime:       startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("Wellspring Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Critical server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Stop signal received. Shutting down...")
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Forced shutdown error")
	}

	log.Info("Server stopped gracefully")
}
