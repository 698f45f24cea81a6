package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"planeteye/backend/internal/cache"
	"planeteye/backend/internal/config"
	"planeteye/backend/internal/database"
	"planeteye/backend/internal/fixtures"
	"planeteye/backend/internal/handlers"
	"planeteye/backend/internal/monitoring"
	"planeteye/backend/internal/quote"
	"planeteye/backend/internal/router"
	"planeteye/backend/internal/services"
	"planeteye/backend/internal/worker"

	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	pool, err := database.NewDatabasePool(&database.PoolConfig{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.GetDatabaseDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        logger.Warn,
	})
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer pool.Close()

	db := pool.DB
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := fixtures.Seed(db); err != nil {
		log.Fatalf("seed: %v", err)
	}

	redisCache := cache.NewRedisCache(&cache.CacheConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	multiCache := cache.NewMultiLevelCache(redisCache)
	defer multiCache.Close()

	taskService := services.NewTaskService()
	userService := services.NewUserService()
	projectService := services.NewProjectService()
	sessionService := services.NewSessionService(cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	dashboardService := services.NewDashboardService(multiCache)

	quoteProvider := quote.NewGeminiProvider(cfg.Quote)
	quoteService := quote.NewService(quoteProvider, multiCache, cfg.Quote.RefreshInterval)

	w := worker.NewWorker(worker.WorkerConfig{
		RedisClient:  redisCache.Client(),
		Concurrency:  cfg.Worker.Concurrency,
		PollInterval: cfg.Worker.PollInterval,
		Queues:       cfg.Worker.Queues,
	})
	worker.RegisterJobHandlers(w, db, taskService, quoteService)
	w.Start(cfg.Worker.Concurrency)
	defer w.Stop()

	scheduler := worker.NewScheduler(
		worker.NewJobQueue(redisCache.Client()),
		cfg.Worker.Queues[0],
		cfg.Quote.RefreshInterval,
		cfg.Worker.SweepInterval,
	)
	scheduler.Start()
	defer scheduler.Stop()

	monitoring.RegisterHealthCheck("database", func(ctx context.Context) error {
		return pool.Health()
	})
	monitoring.RegisterHealthCheck("cache", func(ctx context.Context) error {
		// Redis being down degrades caching, it does not take the app down.
		if err := multiCache.Health(); err != nil {
			log.Printf("cache health: %v", err)
		}
		return nil
	})

	engine := router.New(cfg, db, router.Handlers{
		Auth:      handlers.NewAuthHandler(db, sessionService),
		Tasks:     handlers.NewTaskHandler(db, taskService, userService),
		Users:     handlers.NewUserHandler(db, userService),
		Projects:  handlers.NewProjectHandler(db, projectService),
		Dashboard: handlers.NewDashboardHandler(db, dashboardService),
		Quote:     handlers.NewQuoteHandler(quoteService),
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Listening on %s", cfg.GetServerAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
