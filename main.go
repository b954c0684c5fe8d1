package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"shiftdesk/config"
	"shiftdesk/internal/app"
	"shiftdesk/internal/chat"
	"shiftdesk/internal/database"
	"shiftdesk/internal/events"
	"shiftdesk/internal/metrics"
	"shiftdesk/internal/server"
	"shiftdesk/internal/services"
	"shiftdesk/internal/storage"
	"shiftdesk/internal/storage/memory"
	"shiftdesk/internal/storage/postgres"
	"shiftdesk/internal/sweeper"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Initialize Storage ---
	var store storage.Store
	switch cfg.Storage.Driver {
	case "memory":
		log.Println("Using in-memory storage")
		store = memory.NewStore()
	default:
		if err := database.RunMigrations(database.URL(cfg.DB)); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		dbPool, err := database.NewConnectionPool(cfg.DB)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer dbPool.Close()
		store = postgres.NewStore(dbPool)
	}

	// --- Initialize Redis Client (optional) ---
	var emitter events.Emitter
	var chatBootstrap chat.Bootstrapper
	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("WARN: Failed to connect to Redis: %v. Falling back to log-only notifications.", err)
		redisClient = nil
		emitter = events.NewLogEmitter()
		chatBootstrap = chat.NewNopBootstrapper()
	} else {
		defer redisClient.Close()
		emitter = events.NewRedisEmitter(redisClient)
		chatBootstrap = chat.NewRedisBootstrapper(redisClient)
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	validate := validator.New()

	// --- Services ---
	userService := services.NewUserService(store.Users(), cfg.JWT.Secret, cfg.JWT.Expiration)
	shiftService := services.NewShiftService(store, emitter, recorder)
	applicationService := services.NewApplicationService(store, emitter, chatBootstrap, recorder)
	jobService := services.NewJobService(store, emitter, chatBootstrap, recorder)

	// --- Shift Sweeper ---
	shiftSweeper := sweeper.NewSweeper(shiftService, cfg.Sweeper.Interval)
	shiftSweeper.Start(context.Background())

	application := &app.Application{
		Config:             cfg,
		Store:              store,
		RedisClient:        redisClient,
		Validator:          validate,
		Registry:           registry,
		UserService:        userService,
		ShiftService:       shiftService,
		ApplicationService: applicationService,
		JobService:         jobService,
	}

	srv := server.NewServer(application)

	// --- Graceful Shutdown Handling ---
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	log.Println("Shutting down server and sweeper...")

	shiftSweeper.Stop()

	// Gin shutdowns on its own

	log.Println("Application gracefully stopped.")
}
