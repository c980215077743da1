package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ambulance-request-backend/internal/config"
	"ambulance-request-backend/internal/database"
	"ambulance-request-backend/internal/events"
	"ambulance-request-backend/internal/handler"
	"ambulance-request-backend/internal/middleware"
	"ambulance-request-backend/internal/observability"
	"ambulance-request-backend/internal/repository"
	"ambulance-request-backend/internal/service"
	"ambulance-request-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const serviceName = "ambulance-request-backend"

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	observability.InitLogger(serviceName, cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("configuration loaded")

	// 2. Initialize JWT utilities and request validators
	utils.InitJWT(cfg.JWT.AccessSecret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	if err := utils.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize database connection and schema
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// 4. Initialize the request event bus
	bus := newEventBus(ctx, cfg)
	defer func() {
		if err := bus.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close event bus")
		}
	}()

	// 5. Initialize repositories
	userRepo := repository.NewUserRepo(db)
	hospitalRepo := repository.NewHospitalRepo(db)
	ambulanceRepo := repository.NewAmbulanceRepo(db)
	requestRepo := repository.NewRequestRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	// 6. Initialize services
	authService := service.NewAuthService(hospitalRepo, ambulanceRepo, sessionRepo, auditRepo)
	userService := service.NewUserService(userRepo)
	hospitalService := service.NewHospitalService(hospitalRepo, auditRepo)
	ambulanceService := service.NewAmbulanceService(ambulanceRepo, requestRepo, auditRepo, bus)
	requestService := service.NewRequestService(requestRepo, userRepo, hospitalRepo, auditRepo, bus)
	sessionSweeper := service.NewSessionSweeper(sessionRepo, cfg.Session.SweepInterval)

	// 7. Start background worker in goroutine
	go sessionSweeper.Start(ctx)

	// 8. Setup Gin router
	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(cfg))

	handler.RegisterRoutes(r, handler.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.Env == "production"),
		User:      handler.NewUserHandler(userService, requestService),
		Hospital:  handler.NewHospitalHandler(hospitalService),
		Ambulance: handler.NewAmbulanceHandler(ambulanceService),
		Request:   handler.NewRequestHandler(requestService),
		Events:    handler.NewEventsHandler(bus),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 9. Setup graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	// Cancel background worker and open event streams
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}

// newEventBus connects to Redis when configured and falls back to an
// in-process bus otherwise.
func newEventBus(ctx context.Context, cfg *config.Config) events.Bus {
	if cfg.Redis.URL == "" {
		log.Info().Msg("REDIS_URL not set, using in-process event bus")
		return events.NewMemoryBus()
	}

	bus, err := events.NewRedisBus(ctx, cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	log.Info().Msg("redis event bus connected")
	return bus
}
