package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Atig-Hamza/RecoleCheck/internal/auth"
	"github.com/Atig-Hamza/RecoleCheck/internal/config"
	"github.com/Atig-Hamza/RecoleCheck/internal/database"
	"github.com/Atig-Hamza/RecoleCheck/internal/handlers"
	"github.com/Atig-Hamza/RecoleCheck/internal/logger"
	"github.com/Atig-Hamza/RecoleCheck/internal/middleware"
	"github.com/Atig-Hamza/RecoleCheck/internal/repository"
	"github.com/Atig-Hamza/RecoleCheck/internal/services"
	"github.com/Atig-Hamza/RecoleCheck/internal/session"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env)
	log.Info("Starting RecolteCheck API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"store":       cfg.Store.Driver,
		"cascade":     cfg.Records.DeleteCascade,
	})
	if cfg.IsDevelopment() && len(cfg.Auth.JWTSecret) < 32 {
		log.Warn("JWT_SECRET is too short for production use", nil)
	}

	ctx := context.Background()
	store, closeStore, err := database.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open record store", err, map[string]interface{}{
			"driver": cfg.Store.Driver,
		})
	}
	defer closeStore()

	log.Info("Record store ready", map[string]interface{}{
		"driver": cfg.Store.Driver,
	})

	// Sessions and identity
	sessions := session.NewRegistry(time.Now)
	unsubscribe := sessions.Subscribe(session.LogTransitions(log))
	defer unsubscribe()

	profileRepo := repository.NewProfileRepository(store, repository.SystemClock)
	parcelRepo := repository.NewParcelRepository(store, repository.SystemClock)
	zoneRepo := repository.NewZoneRepository(store, repository.SystemClock)
	harvestRepo := repository.NewHarvestRepository(store, repository.SystemClock)

	authService := auth.NewService(store, profileRepo, sessions,
		auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer),
		auth.Options{
			MinPassword: cfg.Auth.MinPassword,
			TokenTTL:    cfg.Auth.TokenTTL,
		}, log)

	routes := handlers.Routes{
		Auth:      handlers.NewAuthHandler(authService),
		Profile:   handlers.NewProfileHandler(services.NewProfileService(profileRepo, log)),
		Dashboard: handlers.NewDashboardHandler(services.NewDashboardService(profileRepo, parcelRepo, log)),
		Parcels: handlers.NewParcelHandler(
			services.NewParcelService(parcelRepo, zoneRepo, harvestRepo, cfg.Records.DeleteCascade, log)),
		Zones: handlers.NewZoneHandler(
			services.NewZoneService(parcelRepo, zoneRepo, harvestRepo, cfg.Records.DeleteCascade, log)),
		Harvests: handlers.NewHarvestHandler(
			services.NewHarvestService(zoneRepo, harvestRepo, time.Local, log), time.Local),
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// RequestID -> Logger -> Recovery -> CORS -> Metrics
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))
	router.Use(metrics.Handler())

	healthHandler := handlers.NewHealthHandler(store, cfg.Store.Driver, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	authLimiter := middleware.NewRateLimiter(cfg.Auth.RateLimit, cfg.Auth.RateBurst)
	routes.Register(router.Group("/api/v1"), middleware.RequireAuth(authService), authLimiter.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", map[string]interface{}{
		"active_sessions": sessions.Active(),
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
