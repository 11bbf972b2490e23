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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"signaldesk/configs"
	"signaldesk/internal/database"
	delivery "signaldesk/internal/delivery/http"
	"signaldesk/internal/domain"
	"signaldesk/internal/infra"
	"signaldesk/internal/logging"
	"signaldesk/internal/markethours"
	"signaldesk/internal/metrics"
	"signaldesk/internal/middleware"
	"signaldesk/internal/repository"
	"signaldesk/internal/stream"
	"signaldesk/internal/usecase"
)

// stores groups the repositories the app runs on
type stores struct {
	signals  domain.SignalRepository
	settings domain.SettingsRepository
	users    domain.UserRepository
	pinger   delivery.Pinger
	close    func()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info(".env file not found, using environment variables")
	}

	cfg := configs.Load()
	logging.Setup(cfg.Log.Level, cfg.IsProduction())
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize storage")
	}
	defer st.close()

	if err := usecase.EnsureAdmin(ctx, st.users, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		log.WithError(err).Fatal("failed to ensure admin account")
	}

	calendar, err := markethours.Load(cfg.Market.HoursFile)
	if err != nil {
		log.WithError(err).Fatal("failed to load market hours")
	}

	signalService := usecase.NewSignalService(calendar, st.signals, st.settings)
	hub := stream.NewHub()

	scheduler := infra.NewScheduler(calendar, hub)
	if err := scheduler.Start(); err != nil {
		log.WithError(err).Fatal("failed to start boundary scheduler")
	}
	defer scheduler.Stop()

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, st.users)

	e := echo.New()
	e.HideBanner = true
	e.Debug = !cfg.IsProduction()
	delivery.SetupRoutes(e, &delivery.RouterConfig{
		AuthHandler:   delivery.NewAuthHandler(st.users, auth, cfg.IsProduction()),
		SignalHandler: delivery.NewSignalHandler(signalService),
		AdminHandler:  delivery.NewAdminHandler(st.pinger, st.settings, st.signals, st.users, hub.Len),
		Auth:          auth,
		Stream:        hub,
	})

	metricsSrv := metrics.Serve(cfg.Server.MetricsAddr)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.WithFields(log.Fields{
		"addr":    addr,
		"metrics": cfg.Server.MetricsAddr,
		"env":     cfg.Server.Env,
	}).Info("signaldesk starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	// Shutdown does not track hijacked websocket connections
	hub.Close()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("metrics server forced to shutdown")
	}

	log.Info("server exited gracefully")
}

// openStores connects to PostgreSQL when DATABASE_URL is set and falls back to memory otherwise
func openStores(ctx context.Context, cfg *configs.Config) (*stores, error) {
	if cfg.Database.URL == "" {
		log.Warn("DATABASE_URL not set, issued signals are kept in memory only")
		mem := repository.NewMemoryStore()
		return &stores{
			signals:  mem,
			settings: mem,
			users:    mem.Users(),
			close:    func() {},
		}, nil
	}

	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	if err := database.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &stores{
		signals:  repository.NewSignalRepository(db),
		settings: repository.NewSystemSettingsRepository(db),
		users:    repository.NewUserRepository(db),
		pinger:   db,
		close:    db.Close,
	}, nil
}
