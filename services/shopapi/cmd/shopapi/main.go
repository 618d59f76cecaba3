package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/friendly_mart/pkg/db"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/config"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/events"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/httpserver"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/repo"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/search"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/service"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), log)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Error("db_init_error", "error", err)
		os.Exit(1)
	}

	rp := &repo.GormRepo{DB: gdb}
	if err := rp.Migrate(); err != nil {
		log.Error("db_migrate_error", "error", err)
		os.Exit(1)
	}

	producer := events.New(cfg.KafkaBrokers)
	defer producer.Close()

	svc := &service.ShopService{
		Repo:          rp,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		Events:        producer,
	}
	if cfg.ESURL != "" {
		idx, err := search.New(search.Config{URL: cfg.ESURL, Username: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			log.Warn("search_disabled", "error", err)
		} else {
			svc.Search = idx
		}
	}
	if err := svc.Bootstrap(ctx, cfg.SeedCategories, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Error("bootstrap_error", "error", err)
		os.Exit(1)
	}

	e := httpserver.New(&httpserver.Deps{
		Shop:         &httpserver.ShopHTTP{Svc: svc},
		Svc:          svc,
		Logger:       log,
		LoginLimiter: httpserver.NewLoginLimiter(cfg.LoginRatePerMin),
		Ready: func() error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Ping()
		},
	})
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	go func() {
		log.Info("server_starting", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server_error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("server_stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server_shutdown_error", "error", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server_stopped")
}
