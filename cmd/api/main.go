package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/userapi/internal/app"
	"github.com/geocoder89/userapi/internal/config"
	httpx "github.com/geocoder89/userapi/internal/http"
	"github.com/geocoder89/userapi/internal/observability"
	"github.com/geocoder89/userapi/internal/store/mongostore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if cfg.OTLPEndpoint != "" {
		ctx, cancel := config.WithTimeout(5 * time.Second)
		tp, err := observability.InitTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
		cancel()

		if err != nil {
			log.Error("otel init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = tp.Shutdown(ctx)
			}()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	// one pooled client for the whole process
	ctx, cancel := config.WithTimeout(cfg.DBTimeout)
	client, err := mongostore.NewClient(ctx, app.StoreConfig(cfg))
	cancel()

	if err != nil {
		log.Error("mongo connect failed", "err", err)
		os.Exit(1)
	}

	store := mongostore.NewShared(client, cfg.MongoDB, prom)

	userCache, closeCache := app.NewCache(cfg)

	router, err := httpx.NewRouter(cfg, httpx.Deps{
		Store:   store,
		Cache:   userCache,
		Prom:    prom,
		Ping:    store.Ping,
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	if err != nil {
		log.Error("router setup failed", "err", err)
		os.Exit(1)
	}

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "auth_mode", cfg.AuthMode)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := closeCache(); err != nil {
			log.Error("cache close failed", "err", err)
		}

		if err := store.Close(context.Background()); err != nil {
			log.Error("mongo disconnect failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
