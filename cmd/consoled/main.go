package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"turret-console/internal/backend"
	"turret-console/internal/config"
	"turret-console/internal/httpapi"
	"turret-console/internal/live"
	"turret-console/internal/stream"
	"turret-console/pkg/logger"
	"turret-console/pkg/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Redis mirror is optional. Without it the console starts empty and
	// rebuilds channel state from the stream alone.
	var mirror live.Mirror
	if cfg.RedisEnabled() {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		mirror = live.NewRedisMirror(rdb)
	}

	rec := live.NewReconciler(live.Options{
		PulseTTL: cfg.Live.PulseTTL,
		Mirror:   mirror,
		Logger:   log,
	})
	defer rec.Close()

	if mirror != nil {
		restoreFromMirror(rootCtx, rec, mirror, log)
	}

	transport := stream.NewTransport(stream.TransportConfig{
		URL:            cfg.Broker.URL,
		Topic:          cfg.Broker.Topic,
		ReconnectDelay: cfg.Broker.ReconnectDelay,
	}, rec.Ingest, log)
	transport.Start()
	defer transport.Close()

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	snapshots := newSnapshotLoop(client, rec, cfg.Live.SnapshotInterval, log)
	go snapshots.Run(rootCtx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, httpapi.Handlers{
		Backend: client,
		Live:    rec,
		Stream:  transport,
		Refresh: snapshots.Request,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("console listening", "addr", srv.Addr, "env", cfg.App.Env, "broker", cfg.Broker.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

// restoreFromMirror warm-starts channel state from redis. A failed load is
// logged and ignored; the stream repopulates state regardless.
func restoreFromMirror(ctx context.Context, rec *live.Reconciler, mirror live.Mirror, log *slog.Logger) {
	loadCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	channels, err := mirror.LoadChannels(loadCtx)
	if err != nil {
		log.Warn("mirror restore failed", "err", err)
		return
	}
	rec.Restore(channels)
	log.Info("mirror restore complete", "channels", len(channels))
}
