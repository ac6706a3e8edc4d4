// Command bridged runs the bridge table server: REST endpoints for
// table setup plus one websocket per seat for play.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/akhtarshadab/bridge/internal/cache"
	"github.com/akhtarshadab/bridge/internal/config"
	"github.com/akhtarshadab/bridge/internal/database"
	"github.com/akhtarshadab/bridge/internal/server"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *database.Store
	if cfg.DatabaseURL != "" {
		store, err = database.New(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.WithError(err).Fatal("database connect")
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			log.WithError(err).Fatal("database migrate")
		}
	} else {
		log.Warn("BRIDGE_DATABASE_URL not set, results will not be persisted")
	}

	var snapshots *cache.Cache
	if cfg.RedisAddr != "" {
		snapshots, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.WithError(err).Fatal("redis connect")
		}
		defer snapshots.Close()
	} else {
		log.Warn("BRIDGE_REDIS_ADDR not set, state snapshots disabled")
	}

	srv := server.New(log, []byte(cfg.JWTSecret), store, snapshots,
		time.Duration(cfg.TurnTimerSec)*time.Second)

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", cfg.Addr).Info("bridged listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server")
	}
	log.Info("bridged stopped")
}
