package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tidyops/cleanhub/internal/auth"
	"github.com/tidyops/cleanhub/internal/bookings"
	"github.com/tidyops/cleanhub/internal/catalog"
	"github.com/tidyops/cleanhub/internal/config"
	"github.com/tidyops/cleanhub/internal/directory"
	httpx "github.com/tidyops/cleanhub/internal/http"
	"github.com/tidyops/cleanhub/internal/kv"
	"github.com/tidyops/cleanhub/internal/observability"
	"github.com/tidyops/cleanhub/internal/reset"
	"github.com/tidyops/cleanhub/internal/security"
	"github.com/tidyops/cleanhub/internal/session"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// tracing is optional, skipped when no collector endpoint is set
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(context.Background(), "cleanhub", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(3 * time.Second)
				defer cancel()
				_ = shutdown(ctx)
			}()
		}
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector())
	metrics := observability.NewProm(promReg)

	// pick the storage driver
	var driver kv.Driver
	ping := func() error { return nil }

	if cfg.KVBackend == "memory" {
		driver = kv.NewMemory()
		log.Warn("using in-memory storage, data will not survive a restart")
	} else {
		redisDriver := kv.NewRedis(kv.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		pingCtx, cancel := config.WithTimeout(2 * time.Second)
		err := redisDriver.Ping(pingCtx)
		cancel()

		if err != nil {
			log.Error("redis connect failed", "err", err)
			os.Exit(1)
		}

		defer redisDriver.Close()

		driver = redisDriver
		ping = func() error {
			ctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()
			return redisDriver.Ping(ctx)
		}
	}

	store := kv.NewStore(driver, log, metrics)

	dir := directory.New(store, security.Bcrypt{})
	sess := session.New(store)
	cat := catalog.New(store)
	engine := bookings.NewEngine(dir)
	resetter := reset.New(dir, sess)

	// seed reference data and demo accounts on every start, both idempotent
	seedCtx, cancelSeed := config.WithTimeout(5 * time.Second)
	cat.SeedDefaults(seedCtx)

	if err := dir.SeedDemoAccounts(seedCtx); err != nil {
		log.Error("demo seed failed", "err", err)
	}
	cancelSeed()

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL)

	router := httpx.NewRouter(httpx.RouterDeps{
		Cfg:      cfg,
		Dir:      dir,
		Session:  sess,
		Catalog:  cat,
		Engine:   engine,
		Resetter: resetter,
		JWT:      jwtManager,
		Metrics:  metrics,
		PromReg:  promReg,
		Ping:     ping,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "kv_backend", cfg.KVBackend)
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

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
