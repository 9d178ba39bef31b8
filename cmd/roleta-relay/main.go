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

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roletapro/roleta-client/internal/api"
	"github.com/roletapro/roleta-client/internal/api/metrics"
	"github.com/roletapro/roleta-client/internal/core/ports"
	"github.com/roletapro/roleta-client/internal/core/service"
	"github.com/roletapro/roleta-client/internal/infrastructure/config"
	mongodb "github.com/roletapro/roleta-client/internal/infrastructure/db/mongo"
	redisdb "github.com/roletapro/roleta-client/internal/infrastructure/db/redis"
	"github.com/roletapro/roleta-client/internal/infrastructure/scheduler"
	"github.com/roletapro/roleta-client/internal/infrastructure/tokenstore"
	"github.com/roletapro/roleta-client/pkg/apiclient"
	"github.com/roletapro/roleta-client/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "roleta-relay: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Service: "roleta-relay",
	})

	// The relay holds no user session.
	client, err := apiclient.New(cfg.APIURL, tokenstore.NewMemory().Profile(cfg.Profile),
		apiclient.WithHTTPClient(&http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: metrics.InstrumentTransport(nil),
		}),
		apiclient.WithLogger(logger.Component("apiclient")),
	)
	if err != nil {
		return err
	}

	var (
		rdb   *goredis.Client
		db    *mongo.Database
		dedup ports.EventDeduper
	)
	if cfg.Relay.DedupEnabled {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("webhook dedup: %w", err)
		}
		defer rdb.Close()
		dedup = redisdb.NewDedupChecker(rdb, cfg.Relay.DedupTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Relay.DedupTTL).Msg("webhook dedup enabled")
	} else {
		log.Warn().Msg("webhook dedup disabled, retried deliveries are forwarded again")
	}

	if cfg.Relay.MongoCheck {
		conn, err := mongodb.Dial(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() { _ = conn.Close(context.WithoutCancel(ctx)) }()
		db = conn.Database()
	}

	probe := scheduler.NewProbe(client, cfg.Relay.ProbeSchedule, logger.Component("probe"))
	if err := probe.Start(ctx); err != nil {
		return err
	}
	defer probe.Stop()

	e := api.NewRouter(api.Deps{
		Webhooks:  service.NewWebhookService(client, dedup, logger.Component("webhooks")),
		Probe:     probe,
		Redis:     rdb,
		Mongo:     db,
		OpsSecret: cfg.Relay.OpsJWTSecret,
		Log:       logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Relay.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", client.BaseURL()).Msg("relay listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down relay")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("relay stopped")
	return nil
}
