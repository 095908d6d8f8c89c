package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"verisight/api"
	"verisight/config"
	"verisight/content"
	"verisight/scan"
	"verisight/shared/kafka"
	"verisight/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web site, dashboard and JSON API",
		Long: `Starts the HTTP server. Sessions live in memory unless REDIS_ADDR is set,
and completed scans are published to Kafka when KAFKA_BROKERS is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd)
		},
	}
}

func (a *app) runServe(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := a.logger
	cfg := a.cfg

	site, err := content.Load()
	if err != nil {
		return err
	}

	store, closeStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	manager := scan.NewManager(scan.ManagerConfig{
		Store:     store,
		Publisher: publisher,
		Logger:    logger.Named("scan"),
		Delay:     cfg.ScanDelay,
		TTL:       cfg.SessionTTL,
	})

	r := api.NewRouter(api.Deps{
		Manager:        manager,
		Site:           site,
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	if err := web.RegisterPageRoutes(r, web.Deps{
		Manager:        manager,
		Site:           site,
		Logger:         logger.Named("web"),
		MaxUploadBytes: cfg.MaxUploadBytes,
	}); err != nil {
		return fmt.Errorf("failed to register pages: %w", err)
	}

	srv := api.NewServer(r, manager, cfg.Addr(), logger.Named("server"))
	if err := srv.Start(); err != nil {
		return err
	}
	if err := srv.StartCron(cfg.JanitorSchedule); err != nil {
		_ = srv.Shutdown(context.Background())
		return err
	}

	logger.Info("VeriSight is up",
		zap.String("addr", cfg.Addr()),
		zap.Duration("scan_delay", cfg.ScanDelay),
		zap.Bool("redis", cfg.RedisAddr != ""),
		zap.Bool("kafka", len(cfg.KafkaBrokers) > 0))

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err, ok := <-srv.Errors():
		if ok {
			serveErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		if serveErr == nil {
			serveErr = err
		}
	}
	return serveErr
}

// newStore picks Redis when configured, otherwise the in-process store
func newStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (scan.Store, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("using in-memory session store")
		return scan.NewMemoryStore(), func() {}, nil
	}

	rs, err := scan.NewRedisStore(ctx, scan.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.SessionTTL,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using redis session store", zap.String("addr", cfg.RedisAddr))
	return rs, func() {
		if err := rs.Close(); err != nil {
			logger.Warn("failed to close redis", zap.Error(err))
		}
	}, nil
}

// newPublisher returns a Kafka producer when brokers are configured.
// A nil publisher makes the manager drop events.
func newPublisher(cfg config.Config, logger *zap.Logger) (scan.Publisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		return nil, func() {}, nil
	}

	p, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		Logger:  logger.Named("kafka"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Warn("failed to close kafka producer", zap.Error(err))
		}
	}, nil
}
