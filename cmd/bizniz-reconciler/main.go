package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/bizniz/internal/bizniz/cache"
	"github.com/gartstein/bizniz/internal/bizniz/config"
	"github.com/gartstein/bizniz/internal/bizniz/controller"
	"github.com/gartstein/bizniz/internal/bizniz/db"
	"github.com/gartstein/bizniz/internal/bizniz/events"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		configPath string
		once       bool
	)
	cmd := &cobra.Command{
		Use:   "bizniz-reconciler",
		Short: "Keep stored employee counts in line with the employee records",
		Long: `bizniz-reconciler corrects every company's employee count at startup and then
follows the change-event topic, re-counting the companies touched by each
employee event.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(config.ResolvePath(configPath), once)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the YAML config (env "+config.PathEnv+")")
	cmd.Flags().BoolVar(&once, "once", false, "run a single reconciliation pass and exit")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath string, once bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := db.Connect(ctx, cfg.Database(), logger, db.DefaultConnectTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer repo.Close()

	var companyCache controller.CompanyCache = cache.NopCache{}
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.CacheTTL, logger)
		if err != nil {
			logger.Warn("Company cache invalidation disabled", zap.Error(err))
		} else {
			defer redisCache.Close()
			companyCache = redisCache
		}
	}

	var producer controller.EventProducer = events.NopProducer{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
		if err != nil {
			return fmt.Errorf("failed to initialize Kafka producer: %w", err)
		}
		defer p.Close()
		producer = p
	}

	reconciler := controller.NewReconciler(repo, companyCache, producer, logger)
	if _, err := reconciler.ReconcileAll(ctx); err != nil {
		return fmt.Errorf("initial reconciliation failed: %w", err)
	}
	if once {
		return nil
	}
	if len(cfg.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required to follow change events; use --once for a single pass")
	}

	consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, cfg.Topic, logger)
	consumer.RegisterHandler(reconciler.HandleEvent)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		consumer.Close()
		return nil
	})

	logger.Info("Following change events",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.Topic),
		zap.String("group", cfg.ConsumerGroup),
	)
	err = g.Wait()
	logger.Info("Reconciler stopped")
	return err
}
