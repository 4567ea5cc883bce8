package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/bizniz/internal/bizniz/cache"
	"github.com/gartstein/bizniz/internal/bizniz/config"
	"github.com/gartstein/bizniz/internal/bizniz/controller"
	"github.com/gartstein/bizniz/internal/bizniz/db"
	"github.com/gartstein/bizniz/internal/bizniz/events"
	"github.com/gartstein/bizniz/internal/bizniz/handlers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type closableCache interface {
	controller.CompanyCache
	Close() error
}

type closableProducer interface {
	controller.EventProducer
	Close()
}

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:           "bizniz-api",
		Short:         "Serve the companies and employees REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(config.ResolvePath(configPath))
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the YAML config (env "+config.PathEnv+")")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
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

	repo, err := db.Connect(context.Background(), cfg.Database(), logger, db.DefaultConnectTimeout)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repo.Close()

	companyCache := initCache(cfg, logger)
	defer companyCache.Close()

	producer := initProducer(cfg, logger)
	defer producer.Close()

	h := handlers.NewHandler(
		controller.NewCompanyService(repo, companyCache, producer, logger),
		controller.NewEmployeeService(repo, companyCache, producer, logger),
		controller.NewReconciler(repo, companyCache, producer, logger),
		repo,
		logger,
	)
	router := handlers.NewRouter(handlers.RouterConfig{
		BasePath:       cfg.APIBasePath,
		AllowedOrigins: cfg.AllowedOrigins,
	}, h)

	server := handlers.NewServer(cfg.HTTPPort, cfg.GRPCPort, router, logger)
	if err := server.Listen(); err != nil {
		logger.Fatal("Failed to bind servers", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	waitForShutdown(server, errCh, logger)
	return nil
}

// initCache returns the Redis cache, or a no-op cache when REDIS_URL is empty
// or Redis is unreachable.
func initCache(cfg *config.Config, logger *zap.Logger) closableCache {
	if cfg.RedisURL == "" {
		return cache.NopCache{}
	}
	c, err := cache.NewRedisCache(cfg.RedisURL, cfg.CacheTTL, logger)
	if err != nil {
		logger.Warn("Company cache disabled", zap.Error(err))
		return cache.NopCache{}
	}
	return c
}

func initProducer(cfg *config.Config, logger *zap.Logger) closableProducer {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No Kafka brokers configured, change events are not published")
		return events.NopProducer{}
	}
	p, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	return p
}

// waitForShutdown blocks until an interrupt or SIGTERM is received or a server
// fails, then shuts down servers.
func waitForShutdown(server *handlers.Server, errCh <-chan error, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
		}
	}

	server.Stop()
	logger.Info("Servers stopped properly")
}
