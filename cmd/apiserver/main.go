// Command apiserver serves the patent search API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/turtacn/patent-prophet/internal/application/search"
	"github.com/turtacn/patent-prophet/internal/config"
	"github.com/turtacn/patent-prophet/internal/infrastructure/database/postgres"
	"github.com/turtacn/patent-prophet/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/patent-prophet/internal/infrastructure/database/redis"
	"github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/logging"
	metrics "github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/patent-prophet/internal/interfaces/http"
	"github.com/turtacn/patent-prophet/internal/interfaces/http/handlers"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	_ = godotenv.Load()

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	conn, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	cache := redis.NewSearchCache(cfg.Redis, logger)
	defer cache.Close()

	searchRepo := repositories.NewSearchRepository(conn, logger)
	searchSvc := search.NewService(searchRepo, cache, logger, m)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Mode:          cfg.Server.Mode,
		SearchHandler: handlers.NewSearchHandler(searchSvc, logger, m),
		HealthHandler: handlers.NewHealthHandler(conn, logger),
		Registry:      registry,
	})
	server := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("signal received, shutting down", logging.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
