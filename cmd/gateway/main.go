package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rantcrypto/cmcgate/pkg/config"
	"github.com/rantcrypto/cmcgate/pkg/dependency_container"
	infraLogger "github.com/rantcrypto/cmcgate/pkg/infra/logger"
	"github.com/rantcrypto/cmcgate/pkg/server"
	"github.com/rantcrypto/cmcgate/pkg/server/router"
	"github.com/rantcrypto/cmcgate/pkg/version"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, closeLogger, err := infraLogger.NewLogger(cfg.Log, cfg.Upstream.APIKey)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLogger()

	logger.WithField("version", version.GetInfo().String()).Info("starting gateway")

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize dependencies")
	}

	proxyServer, err := server.NewProxyServer(server.ProxyServerDI{
		Config:  cfg,
		Logger:  logger,
		Routers: []router.ServerRouter{container.ProxyRouter},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize proxy server")
	}
	metricsServer := server.NewMetricsServer(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	servers := []server.Server{proxyServer, metricsServer}
	for _, srv := range servers {
		g.Go(srv.Run)
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("gateway stopped with error")
		closeLogger()
		os.Exit(1)
	}
	logger.Info("gateway gracefully stopped")
}
