package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/plansearch/internal/infrastructure/cache"
	httpRouter "github.com/orris-inc/plansearch/internal/interfaces/http"
	"github.com/orris-inc/plansearch/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/plansearch/internal/shared/logger"
	"github.com/orris-inc/plansearch/internal/shared/version"
)

var flags bootstrap.Flags

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP search server",
		Long:  `Start the plansearch HTTP server. It answers range queries from the plan index and never writes to it.`,
		RunE:  run,
	}

	flags.Bind(cmd)

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Init(&flags)
	if err != nil {
		return err
	}
	defer logger.Sync()

	log.Infow("starting server",
		"environment", flags.Env,
		"version", version.String(),
		"mode", cfg.Server.Mode)

	bootstrap.QuietGin(cfg.Server.Mode)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout+time.Second)
	redisClient, err := cache.NewRedisClient(connectCtx, &cfg.Redis)
	cancelConnect()
	if err != nil {
		log.Errorw("failed to connect to redis", "error", err)
		return err
	}
	defer redisClient.Close()
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	container := httpRouter.NewContainer(cfg, redisClient, log)
	router := httpRouter.NewRouter(container)
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server listening", "address", cfg.Server.GetAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-serveErr:
		if ok {
			log.Errorw("server failed", "error", err)
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Infow("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}
