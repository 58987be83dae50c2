package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/mafia-engine/internal/adapters/http/api"
	"github.com/bnema/mafia-engine/internal/adapters/notify/multi"
	"github.com/bnema/mafia-engine/internal/adapters/notify/websocket"
	"github.com/bnema/mafia-engine/internal/application"
	"github.com/bnema/mafia-engine/internal/config"
	"github.com/bnema/mafia-engine/internal/logging"
	"github.com/bnema/mafia-engine/internal/ports"
	"github.com/bnema/mafia-engine/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *app) *cobra.Command {
	var listen string
	var pollInterval time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, live websocket feed and phase scheduler",
		Long:  "serve exposes the session commands over HTTP, streams notifications on /ws and advances expired phases every poll interval. Settings come from MAFIA_* environment variables; flags override them.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadServe()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.ListenAddr = listen
			}
			if pollInterval > 0 {
				cfg.PollInterval = pollInterval
			}

			level := cfg.LogLevel
			if flag := cmd.Flag("log-level"); flag != nil && flag.Changed {
				level = app.logLevel
			}
			logger, err := logging.New(cmd.ErrOrStderr(), level, cfg.LogJSON)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, app, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides MAFIA_LISTEN_ADDR)")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 0, "Scheduler poll interval (overrides MAFIA_POLL_INTERVAL)")

	return cmd
}

func runServer(ctx context.Context, app *app, cfg config.Serve, logger zerolog.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn().Err(err).Msg("flush traces")
		}
	}()

	hub := websocket.NewHub(app.store, logger)
	defer hub.Close()

	svc := application.NewService(app.store, multi.New(app.console, hub), ports.SystemClock{},
		application.WithLogger(logger),
		application.WithNotifyTimeout(cfg.NotifyTimeout),
	)
	scheduler := application.NewScheduler(svc, nil, application.SchedulerConfig{
		PollInterval: cfg.PollInterval,
		Concurrency:  cfg.TickConcurrency,
	})

	if logger.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(svc, api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		RatePerSecond:  cfg.RatePerSecond,
		Burst:          cfg.RateBurst,
		Logger:         logger,
		Live:           hub,
	})
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		logger.Info().Msg("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
