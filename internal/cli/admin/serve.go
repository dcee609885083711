package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloo-solutions/tryonadmin/internal/api/handlers"
	"github.com/cloo-solutions/tryonadmin/internal/api/middleware"
	"github.com/cloo-solutions/tryonadmin/internal/config"
	"github.com/cloo-solutions/tryonadmin/internal/jobs"
	"github.com/cloo-solutions/tryonadmin/internal/logtable"
	"github.com/cloo-solutions/tryonadmin/internal/metrics"
	"github.com/cloo-solutions/tryonadmin/internal/platform"
	"github.com/cloo-solutions/tryonadmin/internal/server"
	"github.com/cloo-solutions/tryonadmin/internal/service"
	"github.com/cloo-solutions/tryonadmin/internal/sidebar"
	"github.com/cloo-solutions/tryonadmin/internal/stream"
	"github.com/cloo-solutions/tryonadmin/internal/telemetry"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	sidebarTitle  = "Dashboard"
	sidebarFooter = "Try-On Admin"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin console server",
		Long:  "Start the try-on admin console on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")

	return cmd
}

// console is the assembled server side of the admin console.
type console struct {
	router     http.Handler
	worker     *jobs.Worker
	table      *logtable.Controller
	metrics    *metrics.Metrics
	businesses *service.BusinessService
}

func newConsole(cfg *config.Config, logger logrus.FieldLogger) *console {
	client := newPlatformClient(cfg)
	m := metrics.New()

	table := logtable.NewController(
		logtable.WithCapacity(cfg.LogCapacity),
		logtable.WithObserver(m.TableObserver()),
	)
	businessSvc := service.NewBusinessService(client)

	var (
		worker    *jobs.Worker
		refresher handlers.LogRefresher
	)
	workerLogger := jobs.WithLogger(telemetry.Component(logger, "worker"))
	if cfg.IsStreaming() {
		generator := stream.NewGenerator(businessSvc)
		feeder := jobs.NewStreamFeeder(generator, table, m, telemetry.Component(logger, "stream"))
		worker = jobs.NewWorker(feeder, cfg.StreamInterval, workerLogger)
	} else {
		poller := jobs.NewLogPoller(client, table,
			jobs.WithPollObserver(m),
			jobs.WithPollLogger(telemetry.Component(logger, "poller")),
		)
		worker = jobs.NewWorker(poller, cfg.PollInterval, workerLogger)
		refresher = poller
	}

	router := server.NewRouter(server.RouterConfig{
		Logger:          telemetry.Component(logger, "http"),
		RequestCounter:  m,
		MetricsHandler:  m.Handler(),
		RefreshLimiter:  middleware.NewRefreshLimiter(cfg.RefreshRateLimit),
		BusinessHandler: handlers.NewBusinessHandler(businessSvc),
		LogHandler:      handlers.NewLogHandler(table, refresher, cfg.LogSource),
		SidebarHandler:  handlers.NewSidebarHandler(sidebar.New(sidebarTitle, sidebarFooter)),
	})

	return &console{router: router, worker: worker, table: table, metrics: m, businesses: businessSvc}
}

// stopWorker cancels the worker's context before waiting for it, so a tick
// blocked on the platform returns instead of holding up shutdown.
func (c *console) stopWorker(cancel context.CancelFunc) {
	cancel()
	c.worker.Stop()
}

func newPlatformClient(cfg *config.Config) *platform.Client {
	return platform.NewClient(cfg.PlatformURL,
		platform.WithAPIKey(cfg.PlatformAPIKey),
		platform.WithTimeout(cfg.RequestTimeout),
	)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Error("config load failed")
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := telemetry.NewLogger(cfg.Debug)

	if cfg.HasSentry() {
		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: cfg.TracesSampleRate(),
			Debug:            cfg.Debug,
		})
		if err != nil {
			logger.WithError(err).Warn("telemetry init failed (continuing without tracing)")
		} else {
			defer shutdownTelemetry()
		}
	}

	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetString("port")
	}

	c := newConsole(cfg, logger)
	if cfg.IsStreaming() {
		// Generated records are attributed to known businesses when the
		// platform answers; otherwise they fall back to "Unknown".
		if _, err := c.businesses.List(ctx); err != nil {
			logger.WithError(err).Warn("failed to preload businesses")
		}
	}
	go c.worker.Start(ctx)
	logger.WithFields(logrus.Fields{
		"source":   cfg.LogSource,
		"platform": cfg.PlatformURL,
	}).Info("log worker started")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.Port).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		logger.Info("shutting down...")
	case err := <-serveErr:
		c.stopWorker(cancel)
		return fmt.Errorf("server failed: %w", err)
	}

	c.stopWorker(cancel)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
