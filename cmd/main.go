package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/eqbar/internal/adapters/http/api"
	"github.com/okian/eqbar/internal/adapters/http/swagger"
	"github.com/okian/eqbar/internal/adapters/render"
	app "github.com/okian/eqbar/internal/app"
	"github.com/okian/eqbar/internal/config"
	"github.com/okian/eqbar/internal/domain/barplot"
	"github.com/okian/eqbar/pkg/logger"
	"github.com/okian/eqbar/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
)

var errUnknownCommand = errors.New("unknown command")

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
//
//	eqbar         render the configured chart to output_path
//	eqbar render  same as above
//	eqbar serve   start the HTTP API on addr
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := logger.Init(logger.WithOutput(stderr)); err != nil {
		_, _ = fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
		return exitFailure
	}
	defer func() { _ = logger.Sync() }()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Get().Error(ctx, "failed to load config", logger.Error(err))
		return exitFailure
	}

	if cfg.LogFormat == "json" {
		if err := logger.Init(logger.WithOutput(stderr), logger.WithFormat("json")); err != nil {
			_, _ = fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
			return exitFailure
		}
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(cfg, stdout, log)
	if err != nil {
		log.Error(ctx, "failed to create service", logger.Error(err))
		return exitFailure
	}

	command := ""
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "", "render":
		err = renderChart(ctx, cfg, svc)
	case "serve":
		err = serve(ctx, cfg, svc, log)
	default:
		err = fmt.Errorf("%w: %q (want render or serve)", errUnknownCommand, command)
	}
	if err != nil {
		log.Error(ctx, "command failed", logger.String("command", command), logger.Error(err))
		return exitFailure
	}
	return exitOK
}

// newService builds the chart service from cfg.
func newService(cfg *config.Config, stdout io.Writer, log logger.Logger) (*app.Service, error) {
	palette, err := barplot.NewPalette(cfg.Palette)
	if err != nil {
		return nil, err
	}
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	return app.New(
		app.WithLogger(log.Named("chart")),
		app.WithStdout(stdout),
		app.WithFigure(cfg.Figure()),
		app.WithFormat(format),
		app.WithTitle(cfg.Title),
		app.WithTitleCount(cfg.TitleCount),
		app.WithYLabel(cfg.YLabel),
		app.WithPalette(palette),
		app.WithSamples(cfg.Samples),
	), nil
}

// renderChart writes the configured chart once and optionally dumps metrics.
func renderChart(ctx context.Context, cfg *config.Config, svc *app.Service) error {
	if _, err := svc.Render(ctx, svc.Samples(), cfg.OutputPath); err != nil {
		return err
	}
	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			return err
		}
	}
	return nil
}

// newMux registers every serve-mode route.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, cfg.MaxSamples).Register(ctx, mux)
	return mux
}

// serve runs the HTTP API until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) error {
	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info(ctx, "server stopped")
	return nil
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
