package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tanvirk/ixreach/internal/adapter/console"
	"github.com/tanvirk/ixreach/internal/adapter/httpprobe"
	"github.com/tanvirk/ixreach/internal/adapter/httpsrv"
	"github.com/tanvirk/ixreach/internal/adapter/prometheus"
	"github.com/tanvirk/ixreach/internal/adapter/source"
	"github.com/tanvirk/ixreach/internal/adapter/worker"
	"github.com/tanvirk/ixreach/internal/common/logging"
	"github.com/tanvirk/ixreach/internal/ports"
	"github.com/tanvirk/ixreach/internal/session"
	"github.com/tanvirk/ixreach/internal/usecase"
)

type Probe struct {
	Timeout     time.Duration `name:"timeout" env:"PROBE_TIMEOUT" default:"5s" help:"The maximum duration to wait for an HTTP response from a single mirror (e.g. 5s, 750ms)."`
	Concurrency int           `name:"concurrency" env:"PROBE_CONCURRENCY" default:"10" help:"The maximum number of probes to run concurrently."`
	RPS         float64       `name:"rps" env:"PROBE_RPS" default:"0" help:"Cap on probe starts per second across a run. 0 disables the cap."`
}

type Source struct {
	URL     string        `name:"url" env:"SOURCE_URL" default:"https://raw.githubusercontent.com/shihabalter/BDIX-TESTER/refs/heads/main/bdix.txt" help:"URL of the newline-delimited mirror list."`
	Cache   string        `name:"cache" env:"SOURCE_CACHE" default:"bdix.txt" help:"Path of the local mirror list cache."`
	Timeout time.Duration `name:"timeout" env:"SOURCE_TIMEOUT" default:"10s" help:"Timeout for downloading the mirror list."`
}

type Output struct {
	Dir   string `name:"dir" env:"OUTPUT_DIR" default:"." help:"Directory for saved working-mirror files."`
	Color string `name:"color" env:"OUTPUT_COLOR" default:"auto" help:"Colored output (auto, always, never)."`
}

type Metrics struct {
	Addr string `name:"addr" env:"METRICS_ADDR" default:"" help:"HTTP address to bind Prometheus metrics (e.g. 0.0.0.0:8080). Empty disables the metrics server."`
	Path string `name:"path" env:"METRICS_PATH" default:"/metrics" help:"Path to serve Prometheus metrics"`
}

type Watch struct {
	Interval time.Duration `name:"interval" env:"WATCH_INTERVAL" default:"0" help:"Probe the whole list on this interval instead of showing the menu. 0 keeps the interactive menu."`
}

type Run struct {
	Probe    Probe   `embed:"" prefix:"probe."`
	Source   Source  `embed:"" prefix:"source."`
	Output   Output  `embed:"" prefix:"output."`
	Metrics  Metrics `embed:"" prefix:"metrics."`
	Watch    Watch   `embed:"" prefix:"watch."`
	LogLevel string  `name:"log.level" env:"LOG_LEVEL" default:"" help:"Log level (debug, info, warn, error). Defaults to warn with the menu, info in watch mode."`
}

func run(cli *CLI) error {
	ctx := context.Background()
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	r := &cli.Run
	watching := r.Watch.Interval > 0

	logLevel, err := resolveLogLevel(r.LogLevel, watching)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	// Logs go to stderr, stdout belongs to the interactive report.
	logger := slog.New(logging.NewEnhancedHandler(
		slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}),
	)).With(logging.NewProgramAttr())

	probe, err := httpprobe.NewClient(logger, httpprobe.Options{
		Concurrency:       r.Probe.Concurrency,
		RequestsPerSecond: r.Probe.RPS,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create http probe", logging.Error(err))
		return err
	}

	loader := source.NewLoader(logger, r.Source.URL, r.Source.Cache, r.Source.Timeout)

	var (
		observers  []ports.ProbeObserver
		publishers []ports.ReachStatePublisher
		srv        *httpsrv.Server
	)

	if r.Metrics.Addr != "" {
		exporter, err := prometheus.NewExporter()
		if err != nil {
			logger.ErrorContext(ctx, "Failed to create prometheus exporter", logging.Error(err))
			return err
		}

		publishers = append(publishers, prometheus.NewReachStatePublisher(logger, exporter))

		srv = httpsrv.New(r.Metrics.Addr, httpsrv.Options{
			MetricsPath:    r.Metrics.Path,
			MetricsHandler: exporter.Handler(),
		})
	}

	errCh := make(chan error)

	if srv != nil {
		defer func() {
			logger.InfoContext(ctx, "Stopping HTTP Server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if serr := srv.Shutdown(shutdownCtx); serr != nil {
				logger.ErrorContext(ctx, "Failed to stop HTTP Server", logging.Error(serr))
			}
		}()

		go func() {
			logger.InfoContext(ctx, "Start HTTP Server", slog.String("address", srv.ListenAddr()))

			if err := srv.Start(); err != nil {
				logger.ErrorContext(ctx, "Failed to start HTTP Server", logging.Error(err))
				errCh <- err
			}
		}()
	}

	if watching {
		uc := usecase.NewCheckReachabilityUseCase(logger, probe, observers, publishers)

		w := worker.NewWorker(logger, r.Watch.Interval, newTask(logger, uc, loader, r.Probe.Timeout))

		defer func() {
			logger.InfoContext(ctx, "Stopping Worker...")

			if serr := w.Shutdown(context.Background()); serr != nil {
				logger.ErrorContext(ctx, "Failed to stop Worker", logging.Error(serr))
			}
		}()

		go func() {
			logger.InfoContext(ctx, "Start Worker", slog.Duration("interval", r.Watch.Interval))

			if err := w.Start(); err != nil {
				logger.ErrorContext(ctx, "Failed to start Worker", logging.Error(err))
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return nil
		}
	}

	cons := console.New(os.Stdout, console.ColorMode(r.Output.Color))
	renderer := console.NewRenderer(cons)

	observers = append(observers, renderer)
	publishers = append(publishers, renderer)

	uc := usecase.NewCheckReachabilityUseCase(logger, probe, observers, publishers)

	sess := session.New(logger, cons, renderer, loader, uc, session.Config{
		Timeout:   r.Probe.Timeout,
		OutputDir: r.Output.Dir,
	})

	cons.Printf("%s", cons.Bold("ixreach: regional exchange mirror tester"))

	if err := sess.LoadEndpoints(ctx); err != nil {
		cons.Errorf("Could not load the mirror list: %v", err)
		cons.Printf("Use option 4 to retry once your connection is back.")
	} else {
		cons.Successf("Loaded %d mirrors.", sess.EndpointCount())
	}

	menuCh := make(chan error, 1)

	go func() {
		menuCh <- newMenu(cons, sess, os.Stdin).run(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case err := <-menuCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

func resolveLogLevel(levelStr string, watching bool) (slog.Level, error) {
	if levelStr == "" {
		if watching {
			return slog.LevelInfo, nil
		}

		return slog.LevelWarn, nil
	}

	return logging.ParseLevel(levelStr)
}

type taskUC interface {
	Execute(ctx context.Context, cmd usecase.CheckReachabilityCommand) (usecase.Report, error)
}

type task struct {
	logger  *slog.Logger
	uc      taskUC
	loader  *source.Loader
	timeout time.Duration

	endpoints []string
}

func newTask(logger *slog.Logger, uc taskUC, loader *source.Loader, timeout time.Duration) *task {
	return &task{
		logger:  logger,
		uc:      uc,
		loader:  loader,
		timeout: timeout,
	}
}

func (t *task) Execute(ctx context.Context) error {
	now := time.Now()

	if len(t.endpoints) == 0 {
		endpoints, err := t.loader.Load(ctx)
		if err != nil {
			t.logger.ErrorContext(ctx, "Failed to load endpoint list", logging.Error(err))
			return nil
		}

		t.endpoints = endpoints
		t.logger.InfoContext(ctx, "Loaded endpoint list", slog.Int("endpoints", len(endpoints)))
	}

	t.logger.InfoContext(ctx, "Run reachability check")

	report, err := t.uc.Execute(ctx, usecase.CheckReachabilityCommand{
		Endpoints: t.endpoints,
		Timeout:   t.timeout,
	})

	if err != nil {
		t.logger.ErrorContext(ctx, "Failed to execute reachability check", logging.Error(err), slog.Duration("duration", time.Since(now)))
	} else {
		t.logger.InfoContext(ctx, "Finished reachability check",
			slog.Int("working", len(report.Working)),
			slog.Int("failed", len(report.Failed)),
			slog.Duration("duration", time.Since(now)),
		)
	}

	return nil
}

func (c *CLI) Validate() error {
	var errs []error

	r := &c.Run

	if r.Probe.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("--probe.timeout: must be greater than zero"))
	}

	if r.Probe.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("--probe.concurrency: must be greater than zero"))
	}

	if r.Probe.RPS < 0 {
		errs = append(errs, fmt.Errorf("--probe.rps: must not be negative"))
	}

	if r.Source.URL == "" {
		errs = append(errs, fmt.Errorf("--source.url: must not be empty"))
	}

	if r.Source.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("--source.timeout: must be greater than zero"))
	}

	if r.Output.Dir == "" {
		errs = append(errs, fmt.Errorf("--output.dir: must not be empty"))
	}

	if !isColorMode(r.Output.Color) {
		errs = append(errs, fmt.Errorf("--output.color: must be one of auto, always, never"))
	}

	if r.Metrics.Addr != "" && !isTCPAddr(r.Metrics.Addr) {
		errs = append(errs, fmt.Errorf("--metrics.addr: must be a valid tcp listening address (e.g. 0.0.0.0:8080)"))
	}

	if r.Watch.Interval < 0 {
		errs = append(errs, fmt.Errorf("--watch.interval: must not be negative"))
	}

	if r.Watch.Interval > 0 && r.Watch.Interval <= r.Probe.Timeout {
		errs = append(errs, fmt.Errorf("--watch.interval: must be greater than --probe.timeout"))
	}

	if r.LogLevel != "" && !isLogLevel(r.LogLevel) {
		errs = append(errs, fmt.Errorf("--log.level: must be one of debug, info, warn, error"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
