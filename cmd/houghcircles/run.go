package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/viant/houghcircles"
	"github.com/viant/houghcircles/internal/logging"
	"github.com/viant/houghcircles/service/event"
	"github.com/viant/houghcircles/service/task"
	"github.com/viant/houghcircles/tracing"
)

type runOptions struct {
	configURL   string
	input       string
	output      string
	cycles      int
	mode        int
	allocator   string
	logLevel    string
	logFormat   string
	trace       bool
	traceFile   string
	metricsAddr string
	events      bool
	history     string
}

func newRunCmd() *cobra.Command {
	return runCmd(&runOptions{})
}

func runCmd(opts *runOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "drive the task from setup to release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, opts, cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.configURL, "config", "c", "", "recipe location (any afs URL)")
	flags.StringVarP(&opts.input, "input", "i", "", "source image location")
	flags.StringVarP(&opts.output, "output", "o", "", "annotated result location")
	flags.IntVar(&opts.cycles, "cycles", 0, "completion threshold, 0 runs until stopped")
	flags.IntVar(&opts.mode, "mode", 0, "initial working mode")
	flags.StringVar(&opts.allocator, "allocator", "", "allocator: static or host")
	flags.StringVar(&opts.logLevel, "log-level", "", "logging level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "logging format (text, json)")
	flags.BoolVar(&opts.trace, "trace", false, "export spans to stdout")
	flags.StringVar(&opts.traceFile, "trace-file", "", "export spans to file")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flags.BoolVar(&opts.events, "events", false, "print task events as JSON lines")
	flags.StringVar(&opts.history, "history", "", "location run records are written to")
	return cmd
}

// config loads the recipe and applies the flags that were set explicitly.
func (o *runOptions) config(cmd *cobra.Command) (*houghcircles.Config, error) {
	cfg := houghcircles.DefaultConfig()
	if o.configURL != "" {
		loaded, err := houghcircles.LoadConfig(cmd.Context(), o.configURL)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Task.Input = o.input
	}
	if flags.Changed("output") {
		cfg.Task.Output = o.output
	}
	if flags.Changed("cycles") {
		cfg.Task.MaxCycles = o.cycles
	}
	if flags.Changed("mode") {
		cfg.InitialMode = o.mode
	}
	if flags.Changed("allocator") {
		cfg.Allocator = o.allocator
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if flags.Changed("history") {
		cfg.History = o.history
	}
	if o.trace || o.traceFile != "" {
		cfg.Tracing.Enabled = true
	}
	if o.traceFile != "" {
		cfg.Tracing.File = o.traceFile
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg *houghcircles.Config, opts *runOptions, stdout io.Writer) (err error) {
	logger, err := logging.New(cfg.Log, nil)
	if err != nil {
		return err
	}
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init(tracing.Config{Service: "houghcircles", Version: version, File: cfg.Tracing.File})
		if err != nil {
			return fmt.Errorf("failed to initialise tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if shutdownErr := shutdown(shutdownCtx); shutdownErr != nil {
				logger.WithError(shutdownErr).Warn("failed to flush spans")
			}
		}()
	}

	options := []houghcircles.Option{
		houghcircles.WithConfig(cfg),
		houghcircles.WithLogger(logger),
	}
	if opts.metricsAddr != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		options = append(options, houghcircles.WithRegisterer(registry))
		server := serveMetrics(opts.metricsAddr, registry, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}
	if opts.events {
		events := event.New(event.WithLogger(logger))
		encoder := json.NewEncoder(stdout)
		event.SetListenerOf[task.Event](events, func(e *event.Event[task.Event]) {
			if encErr := encoder.Encode(e); encErr != nil {
				logger.WithError(encErr).Warn("failed to print event")
			}
		})
		defer events.Close()
		options = append(options, houghcircles.WithEventService(events))
	}

	srv, err := houghcircles.New(options...)
	if err != nil {
		return err
	}
	summary, err := srv.Run(ctx)
	if summary != nil {
		entry := logger.WithFields(logrus.Fields{
			"task":     summary.Task,
			"reason":   summary.Reason,
			"cycles":   summary.Progress.Cycles,
			"failures": summary.Progress.Failures,
		})
		if summary.Telemetry != nil {
			entry = entry.WithField("cps", fmt.Sprintf("%.3f", summary.Telemetry.CPS))
		}
		entry.Info("done")
	}
	return err
}

func serveMetrics(addr string, registry *prometheus.Registry, logger logrus.FieldLogger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("metrics server stopped")
		}
	}()
	logger.Infof("serving metrics on %s/metrics", addr)
	return server
}
