package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"newswire/internal/infra/worker"
	"newswire/internal/usecase/orchestrator"
)

type runOptions struct {
	limit       int
	output      string
	metricsPort int
	timeout     time.Duration
	linger      time.Duration
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch every provider's feeds and extract the linked articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.limit, "limit", 0, "maximum entries per category, 0 for no limit (default from NEWSWIRE_LIMIT)")
	flags.StringVarP(&opts.output, "output", "o", outputText, "output format: text or json")
	flags.IntVar(&opts.metricsPort, "metrics-port", 0, "serve /metrics and /health on this port, 0 disables (default from METRICS_PORT)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "whole-run timeout, e.g. 5m (default from NEWSWIRE_RUN_TIMEOUT)")
	flags.DurationVar(&opts.linger, "linger", 0, "with --metrics-port, keep serving this long after the run, 0 until interrupted")
	return cmd
}

func (a *app) run(cmd *cobra.Command, opts runOptions) error {
	if err := validateOutput(opts.output); err != nil {
		return err
	}

	cfg, err := a.applyRunFlags(cmd, opts)
	if err != nil {
		return err
	}

	// The ops server outlives the run so that its outcome can be scraped.
	serveCtx, stopServing := context.WithCancel(cmd.Context())
	defer stopServing()

	orch := a.newOrchestrator()
	if cfg.MetricsPort > 0 {
		if err := worker.NewOpsServer(cfg.MetricsPort, orch.State, a.logger).Start(serveCtx); err != nil {
			return err
		}
	}

	a.logger.Info("run starting",
		slog.String("limit", cfg.EntryLimit().String()),
		slog.Int("providers", a.registry.Len()),
		slog.Duration("timeout", cfg.RunTimeout))

	runCtx, cancel := context.WithTimeout(cmd.Context(), cfg.RunTimeout)
	articles, err := orch.Process(runCtx, cfg.EntryLimit())
	cancel()

	stats := orch.Stats()
	sharedRunMetrics().RecordRun(stats, err)
	if err != nil {
		err = fmt.Errorf("run %s: %w", stats.RunID, err)
	} else {
		err = writeRun(a.stdout, opts.output, stats, articles)
	}

	if cfg.MetricsPort > 0 {
		a.linger(serveCtx, opts.linger, stats)
	}
	return err
}

// linger blocks until ctx is done or, when d is positive, d has elapsed.
func (a *app) linger(ctx context.Context, d time.Duration, stats orchestrator.RunStats) {
	a.logger.Info("run finished, ops server still serving",
		slog.String("state", stats.State.String()),
		slog.Duration("linger", d))

	if d <= 0 {
		<-ctx.Done()
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// applyRunFlags overlays explicitly set flags on the environment configuration.
func (a *app) applyRunFlags(cmd *cobra.Command, opts runOptions) (worker.RunConfig, error) {
	cfg := a.runCfg
	flags := cmd.Flags()

	if flags.Changed("limit") {
		cfg.Limit = opts.limit
	}
	if flags.Changed("metrics-port") {
		cfg.MetricsPort = opts.metricsPort
	}
	if flags.Changed("timeout") {
		cfg.RunTimeout = opts.timeout
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid run configuration: %w", err)
	}
	return cfg, nil
}
