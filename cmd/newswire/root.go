package main

import (
	"io"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"newswire/internal/config"
	"newswire/internal/infra/fetcher"
	"newswire/internal/infra/scraper"
	"newswire/internal/infra/worker"
	"newswire/internal/observability/logging"
	"newswire/internal/usecase/orchestrator"
	"newswire/internal/usecase/provider"
)

var (
	runMetricsOnce sync.Once
	runMetrics     *worker.RunMetrics
)

// sharedRunMetrics registers the run metrics on first use. Commands may be
// built several times in one process (tests do), the registration may not.
func sharedRunMetrics() *worker.RunMetrics {
	runMetricsOnce.Do(func() {
		runMetrics = worker.NewRunMetrics()
	})
	return runMetrics
}

// app carries what every subcommand needs once the persistent flags are parsed.
type app struct {
	stdout io.Writer
	stderr io.Writer

	providersPath string
	logLevel      string
	logFormat     string

	logger   *slog.Logger
	runCfg   worker.RunConfig
	registry *provider.Registry
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "newswire",
		Short:         "Fetch news feeds and extract the linked articles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.providersPath, "providers", "", "provider file (YAML or JSON); overrides NEWSWIRE_PROVIDERS")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default from LOG_LEVEL)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: json or text (default from LOG_FORMAT)")

	root.AddCommand(newRunCmd(a), newCategoriesCmd(a), newFeedCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	opts := logging.OptionsFromEnv()
	opts.Output = a.stderr
	if cmd.Flags().Changed("log-level") {
		opts.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		opts.Format = a.logFormat
	}
	a.logger = logging.NewLogger(opts)

	a.runCfg = worker.LoadConfigFromEnv(a.logger, sharedRunMetrics())
	if cmd.Flags().Changed("providers") {
		a.runCfg.ProvidersPath = a.providersPath
	}

	registry, err := config.LoadRegistry(a.runCfg.ProvidersPath, a.logger)
	if err != nil {
		return err
	}
	a.registry = registry

	a.logger.Debug("providers loaded",
		slog.String("path", a.runCfg.ProvidersPath),
		slog.Any("keys", registry.Keys()))
	return nil
}

func (a *app) newFeedFetcher() *scraper.RSSFetcher {
	return scraper.NewRSSFetcher(nil, scraper.LoadConfigFromEnv(a.logger), a.logger)
}

func (a *app) newOrchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(
		a.registry,
		a.newFeedFetcher(),
		fetcher.NewReadabilityExtractor(fetcher.LoadConfigFromEnv(a.logger), a.logger),
		orchestrator.WithExtractParallelism(a.runCfg.ExtractParallelism),
		orchestrator.WithCategoryParallelism(a.runCfg.CategoryParallelism),
		orchestrator.WithLogger(a.logger),
	)
}
