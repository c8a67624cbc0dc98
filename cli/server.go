package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/encoded/core/item"
	"github.com/goto/encoded/core/search"
	encodedserver "github.com/goto/encoded/internal/server"
	esStore "github.com/goto/encoded/internal/store/elasticsearch"
	"github.com/goto/encoded/pkg/statsd"
	"github.com/goto/encoded/pkg/telemetry"
	"github.com/goto/salt/log"
	"github.com/spf13/cobra"
)

// Version of the current build. overridden by the build system.
// see "Makefile" for more information
var (
	Version string
)

func serverCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "server <command>",
		Aliases: []string{"s"},
		Short:   "Run encoded server",
		Long:    "Server management commands.",
		Example: heredoc.Doc(`
			$ encoded server start
			$ encoded server start -c ./config.yaml
			$ encoded server migrate
			$ encoded server migrate -c ./config.yaml
		`),
	}

	cmd.AddCommand(
		serverStartCommand(cfg),
		serverMigrateCommand(cfg),
	)

	return cmd
}

func serverStartCommand(cfg *Config) *cobra.Command {
	c := &cobra.Command{
		Use:     "start",
		Short:   "Start server on default port 8080",
		Example: "encoded server start",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := overrideConfigFromFlag(cmd, cfg); err != nil {
				return err
			}
			if err := runServer(cmd.Context(), cfg); err != nil {
				return fmt.Errorf("run server: %w", err)
			}
			return nil
		},
	}

	return c
}

func serverMigrateCommand(cfg *Config) *cobra.Command {
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the search index mapping",
		Example: heredoc.Doc(`
			$ encoded server migrate
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := overrideConfigFromFlag(cmd, cfg); err != nil {
				return err
			}
			return runMigrations(cmd.Context(), cfg)
		},
	}

	return c
}

func runServer(ctx context.Context, config *Config) error {
	logger := initLogger(config.LogLevel)
	logger.Info("encoded starting", "version", Version)

	config.Telemetry.AppVersion = Version
	nrApp, cleanUpTelemetry, err := telemetry.Init(ctx, config.Telemetry, logger)
	if err != nil {
		return err
	}
	defer cleanUpTelemetry()

	statsdReporter, err := statsd.Init(logger, config.StatsD)
	if err != nil {
		return err
	}
	defer func() {
		if err := statsdReporter.Close(); err != nil {
			logger.Error("close statsd reporter", "err", err)
		}
	}()

	registry, err := item.LoadRegistry(config.Search.TypesFile)
	if err != nil {
		return fmt.Errorf("load types: %w", err)
	}
	logger.Info("loaded item types", "file", config.Search.TypesFile, "count", len(registry.Names()))

	esClient, err := initElasticsearch(logger, config.Elasticsearch)
	if err != nil {
		return err
	}

	searchService := search.NewService(
		config.Search,
		registry,
		esStore.NewSearchRepository(esClient, logger),
		search.ServiceWithStatsDReporter(statsdReporter),
	)

	return encodedserver.Serve(
		ctx,
		config.Service,
		logger,
		nrApp,
		statsdReporter,
		searchService,
		config.Search.BrowseType,
	)
}

func initLogger(logLevel string) *log.Logrus {
	logger := log.NewLogrus(
		log.LogrusWithLevel(logLevel),
		log.LogrusWithWriter(os.Stdout),
	)
	return logger
}

func initElasticsearch(logger log.Logger, config esStore.Config) (*esStore.Client, error) {
	esClient, err := esStore.NewClient(logger, config)
	if err != nil {
		return nil, fmt.Errorf("create new elasticsearch client: %w", err)
	}
	got, err := esClient.Init()
	if err != nil {
		return nil, fmt.Errorf("establish connection to elasticsearch: %w", err)
	}
	logger.Info("connected to elasticsearch", "info", got)
	return esClient, nil
}

func runMigrations(ctx context.Context, config *Config) error {
	fmt.Println("Preparing migration...")

	logger := initLogger(config.LogLevel)
	logger.Info("encoded is migrating", "version", Version)

	esClient, err := initElasticsearch(logger, config.Elasticsearch)
	if err != nil {
		return err
	}

	logger.Info("Migrating index...", "index", esClient.Index())
	if err := esClient.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate index %q: %w", esClient.Index(), err)
	}
	logger.Info("Migration done.", "index", esClient.Index())

	return nil
}
