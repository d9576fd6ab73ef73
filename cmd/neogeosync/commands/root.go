// Package commands implements the CLI commands for neogeosync.
package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Backend opens the external collaborators a command needs.
type Backend struct {
	// OpenRunner connects to the graph database. The returned func releases it.
	OpenRunner func(ctx context.Context, cfg neogeosync.Config) (neogeosync.DBRunner, func(context.Context) error, error)
	// NewFetcher builds the feature fetcher.
	NewFetcher func(cfg neogeosync.Config, logger *slog.Logger) neogeosync.FeatureFetcher
}

// DefaultBackend connects to Neo4j with the official driver and fetches features over HTTP.
func DefaultBackend() Backend {
	return Backend{
		OpenRunner: func(ctx context.Context, cfg neogeosync.Config) (neogeosync.DBRunner, func(context.Context) error, error) {
			exec, err := neogeosync.NewNeo4jExecutorFromConfig(cfg.Neo4j)
			if err != nil {
				return nil, nil, err
			}
			if err := exec.Verify(ctx); err != nil {
				_ = exec.Close(ctx)
				return nil, nil, err
			}
			return exec, exec.Close, nil
		},
		NewFetcher: func(cfg neogeosync.Config, logger *slog.Logger) neogeosync.FeatureFetcher {
			return neogeosync.NewHTTPFeatureFetcher(cfg, neogeosync.WithFetcherLogger(logger))
		},
	}
}

// CLI represents the command line interface for neogeosync.
type CLI struct {
	backend Backend
	rootCmd *cobra.Command

	cfg    neogeosync.Config
	logger *slog.Logger
	reproj *neogeosync.Reprojector
}

// New creates a new CLI instance with the given backend.
func New(b Backend) *CLI {
	rootCmd := &cobra.Command{
		Use:           "neogeosync",
		Short:         "Query and maintain the geographic side of a Neo4j graph",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (defaults are used when empty)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	c := &CLI{
		backend: b,
		rootCmd: rootCmd,
		cfg:     neogeosync.DefaultConfig(),
		logger:  slog.Default(),
		reproj:  neogeosync.NewReprojector(),
	}
	rootCmd.PersistentPreRunE = c.setup

	rootCmd.AddCommand(c.newQueryCmd())
	rootCmd.AddCommand(c.newBBoxCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output and logs. Used for testing.
func (c *CLI) SetOutput(out, errOut io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}

func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	configPath, err := flags.GetString("config")
	if err != nil {
		return err
	}
	jsonLogs, _ := flags.GetBool("log-json")
	verbose, _ := flags.GetBool("verbose")

	c.logger = newLogger(cmd.ErrOrStderr(), jsonLogs, verbose)

	if configPath == "" {
		c.cfg = neogeosync.DefaultConfig()
		return nil
	}
	cfg, err := neogeosync.LoadConfig(configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger.Debug("loaded config", "path", configPath)
	return nil
}

// openManager connects to the database and wraps it in a GraphManager.
func (c *CLI) openManager(ctx context.Context) (*neogeosync.GraphManager, func(context.Context) error, error) {
	runner, closeFn, err := c.backend.OpenRunner(ctx, c.cfg)
	if err != nil {
		return nil, nil, err
	}
	if closeFn == nil {
		closeFn = func(context.Context) error { return nil }
	}
	return neogeosync.NewGraphManager(runner, neogeosync.WithManagerLogger(c.logger)), closeFn, nil
}

func newLogger(w io.Writer, jsonLogs, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if jsonLogs {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
