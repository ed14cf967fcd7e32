// ABOUTME: Root Cobra command and global flags for the private-journal CLI.
// ABOUTME: Loads config, builds the logger, and wires the embedding, journal, and search services.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/2389-research/private-journal/internal/config"
	"github.com/2389-research/private-journal/internal/embeddings"
	"github.com/2389-research/private-journal/internal/logging"
	"github.com/2389-research/private-journal/internal/search"
	"github.com/2389-research/private-journal/internal/storage"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var globalConfig *config.Config
var globalLogger *zap.Logger
var globalJournal *storage.JournalManager
var globalSearch *search.Service

var (
	flagJournalPath string
	flagLogLevel    string
)

var rootCmd = &cobra.Command{
	Use:     "private-journal",
	Short:   "Private semantic journal for AI agents",
	Version: version,
	Long: `Private journaling for humans and agents.

Entries are timestamped markdown files under a local journal directory.
Each entry is embedded as it is written so it can be found later by meaning,
not just by keyword. Everything stays on disk; no index server is needed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "setup" {
			return nil
		}
		return initServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalLogger != nil {
			_ = globalLogger.Sync()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagJournalPath, "journal-path", "", "Journal root directory (overrides config and "+config.EnvJournalPath+")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func initServices() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv()
	globalConfig = cfg

	level := cfg.Logging.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logger, err := logging.New(level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	globalLogger = logger

	root, err := cfg.JournalPath(flagJournalPath)
	if err != nil {
		return fmt.Errorf("failed to resolve journal path: %w", err)
	}

	backend := cfg.Backend()
	factory, err := embeddings.NewFactory(backend)
	if err != nil {
		return err
	}
	svc := embeddings.NewService(factory,
		embeddings.WithLogger(logger),
		embeddings.WithBackendName(backend.Provider),
	)

	journal, err := storage.NewJournalManager(root, svc, storage.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	globalJournal = journal

	searcher, err := search.NewService(root, svc, search.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to open search: %w", err)
	}
	globalSearch = searcher

	logger.Debug("Journal ready",
		zap.String("root", root),
		zap.String("embedding_backend", backend.Provider),
	)
	return nil
}
