// Package cli provides the command-line interface for the retrieval
// engine. Commands share a service bundle wired up once per invocation.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/localrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/localrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/localrag/internal/adapters/driven/vector"
	"github.com/custodia-labs/localrag/internal/core/ports/driving"
	"github.com/custodia-labs/localrag/internal/core/services"
	"github.com/custodia-labs/localrag/internal/embedding/hashing"
	"github.com/custodia-labs/localrag/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagConfigDir   string
	flagStorageRoot string
	flagVerbose     bool
)

// Services wired by bootstrap and consumed by the commands.
var (
	retrievalService driving.RetrievalService
	cacheService     driving.ResponseCache

	// cleanup closes the driven adapters after the command runs.
	cleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "localrag",
	Short: "Local semantic document retrieval",
	Long: `localrag indexes documents on your machine and retrieves them by
semantic similarity. Embeddings are computed locally with no model
downloads and no network calls; everything lives under a single
storage directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Interrupt signals cancel the command
// context so long-running commands (watch, mcp serve) shut down cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.localrag)")
	rootCmd.PersistentFlags().StringVar(&flagStorageRoot, "storage-root", "", "storage directory override")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging to stderr")
}

// bootstrap wires settings, storage, embedder, vector backend and the
// services. Commands that touch the index call this from PreRunE;
// version does not.
func bootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	settingsStore, err := file.NewSettingsStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}

	settings, err := settingsStore.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if flagStorageRoot != "" {
		settings.StorageRoot = flagStorageRoot
	}

	logger.Debug("Instance %s, storage root %s", settings.InstanceID, settings.StorageRoot)

	store, err := sqlite.NewStore(settings.StorageRoot)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}

	backend := vector.Select(cmd.Context(), vector.Config{
		DataDir:   settings.StorageRoot,
		Dimension: settings.Dimension,
	})

	embedder := hashing.New(
		hashing.WithDimension(settings.Dimension),
		hashing.WithMaxTokens(settings.MaxTokens),
	)

	svc := services.NewRetrievalService(store, embedder, backend, settings.StorageRoot)
	if _, err := svc.Reload(cmd.Context()); err != nil {
		store.Close()
		backend.Close()
		return fmt.Errorf("loading index: %w", err)
	}
	retrievalService = svc

	cacheOpts := []services.CacheOption{}
	if settings.FuzzyCacheEnabled() {
		cacheOpts = append(cacheOpts,
			services.WithFuzzyLookup(svc, settings.FuzzyCacheThreshold))
	}
	cacheService = services.NewResponseCache(settings.CacheSize, settings.CacheTTL(), cacheOpts...)

	cleanup = func() {
		store.Close()
		backend.Close()
	}
	return nil
}

// teardown releases the adapters wired by bootstrap.
func teardown(_ *cobra.Command, _ []string) error {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
	return nil
}
