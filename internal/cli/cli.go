// Package cli implements the attributor command-line interface.
//
// This package provides commands for generating third-party copyright
// notices and license texts, inspecting the resolved dependency graph,
// looking up crates on crates.io, bumping pinned version numbers, and
// managing the local cache. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - notices: Run the full attribution pipeline for a root package
//   - graph: Render the resolved runtime dependency graph (DOT or SVG)
//   - crate: Look up crate metadata on crates.io
//   - bump: Rewrite pinned version numbers across workspace files
//   - cache: Manage the cached registry metadata and license texts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging and
// --quiet (-q) to log errors only. Policy-driven skips during an
// attribution run are logged at info level so they stay auditable.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/relengkit/attributor/pkg/buildinfo"
	"github.com/relengkit/attributor/pkg/cache"
	"github.com/relengkit/attributor/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "attributor"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose, quiet bool

	root := &cobra.Command{
		Use:   "attributor",
		Short: "Attributor collects third-party license obligations for compiled distributions",
		Long: `Attributor resolves the runtime dependencies of a Cargo workspace
target, collects their copyright notices and license texts, and writes
an attribution document suitable for shipping alongside release
artifacts.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case quiet:
				c.SetLogLevel(log.ErrorLevel)
			case verbose:
				c.SetLogLevel(log.DebugLevel)
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log errors only")

	// Register all subcommands
	root.AddCommand(c.noticesCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.crateCommand())
	root.AddCommand(c.bumpCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheOptions selects the cache backend for a command invocation.
type cacheOptions struct {
	disabled bool   // --no-cache
	redisURL string // --redis, falling back to ATTRIBUTOR_REDIS
	memory   bool   // --memory-cache
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, opts cacheOptions) (*pipeline.Runner, error) {
	backend, err := newCache(ctx, opts)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, c.Logger), nil
}

// newCache selects the cache backend: redis when a URL is configured,
// an in-process LRU with --memory-cache, otherwise the XDG file cache.
func newCache(ctx context.Context, opts cacheOptions) (cache.Cache, error) {
	if opts.disabled {
		return cache.NewNullCache(), nil
	}
	if url := redisURL(opts.redisURL); url != "" {
		return cache.NewRedisCache(ctx, url)
	}
	if opts.memory {
		return cache.NewMemoryCache(cache.DefaultMemorySize)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// redisURL returns the shared cache URL from the flag or the
// ATTRIBUTOR_REDIS environment variable.
func redisURL(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("ATTRIBUTOR_REDIS")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/attributor/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
