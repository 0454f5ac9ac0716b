package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relengkit/attributor/pkg/pipeline"
	"github.com/relengkit/attributor/pkg/policy"
)

// noticesCommand creates the notices command running the full attribution pipeline.
func (c *CLI) noticesCommand() *cobra.Command {
	var opts noticesOptions

	cmd := &cobra.Command{
		Use:   "notices [package]",
		Short: "Collect third-party license obligations for a package",
		Long: `Collect third-party license obligations for a package.

The notices command resolves the runtime dependencies of the given
workspace package, simplifies each dependency's license expression,
extracts copyright notices from its source tree, downloads the required
license texts, and writes an attribution document plus one text file
per license under the output directory.

Dependencies whose licenses waive attribution (CC0-1.0, Unlicense,
Zlib, MPL-2.0 by default) are skipped with a log line. A dependency
with no license metadata, or with no recoverable copyright notice and
no whitelist entry, aborts the run so the gap gets reviewed instead of
shipped.

Registry lookups and license texts are cached locally for faster
subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNotices(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", pipeline.DefaultManifest, "path to the workspace manifest")
	cmd.Flags().StringVarP(&opts.output, "output", "o", pipeline.DefaultOutputDir, "output directory for the document and license texts")
	cmd.Flags().StringVar(&opts.config, "config", "", "policy file (TOML) overlaying the built-in defaults")
	cmd.Flags().StringArrayVarP(&opts.platforms, "platform", "p", nil, "target triple to resolve for (repeatable)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "refetch registry and license data even when cached")
	cmd.Flags().BoolVar(&opts.cache.disabled, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.cache.redisURL, "redis", "", "Redis URL for a shared cache (or ATTRIBUTOR_REDIS)")
	cmd.Flags().BoolVar(&opts.cache.memory, "memory-cache", false, "cache in process memory instead of on disk")

	return cmd
}

// noticesOptions collects the notices command flags.
type noticesOptions struct {
	manifest  string
	output    string
	config    string
	platforms []string
	refresh   bool
	cache     cacheOptions
}

// runNotices executes the attribution pipeline and reports the result.
func (c *CLI) runNotices(ctx context.Context, pkg string, opts noticesOptions) error {
	pol, err := policy.Load(opts.config)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	pipeOpts := pipeline.Options{
		Package:   pkg,
		Manifest:  opts.manifest,
		OutputDir: opts.output,
		Platforms: opts.platforms,
		Refresh:   opts.refresh,
		Policy:    pol,
	}

	var result *pipeline.Result
	err = runWithSpinner(ctx, fmt.Sprintf("Collecting obligations for %s...", pkg), func() error {
		var runErr error
		result, runErr = runner.Execute(ctx, pipeOpts)
		return runErr
	})
	if err != nil {
		printError("Attribution failed")
		return err
	}

	skipped := result.Stats.SkippedExempt + result.Stats.SkippedWhitelisted
	printSuccess("Attribution complete")
	printFile(result.DocumentPath)
	printSummary(len(result.Records), result.Stats.LicenseCount, skipped)
	printNewline()
	printNextStep("Review", "less "+result.DocumentPath)

	return nil
}
