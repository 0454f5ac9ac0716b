package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/relengkit/attributor/pkg/cache"
	"github.com/relengkit/attributor/pkg/integrations"
	"github.com/relengkit/attributor/pkg/integrations/crates"
)

// crateCommand creates the crate command for registry lookups.
func (c *CLI) crateCommand() *cobra.Command {
	var (
		asJSON    bool
		refresh   bool
		cacheOpts cacheOptions
	)

	cmd := &cobra.Command{
		Use:   "crate [name]",
		Short: "Look up a crate on crates.io",
		Long: `Look up a crate on crates.io.

Shows the latest published version, license expression and repository
of a crate. Handy when reviewing a whitelist entry: the whitelist pins
exact versions, so a version bump needs a fresh look at the crate
before the entry is updated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCrate(cmd.Context(), args[0], asJSON, refresh, cacheOpts)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw crate info as JSON")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch even when cached")
	cmd.Flags().BoolVar(&cacheOpts.disabled, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&cacheOpts.redisURL, "redis", "", "Redis URL for a shared cache (or ATTRIBUTOR_REDIS)")
	cmd.Flags().BoolVar(&cacheOpts.memory, "memory-cache", false, "cache in process memory instead of on disk")

	return cmd
}

// runCrate fetches crate metadata and prints it.
func (c *CLI) runCrate(ctx context.Context, name string, asJSON, refresh bool, cacheOpts cacheOptions) error {
	backend, err := newCache(ctx, cacheOpts)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer backend.Close()

	client := crates.NewClient(backend, cache.TTLRegistry)

	var info *crates.CrateInfo
	err = runWithSpinner(ctx, fmt.Sprintf("Looking up %s...", name), func() error {
		var fetchErr error
		info, fetchErr = client.FetchCrate(ctx, name, refresh)
		return fetchErr
	})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	printCrate(info)
	return nil
}

// printCrate renders crate metadata as a styled summary.
func printCrate(info *crates.CrateInfo) {
	fmt.Println(StyleTitle.Render(info.Name) + " " + StyleNumber.Render("v"+info.Version))
	if info.Description != "" {
		printDetail("%s", truncate(info.Description, 100))
	}
	printNewline()

	if info.License != "" {
		printKeyValue("License", info.License)
	}
	if repo := integrations.NormalizeRepoURL(info.Repository); repo != "" {
		printKeyValue("Repository", StyleLink.Render(repo))
	}
	if info.HomePage != "" && info.HomePage != info.Repository {
		printKeyValue("Homepage", StyleLink.Render(info.HomePage))
	}
	if info.Downloads > 0 {
		printKeyValue("Downloads", formatCount(info.Downloads))
	}
	if n := len(info.Dependencies); n > 0 {
		printKeyValue("Depends on", fmt.Sprintf("%d crates", n))
	}
}

// formatCount renders large numbers with a compact suffix.
func formatCount(n int) string {
	switch {
	case n >= 1_000_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000_000, 'f', 1, 64) + "B"
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "k"
	}
	return strconv.Itoa(n)
}
