package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relengkit/attributor/pkg/bump"
	"github.com/relengkit/attributor/pkg/policy"
)

// bumpCommand creates the bump command for rewriting pinned versions.
func (c *CLI) bumpCommand() *cobra.Command {
	var (
		config string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "bump [version]",
		Short: "Rewrite pinned version strings across workspace files",
		Long: `Rewrite pinned version strings across workspace files.

Each bump rule pairs a file with a regular expression and a
replacement template. The default rules update the version field in
Cargo.toml and package.json; a policy file can add more.

The version must be a plain major.minor.patch triple.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBump(args[0], config, dryRun)
		},
	}

	cmd.Flags().StringVar(&config, "config", "", "policy file (TOML) overlaying the built-in defaults")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report would-be changes without writing")

	return cmd
}

// runBump applies the policy's bump rules and reports per-file results.
func (c *CLI) runBump(version, config string, dryRun bool) error {
	pol, err := policy.Load(config)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}

	prog := newProgress(c.Logger)
	results, err := bump.Run(version, pol.BumpRules, dryRun)
	if err != nil {
		return err
	}

	updated := 0
	for _, r := range results {
		switch {
		case r.Missing:
			printWarning("%s not found, rule skipped", r.Path)
		case r.Replacements == 0:
			printDetail("%s: pattern matched nothing", r.Path)
		case dryRun:
			printInfo("%s: would rewrite %d pinned versions", r.Path, r.Replacements)
		case r.Changed:
			printSuccess("%s: rewrote %d pinned versions", r.Path, r.Replacements)
			updated++
		default:
			printDetail("%s: already at %s", r.Path, version)
		}
	}

	if dryRun {
		printInfo("Dry run, no files written")
		return nil
	}
	prog.done(fmt.Sprintf("Updated %d files", updated))
	return nil
}
