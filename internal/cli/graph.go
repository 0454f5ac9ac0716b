package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/relengkit/attributor/pkg/cargo"
	"github.com/relengkit/attributor/pkg/pipeline"
	"github.com/relengkit/attributor/pkg/policy"
	"github.com/relengkit/attributor/pkg/report"
)

// graphCommand creates the graph command rendering the resolved runtime graph.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOptions

	cmd := &cobra.Command{
		Use:   "graph [package]",
		Short: "Render the resolved runtime dependency graph",
		Long: `Render the resolved runtime dependency graph.

The graph command runs the same dependency resolution as notices and
renders the result as Graphviz DOT (default) or SVG. Dev-only,
build-only and platform-excluded dependencies are absent, so the
picture shows exactly the set attribution covers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", pipeline.DefaultManifest, "path to the workspace manifest")
	cmd.Flags().StringVar(&opts.config, "config", "", "policy file (TOML) overlaying the built-in defaults")
	cmd.Flags().StringArrayVarP(&opts.platforms, "platform", "p", nil, "target triple to resolve for (repeatable)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "dot", "output format: dot (default), svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include version and license in node labels")

	return cmd
}

// graphOptions collects the graph command flags.
type graphOptions struct {
	manifest  string
	config    string
	platforms []string
	format    string
	output    string
	detailed  bool
}

// validateFormat checks the requested output format.
func validateFormat(format string) error {
	switch format {
	case "dot", "svg":
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", format)
}

// runGraph resolves the runtime graph and renders it.
func (c *CLI) runGraph(ctx context.Context, pkg string, opts graphOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	pol, err := policy.Load(opts.config)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}

	// Resolution only shells out to cargo, nothing to cache.
	runner, err := c.newRunner(ctx, cacheOptions{disabled: true})
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	pipeOpts := pipeline.Options{
		Package:   pkg,
		Manifest:  opts.manifest,
		Platforms: opts.platforms,
		Policy:    pol,
	}

	var resolved []cargo.Package
	err = runWithSpinner(ctx, fmt.Sprintf("Resolving %s...", pkg), func() error {
		var resolveErr error
		resolved, resolveErr = runner.Resolve(ctx, pipeOpts)
		return resolveErr
	})
	if err != nil {
		printError("Resolution failed")
		return err
	}

	dot := report.ToDOT(resolved, pol, report.GraphOptions{Detailed: opts.detailed})

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = report.RenderSVG(dot)
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if opts.output != "" {
		printSuccess("Graph written")
		printFile(opts.output)
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
