// Package pkg provides the core libraries for attributor, a license
// obligation collector for compiled software distributions.
//
// # Overview
//
// Attributor answers one question for a release artifact: which third-party
// copyright notices and license texts must ship with it. It resolves the
// runtime dependency closure of a Cargo workspace target, reduces each
// dependency's SPDX expression to the obligations actually incurred, and
// emits an attribution document plus the referenced license texts.
//
// # Architecture
//
// The typical data flow through attributor:
//
//	cargo metadata (workspace manifest)
//	         ↓
//	    [cargo] package (runtime dependency resolution)
//	         ↓
//	    [spdx] + [policy] packages (license expression simplification)
//	         ↓
//	    [notices] package (copyright notice extraction)
//	         ↓
//	    [integrations] package (registry metadata + license text fetch)
//	         ↓
//	    [report] package (RST document, DOT/SVG graphs)
//
// The [pipeline] package orchestrates the full flow and is the entry point
// for both the CLI and library embedding.
//
// # Main Packages
//
// [cargo] - Loads cargo metadata and resolves the runtime dependency set of
// one root package. Dev-only, build-only and platform-excluded edges are
// pruned during the walk.
//
// [spdx] - Reduces SPDX license expressions to the obligation set a binary
// distribution incurs: rewrite table, OR-branch selection, AND-splitting.
//
// [notices] - Extracts copyright notice lines from license files in a
// package's source tree.
//
// [policy] - The attribution tables for one run: exempt licenses, own
// crates, the empty-notices whitelist, notice overrides, platform defaults
// and bump rules. Defaults can be overlaid from a TOML file.
//
// [pipeline] - Stage orchestration (resolve, notices, fetch, document) with
// per-stage timing and logging.
//
// [report] - Output rendering: the RST attribution document and Graphviz
// DOT/SVG views of the resolved graph.
//
// [integrations] - HTTP clients for crates.io and the SPDX license text
// repository, with caching and retry support from [cache].
//
// [cache] - Cache backends (file, memory, Redis, null) plus retry helpers
// shared by the HTTP clients.
//
// [bump] - Regex-based version rewriting across workspace files, the
// release-engineering companion to the attribution pipeline.
//
// [errors] - Structured error codes shared by all packages.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Quick Start
//
// Run the pipeline programmatically:
//
//	runner := pipeline.NewRunner(nil, nil)
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Package:   "libloot",
//	    Manifest:  "Cargo.toml",
//	    OutputDir: "docs/copyright",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.DocumentPath)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...         # All tests
//	go test ./pkg/spdx/...    # Specific package
//	go test -run Example      # Examples only
//
// [cargo]: https://pkg.go.dev/github.com/relengkit/attributor/pkg/cargo
// [spdx]: https://pkg.go.dev/github.com/relengkit/attributor/pkg/spdx
// [notices]: https://pkg.go.dev/github.com/relengkit/attributor/pkg/notices
// [policy]: https://pkg.go.dev/github.com/relengkit/attributor/pkg/policy
// [pipeline]: https://pkg.go.dev/github.com/relengkit/attributor/pkg/pipeline
// [report]: https://pkg.go.dev/github.com/relengkit/attributor/pkg/report
// [integrations]: https://pkg.go.dev/github.com/relengkit/attributor/pkg/integrations
// [cache]: https://pkg.go.dev/github.com/relengkit/attributor/pkg/cache
// [bump]: https://pkg.go.dev/github.com/relengkit/attributor/pkg/bump
// [errors]: https://pkg.go.dev/github.com/relengkit/attributor/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/relengkit/attributor/pkg/buildinfo
package pkg
