// Package pipeline provides the core attribution pipeline for attributor.
//
// This package implements the complete resolve → notices → fetch → document
// pipeline that produces the copyright output for a compiled distribution.
// By centralizing this logic, the CLI commands stay thin and every entry
// point gets identical skip and abort behavior.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Resolve: Load cargo metadata and walk the runtime dependency graph
//  2. Notices: Reduce each dependency's license expression and collect its
//     copyright notices, applying the policy's skip rules
//  3. Fetch: Download the canonical text for every distinct license
//     obligation and write it under the output directory
//  4. Document: Render the attribution document and write it last, so a
//     fatal run never leaves a truncated obligations list behind
//
// The resolve stage can be run on its own; the graph command uses it to
// render the dependency graph without touching the network.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Package:  "libloot-cpp",
//	    Manifest: "cpp/Cargo.toml",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.DocumentPath)
package pipeline

import (
	"path/filepath"
	"time"

	apperrors "github.com/relengkit/attributor/pkg/errors"
	"github.com/relengkit/attributor/pkg/policy"
	"github.com/relengkit/attributor/pkg/report"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI and Library Callers
// =============================================================================

const (
	// DefaultManifest is the manifest path used when none is given.
	DefaultManifest = "Cargo.toml"

	// DefaultOutputDir is where the attribution output is written.
	DefaultOutputDir = "docs/copyright"

	// DocumentName is the attribution document's file name inside the
	// output directory.
	DocumentName = "dependency-notices.rst"

	// LicenseDir is the subdirectory of the output directory that holds
	// the downloaded license texts, one file per identifier.
	LicenseDir = "licenses"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the attribution pipeline.
// This struct supports JSON serialization for config files and logs.
type Options struct {
	// Package is the root target whose runtime dependencies are
	// attributed. Required.
	Package string `json:"package"`

	// Manifest is the path to the workspace Cargo.toml.
	Manifest string `json:"manifest,omitempty"`

	// OutputDir is the directory the document and license texts are
	// written to.
	OutputDir string `json:"output_dir,omitempty"`

	// Platforms are the target triples the dependency graph is filtered
	// to. Defaults to the policy's platform set.
	Platforms []string `json:"platforms,omitempty"`

	// Refresh bypasses cached license texts and refetches them.
	Refresh bool `json:"refresh,omitempty"`

	// Policy carries the license and crate special-case tables.
	// Defaults to policy.Default().
	Policy *policy.Policy `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Records are the attribution entries in resolution order, one per
	// dependency that contributed copyright notices.
	Records []report.Record

	// Licenses is the sorted, consolidated list of distinct license
	// obligations across all dependencies. Texts are written for every
	// identifier not excluded by the policy.
	Licenses []string

	// DocumentPath is where the attribution document was written.
	DocumentPath string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PackageCount       int // Resolved packages, including the root target
	LicenseCount       int // Distinct license obligations after consolidation
	SkippedExempt      int // Dependencies skipped because all licenses are notice-exempt
	SkippedWhitelisted int // Dependencies with no notices allowed by the whitelist
	ResolveTime        time.Duration
	NoticeTime         time.Duration
	FetchTime          time.Duration
	WriteTime          time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForResolve(); err != nil {
		return err
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	o.validated = true
	return nil
}

// ValidateForResolve checks required fields for the resolve stage.
func (o *Options) ValidateForResolve() error {
	if o.Package == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "package is required")
	}
	if err := apperrors.ValidateCratesPackageName(o.Package); err != nil {
		return err
	}

	// Resolve defaults
	if o.Manifest == "" {
		o.Manifest = DefaultManifest
	}
	if o.Policy == nil {
		o.Policy = policy.Default()
	}
	if len(o.Platforms) == 0 {
		o.Platforms = o.Policy.DefaultPlatforms
	}

	return nil
}

// DocumentPath returns the path the attribution document is written to.
func (o *Options) DocumentPath() string {
	return filepath.Join(o.OutputDir, DocumentName)
}

// LicensePath returns the path the text for a license identifier is
// written to. License files carry no extension.
func (o *Options) LicensePath(id string) string {
	return filepath.Join(o.OutputDir, LicenseDir, id)
}
