package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/relengkit/attributor/pkg/cache"
	"github.com/relengkit/attributor/pkg/cargo"
	apperrors "github.com/relengkit/attributor/pkg/errors"
	"github.com/relengkit/attributor/pkg/integrations/licensedata"
	"github.com/relengkit/attributor/pkg/notices"
	"github.com/relengkit/attributor/pkg/report"
	"github.com/relengkit/attributor/pkg/spdx"
)

// MetadataFunc loads the cargo dependency graph for a manifest. It exists
// so tests can run the pipeline without a cargo binary on PATH.
type MetadataFunc func(ctx context.Context, manifestPath string, platforms []string) (*cargo.Graph, error)

// LicenseFetcher retrieves the canonical text for a license identifier.
type LicenseFetcher interface {
	FetchText(ctx context.Context, id string, refresh bool) ([]byte, error)
}

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Logger   *log.Logger
	Metadata MetadataFunc
	Licenses LicenseFetcher
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, the default logger is used.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Logger:   logger,
		Metadata: cargo.Load,
		Licenses: licensedata.NewClient(c, cache.TTLLicenseText),
	}
}

// Execute runs the complete resolve → notices → fetch → document pipeline.
//
// Any error aborts the run before the attribution document is written.
// License texts fetched before the failure may remain on disk.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Resolve
	resolveStart := time.Now()
	resolved, err := r.Resolve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Stats.PackageCount = len(resolved)

	r.Logger.Info("resolved dependencies",
		"package", opts.Package,
		"packages", len(resolved),
		"duration", result.Stats.ResolveTime)

	// Stage 2: Notices
	noticeStart := time.Now()
	obligations, err := r.collectNotices(resolved, opts, result)
	if err != nil {
		return nil, fmt.Errorf("notices: %w", err)
	}
	result.Stats.NoticeTime = time.Since(noticeStart)

	r.Logger.Info("collected notices",
		"records", len(result.Records),
		"skipped_exempt", result.Stats.SkippedExempt,
		"skipped_whitelisted", result.Stats.SkippedWhitelisted,
		"duration", result.Stats.NoticeTime)

	// Stage 3: Fetch
	fetchStart := time.Now()
	if err := r.fetchLicenses(ctx, obligations, opts, result); err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	result.Stats.FetchTime = time.Since(fetchStart)

	r.Logger.Info("fetched license texts",
		"licenses", result.Stats.LicenseCount,
		"duration", result.Stats.FetchTime)

	// Stage 4: Document
	writeStart := time.Now()
	if err := r.writeDocument(opts, result); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	result.Stats.WriteTime = time.Since(writeStart)

	r.Logger.Info("wrote attribution document",
		"path", result.DocumentPath,
		"duration", result.Stats.WriteTime)

	return result, nil
}

// Resolve loads cargo metadata and returns the runtime dependency closure
// of the root target, root first, in first-visit order.
func (r *Runner) Resolve(ctx context.Context, opts Options) ([]cargo.Package, error) {
	if err := opts.ValidateForResolve(); err != nil {
		return nil, err
	}

	g, err := r.Metadata(ctx, opts.Manifest, opts.Platforms)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded cargo metadata",
		"manifest", opts.Manifest,
		"packages", g.Len())

	return cargo.Resolve(g, opts.Package, opts.Policy)
}

// collectNotices walks the resolved packages and builds the attribution
// records plus the set of distinct license obligations.
//
// The root target and the project's own crates are not third-party code
// and are excluded. A dependency whose licenses are all notice-exempt is
// skipped whole: no record, no license text. A dependency with no
// discoverable notices is fatal unless whitelisted.
func (r *Runner) collectNotices(resolved []cargo.Package, opts Options, result *Result) (map[string]bool, error) {
	obligations := make(map[string]bool)

	for _, pkg := range resolved {
		if pkg.Name == opts.Package || opts.Policy.IsOwnCrate(pkg.Name) {
			continue
		}

		if pkg.License == "" {
			return nil, apperrors.New(apperrors.ErrCodeMissingLicense,
				"package %s has no license metadata", pkg.Name)
		}
		licenses, err := spdx.Simplify(pkg.License, opts.Policy)
		if err != nil {
			return nil, err
		}

		if opts.Policy.AllNoticeExempt(licenses) {
			result.Stats.SkippedExempt++
			r.Logger.Info("skipping notice-exempt package",
				"package", pkg.Name,
				"licenses", licenses)
			continue
		}

		for _, id := range licenses {
			obligations[id] = true
		}

		lines, err := notices.Extract(pkg, opts.Policy)
		if err != nil {
			return nil, err
		}
		if len(lines) == 0 {
			if opts.Policy.AllowsEmptyNotices(pkg.Name, pkg.Version) {
				result.Stats.SkippedWhitelisted++
				r.Logger.Info("skipping package with no copyright notices",
					"package", pkg.Name,
					"version", pkg.Version)
				continue
			}
			return nil, apperrors.New(apperrors.ErrCodeEmptyNotices,
				"no copyright notices found for %s v%s", pkg.Name, pkg.Version)
		}

		result.Records = append(result.Records, report.Record{
			Name:    pkg.Name,
			Version: pkg.Version,
			URL:     report.CrateURL(pkg.Name, pkg.Version),
			Notices: lines,
		})
	}

	return obligations, nil
}

// fetchLicenses consolidates the obligation set, downloads each license
// text, and writes it to <output>/licenses/<identifier>.
func (r *Runner) fetchLicenses(ctx context.Context, obligations map[string]bool, opts Options, result *Result) error {
	result.Licenses = consolidate(obligations)
	result.Stats.LicenseCount = len(result.Licenses)

	dir := filepath.Join(opts.OutputDir, LicenseDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create license directory: %w", err)
	}

	for _, id := range result.Licenses {
		if opts.Policy.SkipsTextFile(id) {
			r.Logger.Debug("skipping license text", "license", id)
			continue
		}
		text, err := r.Licenses.FetchText(ctx, id, opts.Refresh)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.LicensePath(id), text, 0o644); err != nil {
			return fmt.Errorf("write license text %s: %w", id, err)
		}
		r.Logger.Debug("wrote license text", "license", id)
	}

	return nil
}

// writeDocument renders the attribution document and writes it to the
// output directory. Runs last so every earlier fatal leaves the previous
// document untouched.
func (r *Runner) writeDocument(opts Options, result *Result) error {
	doc := report.RenderRST(result.Records, time.Now())
	path := opts.DocumentPath()
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write attribution document: %w", err)
	}
	result.DocumentPath = path
	return nil
}

// consolidate returns the sorted obligation identifiers with the GPL
// variants collapsed: when GPL-3.0-or-later is an obligation its text
// covers GPL-3.0 and GPL-3.0-only too.
func consolidate(obligations map[string]bool) []string {
	if obligations["GPL-3.0-or-later"] {
		delete(obligations, "GPL-3.0")
		delete(obligations, "GPL-3.0-only")
	}
	ids := make([]string, 0, len(obligations))
	for id := range obligations {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
