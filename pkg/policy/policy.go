// Package policy holds the attribution policy: which licenses carry no
// notice obligation, which crates belong to the project itself, which
// (name, version) pairs are allowed to ship without notices, license
// expression rewrite rules, platform filters, and version bump rules.
//
// Every table that influences the attribution outcome lives here as
// explicit data rather than as literals inside pipeline logic, so a
// policy file can be audited on its own. Default returns the built-in
// tables; Load overlays a TOML file on top of them.
//
// # Overlay semantics
//
// A key absent from the file keeps its default; a key present in the
// file replaces the default wholesale. There is no per-element merging,
// so the effective table for any key is always readable from exactly
// one place (the file or the defaults, never a mix).
package policy

import (
	"os"
	"regexp"
	"slices"

	"github.com/BurntSushi/toml"

	apperrors "github.com/relengkit/attributor/pkg/errors"
)

// RewriteRule replaces a whole license expression before simplification.
// Match is compared verbatim against the raw expression string.
type RewriteRule struct {
	Match   string `toml:"match"`
	Replace string `toml:"replace"`
}

// CrateVersion identifies one exact release of a crate.
type CrateVersion struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// BumpRule rewrites pinned version strings in one workspace file.
// Pattern is a Go regular expression compiled in multiline mode;
// Replace may reference {version}, {major}, {minor} and {patch}.
type BumpRule struct {
	Path    string `toml:"path"`
	Pattern string `toml:"pattern"`
	Replace string `toml:"replace"`
}

// Policy is the full set of attribution tables for one run.
type Policy struct {
	// NoticeExempt lists license identifiers whose obligations require
	// no copyright notice block in the attribution document.
	NoticeExempt []string

	// NoTextFile lists license identifiers whose canonical text is not
	// downloaded, in addition to every NoticeExempt identifier.
	NoTextFile []string

	// Rewrites are applied in order to raw license expressions before
	// any other processing.
	Rewrites []RewriteRule

	// OwnCrates are the project's own packages, which never need
	// attribution in their own distribution.
	OwnCrates []string

	// NoNotices lists exact (name, version) pairs verified by hand to
	// legitimately have no extractable copyright notices. Version drift
	// invalidates an entry on purpose: bumping a listed crate surfaces
	// the empty-notices fatal again until someone re-verifies it.
	NoNotices []CrateVersion

	// NoticeOverrides maps a crate name to verbatim notice lines used
	// instead of scanning its source tree.
	NoticeOverrides map[string][]string

	// DefaultPlatforms are the --filter-platform values passed to the
	// metadata subprocess when the caller specifies none.
	DefaultPlatforms []string

	// ExcludedTargets lists dependency-edge cfg() strings whose targets
	// never ship in release artifacts.
	ExcludedTargets []string

	// BumpRules are the version rewrite rules for the bump command.
	BumpRules []BumpRule
}

// IsNoticeExempt reports whether a license identifier carries no notice
// obligation.
func (p *Policy) IsNoticeExempt(id string) bool {
	return slices.Contains(p.NoticeExempt, id)
}

// AllNoticeExempt reports whether every identifier in the list is
// notice-exempt. A package whose whole obligation set is exempt needs
// neither a notice block nor license texts.
func (p *Policy) AllNoticeExempt(ids []string) bool {
	for _, id := range ids {
		if !p.IsNoticeExempt(id) {
			return false
		}
	}
	return true
}

// SkipsTextFile reports whether the canonical text for a license
// identifier should not be downloaded. Every notice-exempt license also
// skips its text file.
func (p *Policy) SkipsTextFile(id string) bool {
	return slices.Contains(p.NoTextFile, id) || p.IsNoticeExempt(id)
}

// IsOwnCrate reports whether a package belongs to the project itself.
func (p *Policy) IsOwnCrate(name string) bool {
	return slices.Contains(p.OwnCrates, name)
}

// IsExcludedTarget reports whether a dependency edge's cfg() target is
// excluded from release artifacts.
func (p *Policy) IsExcludedTarget(target string) bool {
	return target != "" && slices.Contains(p.ExcludedTargets, target)
}

// AllowsEmptyNotices reports whether this exact (name, version) pair is
// whitelisted to have no copyright notices.
func (p *Policy) AllowsEmptyNotices(name, version string) bool {
	return slices.Contains(p.NoNotices, CrateVersion{Name: name, Version: version})
}

// OverrideNotices returns the verbatim notice lines for a crate, if an
// override exists.
func (p *Policy) OverrideNotices(name string) ([]string, bool) {
	lines, ok := p.NoticeOverrides[name]
	return lines, ok
}

// policyFile is the TOML document shape for Load.
type policyFile struct {
	Licenses struct {
		NoticeExempt []string      `toml:"notice_exempt"`
		NoTextFile   []string      `toml:"no_text_file"`
		Rewrite      []RewriteRule `toml:"rewrite"`
	} `toml:"licenses"`
	Crates struct {
		Own             []string            `toml:"own"`
		NoNotices       []CrateVersion      `toml:"no_notices"`
		NoticeOverrides map[string][]string `toml:"notice_overrides"`
	} `toml:"crates"`
	Platforms struct {
		Default  []string `toml:"default"`
		Excluded []string `toml:"excluded"`
	} `toml:"platforms"`
	Bump struct {
		Rules []BumpRule `toml:"rules"`
	} `toml:"bump"`
}

// Load reads a TOML policy file and overlays it on the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (*Policy, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read policy file %s", path)
	}

	var file policyFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse policy file %s", path)
	}

	if file.Licenses.NoticeExempt != nil {
		p.NoticeExempt = file.Licenses.NoticeExempt
	}
	if file.Licenses.NoTextFile != nil {
		p.NoTextFile = file.Licenses.NoTextFile
	}
	if file.Licenses.Rewrite != nil {
		p.Rewrites = file.Licenses.Rewrite
	}
	if file.Crates.Own != nil {
		p.OwnCrates = file.Crates.Own
	}
	if file.Crates.NoNotices != nil {
		p.NoNotices = file.Crates.NoNotices
	}
	if file.Crates.NoticeOverrides != nil {
		p.NoticeOverrides = file.Crates.NoticeOverrides
	}
	if file.Platforms.Default != nil {
		p.DefaultPlatforms = file.Platforms.Default
	}
	if file.Platforms.Excluded != nil {
		p.ExcludedTargets = file.Platforms.Excluded
	}
	if file.Bump.Rules != nil {
		p.BumpRules = file.Bump.Rules
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// validate rejects policy tables that would misbehave at run time.
func (p *Policy) validate() error {
	for _, r := range p.Rewrites {
		if r.Match == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "rewrite rule with empty match")
		}
	}
	for _, cv := range p.NoNotices {
		if cv.Name == "" || cv.Version == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "no_notices entry needs both name and version")
		}
	}
	for _, r := range p.BumpRules {
		if r.Path == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "bump rule with empty path")
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "bump rule pattern for %s", r.Path)
		}
	}
	return nil
}
