// Package bump rewrites pinned version numbers across workspace files.
//
// Rules come from the policy's bump table: each names a file, a pattern
// matching the pinned version string, and a replacement with
// placeholders for the new version. Releasing then means running every
// rule with the new version instead of editing files by hand.
package bump

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	apperrors "github.com/relengkit/attributor/pkg/errors"
	"github.com/relengkit/attributor/pkg/policy"
)

// Result reports what one rule did to its file.
type Result struct {
	Path         string // File the rule applies to
	Replacements int    // Number of pattern matches rewritten
	Changed      bool   // Whether the file content was written back
	Missing      bool   // File does not exist; rule skipped
}

// Run applies the bump rules for the given version.
//
// The version must be a strict three-part semantic version
// (major.minor.patch, no prerelease or build metadata). Each rule's
// pattern is compiled in multiline mode so ^ and $ anchor per line, and
// its replacement is inserted literally after placeholder expansion:
// {version}, {major}, {minor} and {patch}. Regexp capture references
// are not supported in replacements.
//
// A rule whose file is missing or whose pattern matches nothing is not
// an error; callers inspect the returned results and decide whether a
// zero-match rule is worth complaining about. With dryRun set, match
// counts are reported but no file is written.
func Run(version string, rules []policy.BumpRule, dryRun bool) ([]Result, error) {
	v, err := parseVersion(version)
	if err != nil {
		return nil, err
	}

	expand := strings.NewReplacer(
		"{version}", version,
		"{major}", strconv.FormatUint(v.Major(), 10),
		"{minor}", strconv.FormatUint(v.Minor(), 10),
		"{patch}", strconv.FormatUint(v.Patch(), 10),
	)

	results := make([]Result, 0, len(rules))
	for _, rule := range rules {
		re, err := regexp.Compile("(?m)" + rule.Pattern)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "invalid bump pattern for %s", rule.Path)
		}

		data, err := os.ReadFile(rule.Path)
		if os.IsNotExist(err) {
			results = append(results, Result{Path: rule.Path, Missing: true})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rule.Path, err)
		}

		replacement := []byte(expand.Replace(rule.Replace))
		matches := len(re.FindAllIndex(data, -1))
		updated := re.ReplaceAllLiteral(data, replacement)

		changed := false
		if !dryRun && !bytes.Equal(data, updated) {
			if err := os.WriteFile(rule.Path, updated, 0o644); err != nil {
				return nil, fmt.Errorf("write %s: %w", rule.Path, err)
			}
			changed = true
		}

		results = append(results, Result{
			Path:         rule.Path,
			Replacements: matches,
			Changed:      changed,
		})
	}

	return results, nil
}

// parseVersion validates a strict three-part semantic version.
func parseVersion(version string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(version)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidVersion, err,
			"version must be a three-part semantic version (major.minor.patch)")
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidVersion,
			"version must be a three-part semantic version (major.minor.patch)")
	}
	return v, nil
}
