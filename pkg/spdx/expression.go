// Package spdx reduces SPDX license expressions to obligation sets.
//
// This is a restricted rewriting matcher over the expression shapes that
// occur in real Cargo manifests, not a general SPDX parser. Expressions
// outside the handled shapes pass through unchanged as single
// identifiers, which keeps behavior predictable: an unhandled shape
// surfaces downstream as an unknown license identifier instead of being
// silently misparsed here.
package spdx

import (
	"slices"
	"strings"

	apperrors "github.com/relengkit/attributor/pkg/errors"
	"github.com/relengkit/attributor/pkg/policy"
)

// Simplify reduces a raw license expression to the minimal list of
// license identifiers whose obligations must all be satisfied.
//
// The policy's rewrite rules are applied first (whole-expression match,
// first rule wins). The rewritten expression is split into OR branches,
// and one branch is chosen: a branch consisting entirely of
// notice-exempt licenses is the cheapest obligation and wins; otherwise
// a branch that is exactly MIT wins, since MIT OR Apache-2.0 dominates
// the ecosystem; otherwise the first branch is taken. Every AND-ed
// identifier of the chosen branch is an obligation.
//
// An empty expression means the manifest has no license field, which is
// fatal for an attribution run.
func Simplify(expr string, p *policy.Policy) ([]string, error) {
	if expr == "" {
		return nil, apperrors.New(apperrors.ErrCodeMissingLicense, "empty license expression")
	}

	for _, rule := range p.Rewrites {
		if expr == rule.Match {
			expr = rule.Replace
			break
		}
	}

	branches := splitTrim(expr, "OR")

	// Pick a branch with no notice obligation when one exists.
	for _, branch := range branches {
		ids := splitTrim(branch, "AND")
		if p.AllNoticeExempt(ids) {
			return ids, nil
		}
	}

	if slices.Contains(branches, "MIT") {
		return []string{"MIT"}, nil
	}

	return splitTrim(branches[0], "AND"), nil
}

// splitTrim splits on the literal operator substring and trims
// whitespace from each part. Substring splitting rather than
// tokenization is deliberate: it decomposes exactly the handled
// expression shapes and nothing more.
func splitTrim(s, op string) []string {
	parts := strings.Split(s, op)
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = strings.TrimSpace(part)
	}
	return out
}
