// Package notices extracts copyright notice lines from crate source
// trees.
//
// Extraction is heuristic: any top-level file or directory whose name
// contains "license" or "copying" is scanned, and lines that look like
// copyright statements are collected. Crates whose license files mangle
// under this heuristic get a verbatim override in the policy instead.
package notices

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/relengkit/attributor/pkg/cargo"
	"github.com/relengkit/attributor/pkg/policy"
)

var yearRegex = regexp.MustCompile(`\d{4}`)

// Extract returns the copyright notice lines for one package,
// deduplicated and sorted. Policy overrides are returned verbatim
// without touching the filesystem. An empty result is not an error
// here; the caller decides whether a notice-less package is acceptable.
func Extract(pkg cargo.Package, p *policy.Policy) ([]string, error) {
	if lines, ok := p.OverrideNotices(pkg.Name); ok {
		return lines, nil
	}

	root := filepath.Dir(pkg.ManifestPath)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("scan crate directory: %w", err)
	}

	var collected []string
	for _, entry := range entries {
		if !isCandidateName(entry.Name()) {
			continue
		}

		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			// One level deep only: license directories hold flat files.
			sub, err := os.ReadDir(path)
			if err != nil {
				return nil, fmt.Errorf("scan license directory: %w", err)
			}
			for _, se := range sub {
				if se.IsDir() {
					continue
				}
				lines, err := scanFile(filepath.Join(path, se.Name()))
				if err != nil {
					return nil, err
				}
				collected = append(collected, lines...)
			}
			continue
		}

		lines, err := scanFile(path)
		if err != nil {
			return nil, err
		}
		collected = append(collected, lines...)
	}

	slices.Sort(collected)
	return slices.Compact(collected), nil
}

// isCandidateName reports whether a directory entry may hold license
// text worth scanning.
func isCandidateName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "license") || strings.Contains(lower, "copying")
}

// scanFile collects the whitespace-trimmed notice lines of one file.
func scanFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read license file: %w", err)
	}

	var notices []string
	for _, line := range strings.Split(string(data), "\n") {
		if isNoticeLine(line) {
			notices = append(notices, strings.TrimSpace(line))
		}
	}
	return notices, nil
}

// isNoticeLine reports whether a line looks like a copyright statement:
// it must mention "copyright" and carry a "(c)", "©" or four-digit
// year. Bare grant text ("The above copyright notice...") fails the
// second test and is dropped.
func isNoticeLine(line string) bool {
	lower := strings.ToLower(line)
	if !strings.Contains(lower, "copyright") {
		return false
	}
	return strings.Contains(lower, "(c)") || strings.Contains(line, "©") || yearRegex.MatchString(line)
}
