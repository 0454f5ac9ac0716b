// Package report renders the output artifacts of an attribution run:
// the reStructuredText notices document and the Graphviz view of the
// resolved runtime graph.
package report

import (
	"fmt"
	"strings"
	"time"
)

// generatorName appears in the header comment of every generated document.
const generatorName = "attributor"

// Record is one dependency's entry in the attribution document.
type Record struct {
	Name    string   // Crate name
	Version string   // Exact version from the resolved graph
	URL     string   // Registry URL for the pinned version
	Notices []string // Copyright notice lines, deduplicated and sorted
}

// CrateURL returns the registry page for an exact crate version.
func CrateURL(name, version string) string {
	return fmt.Sprintf("https://crates.io/crates/%s/%s", name, version)
}

// RenderRST renders the attribution document in reStructuredText.
// Output is byte-stable for identical inputs; only the generatedAt
// timestamp in the header comment varies between runs.
func RenderRST(records []Record, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, ".. This file was generated by %s at %s.\n\n",
		generatorName, generatedAt.UTC().Format(time.RFC3339))

	const title = "Dependency Copyright Notices"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	for _, r := range records {
		link := fmt.Sprintf("`%s v%s <%s>`_", r.Name, r.Version, r.URL)
		b.WriteString(link + "\n")
		b.WriteString(strings.Repeat("-", len(link)) + "\n\n")
		b.WriteString("::\n\n    ")
		b.WriteString(strings.Join(r.Notices, "\n    "))
		b.WriteString("\n\n")
	}

	return b.String()
}
