package report

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/relengkit/attributor/pkg/cargo"
	"github.com/relengkit/attributor/pkg/policy"
)

// GraphOptions configures dependency graph rendering.
type GraphOptions struct {
	// Detailed includes version and license in node labels.
	// When false, only the crate name is shown.
	Detailed bool
}

// ToDOT converts a resolved runtime graph to Graphviz DOT format.
// Nodes are the resolved packages in resolution order; edges are the
// runtime dependency edges between them, pruned the same way resolution
// prunes (dev, build and platform-excluded edges are absent). The first
// package is the resolution root and rendered with a bold outline.
//
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(resolved []cargo.Package, p *policy.Policy, opts GraphOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	members := make(map[string]bool, len(resolved))
	for _, pkg := range resolved {
		members[pkg.Name] = true
	}

	for i, pkg := range resolved {
		label := nodeLabel(pkg, opts.Detailed)
		attrs := nodeAttrs(label, i == 0)
		fmt.Fprintf(&buf, "  %q [%s];\n", pkg.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	seen := make(map[string]bool)
	for _, pkg := range resolved {
		for _, dep := range pkg.Dependencies {
			if dep.Kind != cargo.KindNormal || p.IsExcludedTarget(dep.Target) {
				continue
			}
			if !members[dep.Name] {
				continue
			}
			// Per-target duplicates collapse to one edge.
			key := pkg.Name + " -> " + dep.Name
			if seen[key] {
				continue
			}
			seen[key] = true
			fmt.Fprintf(&buf, "  %q -> %q;\n", pkg.Name, dep.Name)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(pkg cargo.Package, detailed bool) string {
	if !detailed {
		return pkg.Name
	}

	label := fmt.Sprintf("%s\nv%s", pkg.Name, pkg.Version)
	if pkg.License != "" {
		label += "\n" + pkg.License
	}
	return label
}

func nodeAttrs(label string, isRoot bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if isRoot {
		attrs = append(attrs, "style=\"rounded,filled,bold\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
