// Package cargo loads and filters Cargo workspace metadata.
//
// Load shells out to the cargo binary and decodes its JSON output;
// Resolve walks the decoded graph down to the packages that ship in
// release artifacts of one root target. Only the metadata fields the
// attribution pipeline needs are modeled.
package cargo

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"

	apperrors "github.com/relengkit/attributor/pkg/errors"
)

// Kind values on dependency edges, as serialized by cargo metadata.
// Normal dependencies are serialized as null and decode to the empty
// string.
const (
	KindNormal = ""
	KindDev    = "dev"
	KindBuild  = "build"
)

// Dependency is one edge in the dependency graph.
type Dependency struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`   // "", "dev" or "build"
	Target string `json:"target"` // cfg() expression; empty when unconditional
}

// Package is one package in the metadata graph.
type Package struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	License      string       `json:"license"` // empty when the manifest has no license field
	ManifestPath string       `json:"manifest_path"`
	Dependencies []Dependency `json:"dependencies"`
}

// Metadata is the decoded cargo metadata document.
type Metadata struct {
	Packages []Package `json:"packages"`
}

// Graph indexes metadata packages by name. Cargo unifies versions per
// metadata invocation, so package names are unique within one graph.
type Graph struct {
	packages []Package
	byName   map[string]int
}

// NewGraph builds the name index over a metadata document.
func NewGraph(m *Metadata) *Graph {
	g := &Graph{
		packages: m.Packages,
		byName:   make(map[string]int, len(m.Packages)),
	}
	for i, p := range m.Packages {
		g.byName[p.Name] = i
	}
	return g
}

// Package returns the package with the given name.
func (g *Graph) Package(name string) (Package, bool) {
	i, ok := g.byName[name]
	if !ok {
		return Package{}, false
	}
	return g.packages[i], true
}

// Packages returns all packages in metadata order.
func (g *Graph) Packages() []Package {
	return g.packages
}

// Len returns the number of packages in the graph.
func (g *Graph) Len() int {
	return len(g.packages)
}

// Load runs cargo metadata for the given manifest and decodes its
// output. Platform filters limit the graph to dependencies reachable on
// those targets. The cargo binary must be on PATH; any subprocess
// failure is fatal for an attribution run and carries cargo's stderr.
func Load(ctx context.Context, manifestPath string, platforms []string) (*Graph, error) {
	if _, err := exec.LookPath("cargo"); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMetadata, err, "cargo binary not found on PATH")
	}

	args := []string{"metadata", "--manifest-path", manifestPath}
	for _, platform := range platforms {
		args = append(args, "--filter-platform", platform)
	}
	args = append(args, "--format-version", "1")

	cmd := exec.CommandContext(ctx, "cargo", args...)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMetadata, err,
			"cargo metadata: %s", strings.TrimSpace(errBuf.String()))
	}

	return decodeMetadata(out.Bytes())
}

func decodeMetadata(data []byte) (*Graph, error) {
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMetadata, err, "decode cargo metadata output")
	}
	return NewGraph(&meta), nil
}
