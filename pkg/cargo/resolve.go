package cargo

import (
	apperrors "github.com/relengkit/attributor/pkg/errors"
	"github.com/relengkit/attributor/pkg/policy"
)

// Resolve returns the packages that ship in release artifacts of root.
//
// Traversal is depth-first over dependency edges starting at the root
// package. An edge is followed only when its target name has not been
// visited, its kind is neither dev nor build, and its platform cfg() is
// not excluded by policy. The visited set is updated before recursing,
// so diamonds are visited once and cycles terminate.
//
// An edge naming a package absent from the graph is recorded as visited
// and otherwise ignored: optional features routinely reference packages
// that platform filtering pruned from the metadata.
//
// The result is in first-visit order with the root package first;
// callers that report on third-party dependencies drop the root
// themselves.
func Resolve(g *Graph, root string, p *policy.Policy) ([]Package, error) {
	rootPkg, ok := g.Package(root)
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodePackageNotFound,
			"package %s not found in workspace metadata", root)
	}

	visited := map[string]bool{root: true}
	order := []string{root}

	var walk func(pkg Package)
	walk = func(pkg Package) {
		for _, dep := range pkg.Dependencies {
			if visited[dep.Name] || dep.Kind == KindDev || dep.Kind == KindBuild || p.IsExcludedTarget(dep.Target) {
				continue
			}
			visited[dep.Name] = true

			next, ok := g.Package(dep.Name)
			if !ok {
				continue
			}
			order = append(order, dep.Name)
			walk(next)
		}
	}
	walk(rootPkg)

	resolved := make([]Package, 0, len(order))
	for _, name := range order {
		pkg, _ := g.Package(name)
		resolved = append(resolved, pkg)
	}
	return resolved, nil
}
