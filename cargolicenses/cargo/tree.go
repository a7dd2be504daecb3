package cargo

import (
	"fmt"
	"sort"
)

// DependencyNode represents a node in the dependency tree.
type DependencyNode struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Source       string            `json:"source,omitempty"`
	License      string            `json:"license,omitempty"`
	Dependencies []*DependencyNode `json:"dependencies,omitempty"`
	// Cycle marks an edge back to a package that is already being expanded higher up in the tree.
	Cycle bool `json:"cycle,omitempty"`
}

// LicenseFunc resolves the license string shown for a package in the tree.
type LicenseFunc func(Package) string

// BuildDependencyTree builds the dependency tree of the lockfile rooted at the named packages.
// With no names, every local package (workspace members and path dependencies) that no other
// local package depends on is a root.
// Nodes reached through several paths are shared, so the result is a DAG.
func BuildDependencyTree(lock *Lockfile, license LicenseFunc, rootNames ...string) ([]*DependencyNode, error) {
	roots, err := treeRoots(lock, rootNames)
	if err != nil {
		return nil, err
	}

	// visited keeps track of processed packages to avoid redundant work.
	visited := make(map[string]*DependencyNode)
	inProgress := make(map[string]bool)

	var buildNode func(pkg Package) *DependencyNode
	buildNode = func(pkg Package) *DependencyNode {
		id := pkg.ID()
		if inProgress[id] {
			return &DependencyNode{Name: pkg.Name, Version: pkg.Version, Source: pkg.Source, Cycle: true}
		}
		if node, ok := visited[id]; ok {
			return node
		}

		node := &DependencyNode{Name: pkg.Name, Version: pkg.Version, Source: pkg.Source}
		if license != nil {
			node.License = license(pkg)
		}
		visited[id] = node
		inProgress[id] = true
		for _, ref := range pkg.Dependencies {
			dep, ok := lock.Resolve(ref)
			if !ok {
				continue
			}
			node.Dependencies = append(node.Dependencies, buildNode(dep))
		}
		delete(inProgress, id)
		return node
	}

	var resultRoots []*DependencyNode
	for _, root := range roots {
		resultRoots = append(resultRoots, buildNode(root))
	}
	return resultRoots, nil
}

func treeRoots(lock *Lockfile, names []string) ([]Package, error) {
	if len(names) > 0 {
		var roots []Package
		for _, name := range names {
			pkg, ok := lock.Resolve(name)
			if !ok {
				return nil, fmt.Errorf("package %q is not in %s", name, lock.Path)
			}
			roots = append(roots, pkg)
		}
		return roots, nil
	}

	depended := make(map[string]bool)
	for _, pkg := range lock.Packages {
		if !pkg.IsLocal() {
			continue
		}
		for _, ref := range pkg.Dependencies {
			if dep, ok := lock.Resolve(ref); ok && dep.IsLocal() {
				depended[dep.ID()] = true
			}
		}
	}

	var roots []Package
	for _, pkg := range lock.Packages {
		if pkg.IsLocal() && !depended[pkg.ID()] {
			roots = append(roots, pkg)
		}
	}
	if len(roots) == 0 {
		// purely cyclic or remote-only lockfiles: fall back to every package
		roots = append(roots, lock.Packages...)
	}
	sort.SliceStable(roots, func(i, j int) bool { return roots[i].Name < roots[j].Name })
	return roots, nil
}
