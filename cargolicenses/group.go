package cargolicenses

import "sort"

// LicenseGroup is the set of dependencies sharing one license string.
type LicenseGroup struct {
	License      string
	Dependencies []Dependency
}

// GroupByLicense buckets deps by license, using NoLicense for dependencies that declare none.
// Groups are sorted by license; dependencies keep their input order within a group.
func GroupByLicense(deps []Dependency) []LicenseGroup {
	table := make(map[string][]Dependency)
	for _, dep := range deps {
		license := dep.LicenseOrDefault()
		table[license] = append(table[license], dep)
	}

	licenses := make([]string, 0, len(table))
	for license := range table {
		licenses = append(licenses, license)
	}
	sort.Strings(licenses)

	groups := make([]LicenseGroup, 0, len(licenses))
	for _, license := range licenses {
		groups = append(groups, LicenseGroup{License: license, Dependencies: table[license]})
	}
	return groups
}

// Names returns the dependency names of the group in order.
func (g LicenseGroup) Names() []string {
	names := make([]string, len(g.Dependencies))
	for i, dep := range g.Dependencies {
		names[i] = dep.Name
	}
	return names
}

// Authors returns the sorted union of the authors of every dependency in the group.
func (g LicenseGroup) Authors() []string {
	seen := make(map[string]struct{})
	var authors []string
	for _, dep := range g.Dependencies {
		depAuthors, _ := dep.GetAuthors()
		for _, author := range depAuthors {
			if _, ok := seen[author]; ok {
				continue
			}
			seen[author] = struct{}{}
			authors = append(authors, author)
		}
	}
	sort.Strings(authors)
	return authors
}
