package cargolicenses

import (
	"context"

	"github.com/khulnasoft/cargo-licenses/cargolicenses/cargo"
)

// NoLicense is reported in place of a license that a dependency does not declare.
const NoLicense = "N/A"

// ErrLockfileNotFound is returned by finders when the project has no Cargo.lock.
var ErrLockfileNotFound = cargo.ErrLockfileNotFound

// Finder lists the dependencies of a project.
type Finder interface {
	Find(ctx context.Context) ([]Dependency, error)
}

// Dependency is one locked package and the license metadata resolved for it.
type Dependency struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	// Source is the lockfile source, empty for workspace and path packages.
	Source      string   `json:"source" yaml:"source"`
	License     string   `json:"license,omitempty" yaml:"license,omitempty"`
	LicenseFile string   `json:"licenseFile,omitempty" yaml:"licenseFile,omitempty"`
	Authors     []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Repository  string   `json:"repository,omitempty" yaml:"repository,omitempty"`
	// Dependencies names the packages this one depends on directly.
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Errs         error    `json:"-" yaml:"-"`
}

// GetLicense returns the declared license, if any.
func (d Dependency) GetLicense() (string, bool) {
	return d.License, d.License != ""
}

// GetAuthors returns the declared authors, if any.
func (d Dependency) GetAuthors() ([]string, bool) {
	return d.Authors, len(d.Authors) > 0
}

// LicenseOrDefault returns the license, or NoLicense when none is declared.
func (d Dependency) LicenseOrDefault() string {
	if license, ok := d.GetLicense(); ok {
		return license
	}
	return NoLicense
}
