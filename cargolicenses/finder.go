package cargolicenses

import (
	"context"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/google/licenseclassifier"
	"github.com/hashicorp/go-multierror"

	"github.com/khulnasoft/cargo-licenses/cargolicenses/cargo"
)

// DependencyFinder finds the dependencies of a cargo project and resolves their license metadata.
type DependencyFinder struct {
	Path                string  // Project directory; the lockfile may live in a parent workspace root
	CargoHome           string  // Where cargo caches registry and git sources
	ConfidenceThreshold float64 // Threshold for classifying license files
	LicenseDB           string  // Optional license database archive for the classifier
	SearchCeiling       string  // Last directory searched for the lockfile; empty searches up to the filesystem root

	classifier    cargo.Classifier
	classifierErr error
}

// NewDependencyFinder creates a new DependencyFinder instance.
func NewDependencyFinder(path, cargoHome string, threshold float64, licenseDB string) *DependencyFinder {
	return &DependencyFinder{
		Path:                path,
		CargoHome:           cargoHome,
		ConfidenceThreshold: threshold,
		LicenseDB:           licenseDB,
	}
}

// Lockfile locates and reads the lockfile of the project.
func (f *DependencyFinder) Lockfile() (*cargo.Lockfile, error) {
	lockPath, err := cargo.FindLockfile(f.Path, f.SearchCeiling)
	if err != nil {
		return nil, err
	}
	return cargo.ReadLockfile(lockPath)
}

// Find lists every package of the lockfile in lockfile order.
// Metadata that cannot be resolved is recorded in Dependency.Errs; only a missing or unreadable lockfile is fatal.
func (f *DependencyFinder) Find(ctx context.Context) ([]Dependency, error) {
	lock, err := f.Lockfile()
	if err != nil {
		return nil, err
	}
	registry := cargo.NewRegistry(f.CargoHome, lock.Dir())

	deps := make([]Dependency, 0, len(lock.Packages))
	for _, pkg := range lock.Packages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		deps = append(deps, f.resolve(lock, registry, pkg))
	}
	return deps, nil
}

func (f *DependencyFinder) resolve(lock *cargo.Lockfile, registry *cargo.Registry, pkg cargo.Package) Dependency {
	dep := Dependency{
		Name:    pkg.Name,
		Version: pkg.Version,
		Source:  pkg.Source,
	}
	for _, ref := range pkg.Dependencies {
		if target, ok := lock.Resolve(ref); ok {
			dep.Dependencies = append(dep.Dependencies, target.Name)
		}
	}

	var errs error
	manifest, err := registry.Manifest(pkg)
	if err != nil {
		glog.Warningf("unable to resolve metadata for %s: %v", pkg.ID(), err)
		dep.Errs = multierror.Append(errs, err)
		return dep
	}

	dep.License = manifest.License
	dep.LicenseFile = manifest.LicenseFile
	dep.Authors = manifest.Authors
	dep.Repository = manifest.Repository

	if dep.License == "" && dep.LicenseFile != "" {
		name, err := f.identify(dep.LicenseFile)
		if err != nil {
			glog.Warningf("unable to identify the license of %s: %v", pkg.ID(), err)
			errs = multierror.Append(errs, fmt.Errorf("failed to identify license (%s): %w", dep.LicenseFile, err))
		} else {
			dep.License = name
		}
	}
	dep.Errs = errs
	return dep
}

func (f *DependencyFinder) identify(licensePath string) (string, error) {
	if f.classifier == nil && f.classifierErr == nil {
		var opts []licenseclassifier.OptionFunc
		if f.LicenseDB != "" {
			opts = append(opts, licenseclassifier.ArchiveFunc(f.licenseDBArchive))
		}
		f.classifier, f.classifierErr = cargo.NewClassifier(f.ConfidenceThreshold, opts...)
		if f.classifierErr != nil {
			glog.Warningf("license files will not be classified: %v", f.classifierErr)
		}
	}
	if f.classifierErr != nil {
		return "", f.classifierErr
	}
	name, licenseType, err := f.classifier.Identify(licensePath)
	if err != nil {
		return "", err
	}
	glog.V(1).Infof("classified %s as %s (%s)", licensePath, name, licenseType)
	return name, nil
}

func (f *DependencyFinder) licenseDBArchive() ([]byte, error) {
	return os.ReadFile(f.LicenseDB)
}
