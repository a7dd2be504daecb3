package cargo

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/mitchellh/go-homedir"
)

// ErrManifestNotFound is returned when the Cargo.toml of a locked package cannot be located on disk.
var ErrManifestNotFound = errors.New("manifest not found")

// DefaultCargoHome is where cargo keeps downloaded sources unless CARGO_HOME says otherwise.
func DefaultCargoHome() (string, error) {
	return homedir.Expand("~/.cargo")
}

// Registry locates the manifests of locked packages: registry crates in the cargo source cache,
// git dependencies in the cargo checkout cache, and path/workspace packages under the project root.
type Registry struct {
	CargoHome   string
	ProjectRoot string

	local         map[string][]*Manifest
	workspaceRoot *Manifest
}

// NewRegistry creates a Registry. projectRoot is normally the directory holding Cargo.lock.
func NewRegistry(cargoHome, projectRoot string) *Registry {
	return &Registry{
		CargoHome:   cargoHome,
		ProjectRoot: projectRoot,
	}
}

// Manifest returns the manifest of pkg with workspace inheritance resolved.
func (r *Registry) Manifest(pkg Package) (*Manifest, error) {
	switch kind, _ := splitSource(pkg.Source); kind {
	case "":
		return r.localManifest(pkg)
	case "registry", "sparse":
		return r.registryManifest(pkg)
	case "git":
		return r.gitManifest(pkg)
	default:
		return nil, fmt.Errorf("unsupported source %q for %s", pkg.Source, pkg.Name)
	}
}

func (r *Registry) registryManifest(pkg Package) (*Manifest, error) {
	if r.CargoHome == "" {
		return nil, fmt.Errorf("%w: cargo home is not set", ErrManifestNotFound)
	}
	pattern := filepath.Join(r.CargoHome, "registry", "src", "*", pkg.Name+"-"+pkg.Version, ManifestName)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s %s is not in %s (try `cargo fetch`)", ErrManifestNotFound, pkg.Name, pkg.Version, filepath.Join(r.CargoHome, "registry", "src"))
	}
	if len(matches) > 1 {
		glog.V(1).Infof("%s %s found in %d registry caches, using %s", pkg.Name, pkg.Version, len(matches), matches[0])
	}
	return ReadManifest(matches[0])
}

func (r *Registry) gitManifest(pkg Package) (*Manifest, error) {
	if r.CargoHome == "" {
		return nil, fmt.Errorf("%w: cargo home is not set", ErrManifestNotFound)
	}
	rev := gitRevision(pkg.Source)
	if rev == "" {
		return nil, fmt.Errorf("%w: git source %q does not pin a revision", ErrManifestNotFound, pkg.Source)
	}
	checkouts, err := filepath.Glob(filepath.Join(r.CargoHome, "git", "checkouts", "*", rev))
	if err != nil {
		return nil, err
	}
	for _, checkout := range checkouts {
		found, err := scanManifests(checkout)
		if err != nil {
			glog.Warningf("unable to scan git checkout %s: %v", checkout, err)
			continue
		}
		for _, m := range found[pkg.Name] {
			if m.Version != "" && m.Version != pkg.Version && len(m.Inherited) == 0 {
				continue
			}
			if err := m.Inherit(checkoutRoot(checkout, found)); err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %s is not checked out under %s", ErrManifestNotFound, pkg.Name, pkg.Version, filepath.Join(r.CargoHome, "git", "checkouts"))
}

func (r *Registry) localManifest(pkg Package) (*Manifest, error) {
	if r.local == nil {
		found, err := scanManifests(r.ProjectRoot)
		if err != nil {
			return nil, fmt.Errorf("unable to scan %s: %w", r.ProjectRoot, err)
		}
		r.local = found
		r.workspaceRoot = checkoutRoot(r.ProjectRoot, found)
	}

	var candidate *Manifest
	for _, m := range r.local[pkg.Name] {
		if err := m.Inherit(r.workspaceRoot); err != nil {
			glog.Warningf("%v", err)
			continue
		}
		if m.Version == pkg.Version {
			return m, nil
		}
		if candidate == nil {
			candidate = m
		}
	}
	if candidate != nil {
		glog.Warningf("no local manifest for %s has version %s, using %s", pkg.Name, pkg.Version, candidate.Path)
		return candidate, nil
	}
	return nil, fmt.Errorf("%w: %s %s is not a workspace member or path dependency under %s", ErrManifestNotFound, pkg.Name, pkg.Version, r.ProjectRoot)
}

// scanManifests reads every package manifest below root, keyed by package name.
// Build output and hidden directories are skipped.
func scanManifests(root string) (map[string][]*Manifest, error) {
	found := make(map[string][]*Manifest)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (d.Name() == "target" || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != ManifestName {
			return nil
		}
		m, err := ReadManifest(path)
		if err != nil {
			glog.Warningf("skipping unreadable manifest: %v", err)
			return nil
		}
		key := m.Name
		if m.IsVirtual() {
			key = ""
		}
		found[key] = append(found[key], m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// checkoutRoot returns the manifest at the top of root if it declares a workspace.
func checkoutRoot(root string, found map[string][]*Manifest) *Manifest {
	path := filepath.Join(root, ManifestName)
	for _, ms := range found {
		for _, m := range ms {
			if m.Path == path && m.Workspace != nil {
				return m
			}
		}
	}
	return nil
}

// splitSource splits "registry+https://..." into its kind and location.
func splitSource(source string) (kind, location string) {
	if source == "" {
		return "", ""
	}
	parts := strings.SplitN(source, "+", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// gitRevision returns the abbreviated commit cargo uses to name checkout directories.
func gitRevision(source string) string {
	idx := strings.LastIndex(source, "#")
	if idx < 0 {
		return ""
	}
	rev := source[idx+1:]
	if len(rev) > 7 {
		rev = rev[:7]
	}
	return rev
}
