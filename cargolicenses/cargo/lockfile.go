package cargo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/golang/glog"
)

// LockfileName is the file cargo writes resolved dependency versions to.
const LockfileName = "Cargo.lock"

// ErrLockfileNotFound is returned when no Cargo.lock exists in the project directory or any of its parents.
var ErrLockfileNotFound = errors.New("no Cargo.lock found")

// Lockfile is the decoded content of a Cargo.lock file.
type Lockfile struct {
	// Path is the location the lockfile was read from.
	Path string `toml:"-"`
	// Version is the lockfile format version. Version 1 files do not declare it.
	Version  int       `toml:"version"`
	Packages []Package `toml:"package"`
}

// Package is a single resolved package within a Cargo.lock file.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	// Source is empty for path and workspace packages.
	Source       string   `toml:"source"`
	Checksum     string   `toml:"checksum"`
	Dependencies []string `toml:"dependencies"`
}

// IsLocal reports whether the package lives on the local filesystem (a workspace member or path dependency).
func (p Package) IsLocal() bool {
	return p.Source == ""
}

// ID uniquely identifies a package within a lockfile.
func (p Package) ID() string {
	if p.Source == "" {
		return p.Name + " " + p.Version
	}
	return fmt.Sprintf("%s %s (%s)", p.Name, p.Version, p.Source)
}

// FindLockfile returns the path of the Cargo.lock governing dir, looking in dir and then its parents
// since workspace members share the lockfile of the workspace root. A non-empty ceiling is the
// last directory searched.
func FindLockfile(dir, ceiling string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if ceiling != "" {
		if ceiling, err = filepath.Abs(ceiling); err != nil {
			return "", err
		}
	}
	for current := abs; ; current = filepath.Dir(current) {
		candidate := filepath.Join(current, LockfileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("unable to stat %s: %w", candidate, err)
		}
		if parent := filepath.Dir(current); parent == current || current == ceiling {
			break
		}
	}
	if abs == ceiling {
		return "", fmt.Errorf("%w in %s", ErrLockfileNotFound, abs)
	}
	return "", fmt.Errorf("%w in %s or any parent directory", ErrLockfileNotFound, abs)
}

// ReadLockfile decodes the Cargo.lock at path.
func ReadLockfile(path string) (*Lockfile, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %v", ErrLockfileNotFound, err)
		}
		return nil, err
	}

	var lock Lockfile
	if _, err := toml.Decode(string(contents), &lock); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}
	if lock.Version == 0 {
		lock.Version = 1
	}
	lock.Path = path
	glog.V(1).Infof("read %d packages from %s (format v%d)", len(lock.Packages), path, lock.Version)
	return &lock, nil
}

// Dir is the directory containing the lockfile, i.e. the workspace root.
func (l *Lockfile) Dir() string {
	return filepath.Dir(l.Path)
}

// Resolve finds the package a "dependencies" entry refers to. Entries take the forms
// "name", "name version" and "name version (source)" depending on how ambiguous the name is.
func (l *Lockfile) Resolve(ref string) (Package, bool) {
	name, version, source := parseDependencyRef(ref)
	var found Package
	matches := 0
	for _, p := range l.Packages {
		if p.Name != name {
			continue
		}
		if version != "" && p.Version != version {
			continue
		}
		if source != "" && p.Source != source {
			continue
		}
		found = p
		matches++
	}
	if matches > 1 {
		glog.Warningf("dependency reference %q is ambiguous in %s", ref, l.Path)
	}
	return found, matches > 0
}

func parseDependencyRef(ref string) (name, version, source string) {
	fields := strings.SplitN(strings.TrimSpace(ref), " ", 3)
	name = fields[0]
	if len(fields) > 1 {
		version = fields[1]
	}
	if len(fields) > 2 {
		source = strings.TrimSuffix(strings.TrimPrefix(fields[2], "("), ")")
	}
	return name, version, source
}
