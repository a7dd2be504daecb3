package cargo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// ManifestName is the name of a cargo package manifest.
const ManifestName = "Cargo.toml"

// Manifest holds the parts of a Cargo.toml that matter for license reporting.
type Manifest struct {
	Path string
	// Name is empty for virtual workspace manifests.
	Name        string
	Version     string
	License     string
	LicenseFile string
	Repository  string
	Authors     []string
	Workspace   *Workspace
	// Inherited lists the package keys declared as `{ workspace = true }` that have not been resolved yet.
	Inherited []string
}

// Workspace is the [workspace] section of a root manifest.
type Workspace struct {
	Members []string
	Exclude []string
	// Package holds the [workspace.package] values members may inherit.
	Package map[string]interface{}
}

type manifestFile struct {
	Package   *packageSection   `toml:"package"`
	Workspace *workspaceSection `toml:"workspace"`
}

// Values are left untyped since any of them may be a `{ workspace = true }` table.
type packageSection struct {
	Name        string      `toml:"name"`
	Version     interface{} `toml:"version"`
	License     interface{} `toml:"license"`
	LicenseFile interface{} `toml:"license-file"`
	Repository  interface{} `toml:"repository"`
	Authors     interface{} `toml:"authors"`
}

type workspaceSection struct {
	Members []string               `toml:"members"`
	Exclude []string               `toml:"exclude"`
	Package map[string]interface{} `toml:"package"`
}

// ReadManifest decodes the Cargo.toml at path.
func ReadManifest(path string) (*Manifest, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file manifestFile
	if _, err := toml.Decode(string(contents), &file); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}

	m := &Manifest{Path: path}
	if file.Workspace != nil {
		m.Workspace = &Workspace{
			Members: file.Workspace.Members,
			Exclude: file.Workspace.Exclude,
			Package: file.Workspace.Package,
		}
	}
	if file.Package == nil {
		return m, nil
	}

	m.Name = file.Package.Name
	fields := map[string]interface{}{
		"version":      file.Package.Version,
		"license":      file.Package.License,
		"license-file": file.Package.LicenseFile,
		"repository":   file.Package.Repository,
		"authors":      file.Package.Authors,
	}
	for key, value := range fields {
		if isWorkspaceRef(value) {
			m.Inherited = append(m.Inherited, key)
			continue
		}
		if err := m.set(key, value, filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", path, err)
		}
	}
	sort.Strings(m.Inherited)

	// a workspace root may inherit from its own [workspace.package]
	if m.Workspace != nil && len(m.Inherited) > 0 {
		if err := m.Inherit(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Dir is the directory containing the manifest.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// IsVirtual reports whether the manifest only declares a workspace and no package.
func (m *Manifest) IsVirtual() bool {
	return m.Name == ""
}

// Inherit resolves the `{ workspace = true }` keys of m against the [workspace.package] table of root.
func (m *Manifest) Inherit(root *Manifest) error {
	if len(m.Inherited) == 0 {
		return nil
	}
	if root == nil || root.Workspace == nil {
		return fmt.Errorf("%s inherits %v but no workspace root was found", m.Path, m.Inherited)
	}
	for _, key := range m.Inherited {
		value, ok := root.Workspace.Package[key]
		if !ok {
			return fmt.Errorf("%s inherits %q which %s does not define in [workspace.package]", m.Path, key, root.Path)
		}
		// paths in [workspace.package] are relative to the workspace root
		if err := m.set(key, value, root.Dir()); err != nil {
			return fmt.Errorf("invalid workspace.package in %s: %w", root.Path, err)
		}
	}
	m.Inherited = nil
	return nil
}

func (m *Manifest) set(key string, value interface{}, baseDir string) error {
	if value == nil {
		return nil
	}
	switch key {
	case "authors":
		authors, err := toStrings(value)
		if err != nil {
			return fmt.Errorf("authors: %w", err)
		}
		m.Authors = authors
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("%s: expected a string, got %T", key, value)
	}
	switch key {
	case "version":
		m.Version = str
	case "license":
		m.License = str
	case "license-file":
		if str != "" && !filepath.IsAbs(str) {
			str = filepath.Join(baseDir, str)
		}
		m.LicenseFile = str
	case "repository":
		m.Repository = str
	}
	return nil
}

func isWorkspaceRef(value interface{}) bool {
	table, ok := value.(map[string]interface{})
	if !ok {
		return false
	}
	inherit, _ := table["workspace"].(bool)
	return inherit
}

func toStrings(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a list of strings, got element %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", value)
	}
}
