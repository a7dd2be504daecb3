package cargo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadManifest_Registry(t *testing.T) {
	m, err := ReadManifest("testdata/cargo-home/registry/src/index.crates.io-6f17d22bba15001f/serde-1.0.190/Cargo.toml")
	require.NoError(t, err)

	assert.Equal(t, "serde", m.Name)
	assert.Equal(t, "1.0.190", m.Version)
	assert.Equal(t, "MIT OR Apache-2.0", m.License)
	assert.Equal(t, "https://github.com/serde-rs/serde", m.Repository)
	assert.Equal(t, []string{
		"Erick Tryzelaar <erick.tryzelaar@gmail.com>",
		"David Tolnay <dtolnay@gmail.com>",
	}, m.Authors)
	assert.Empty(t, m.Inherited)
	assert.False(t, m.IsVirtual())
}

func TestReadManifest_VirtualWorkspace(t *testing.T) {
	m, err := ReadManifest("testdata/workspace/Cargo.toml")
	require.NoError(t, err)

	assert.True(t, m.IsVirtual())
	require.NotNil(t, m.Workspace)
	assert.Equal(t, []string{"crates/*"}, m.Workspace.Members)
	assert.Equal(t, "MIT OR Apache-2.0", m.Workspace.Package["license"])
}

func TestManifest_Inherit(t *testing.T) {
	root, err := ReadManifest("testdata/workspace/Cargo.toml")
	require.NoError(t, err)

	app, err := ReadManifest("testdata/workspace/crates/app/Cargo.toml")
	require.NoError(t, err)
	assert.Equal(t, []string{"authors", "license"}, app.Inherited)
	assert.Empty(t, app.License)

	require.NoError(t, app.Inherit(root))
	assert.Equal(t, "MIT OR Apache-2.0", app.License)
	assert.Equal(t, []string{"Jane Doe <jane@example.com>"}, app.Authors)
	assert.Equal(t, "0.1.0", app.Version)
	assert.Empty(t, app.Inherited)
}

func TestManifest_InheritWithoutRoot(t *testing.T) {
	app, err := ReadManifest("testdata/workspace/crates/app/Cargo.toml")
	require.NoError(t, err)
	assert.Error(t, app.Inherit(nil))
}

func TestReadManifest_LicenseFileIsResolved(t *testing.T) {
	m, err := ReadManifest("testdata/workspace/crates/util/Cargo.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata/workspace/crates/util", "LICENSE"), m.LicenseFile)
	assert.Empty(t, m.License)
}

func TestReadManifest_InvalidAuthors(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	require.NoError(t, os.WriteFile(path, []byte("[package]\nname = \"x\"\nauthors = [1, 2]\n"), 0o644))

	_, err := ReadManifest(path)
	assert.Error(t, err)
}

func TestReadManifest_Missing(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), ManifestName))
	assert.True(t, os.IsNotExist(err))
}
