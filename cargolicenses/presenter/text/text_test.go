package text

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khulnasoft/cargo-licenses/cargolicenses"
)

const registry = "registry+https://github.com/rust-lang/crates.io-index"

func sampleDependencies() []cargolicenses.Dependency {
	return []cargolicenses.Dependency{
		{Name: "serde", Version: "1.0.190", Source: registry, License: "MIT OR Apache-2.0", Authors: []string{"Erick Tryzelaar", "David Tolnay"}},
		{Name: "app", Version: "0.1.0"},
		{Name: "anyhow", Version: "1.0.75", Source: registry, License: "MIT OR Apache-2.0", Authors: []string{"David Tolnay"}},
		{Name: "zlib-rs", Version: "0.2.0", Source: registry, License: "Zlib"},
	}
}

func present(t *testing.T, deps []cargolicenses.Dependency, mode Mode, display Display) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewPresenter(deps, mode, display).Present(&buf))
	return buf.String()
}

func TestPresenter_Present(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		display  Display
		expected string
	}{
		{
			name: "grouped",
			mode: GroupByLicense,
			expected: "MIT OR Apache-2.0 (2): serde, anyhow\n" +
				"N/A (1): app\n" +
				"Zlib (1): zlib-rs\n",
		},
		{
			name:    "grouped with authors",
			mode:    GroupByLicense,
			display: Display{Authors: true},
			expected: "MIT OR Apache-2.0 (2)\nserde, anyhow\nby David Tolnay, Erick Tryzelaar\n" +
				"N/A (1)\napp\nby \n" +
				"Zlib (1)\nzlib-rs\nby \n",
		},
		{
			name: "one per line",
			mode: OnePerLine,
			expected: "serde: 1.0.190, \"MIT OR Apache-2.0\", " + registry + "\n" +
				"app: 0.1.0, \"N/A\", \n" +
				"anyhow: 1.0.75, \"MIT OR Apache-2.0\", " + registry + "\n" +
				"zlib-rs: 0.2.0, \"Zlib\", " + registry + "\n",
		},
		{
			name:    "one per line with authors",
			mode:    OnePerLine,
			display: Display{Authors: true},
			expected: "serde: 1.0.190, \"MIT OR Apache-2.0\", " + registry + ", by \"Erick Tryzelaar, David Tolnay\"\n" +
				"app: 0.1.0, \"N/A\", , by \"\"\n" +
				"anyhow: 1.0.75, \"MIT OR Apache-2.0\", " + registry + ", by \"David Tolnay\"\n" +
				"zlib-rs: 0.2.0, \"Zlib\", " + registry + ", by \"\"\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual := present(t, sampleDependencies(), test.mode, test.display)
			if d := cmp.Diff(test.expected, actual); d != "" {
				t.Errorf("unexpected report (-want +got):\n%s", d)
			}
		})
	}
}

func TestPresenter_GroupedExample(t *testing.T) {
	deps := []cargolicenses.Dependency{
		{Name: "foo", Version: "1.0", License: "MIT", Source: "registry", Authors: []string{"A"}},
		{Name: "bar", Version: "2.0", Source: "registry"},
	}
	actual := present(t, deps, GroupByLicense, Display{Authors: true})
	assert.Equal(t, "MIT (1)\nfoo\nby A\nN/A (1)\nbar\nby \n", actual)
}

func TestPresenter_DeduplicatesAuthors(t *testing.T) {
	deps := []cargolicenses.Dependency{
		{Name: "a", License: "MIT", Authors: []string{"Same Person", "Other"}},
		{Name: "b", License: "MIT", Authors: []string{"Same Person"}},
	}
	actual := present(t, deps, GroupByLicense, Display{Authors: true})
	assert.Equal(t, "MIT (2)\na, b\nby Other, Same Person\n", actual)
}

func TestPresenter_OnePerLinePreservesOrder(t *testing.T) {
	deps := []cargolicenses.Dependency{
		{Name: "z", Version: "1", License: "MIT"},
		{Name: "a", Version: "1", License: "Apache-2.0"},
		{Name: "m", Version: "1"},
	}
	actual := present(t, deps, OnePerLine, Display{})
	assert.Equal(t, "z: 1, \"MIT\", \na: 1, \"Apache-2.0\", \nm: 1, \"N/A\", \n", actual)
}

func TestPresenter_ColorDoesNotChangeContent(t *testing.T) {
	for _, mode := range []Mode{GroupByLicense, OnePerLine} {
		for _, authors := range []bool{false, true} {
			plain := present(t, sampleDependencies(), mode, Display{Authors: authors})
			colored := present(t, sampleDependencies(), mode, Display{Authors: authors, Color: true})

			assert.NotEqual(t, plain, colored, "mode %d authors %v should be colored", mode, authors)
			assert.Equal(t, plain, color.ClearCode(colored), "mode %d authors %v", mode, authors)
		}
	}
}

func TestPresenter_ColorStyles(t *testing.T) {
	deps := []cargolicenses.Dependency{{Name: "foo", Version: "1.0", License: "MIT", Authors: []string{"A"}}}
	actual := present(t, deps, GroupByLicense, Display{Authors: true, Color: true})
	assert.Equal(t, "\x1b[32;1mMIT\x1b[0m (1)\nfoo\n\x1b[32mby\x1b[0m A\n", actual)
}

func TestPresenter_Empty(t *testing.T) {
	assert.Empty(t, present(t, nil, GroupByLicense, Display{Authors: true}))
	assert.Empty(t, present(t, nil, OnePerLine, Display{Authors: true}))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestPresenter_WriteError(t *testing.T) {
	for _, mode := range []Mode{GroupByLicense, OnePerLine} {
		err := NewPresenter(sampleDependencies(), mode, Display{}).Present(failingWriter{})
		assert.Error(t, err)
	}
}
