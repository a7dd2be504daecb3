package template

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khulnasoft/cargo-licenses/cargolicenses"
)

func TestTemplatePresenter_Present(t *testing.T) {
	var outputBuffer bytes.Buffer

	templateFile, err := filepath.Abs("./testdata/test_template.tmpl")
	assert.NoError(t, err, "Should be able to get absolute path for template file")

	deps := []cargolicenses.Dependency{
		{Name: "tmpl_lib1", License: "MIT-T"},
		{Name: "tmpl_lib2"},
	}
	p, err := NewPresenter(deps, templateFile)
	assert.NoError(t, err, "NewPresenter should not return an error with a valid template file")
	assert.NotNil(t, p, "Presenter should not be nil")

	err = p.Present(&outputBuffer)
	assert.NoError(t, err, "Present should not return an error")

	expectedOutput := "Library: tmpl_lib1, License: MIT-T\n" +
		"Library: tmpl_lib2, License: N/A\n"

	assert.Equal(t, expectedOutput, outputBuffer.String(), "Output should match expected format from template")
}

func TestTemplatePresenter_Functions(t *testing.T) {
	var outputBuffer bytes.Buffer

	deps := []cargolicenses.Dependency{
		{Name: "b", License: "MIT"},
		{Name: "a", License: "Apache-2.0"},
		{Name: "c", License: "MIT"},
	}
	p, err := NewPresenter(deps, "./testdata/grouped.tmpl")
	assert.NoError(t, err)

	assert.NoError(t, p.Present(&outputBuffer))
	assert.Equal(t, "Apache-2.0: a\nMIT: b, c\n", outputBuffer.String())
}

func TestTemplatePresenter_NewPresenter_FileNotFound(t *testing.T) {
	_, err := NewPresenter(nil, "./testdata/non_existent_template.tmpl")
	assert.Error(t, err, "NewPresenter should return an error if template file is not found")
}

func TestTemplatePresenter_NewPresenter_InvalidTemplate(t *testing.T) {
	// an unclosed action
	invalidTemplateFile := filepath.Join(t.TempDir(), "invalid_template.tmpl")
	err := os.WriteFile(invalidTemplateFile, []byte("{{ if .Name }"), 0o644)
	assert.NoError(t, err)

	_, err = NewPresenter(nil, invalidTemplateFile)
	assert.Error(t, err, "NewPresenter should return an error for an invalid template")
}
