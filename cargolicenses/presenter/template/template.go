package template

import (
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/khulnasoft/cargo-licenses/cargolicenses"
)

// Templates receive the []cargolicenses.Dependency slice.
// Fields: Name, Version, Source, License, LicenseFile, Authors, Repository, Dependencies
// Methods: LicenseOrDefault
// Functions: join, groupByLicense
// Example: {{ range . }}{{ .Name }} {{ .LicenseOrDefault }}{{ end }}
type Presenter struct {
	deps []cargolicenses.Dependency
	tmpl *template.Template
}

var funcs = template.FuncMap{
	"join":           strings.Join,
	"groupByLicense": cargolicenses.GroupByLicense,
}

func NewPresenter(deps []cargolicenses.Dependency, templatePath string) (*Presenter, error) {
	tmpl, err := template.New(filepath.Base(templatePath)).Funcs(funcs).ParseFiles(templatePath)
	if err != nil {
		return nil, err
	}
	return &Presenter{deps: deps, tmpl: tmpl}, nil
}

func (p *Presenter) Present(w io.Writer) error {
	return p.tmpl.Execute(w, p.deps)
}
