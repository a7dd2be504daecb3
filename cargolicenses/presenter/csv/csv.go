package csv

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/khulnasoft/cargo-licenses/cargolicenses"
)

var header = []string{"name", "version", "license", "source", "authors", "repository"}

type Presenter struct {
	deps []cargolicenses.Dependency
}

func NewPresenter(deps []cargolicenses.Dependency) *Presenter {
	return &Presenter{deps: deps}
}

func (p *Presenter) Present(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, dep := range p.deps {
		authors, _ := dep.GetAuthors()
		record := []string{
			dep.Name,
			dep.Version,
			dep.LicenseOrDefault(),
			dep.Source,
			strings.Join(authors, ", "),
			dep.Repository,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
