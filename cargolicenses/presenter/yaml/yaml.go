package yaml

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/khulnasoft/cargo-licenses/cargolicenses"
)

type Presenter struct {
	deps []cargolicenses.Dependency
}

func NewPresenter(deps []cargolicenses.Dependency) *Presenter {
	return &Presenter{deps: deps}
}

func (p *Presenter) Present(w io.Writer) error {
	deps := p.deps
	if deps == nil {
		deps = []cargolicenses.Dependency{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(deps); err != nil {
		return err
	}
	return enc.Close()
}
