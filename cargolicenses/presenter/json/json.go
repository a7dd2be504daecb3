package json

import (
	"encoding/json"
	"io"

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
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(deps)
}
