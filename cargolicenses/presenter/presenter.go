package presenter

import (
	"io"

	"github.com/golang/glog"

	"github.com/khulnasoft/cargo-licenses/cargolicenses"
	"github.com/khulnasoft/cargo-licenses/cargolicenses/presenter/csv"
	"github.com/khulnasoft/cargo-licenses/cargolicenses/presenter/html"
	"github.com/khulnasoft/cargo-licenses/cargolicenses/presenter/json"
	"github.com/khulnasoft/cargo-licenses/cargolicenses/presenter/markdown"
	"github.com/khulnasoft/cargo-licenses/cargolicenses/presenter/spdx"
	templatepresenter "github.com/khulnasoft/cargo-licenses/cargolicenses/presenter/template"
	"github.com/khulnasoft/cargo-licenses/cargolicenses/presenter/text"
	"github.com/khulnasoft/cargo-licenses/cargolicenses/presenter/yaml"
)

type Presenter interface {
	Present(io.Writer) error
}

// Config carries the presenter specific settings.
type Config struct {
	// Display and Mode only affect the text presenter.
	Display      text.Display
	Mode         text.Mode
	TemplatePath string
}

func GetPresenter(option Option, deps []cargolicenses.Dependency, cfg Config) Presenter {
	switch option {
	case TextPresenter:
		return text.NewPresenter(deps, cfg.Mode, cfg.Display)
	case CSVPresenter:
		return csv.NewPresenter(deps)
	case JSONPresenter:
		return json.NewPresenter(deps)
	case YAMLPresenter:
		return yaml.NewPresenter(deps)
	case MarkdownPresenter:
		return markdown.NewPresenter(deps)
	case HTMLPresenter:
		return html.NewPresenter(deps)
	case SPDXPresenter:
		return spdx.NewPresenter(deps)
	case TemplatePresenter:
		if cfg.TemplatePath == "" {
			return nil
		}
		pres, err := templatepresenter.NewPresenter(deps, cfg.TemplatePath)
		if err != nil {
			glog.Errorf("unable to load template %s: %v", cfg.TemplatePath, err)
			return nil
		}
		return pres
	default:
		return nil
	}
}
