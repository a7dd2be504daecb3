package markdown

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/khulnasoft/cargo-licenses/cargolicenses"
)

// Presenter writes a license report with one section and table per license.
type Presenter struct {
	deps []cargolicenses.Dependency
}

func NewPresenter(deps []cargolicenses.Dependency) *Presenter {
	return &Presenter{deps: deps}
}

func (p *Presenter) Present(w io.Writer) error {
	md := markdown.NewMarkdown(w)
	md.H1("License Report")
	md.PlainText("")

	groups := cargolicenses.GroupByLicense(p.deps)
	summary := make([]string, 0, len(groups))
	for _, group := range groups {
		summary = append(summary, fmt.Sprintf("`%s`: %d", group.License, len(group.Dependencies)))
	}
	md.BulletList(summary...)
	md.PlainText("")

	for _, group := range groups {
		md.H2(fmt.Sprintf("%s (%d)", group.License, len(group.Dependencies)))
		md.PlainText("")
		rows := make([][]string, 0, len(group.Dependencies))
		for _, dep := range group.Dependencies {
			authors, _ := dep.GetAuthors()
			rows = append(rows, []string{dep.Name, dep.Version, dep.Source, strings.Join(authors, ", ")})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Name", "Version", "Source", "Authors"},
			Rows:   rows,
		})
		md.PlainText("")
	}
	return md.Build()
}
