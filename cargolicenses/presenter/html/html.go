package html

// Dependencies are grouped by license, one list per license.
import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/khulnasoft/cargo-licenses/cargolicenses"
)

type Presenter struct {
	deps []cargolicenses.Dependency
}

func NewPresenter(deps []cargolicenses.Dependency) *Presenter {
	return &Presenter{deps: deps}
}

func (p *Presenter) Present(w io.Writer) error {
	var b strings.Builder
	b.WriteString("<html><head><title>License Report</title></head><body><h1>License Report</h1>")
	for _, group := range cargolicenses.GroupByLicense(p.deps) {
		fmt.Fprintf(&b, "<h2>%s (%d)</h2><ul>", html.EscapeString(group.License), len(group.Dependencies))
		for _, dep := range group.Dependencies {
			fmt.Fprintf(&b, "<li><strong>%s</strong> <code>%s</code>", html.EscapeString(dep.Name), html.EscapeString(dep.Version))
			if authors, ok := dep.GetAuthors(); ok {
				fmt.Fprintf(&b, " by %s", html.EscapeString(strings.Join(authors, ", ")))
			}
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
	}
	b.WriteString("</body></html>")
	_, err := io.WriteString(w, b.String())
	return err
}
